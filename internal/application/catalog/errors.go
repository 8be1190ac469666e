package catalog

import (
	"fmt"
	"strings"
)

// Fases posteriores al commit de una importación.
const (
	PhasePropagation = "propagation"
	PhaseHistory     = "history"
)

// PostCommitError indica que la escritura del lote se confirmó pero una fase posterior falló.
// UnitIDs lista los nodos cuya rama debe repararse (reimportar o volver a propagar).
type PostCommitError struct {
	Phase   string
	UnitIDs []string
	Err     error
}

func (e *PostCommitError) Error() string {
	return fmt.Sprintf("post-commit %s (%s): %v", e.Phase, strings.Join(e.UnitIDs, ","), e.Err)
}

func (e *PostCommitError) Unwrap() error { return e.Err }
