package catalog

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/jhoicas/catalogo-api/internal/domain"
	domcatalog "github.com/jhoicas/catalogo-api/internal/domain/catalog"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// loadTree arma y agrega el árbol completo bajo rootID con los repositorios dados
// (del pool o de una tx). ErrNotFound si rootID no tiene registro.
func loadTree(
	ctx context.Context,
	units repository.ShopUnitRepository,
	edges repository.EdgeRepository,
	rootID string,
	log zerolog.Logger,
) (*domcatalog.Node, error) {
	root, err := units.GetByID(ctx, rootID)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, domain.ErrNotFound
	}

	reachable, err := edges.Descendants(ctx, rootID)
	if err != nil {
		return nil, err
	}
	ids, err := domcatalog.DescendantIDs(rootID, reachable)
	if err != nil {
		return nil, err
	}
	records, err := units.GetByIDs(ctx, ids[1:])
	if err != nil {
		return nil, err
	}

	tree, dropped, err := domcatalog.Assemble(root, reachable, records)
	if err != nil {
		return nil, err
	}
	for _, e := range dropped {
		log.Warn().
			Str("root_id", rootID).
			Str("parent_id", e.ParentID).
			Str("child_id", e.ChildID).
			Msg("arista descartada al armar el árbol")
	}
	domcatalog.Aggregate(tree)
	return tree, nil
}

// countIntegrity registra en métricas los errores de integridad de una operación.
func countIntegrity(operation string, err error) {
	if errors.Is(err, domain.ErrDataIntegrity) {
		getMetrics().integrityErrors.WithLabelValues(operation).Inc()
	}
}
