package repository

import (
	"context"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// EdgeRepository puerto del adaptador de aristas: cierres recursivos padre→hijo.
// Ambos cierres devuelven un slice vacío (no error) si el nodo no tiene relaciones;
// la existencia del nodo se consulta en ShopUnitRepository.
type EdgeRepository interface {
	// Descendants todas las aristas alcanzables hacia abajo desde rootID.
	Descendants(ctx context.Context, rootID string) ([]entity.Edge, error)
	// Ancestors todas las aristas alcanzables hacia arriba desde nodeID (sin orden garantizado).
	Ancestors(ctx context.Context, nodeID string) ([]entity.Edge, error)
	// Insert agrega aristas ignorando las que ya existen.
	Insert(ctx context.Context, edges []entity.Edge) error
	// DetachChildren elimina la arista padre de cada hijo indicado.
	DetachChildren(ctx context.Context, childIDs []string) error
	// DeleteTouching elimina toda arista cuyo padre o hijo esté en ids.
	DeleteTouching(ctx context.Context, ids []string) error
}
