package catalog

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/catalogo-api/internal/domain"
	domcatalog "github.com/jhoicas/catalogo-api/internal/domain/catalog"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// DeleteUseCase borrado en cascada de un subárbol.
type DeleteUseCase struct {
	tx  TxRunner
	log zerolog.Logger
}

// NewDeleteUseCase construye el caso de uso.
func NewDeleteUseCase(tx TxRunner, log zerolog.Logger) *DeleteUseCase {
	return &DeleteUseCase{tx: tx, log: log}
}

// DeleteSubtree elimina rootID, todos sus descendientes, sus aristas (incluida la que lo une
// a su padre) y su historial, en una sola transacción.
func (uc *DeleteUseCase) DeleteSubtree(ctx context.Context, rootID string) error {
	var removed int
	err := uc.tx.Run(ctx, func(
		units repository.ShopUnitRepository,
		edges repository.EdgeRepository,
		history repository.HistoryRepository,
	) error {
		root, err := units.GetByID(ctx, rootID)
		if err != nil {
			return err
		}
		if root == nil {
			return domain.ErrNotFound
		}
		reachable, err := edges.Descendants(ctx, rootID)
		if err != nil {
			return err
		}
		ids := domcatalog.ClosureIDs(rootID, reachable)
		if err := history.DeleteByUnitIDs(ctx, ids); err != nil {
			return err
		}
		if err := edges.DeleteTouching(ctx, ids); err != nil {
			return err
		}
		if err := units.DeleteByIDs(ctx, ids); err != nil {
			return err
		}
		removed = len(ids)
		return nil
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("root_id", rootID).Int("units", removed).Msg("subárbol eliminado")
	return nil
}
