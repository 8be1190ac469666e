package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/catalogo-api/internal/domain"
	domcatalog "github.com/jhoicas/catalogo-api/internal/domain/catalog"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// ImportUseCase valida y aplica lotes de categorías y ofertas.
//
// La escritura (registros y aristas) es atómica. La propagación de fechas y el historial
// corren después del commit, cada uno en su propia transacción; si alguno falla el lote
// queda escrito y se devuelve un *PostCommitError con los nodos a reparar.
type ImportUseCase struct {
	tx       TxRunner
	maxItems int
	log      zerolog.Logger
}

// NewImportUseCase construye el caso de uso. maxItems <= 0 usa DefaultMaxBatchItems.
func NewImportUseCase(tx TxRunner, maxItems int, log zerolog.Logger) *ImportUseCase {
	if maxItems <= 0 {
		maxItems = domcatalog.DefaultMaxBatchItems
	}
	return &ImportUseCase{tx: tx, maxItems: maxItems, log: log}
}

// ImportBatch aplica el lote con la fecha de importación dada. Cualquier regla incumplida
// devuelve *domain.ValidationError y no se escribe nada.
func (uc *ImportUseCase) ImportBatch(ctx context.Context, items []*entity.ShopUnit, date time.Time) error {
	started := time.Now()
	m := getMetrics()
	at := domcatalog.NormalizeDate(date)
	log := uc.log.With().Str("batch_id", uuid.New().String()).Logger()

	units := prepareUnits(items, at)
	if err := domcatalog.ValidateBatch(units, uc.maxItems); err != nil {
		m.importBatches.WithLabelValues(resultRejected).Inc()
		log.Info().Err(err).Int("items", len(units)).Msg("lote rechazado")
		return err
	}
	log.Info().Int("items", len(units)).Str("date", domcatalog.FormatDate(at)).Msg("importando lote")

	var plan domcatalog.EdgePlan
	err := uc.tx.Run(ctx, func(
		unitRepo repository.ShopUnitRepository,
		edgeRepo repository.EdgeRepository,
		_ repository.HistoryRepository,
	) error {
		var err error
		plan, err = writeBatch(ctx, unitRepo, edgeRepo, units)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			m.importBatches.WithLabelValues(resultRejected).Inc()
			log.Info().Err(err).Msg("lote rechazado")
		} else {
			m.importBatches.WithLabelValues(resultFailed).Inc()
			log.Error().Err(err).Msg("escritura del lote")
		}
		return err
	}
	for _, u := range units {
		m.importItems.WithLabelValues(string(u.Kind)).Inc()
	}

	var postErrs []error
	if len(plan.Vacated) > 0 {
		log.Debug().Strs("vacated", plan.Vacated).Msg("padres anteriores a actualizar")
	}
	if err := uc.propagate(ctx, units, plan.Vacated, at); err != nil {
		postErrs = append(postErrs, err)
		log.Error().Err(err).Msg("propagación de fechas tras el commit")
	}
	if err := uc.record(ctx, units, plan.Vacated, at, log); err != nil {
		postErrs = append(postErrs, err)
		log.Error().Err(err).Msg("historial de precios tras el commit")
	}
	m.importDuration.Observe(time.Since(started).Seconds())
	if len(postErrs) > 0 {
		m.importBatches.WithLabelValues(resultPostCommit).Inc()
		return errors.Join(postErrs...)
	}

	m.importBatches.WithLabelValues(resultOK).Inc()
	log.Info().Dur("elapsed", time.Since(started)).Msg("lote importado")
	return nil
}

// prepareUnits copia los items con el nombre normalizado (NFC) y la fecha del lote.
func prepareUnits(items []*entity.ShopUnit, at time.Time) []*entity.ShopUnit {
	out := make([]*entity.ShopUnit, len(items))
	for i, it := range items {
		if it == nil {
			continue
		}
		u := *it
		u.Name = norm.NFC.String(strings.TrimSpace(u.Name))
		u.ParentID = strings.TrimSpace(u.ParentID)
		u.Date = at
		if it.Price != nil {
			p := *it.Price
			u.Price = &p
		}
		out[i] = &u
	}
	return out
}

// writeBatch valida contra lo persistido y aplica registros y aristas dentro de la tx.
// Devuelve el plan de aristas aplicado.
func writeBatch(
	ctx context.Context,
	unitRepo repository.ShopUnitRepository,
	edgeRepo repository.EdgeRepository,
	units []*entity.ShopUnit,
) (domcatalog.EdgePlan, error) {
	persisted, err := unitRepo.GetByIDs(ctx, referencedIDs(units))
	if err != nil {
		return domcatalog.EdgePlan{}, err
	}
	if err := domcatalog.ValidateReferences(units, persisted); err != nil {
		return domcatalog.EdgePlan{}, err
	}
	parents, err := persistedParents(ctx, edgeRepo, units)
	if err != nil {
		return domcatalog.EdgePlan{}, err
	}
	if err := domcatalog.DetectCycles(units, parents); err != nil {
		return domcatalog.EdgePlan{}, err
	}

	plan := domcatalog.PlanEdges(units, persisted)
	if err := unitRepo.Upsert(ctx, units); err != nil {
		return domcatalog.EdgePlan{}, err
	}
	if err := edgeRepo.DetachChildren(ctx, plan.Detach); err != nil {
		return domcatalog.EdgePlan{}, err
	}
	if err := edgeRepo.Insert(ctx, plan.Attach); err != nil {
		return domcatalog.EdgePlan{}, err
	}
	return plan, nil
}

// referencedIDs ids del lote más los padres que referencian, sin repetir.
func referencedIDs(units []*entity.ShopUnit) []string {
	seen := make(map[string]struct{}, len(units)*2)
	ids := make([]string, 0, len(units)*2)
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, u := range units {
		add(u.ID)
		add(u.ParentID)
	}
	return ids
}

// persistedParents mapa hijo→padre de las ramas persistidas de cada padre referenciado.
func persistedParents(ctx context.Context, edgeRepo repository.EdgeRepository, units []*entity.ShopUnit) (map[string]string, error) {
	parentOf := make(map[string]string)
	done := make(map[string]struct{})
	for _, u := range units {
		if !u.HasParent() {
			continue
		}
		if _, ok := done[u.ParentID]; ok {
			continue
		}
		done[u.ParentID] = struct{}{}
		up, err := edgeRepo.Ancestors(ctx, u.ParentID)
		if err != nil {
			return nil, err
		}
		for _, e := range up {
			parentOf[e.ChildID] = e.ParentID
		}
	}
	return parentOf, nil
}

// propagate actualiza la rama de cada item con padre y la de cada padre anterior.
func (uc *ImportUseCase) propagate(ctx context.Context, units []*entity.ShopUnit, vacated []string, at time.Time) error {
	var ids []string
	for _, u := range units {
		if u.HasParent() {
			ids = append(ids, u.ID)
		}
	}
	ids = append(ids, vacated...)
	if len(ids) == 0 {
		return nil
	}
	err := uc.tx.Run(ctx, func(
		unitRepo repository.ShopUnitRepository,
		edgeRepo repository.EdgeRepository,
		_ repository.HistoryRepository,
	) error {
		return NewBranchPropagator(unitRepo, edgeRepo).Propagate(ctx, ids, at)
	})
	if err != nil {
		return postCommitFailure(PhasePropagation, ids, err)
	}
	return nil
}

// record guarda el historial de las ramas de las ofertas del lote y de los padres anteriores.
func (uc *ImportUseCase) record(ctx context.Context, units []*entity.ShopUnit, vacated []string, at time.Time, log zerolog.Logger) error {
	var offers []string
	for _, u := range units {
		if u.Kind == entity.KindOffer {
			offers = append(offers, u.ID)
		}
	}
	sort.Strings(offers)
	offers = append(offers, vacated...)
	if len(offers) == 0 {
		return nil
	}

	batch := NewHistoryBatch(at)
	var written int
	err := uc.tx.Run(ctx, func(
		unitRepo repository.ShopUnitRepository,
		edgeRepo repository.EdgeRepository,
		historyRepo repository.HistoryRepository,
	) error {
		rec := NewHistoryRecorder(unitRepo, edgeRepo, historyRepo, log)
		for _, id := range offers {
			if err := rec.Record(ctx, batch, id); err != nil {
				return err
			}
		}
		n, err := rec.Flush(ctx, batch)
		written = n
		return err
	})
	if err != nil {
		return postCommitFailure(PhaseHistory, offers, err)
	}
	log.Debug().Int("roots", batch.Roots()).Int("entries", written).Msg("historial registrado")
	return nil
}

func postCommitFailure(phase string, ids []string, err error) error {
	countIntegrity(phase, err)
	getMetrics().postCommitErrors.WithLabelValues(phase).Inc()
	return &PostCommitError{Phase: phase, UnitIDs: ids, Err: err}
}
