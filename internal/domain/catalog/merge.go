package catalog

import (
	"sort"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// EdgePlan cambios de aristas que acompañan al upsert de un lote.
type EdgePlan struct {
	Detach []string      // hijos cuya arista anterior debe eliminarse
	Attach []entity.Edge // aristas a insertar (se ignoran si ya existen)
	// Vacated padres anteriores de los hijos desenganchados, sin repetir. Su precio
	// agregado cambia aunque no estén en el lote.
	Vacated []string
}

// PlanEdges compara el parentId nuevo de cada item con el persistido para mantener
// el conjunto de aristas en acuerdo con parentId.
func PlanEdges(items []*entity.ShopUnit, persisted map[string]*entity.ShopUnit) EdgePlan {
	var plan EdgePlan
	vacated := make(map[string]struct{})
	for _, u := range items {
		if old, ok := persisted[u.ID]; ok && old != nil && old.HasParent() && old.ParentID != u.ParentID {
			plan.Detach = append(plan.Detach, u.ID)
			if _, seen := vacated[old.ParentID]; !seen {
				vacated[old.ParentID] = struct{}{}
				plan.Vacated = append(plan.Vacated, old.ParentID)
			}
		}
		if u.HasParent() {
			plan.Attach = append(plan.Attach, entity.Edge{ParentID: u.ParentID, ChildID: u.ID})
		}
	}
	sort.Strings(plan.Vacated)
	return plan
}
