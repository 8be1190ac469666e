package catalog

import (
	"fmt"
	"strings"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// DefaultMaxBatchItems tope de items por importación.
const DefaultMaxBatchItems = 10000

// ValidateBatch revisa el lote sin consultar el store: tamaño, ids únicos y reglas por tipo.
func ValidateBatch(items []*entity.ShopUnit, maxItems int) error {
	if maxItems <= 0 {
		maxItems = DefaultMaxBatchItems
	}
	if len(items) == 0 {
		return domain.NewValidationError("", "el lote no tiene items")
	}
	if len(items) > maxItems {
		return domain.NewValidationError("", fmt.Sprintf("el lote tiene %d items (máximo %d)", len(items), maxItems))
	}
	seen := make(map[string]struct{}, len(items))
	for _, u := range items {
		if u == nil {
			return domain.NewValidationError("", "item nulo")
		}
		if err := ValidateUnit(u); err != nil {
			return err
		}
		if _, dup := seen[u.ID]; dup {
			return domain.NewValidationError(u.ID, "id repetido en el lote")
		}
		seen[u.ID] = struct{}{}
	}
	return nil
}

// ValidateUnit aplica las reglas del tipo del nodo.
func ValidateUnit(u *entity.ShopUnit) error {
	if strings.TrimSpace(u.ID) == "" {
		return domain.NewValidationError("", "id vacío")
	}
	if strings.TrimSpace(u.Name) == "" {
		return domain.NewValidationError(u.ID, "name vacío")
	}
	if u.ParentID == u.ID {
		return domain.NewValidationError(u.ID, "un nodo no puede ser su propio padre")
	}
	switch u.Kind {
	case entity.KindCategory:
		return validateCategory(u)
	case entity.KindOffer:
		return validateOffer(u)
	default:
		return domain.NewValidationError(u.ID, fmt.Sprintf("tipo desconocido %q", u.Kind))
	}
}

func validateCategory(u *entity.ShopUnit) error {
	if u.Price != nil {
		return domain.NewValidationError(u.ID, "una categoría no admite price")
	}
	return nil
}

func validateOffer(u *entity.ShopUnit) error {
	if u.Price == nil {
		return domain.NewValidationError(u.ID, "una oferta requiere price")
	}
	if *u.Price < 0 {
		return domain.NewValidationError(u.ID, "price no puede ser negativo")
	}
	return nil
}

// ValidateReferences revisa el lote contra los registros persistidos (ids del lote y padres
// referenciados): el tipo no cambia entre importaciones y todo parentId resuelve a una
// categoría, ya sea del mismo lote o existente.
func ValidateReferences(items []*entity.ShopUnit, persisted map[string]*entity.ShopUnit) error {
	batch := make(map[string]*entity.ShopUnit, len(items))
	for _, u := range items {
		batch[u.ID] = u
	}
	for _, u := range items {
		if old, ok := persisted[u.ID]; ok && old != nil && old.Kind != u.Kind {
			return domain.NewValidationError(u.ID, fmt.Sprintf("no puede cambiar de %s a %s", old.Kind, u.Kind))
		}
		if !u.HasParent() {
			continue
		}
		parent, ok := batch[u.ParentID]
		if !ok {
			parent, ok = persisted[u.ParentID]
		}
		if !ok || parent == nil {
			return domain.NewValidationError(u.ID, fmt.Sprintf("el padre %s no existe", u.ParentID))
		}
		if parent.Kind != entity.KindCategory {
			return domain.NewValidationError(u.ID, fmt.Sprintf("el padre %s no es CATEGORY", u.ParentID))
		}
	}
	return nil
}

// DetectCycles aplica los padres del lote sobre el mapa hijo→padre persistido y
// rechaza cualquier item cuya rama vuelva sobre sí misma.
func DetectCycles(items []*entity.ShopUnit, persistedParents map[string]string) error {
	parentOf := make(map[string]string, len(persistedParents)+len(items))
	for child, parent := range persistedParents {
		parentOf[child] = parent
	}
	for _, u := range items {
		if u.HasParent() {
			parentOf[u.ID] = u.ParentID
		} else {
			delete(parentOf, u.ID)
		}
	}
	for _, u := range items {
		visited := map[string]struct{}{u.ID: {}}
		cur := u.ID
		for {
			p, ok := parentOf[cur]
			if !ok {
				break
			}
			if _, seen := visited[p]; seen {
				return domain.NewValidationError(u.ID, fmt.Sprintf("el padre %s genera un ciclo", u.ParentID))
			}
			visited[p] = struct{}{}
			cur = p
		}
	}
	return nil
}
