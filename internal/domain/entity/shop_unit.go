package entity

import (
	"fmt"
	"strings"
	"time"
)

// Kind tipo de nodo del catálogo. Inmutable una vez creado.
type Kind string

const (
	KindCategory Kind = "CATEGORY"
	KindOffer    Kind = "OFFER"
)

// ParseKind acepta el tipo sin distinguir mayúsculas ("category", "OFFER", ...).
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToUpper(strings.TrimSpace(s))); k {
	case KindCategory, KindOffer:
		return k, nil
	default:
		return "", fmt.Errorf("tipo desconocido %q", s)
	}
}

// ShopUnit representa un nodo del catálogo: categoría (contenedor) u oferta (hoja con precio).
// Price es nil para categorías; su precio se deriva de las ofertas descendientes.
// Date es la última modificación; en categorías se propaga desde los descendientes.
type ShopUnit struct {
	ID       string
	Name     string
	Kind     Kind
	ParentID string // vacío si es raíz
	Price    *int64
	Date     time.Time
}

// IsCategory indica si el nodo es un contenedor.
func (u *ShopUnit) IsCategory() bool { return u.Kind == KindCategory }

// HasParent indica si el nodo cuelga de otra categoría.
func (u *ShopUnit) HasParent() bool { return u.ParentID != "" }
