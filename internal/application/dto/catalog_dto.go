package dto

import (
	"strings"
	"time"

	appcatalog "github.com/jhoicas/catalogo-api/internal/application/catalog"
	"github.com/jhoicas/catalogo-api/internal/domain"
	domcatalog "github.com/jhoicas/catalogo-api/internal/domain/catalog"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// ImportItemRequest nodo dentro de un lote. Campos extra (por ejemplo "children") se ignoran.
type ImportItemRequest struct {
	ID       string  `json:"id" validate:"required,max=256"`
	Name     string  `json:"name" validate:"required"`
	ParentID *string `json:"parentId" validate:"omitempty,max=256"`
	Type     string  `json:"type" validate:"required,unitkind"`
	Price    *int64  `json:"price" validate:"omitempty,gte=0"`
}

// ImportRequest cuerpo de POST /imports.
type ImportRequest struct {
	Items      []ImportItemRequest `json:"items" validate:"required,min=1,dive"`
	UpdateDate string              `json:"updateDate" validate:"required"`
}

// ToUnits convierte el lote a entidades y parsea updateDate. Una fecha inválida es
// domain.ErrMalformedInput.
func (r *ImportRequest) ToUnits() ([]*entity.ShopUnit, time.Time, error) {
	date, err := domcatalog.ParseDate(r.UpdateDate)
	if err != nil {
		return nil, time.Time{}, err
	}
	units := make([]*entity.ShopUnit, 0, len(r.Items))
	for _, it := range r.Items {
		kind, err := entity.ParseKind(it.Type)
		if err != nil {
			return nil, time.Time{}, domain.NewValidationError(it.ID, err.Error())
		}
		u := &entity.ShopUnit{ID: it.ID, Name: it.Name, Kind: kind, Price: it.Price}
		if it.ParentID != nil {
			u.ParentID = strings.TrimSpace(*it.ParentID)
		}
		units = append(units, u)
	}
	return units, date, nil
}

// NodeResponse nodo de GET /nodes/{id}. children es null si el nodo no tiene hijos.
type NodeResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	ParentID *string         `json:"parentId"`
	Price    *int64          `json:"price"`
	Date     string          `json:"date"`
	Children []*NodeResponse `json:"children"`
}

// ShopUnitResponse elemento plano de GET /sales.
type ShopUnitResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	ParentID *string `json:"parentId"`
	Price    *int64  `json:"price"`
	Date     string  `json:"date"`
}

// StatResponse punto del historial.
type StatResponse struct {
	Date  string `json:"date"`
	Price int64  `json:"price"`
}

// StatisticResponse cuerpo de GET /node/{id}/statistic.
type StatisticResponse struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	ParentID *string        `json:"parentId"`
	Price    *int64         `json:"price"`
	Stats    []StatResponse `json:"stats"`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// NewNodeResponse convierte el árbol agregado a su forma JSON.
func NewNodeResponse(n *domcatalog.Node) *NodeResponse {
	out := &NodeResponse{
		ID:       n.ID,
		Name:     n.Name,
		Type:     string(n.Kind),
		ParentID: nullable(n.ParentID),
		Price:    n.Price,
		Date:     domcatalog.FormatDate(n.Date),
	}
	if len(n.Children) > 0 {
		out.Children = make([]*NodeResponse, len(n.Children))
		for i, ch := range n.Children {
			out.Children[i] = NewNodeResponse(ch)
		}
	}
	return out
}

// NewShopUnitList convierte el resultado de ventas; nunca devuelve nil.
func NewShopUnitList(units []*entity.ShopUnit) []ShopUnitResponse {
	out := make([]ShopUnitResponse, len(units))
	for i, u := range units {
		out[i] = ShopUnitResponse{
			ID:       u.ID,
			Name:     u.Name,
			Type:     string(u.Kind),
			ParentID: nullable(u.ParentID),
			Price:    u.Price,
			Date:     domcatalog.FormatDate(u.Date),
		}
	}
	return out
}

// NewStatisticResponse arma la respuesta del historial de un nodo.
func NewStatisticResponse(h *appcatalog.NodeHistory) StatisticResponse {
	out := StatisticResponse{
		ID:       h.ID,
		Name:     h.Name,
		Type:     string(h.Kind),
		ParentID: nullable(h.ParentID),
		Price:    h.Price,
		Stats:    make([]StatResponse, len(h.Stats)),
	}
	for i, s := range h.Stats {
		out.Stats[i] = StatResponse{Date: domcatalog.FormatDate(s.Date), Price: s.Price}
	}
	return out
}
