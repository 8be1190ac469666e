package catalog

import "github.com/jhoicas/catalogo-api/internal/domain/entity"

// Totals suma de precios y cantidad de ofertas de un subárbol.
type Totals struct {
	Sum    int64
	Offers int64
}

// Average precio promedio con división entera truncada; nil si no hay ofertas.
func (t Totals) Average() *int64 {
	if t.Offers == 0 {
		return nil
	}
	avg := t.Sum / t.Offers
	return &avg
}

// Aggregate recalcula de abajo hacia arriba el precio de cada categoría del árbol,
// mutando Node.Price: ⌊suma de precios de ofertas descendientes / cantidad de ofertas⌋.
// Una categoría sin ofertas en su subárbol queda con precio nil y no aporta al padre.
func Aggregate(n *Node) Totals {
	if n.Kind == entity.KindOffer {
		var p int64
		if n.Price != nil {
			p = *n.Price
		}
		return Totals{Sum: p, Offers: 1}
	}
	var t Totals
	for _, ch := range n.Children {
		ct := Aggregate(ch)
		t.Sum += ct.Sum
		t.Offers += ct.Offers
	}
	n.Price = t.Average()
	return t
}
