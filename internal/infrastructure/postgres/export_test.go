package postgres

// Constructores con tope de parámetros reducido para forzar varias sentencias por lote.

func NewShopUnitRepositoryWithMaxArgs(q Querier, n int) *ShopUnitRepo {
	return &ShopUnitRepo{q: q, maxArgs: n}
}

func NewEdgeRepositoryWithMaxArgs(q Querier, n int) *EdgeRepo {
	return &EdgeRepo{q: q, maxArgs: n}
}

func NewHistoryRepositoryWithMaxArgs(q Querier, n int) *HistoryRepo {
	return &HistoryRepo{q: q, maxArgs: n}
}
