package entity

import "time"

// HistoryEntry instantánea inmutable del precio de un nodo.
// (UnitID, Date, Price) es único: repetir la misma instantánea no crea filas.
type HistoryEntry struct {
	UnitID string
	Date   time.Time
	Price  int64
}
