package entity

// Edge relación dirigida padre→hijo. Se guarda aparte de ShopUnit.ParentID para
// recorrer cierres sin cargar los registros; ambos deben coincidir.
type Edge struct {
	ParentID string
	ChildID  string
}
