package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse estado del servicio y del store.
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}
