package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// FieldErrorDTO error de un campo del emisor.
type FieldErrorDTO struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorResponse 422 con el detalle por campo.
type ValidationErrorResponse struct {
	ErrorResponse
	Errors []FieldErrorDTO `json:"errors"`
}
