package dto

// ErrorResponseDTO is the body of every non-2xx response.
type ErrorResponseDTO struct {
	Error string `json:"error" example:"Blog not found"`
}
