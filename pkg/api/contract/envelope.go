package contract

// ApiResponse is the standard backend envelope. Every endpoint wraps its payload in a "data" field;
// error responses carry a "message" instead.
type ApiResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse is the body shape of non-2xx responses.
type ErrorResponse struct {
	Message string `json:"message"`
}
