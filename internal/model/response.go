package model

// Response is the envelope every ticket endpoint replies with.  Data is
// null whenever Success is false.
type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// OK wraps data in a successful envelope.
func OK[T any](message string, data T) Response[T] {
	return Response[T]{Success: true, Message: message, Data: data}
}

// Fail builds an unsuccessful envelope with a null payload.
func Fail(message string) Response[any] {
	return Response[any]{Success: false, Message: message}
}
