package errx

// NotFound creates a not found error
func NotFound(message string) *Error {
	return New(message, TypeNotFound)
}
