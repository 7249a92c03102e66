package errx

// Type represents the category of error
type Type string

const (
	// TypeInternal represents internal errors (panics, invariants broken)
	TypeInternal Type = "INTERNAL"

	// TypeValidation represents invalid input or configuration
	TypeValidation Type = "VALIDATION"

	// TypeNotFound represents a missing resource
	TypeNotFound Type = "NOT_FOUND"

	// TypeConflict represents an operation rejected by current state
	TypeConflict Type = "CONFLICT"

	// TypeTimeout represents a deadline that elapsed before settlement
	TypeTimeout Type = "TIMEOUT"

	// TypeCancelled represents work withdrawn before it could run
	TypeCancelled Type = "CANCELLED"

	// TypeExhausted represents a budget (attempts, capacity) used up
	TypeExhausted Type = "EXHAUSTED"
)

// String returns the string representation of the error type
func (t Type) String() string {
	return string(t)
}

// typeToHTTPStatus maps error types to HTTP status codes
func typeToHTTPStatus(t Type) int {
	switch t {
	case TypeValidation:
		return 400
	case TypeNotFound:
		return 404
	case TypeConflict, TypeCancelled:
		return 409
	case TypeExhausted:
		return 503
	case TypeTimeout:
		return 504
	default:
		return 500
	}
}
