package numerology

import "fmt"

// User-facing messages, displayed verbatim by clients.
const (
	msgLength = "输入格式不正确，请输入10位日期，例如：2018-01-02"
	msgFormat = "日期格式不正确，请确保为 YYYY-MM-DD 格式且日期有效。"
)

// ValidationError is returned when a birth date cannot be used for calculation.
// Error() yields the user-facing Message; Reason is a short English detail for logs.
type ValidationError struct {
	Field   string
	Reason  string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Detail renders the error for logs.
func (e *ValidationError) Detail() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func lengthError(got int) *ValidationError {
	return &ValidationError{
		Field:   "birthday",
		Reason:  fmt.Sprintf("expected 10 characters, got %d", got),
		Message: msgLength,
	}
}

func formatError(reason string) *ValidationError {
	return &ValidationError{
		Field:   "birthday",
		Reason:  reason,
		Message: msgFormat,
	}
}
