package lifecycle

import (
	"fmt"
	"strings"
)

// GuardError is a rejected transition attempt: the order stays in its
// prior state and the reason must be surfaced to the operator.
type GuardError struct {
	Reason string
}

func (e *GuardError) Error() string {
	return e.Reason
}

func guardf(format string, args ...interface{}) error {
	return &GuardError{Reason: fmt.Sprintf(format, args...)}
}

// ValidationError blocks the accept transition with the full list of
// business-rule violations.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "order validation failed: " + strings.Join(e.Errors, ", ")
}
