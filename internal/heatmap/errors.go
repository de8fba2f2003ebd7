package heatmap

import "fmt"

// ValidationError reports a malformed sample submission. The sample is not
// stored.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid sample: %s", e.Reason)
	}
	return fmt.Sprintf("invalid sample: %s %s", e.Field, e.Reason)
}

// InsufficientDataError is returned when there are too few samples to
// interpolate. No partial render is attempted.
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("need at least %d samples for a heat map, have %d", e.Need, e.Have)
}

// ConfigurationError reports an invalid render parameter. It is raised before
// any grid or interpolation work starts.
type ConfigurationError struct {
	Param  string
	Value  interface{}
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Param, e.Value, e.Reason)
}

// RenderWarning is a non-fatal condition met while rendering, such as an
// unreadable background image. It travels alongside a successful result.
type RenderWarning struct {
	Message string
	Err     error
}

func (w RenderWarning) String() string {
	if w.Err == nil {
		return w.Message
	}
	return fmt.Sprintf("%s: %v", w.Message, w.Err)
}
