package output

// Presenter defines the interface for presenting output to users
// Different implementations can format output for CLI, JSON, or other formats.
// Each command presents exactly once.
type Presenter interface {
	// PresentSuccess presents a successful result
	PresentSuccess(message string, data interface{}) error

	// PresentError presents an error
	PresentError(err error) error

	// PresentPartial presents a failed run along with what it produced before failing
	PresentPartial(err error, data interface{}) error
}
