package presenter

import (
	"encoding/json"
	"io"

	"github.com/YoshitsuguKoike/billrecon/internal/application/port/output"
)

// Envelope is the JSON shape shared by the CLI --format json output and the HTTP API
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// JSONPresenter implements output.Presenter for JSON output
type JSONPresenter struct {
	output io.Writer
}

// NewJSONPresenter creates a new JSON presenter
func NewJSONPresenter(output io.Writer) output.Presenter {
	return &JSONPresenter{output: output}
}

// PresentSuccess presents a successful result as JSON
func (p *JSONPresenter) PresentSuccess(message string, data interface{}) error {
	return p.encode(Envelope{Success: true, Message: message, Data: data})
}

// PresentError presents an error as JSON
func (p *JSONPresenter) PresentError(err error) error {
	return p.PresentPartial(err, nil)
}

// PresentPartial presents a failure envelope whose data holds the partial result
func (p *JSONPresenter) PresentPartial(err error, data interface{}) error {
	return p.encode(Envelope{Success: false, Data: data, Error: err.Error()})
}

func (p *JSONPresenter) encode(v Envelope) error {
	enc := json.NewEncoder(p.output)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
