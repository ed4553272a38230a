package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/YoshitsuguKoike/billrecon/internal/application/dto"
)

// ErrEmptyFixture is returned for a fixture with no entries at all
var ErrEmptyFixture = errors.New("fixture document is empty")

// ParseFixture decodes a YAML fixture document. JSON input is accepted as well,
// being valid YAML. Unknown keys are rejected so typos do not import silently.
func ParseFixture(content []byte) (*dto.FixtureDocument, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, ErrEmptyFixture
	}

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	var doc dto.FixtureDocument
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFixture
		}
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	if len(doc.Projects)+len(doc.TeamTasks)+len(doc.Features)+len(doc.Rates) == 0 {
		return nil, ErrEmptyFixture
	}
	return &doc, nil
}

// LoadFixture reads and decodes a fixture file
func LoadFixture(fs afero.Fs, path string) (*dto.FixtureDocument, error) {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	doc, err := ParseFixture(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
