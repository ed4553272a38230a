package file_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/billrecon/internal/infra/persistence/file"
)

func assertNoTempFiles(t *testing.T, fs afero.Fs, dir string) {
	t.Helper()
	entries, _ := afero.ReadDir(fs, dir)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".tmp-"), "temp file left behind: %s", e.Name())
	}
}

func TestWriteFileAtomic(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		data     []byte
		existing []byte
	}{
		{"New file", "reports/audit/r1/report.json", []byte(`{"ok":true}`), nil},
		{"Overwrite", "reports/metadata.json", []byte("new"), []byte("old")},
		{"Empty file", "empty.json", []byte{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			if tt.existing != nil {
				require.NoError(t, afero.WriteFile(fs, tt.path, tt.existing, 0o644))
			}

			require.NoError(t, file.WriteFileAtomic(fs, tt.path, tt.data))

			content, err := afero.ReadFile(fs, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.data, content)
			assertNoTempFiles(t, fs, "reports")
		})
	}
}

func TestWriteJSONAtomic(t *testing.T) {
	fs := afero.NewMemMapFs()

	require.NoError(t, file.WriteJSONAtomic(fs, "out/summary.json", map[string]int{"records": 2}))

	content, err := afero.ReadFile(fs, "out/summary.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"records":2}`, string(content))
	assert.True(t, strings.HasSuffix(string(content), "\n"))
}

// renameFailFS fails every rename
type renameFailFS struct {
	afero.Fs
}

func (renameFailFS) Rename(oldname, newname string) error {
	return errors.New("rename failed")
}

func TestWriteFileAtomic_RenameFailure(t *testing.T) {
	fs := renameFailFS{afero.NewMemMapFs()}

	err := file.WriteFileAtomic(fs, "out/test.json", []byte("content"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rename failed")

	exists, _ := afero.Exists(fs, "out/test.json")
	assert.False(t, exists)
	assertNoTempFiles(t, fs, "out")
}
