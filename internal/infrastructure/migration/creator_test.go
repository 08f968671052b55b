package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add ledger entries", "add_ledger_entries"},
		{"Add-Quotation-Items", "add_quotation_items"},
		{"ADD__BATCHES", "add_batches"},
		{"   spaces   ", "spaces"},
		{"v2 schema", "v2_schema"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateAndList(t *testing.T) {
	dir := t.TempDir()

	file, err := Create(dir, "initial schema")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(file.UpPath, ".up.sql"))
	assert.True(t, strings.HasSuffix(file.DownPath, ".down.sql"))

	for _, path := range []string{file.UpPath, file.DownPath} {
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "initial schema")
	}

	names, err := List(dir)
	require.NoError(t, err)
	require.Len(t, names, 2)
	assert.Equal(t, filepath.Base(file.DownPath), names[0])
	assert.Equal(t, filepath.Base(file.UpPath), names[1])
}

func TestListMissingDir(t *testing.T) {
	names, err := List(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
