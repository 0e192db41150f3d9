package input_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/migration-healer/internal/input"
)

func TestRead_fromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "migrate.log")
	require.NoError(t, os.WriteFile(path, []byte("Table 'acme.orders' doesn't exist\n"), 0o600))

	got, err := input.Read(path, strings.NewReader("ignored"), 0)
	require.NoError(t, err)
	assert.Equal(t, "Table 'acme.orders' doesn't exist\n", got)
}

func TestRead_fromStdin(t *testing.T) {
	t.Parallel()

	got, err := input.Read("", strings.NewReader("from stdin"), 1024)
	require.NoError(t, err)
	assert.Equal(t, "from stdin", got)
}

func TestRead_missingFile_returnsError(t *testing.T) {
	t.Parallel()

	_, err := input.Read(filepath.Join(t.TempDir(), "nope.log"), nil, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "opening migration output")
}

func TestRead_sizeLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		maxBytes int64
		wantErr  bool
	}{
		{name: "below limit", content: "abc", maxBytes: 4},
		{name: "exactly at limit", content: "abcd", maxBytes: 4},
		{name: "above limit", content: "abcde", maxBytes: 4, wantErr: true},
		{name: "no limit", content: strings.Repeat("x", 4096), maxBytes: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := input.Read("", strings.NewReader(tt.content), tt.maxBytes)

			if tt.wantErr {
				require.ErrorIs(t, err, input.ErrInputTooLarge)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.content, got)
		})
	}
}

func TestRead_readFailure_isWrapped(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	_, err := input.Read("", iotest.ErrReader(boom), 0)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "standard input")
}
