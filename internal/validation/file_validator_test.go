package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "cnhpulse/internal/errors"
	"cnhpulse/internal/shared/testutil"
)

func TestFileValidator_ValidateSourceFile(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantErr       bool
		errorContains string
	}{
		{
			name:      "valid csv",
			setupFunc: testutil.WriteDefaultDriverCSV,
		},
		{
			name: "missing file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.csv")
			},
			wantErr:       true,
			errorContains: "does not exist",
		},
		{
			name: "directory",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			wantErr:       true,
			errorContains: "directory",
		},
		{
			name: "wrong extension",
			setupFunc: func(t *testing.T) string {
				return testutil.WriteDriverCSV(t, "condutores.xlsx", "x")
			},
			wantErr:       true,
			errorContains: `".xlsx"`,
		},
		{
			name: "empty file",
			setupFunc: func(t *testing.T) string {
				return testutil.WriteDriverCSV(t, "condutores.csv", "")
			},
			wantErr:       true,
			errorContains: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			v := NewFileValidator(logger)

			err := v.ValidateSourceFile(tt.setupFunc(t))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
			var loadErr *apperrors.DataLoadError
			assert.ErrorAs(t, err, &loadErr)
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewFileValidator(logger)

	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "exports", "2025")
		require.NoError(t, v.ValidateOutputDirectory(dir))
		assert.DirExists(t, dir)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries, "readability check leaves no file behind")
	})

	t.Run("path is a file", func(t *testing.T) {
		file := testutil.WriteDriverCSV(t, "exports", "x")
		err := v.ValidateOutputDirectory(file)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrTypeStorage, apperrors.TypeOf(err))
	})
}
