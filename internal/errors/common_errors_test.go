package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewAppValidationError("limit must be positive"),
			want: "[VALIDATION] limit must be positive",
		},
		{
			name: "with cause",
			err:  NewStorageError("write export", fmt.Errorf("disk full")),
			want: "[STORAGE] write export: disk full",
		},
		{
			name: "config helper",
			err:  NewConfigError("load configuration", fmt.Errorf("unsupported data encoding: ebcdic")),
			want: "[CONFIG] load configuration: unsupported data encoding: ebcdic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_UnwrapAndContext(t *testing.T) {
	cause := fmt.Errorf("yaml: line 3")
	err := NewConfigError("parse config file", cause).WithContext("file", "config.yaml")

	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, "config.yaml", err.Context["file"])

	var zero AppError
	zero.WithContext("k", 1)
	assert.Equal(t, 1, zero.Context["k"])
}

func TestDataLoadError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *DataLoadError
		want string
	}{
		{
			name: "file level",
			err:  NewDataLoadError("in.csv", "missing required column", nil),
			want: "load in.csv: missing required column",
		},
		{
			name: "row and column",
			err:  NewRowError("in.csv", 4, "qtd_condutores", "negative count", nil),
			want: "load in.csv: row 4: column qtd_condutores: negative count",
		},
		{
			name: "with cause",
			err:  NewRowError("in.csv", 2, "faixa_etaria", "invalid age band", &UnknownBandError{Label: "0-17"}),
			want: `load in.csv: row 2: column faixa_etaria: invalid age band: unknown age band "0-17"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestDataLoadError_WrapsUnknownBand(t *testing.T) {
	err := fmt.Errorf("views: %w", NewRowError("in.csv", 2, "faixa_etaria", "invalid age band", &UnknownBandError{Label: "0-17"}))

	var bandErr *UnknownBandError
	require.True(t, As(err, &bandErr))
	assert.Equal(t, "0-17", bandErr.Label)
	assert.Equal(t, ErrTypeDataLoad, TypeOf(err))
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain", err: fmt.Errorf("x"), want: ""},
		{name: "unknown band", err: &UnknownBandError{Label: "x"}, want: ErrTypeUnknownBand},
		{name: "empty group", err: fmt.Errorf("v: %w", &EmptyGroupError{}), want: ErrTypeEmptyGroup},
		{name: "app error", err: NewConfigError("bad", nil), want: ErrTypeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.err))
		})
	}
}

func TestEmptyGroupError(t *testing.T) {
	assert.Equal(t, "selection matched no rows", (&EmptyGroupError{}).Error())
	assert.Equal(t, "selection age_band=18-21 ANOS matched no rows", (&EmptyGroupError{Selection: "age_band=18-21 ANOS"}).Error())
	assert.True(t, IsEmptyGroup(fmt.Errorf("wrapped: %w", &EmptyGroupError{})))
	assert.False(t, IsEmptyGroup(fmt.Errorf("other")))
}
