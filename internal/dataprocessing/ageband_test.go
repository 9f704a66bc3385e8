package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "cnhpulse/internal/errors"
)

func TestSortBandLabels(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "short labels",
			input: []string{"91-100", "18-21", "41-50"},
			want:  []string{"18-21", "41-50", "91-100"},
		},
		{
			name:  "full labels keep spelling",
			input: []string{"MAIOR DE 100 ANOS", "22-25 anos", "18-21 ANOS"},
			want:  []string{"18-21 ANOS", "22-25 anos", "MAIOR DE 100 ANOS"},
		},
		{
			name:  "empty",
			input: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SortBandLabels(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortBandLabelsRejectsUnknown(t *testing.T) {
	_, err := SortBandLabels([]string{"18-21", "100+"})
	require.Error(t, err)

	var bandErr *apperrors.UnknownBandError
	require.ErrorAs(t, err, &bandErr)
	assert.Equal(t, "100+", bandErr.Label)
}

func TestCanonicalBand(t *testing.T) {
	got, err := CanonicalBand(" 41-50 ")
	require.NoError(t, err)
	assert.Equal(t, Band41To50, got)

	got, err = CanonicalBand("maior de 100 anos")
	require.NoError(t, err)
	assert.Equal(t, BandOver100, got)

	_, err = CanonicalBand("101-120 ANOS")
	assert.Error(t, err)
}

func TestIsExcludedBand(t *testing.T) {
	assert.True(t, IsExcludedBand("101-120 ANOS"))
	assert.True(t, IsExcludedBand("+120"))
	assert.False(t, IsExcludedBand("91-100 ANOS"))
}

func TestMidpoint(t *testing.T) {
	mid, err := DefaultMidpoints.Midpoint("18-21")
	require.NoError(t, err)
	assert.Equal(t, 19.5, mid)

	partial := MidpointTable{Band18To21: 19.5}
	_, err = partial.Midpoint(Band22To25)
	var bandErr *apperrors.UnknownBandError
	assert.ErrorAs(t, err, &bandErr)
}

func TestNamedBandSets(t *testing.T) {
	assert.True(t, newEntrantSet.Contains(Band26To30))
	assert.False(t, newEntrantSet.Contains(Band31To40))
	assert.True(t, veteranSet.Contains(Band61To70))
	assert.False(t, retirementSet.Contains(BandOver100))
	assert.True(t, sixtyPlusSet.Contains(BandOver100))
}
