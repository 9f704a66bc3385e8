package dataprocessing

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"cnhpulse/internal/config"
	apperrors "cnhpulse/internal/errors"
	"cnhpulse/internal/shared/testutil"
	"cnhpulse/pkg/contracts/domain"
)

const sampleCSV = `descricao_municipio,categoria_cnh,faixa_etaria,exerce_atividade_remunerada,genero,pcd,bloqueado,qtd_condutores,lat,lon
RECIFE,AE,51-60 ANOS,S,MASCULINO,N,N,40,-8.05,-34.9
RECIFE,B,18-21 ANOS,N,FEMININO,,N,100,-8.05,-34.9
OLINDA,AD,22-25 ANOS,S,FEMININO,N,S,5,-8.01,-34.85
OLINDA,C,101-120 ANOS,N,MASCULINO,N,N,7,-8.01,-34.85
ITAMBE,B,31-40 ANOS,S,MASCULINO,N,N,3,,
`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoaderLoad(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	path := writeFile(t, "condutores.csv", []byte(sampleCSV))

	table, err := NewLoader(LoadOptions{}, logger).Load(context.Background(), path)
	require.NoError(t, err)

	// The 101-120 row is dropped.
	assert.Equal(t, 4, table.Len())
	assert.Equal(t, int64(148), table.Sum())
	assert.Equal(t, path, table.Source())

	first := table.Record(0)
	assert.Equal(t, "RECIFE", first.Municipality)
	assert.Equal(t, "AE", first.Category)
	assert.Equal(t, Band51To60, first.AgeBand)
	assert.Equal(t, domain.PaidActivityYes, first.PaidActivity)
	assert.True(t, first.HasCoordinates)
	assert.InDelta(t, -8.05, first.Latitude, 1e-9)

	assert.Equal(t, domain.FlagUnknown, table.Record(1).Disability)
	assert.Equal(t, domain.FlagYes, table.Record(2).Blocked)
	assert.False(t, table.Record(3).HasCoordinates)

	assert.True(t, handler.ContainsMessage("driver table loaded"))
	testutil.AssertLogAttr(t, handler, "excluded_rows", int64(1))
}

func TestLoaderErrors(t *testing.T) {
	header := "descricao_municipio,categoria_cnh,faixa_etaria,exerce_atividade_remunerada,qtd_condutores"

	tests := []struct {
		name     string
		content  string
		wantRow  int
		wantCol  string
		wantBand bool
	}{
		{
			name:    "missing count column",
			content: "descricao_municipio,categoria_cnh,faixa_etaria,exerce_atividade_remunerada\nRECIFE,B,18-21 ANOS,N\n",
			wantCol: ColumnCount,
		},
		{
			name:    "empty file",
			content: "",
		},
		{
			name:    "negative count",
			content: header + "\nRECIFE,B,18-21 ANOS,N,-1\n",
			wantRow: 1,
			wantCol: ColumnCount,
		},
		{
			name:    "non numeric count",
			content: header + "\nRECIFE,B,18-21 ANOS,N,10\nRECIFE,B,22-25 ANOS,N,abc\n",
			wantRow: 2,
			wantCol: ColumnCount,
		},
		{
			name:    "invalid flag",
			content: header + "\nRECIFE,B,18-21 ANOS,X,1\n",
			wantRow: 1,
			wantCol: ColumnPaidActivity,
		},
		{
			name:    "invalid category",
			content: header + "\nRECIFE,BF,18-21 ANOS,N,1\n",
			wantRow: 1,
			wantCol: ColumnCategory,
		},
		{
			name:     "unknown band",
			content:  header + "\nRECIFE,B,17-18 ANOS,N,1\n",
			wantRow:  1,
			wantCol:  ColumnAgeBand,
			wantBand: true,
		},
		{
			name:    "ragged row",
			content: header + "\nRECIFE,B,18-21 ANOS,N\n",
			wantRow: 1,
		},
		{
			name:    "half coordinates",
			content: header + ",lat,lon\nRECIFE,B,18-21 ANOS,N,1,-8.05,\n",
			wantRow: 1,
			wantCol: ColumnLatitude,
		},
		{
			name:    "coordinates disagree",
			content: header + ",lat,lon\nRECIFE,B,18-21 ANOS,N,1,-8.05,-34.9\nRECIFE,C,18-21 ANOS,N,1,-8.10,-34.9\n",
			wantRow: 2,
			wantCol: ColumnLatitude,
		},
		{
			name:    "only one coordinate column",
			content: header + ",lat\nRECIFE,B,18-21 ANOS,N,1,-8.05\n",
			wantCol: ColumnLongitude,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			path := writeFile(t, "bad.csv", []byte(tt.content))

			_, err := NewLoader(LoadOptions{}, logger).Load(context.Background(), path)
			require.Error(t, err)

			var loadErr *apperrors.DataLoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, path, loadErr.Path)
			assert.Equal(t, tt.wantRow, loadErr.Row)
			assert.Equal(t, tt.wantCol, loadErr.Column)

			var bandErr *apperrors.UnknownBandError
			assert.Equal(t, tt.wantBand, apperrors.As(err, &bandErr))
		})
	}
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := NewLoader(LoadOptions{}, nil).Load(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))

	var loadErr *apperrors.DataLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.True(t, os.IsNotExist(loadErr.Err))
}

func TestLoaderLatin1(t *testing.T) {
	utf8 := "descricao_municipio,categoria_cnh,faixa_etaria,exerce_atividade_remunerada,qtd_condutores\n" +
		"SÃO JOSÉ DO EGITO,D,41-50 ANOS,S,12\n"
	latin1, err := charmap.ISO8859_1.NewEncoder().String(utf8)
	require.NoError(t, err)

	table, err := NewLoader(LoadOptions{Encoding: EncodingISO88591}, nil).
		Parse(context.Background(), strings.NewReader(latin1), "latin1.csv")
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "SÃO JOSÉ DO EGITO", table.Record(0).Municipality)
	assert.Equal(t, EncodingISO88591, table.Encoding())
	assert.Equal(t, EncodingISO88591, table.Filter(Heavy()).Encoding())
}

func TestLoaderStripsBOMAndProfileColumn(t *testing.T) {
	content := "\ufeffdescricao_municipio,categoria_cnh,faixa_etaria,exerce_atividade_remunerada,qtd_condutores,profile_label\n" +
		"RECIFE,E,51-60 ANOS,S,9,Amateur\n"

	table, err := NewLoader(LoadOptions{}, nil).
		Parse(context.Background(), bytes.NewBufferString(content), "enriched.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{ColumnMunicipality, ColumnCategory, ColumnAgeBand, ColumnPaidActivity, ColumnCount}, table.Header())
	assert.Equal(t, []string{"RECIFE", "E", "51-60 ANOS", "S", "9"}, table.RawRow(0))
	// The stale label is ignored and recomputed.
	assert.Equal(t, domain.ProfileHeavyTraditional, ProfileOf(table.Record(0)))
}

func TestValidateEncoding(t *testing.T) {
	assert.NoError(t, ValidateEncoding(""))
	assert.NoError(t, ValidateEncoding("Windows-1252"))
	assert.Error(t, ValidateEncoding("ebcdic"))

	for _, name := range config.SupportedEncodings {
		assert.NoError(t, ValidateEncoding(name), "config accepts %q", name)
	}
}

func TestCanonicalEncoding(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "", want: EncodingUTF8},
		{name: "UTF8", want: EncodingUTF8},
		{name: " latin1 ", want: EncodingISO88591},
		{name: "Latin-1", want: EncodingISO88591},
		{name: "cp1252", want: EncodingWindows1252},
	}
	for _, tt := range tests {
		got, err := CanonicalEncoding(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}

func TestTableFilterIsCopyOnWrite(t *testing.T) {
	table := sampleTable()
	heavy := table.Filter(Heavy())

	assert.Equal(t, 6, table.Len())
	assert.Equal(t, 4, heavy.Len())
	assert.Equal(t, table.Header(), heavy.Header())

	record := heavy.Record(0)
	record.Count = 999
	assert.NotEqual(t, int64(999), heavy.Record(0).Count)

	assert.Equal(t, []string{"RECIFE", "OLINDA", "CARUARU"}, table.Municipalities())
	assert.True(t, table.Filter(func(r domain.DriverCountRecord) bool { return r.Municipality == "NOWHERE" }).Empty())
}
