package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// DriverCSVHeader is the canonical header of a driver-count source
const DriverCSVHeader = "descricao_municipio,categoria_cnh,faixa_etaria,exerce_atividade_remunerada,qtd_condutores,lat,lon,genero"

// DriverCSVRows is a small source covering light and heavy categories, both
// paid-activity flags, both genders and an excluded age band
var DriverCSVRows = []string{
	"RECIFE,AE,51-60 ANOS,S,40,-8.0476,-34.8770,MASCULINO",
	"RECIFE,AE,51-60 ANOS,N,10,-8.0476,-34.8770,MASCULINO",
	"RECIFE,AE,18-21 ANOS,S,6,-8.0476,-34.8770,FEMININO",
	"RECIFE,D,61-70 ANOS,S,20,-8.0476,-34.8770,MASCULINO",
	"RECIFE,C,26-30 ANOS,N,4,-8.0476,-34.8770,FEMININO",
	"RECIFE,B,18-21 ANOS,S,100,-8.0476,-34.8770,FEMININO",
	"OLINDA,AD,22-25 ANOS,S,5,-8.0089,-34.8553,FEMININO",
	"OLINDA,C,91-100 ANOS,N,2,-8.0089,-34.8553,MASCULINO",
	"OLINDA,AB,31-40 ANOS,S,30,-8.0089,-34.8553,MASCULINO",
	"CARUARU,E,41-50 ANOS,S,60,,,MASCULINO",
	"CARUARU,C,+120 ANOS,N,3,,,MASCULINO",
}

// DriverCSV joins a header and rows into a source document
func DriverCSV(header string, rows ...string) string {
	return header + "\n" + strings.Join(rows, "\n") + "\n"
}

// WriteDriverCSV writes content to name inside a fresh temporary directory
// and returns the file path
func WriteDriverCSV(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// WriteDefaultDriverCSV writes DriverCSVHeader and DriverCSVRows
func WriteDefaultDriverCSV(t *testing.T) string {
	t.Helper()
	return WriteDriverCSV(t, "condutores_habilitados.csv", DriverCSV(DriverCSVHeader, DriverCSVRows...))
}
