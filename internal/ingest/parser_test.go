package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_CSVHeaders(t *testing.T) {
	content := []byte("CHAVE DE ACESSO,MODELO,SÉRIE,NÚMERO,DATA EMISSÃO,VALOR NOTA FISCAL\n" +
		"35240800000000000001,55,1,101,2024-08-01 10:30:00,100.00\n" +
		"35240800000000000002,55,1,102,2024-08-02 09:00:00,250.50\n")

	records, issues := Parse(FormatCSV, TableHeaders, content)

	require.Empty(t, issues)
	require.Len(t, records, 2)
	assert.Equal(t, 2, records[0].Line)
	assert.Equal(t, "35240800000000000001", records[0].Get(fieldAccessKey))
	assert.Equal(t, "s_rie", sanitizeFieldName("SÉRIE"))
	assert.Equal(t, "1", records[0].Get(fieldSeries))
	assert.Equal(t, "250.50", records[1].Get(fieldDeclaredTotal))
}

func TestParse_CSVSemicolonDelimiter(t *testing.T) {
	content := []byte("CHAVE DE ACESSO;QUANTIDADE;VALOR UNITÁRIO;VALOR TOTAL\n" +
		"35240800000000000001;2,00;10,00;20,00\n")

	records, issues := Parse(FormatCSV, TableItems, content)

	require.Empty(t, issues)
	require.Len(t, records, 1)
	assert.Equal(t, "2,00", records[0].Get(fieldQuantity))
	assert.Equal(t, "20,00", records[0].Get(fieldLineTotal))
}

func TestParse_CSVMissingAccessKeyColumn(t *testing.T) {
	content := []byte("MODELO,SÉRIE\n55,1\n")

	records, issues := Parse(FormatCSV, TableHeaders, content)

	assert.Empty(t, records)
	require.Len(t, issues, 1)
	assert.Equal(t, StageParse, issues[0].Stage)
	assert.Contains(t, issues[0].Reason, fieldAccessKey)
}

func TestParse_CSVSkipsBlankRows(t *testing.T) {
	content := []byte("CHAVE DE ACESSO,MODELO\n" +
		"35240800000000000001,55\n" +
		" , \n" +
		"35240800000000000002,55\n")

	records, issues := Parse(FormatCSV, TableHeaders, content)

	require.Empty(t, issues)
	require.Len(t, records, 2)
	assert.Equal(t, 4, records[1].Line)
}

func TestParse_CSVExtraColumnsIgnored(t *testing.T) {
	content := []byte("CHAVE DE ACESSO,MODELO\n" +
		"35240800000000000001,55,unexpected,cells\n")

	records, issues := Parse(FormatCSV, TableHeaders, content)

	require.Empty(t, issues)
	require.Len(t, records, 1)
	assert.Equal(t, "55", records[0].Get(fieldDocModel))
	assert.Len(t, records[0].Fields, 2)
}

func TestParse_EmptyContent(t *testing.T) {
	records, issues := Parse(FormatCSV, TableHeaders, []byte("  \n "))
	assert.Empty(t, records)
	assert.Empty(t, issues)
}

func TestParse_XMLHeaders(t *testing.T) {
	content := []byte(`<lote>
  <registro_cabecalho>
    <chave_de_acesso>35240800000000000001</chave_de_acesso>
    <modelo>55</modelo>
    <valor_nota_fiscal>100.00</valor_nota_fiscal>
  </registro_cabecalho>
  <registro_item>
    <chave_de_acesso>35240800000000000001</chave_de_acesso>
  </registro_item>
  <registro_cabecalho>
    <chave_de_acesso>35240800000000000002</chave_de_acesso>
    <modelo>55</modelo>
  </registro_cabecalho>
</lote>`)

	records, issues := Parse(FormatXML, TableHeaders, content)

	require.Empty(t, issues)
	require.Len(t, records, 2)
	assert.Equal(t, "35240800000000000001", records[0].Get(fieldAccessKey))
	assert.Equal(t, "100.00", records[0].Get(fieldDeclaredTotal))
	assert.Equal(t, "35240800000000000002", records[1].Get(fieldAccessKey))
}

func TestParse_XMLItems(t *testing.T) {
	content := []byte(`<lote>
  <registro_item>
    <chave_de_acesso>35240800000000000001</chave_de_acesso>
    <n_mero_produto>1</n_mero_produto>
    <quantidade>2,5</quantidade>
    <valor_total>50.00</valor_total>
  </registro_item>
</lote>`)

	records, issues := Parse(FormatXML, TableItems, content)

	require.Empty(t, issues)
	require.Len(t, records, 1)
	assert.Equal(t, "2,5", records[0].Get(fieldQuantity))
}

func TestParse_XMLMalformed(t *testing.T) {
	records, issues := Parse(FormatXML, TableHeaders, []byte("<lote><registro_cabecalho></lote>"))

	assert.Empty(t, records)
	require.Len(t, issues, 1)
	assert.Equal(t, StageParse, issues[0].Stage)
	assert.Contains(t, issues[0].Reason, "malformed xml")
}

func TestSanitizeFieldName(t *testing.T) {
	cases := map[string]string{
		"CHAVE DE ACESSO":   "chave_de_acesso",
		"Data Emissão":      "data_emiss_o",
		"VALOR UNITÁRIO":    "valor_unit_rio",
		"  Número Produto ": "n_mero_produto",
		"CFOP":              "cfop",
		"":                  "",
	}
	for raw, want := range cases {
		assert.Equal(t, want, sanitizeFieldName(raw), "raw=%q", raw)
	}
}
