package ingest

import "strings"

// Canonical field keys. These mirror the column names of the simulated NF-e
// extracts after sanitization, so both the delimited and the markup format
// resolve to the same keys regardless of column order.
const (
	fieldAccessKey       = "chave_de_acesso"
	fieldDocModel        = "modelo"
	fieldSeries          = "s_rie"
	fieldNumber          = "n_mero"
	fieldOperationNature = "natureza_da_opera_o"
	fieldIssueDate       = "data_emiss_o"
	fieldIssuerTaxID     = "cpf_cnpj_emitente"
	fieldIssuerName      = "raz_o_social_emitente"
	fieldIssuerState     = "uf_emitente"
	fieldRecipientTaxID  = "cnpj_destinat_rio"
	fieldRecipientName   = "nome_destinat_rio"
	fieldRecipientState  = "uf_destinat_rio"
	fieldDeclaredTotal   = "valor_nota_fiscal"
	fieldLineNumber      = "n_mero_produto"
	fieldDescription     = "descri_o_do_produto_servi_o"
	fieldNCMCode         = "c_digo_ncm_sh"
	fieldCFOP            = "cfop"
	fieldQuantity        = "quantidade"
	fieldUnit            = "unidade"
	fieldUnitValue       = "valor_unit_rio"
	fieldLineTotal       = "valor_total"
)

// sanitizeFieldName lowercases a raw column or element name and collapses
// every run of characters outside [a-z0-9] into a single underscore, the same
// mangling the source extracts apply ("Data Emissão" -> "data_emiss_o").
func sanitizeFieldName(raw string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}
