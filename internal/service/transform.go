package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gratifpanel/internal/models"
)

// ColunasObrigatorias is the fixed set of columns a valid extract must carry,
// in the order missing names are reported.
var ColunasObrigatorias = []string{
	"EMP_CODIGO",
	"MES_ANO",
	"NUM_FOLHA",
	"SETOR",
	"ORGAO",
	"NUMFUNC",
	"NUMVINC",
	"SITUACAO",
	"CARGO",
	"TIPOVINC",
	"RUBRICA",
	"NOME_RUBRICA",
	"COMPLEMENTO",
	"COMPETENCIA",
	"INFO",
	"TIPO_PAGAMENTO",
	"TIPO_RUBRICA",
	"VDA",
	"VALOR",
}

// MissingColumns returns the required columns absent from the parsed header.
// An empty result means the extract may proceed to transformation.
func MissingColumns(columns []string) []string {
	present := make(map[string]bool, len(columns))
	for _, col := range columns {
		present[col] = true
	}

	missing := []string{}
	for _, col := range ColunasObrigatorias {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

// NormalizeValor parses a Brazilian locale currency string. Everything except
// digits, comma, dot and minus is stripped; a comma, when present, is the
// decimal separator and dots are thousands separators ("1.234,56" -> 1234.56).
// The second return is false when no number can be extracted.
func NormalizeValor(raw string) (decimal.Decimal, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == ',' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)

	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}
	if cleaned == "" {
		return decimal.Decimal{}, false
	}

	valor, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return valor, true
}

// Transform projects raw rows onto persistable records: required columns only,
// trimmed fields, derived cod, normalized valor, import metadata stamped.
// Rows with an empty cod or an unparseable valor are dropped; the second
// return is how many were removed.
func Transform(rows []map[string]string, usuario string, agora time.Time) ([]models.Gratificacao, int) {
	registros := make([]models.Gratificacao, 0, len(rows))
	removidas := 0

	for _, row := range rows {
		cod := strings.TrimSpace(strings.TrimSpace(row["NUMFUNC"]) + strings.TrimSpace(row["NUMVINC"]))
		valor, ok := NormalizeValor(row["VALOR"])
		if cod == "" || !ok {
			removidas++
			continue
		}

		registros = append(registros, models.Gratificacao{
			EmpCodigo:     optional(row["EMP_CODIGO"]),
			MesAno:        strings.TrimSpace(row["MES_ANO"]),
			NumFolha:      optional(row["NUM_FOLHA"]),
			Setor:         optional(row["SETOR"]),
			Orgao:         optional(row["ORGAO"]),
			Situacao:      optional(row["SITUACAO"]),
			Cargo:         optional(row["CARGO"]),
			Tipovinc:      optional(row["TIPOVINC"]),
			Rubrica:       optional(row["RUBRICA"]),
			NomeRubrica:   optional(row["NOME_RUBRICA"]),
			Complemento:   optional(row["COMPLEMENTO"]),
			Competencia:   optional(row["COMPETENCIA"]),
			Info:          optional(row["INFO"]),
			TipoPagamento: optional(row["TIPO_PAGAMENTO"]),
			TipoRubrica:   optional(row["TIPO_RUBRICA"]),
			Vda:           optional(row["VDA"]),
			Cod:           cod,
			Valor:         valor,
			ImportadoPor:  usuario,
			ImportadoEm:   agora,
		})
	}

	return registros, removidas
}

// DominantCompetencia returns the most frequent mes_ano across transformed
// rows. Ties break to the lexicographically smallest value; no usable value
// at all yields CompetenciaDesconhecida.
func DominantCompetencia(registros []models.Gratificacao) string {
	counts := make(map[string]int)
	for _, g := range registros {
		if g.MesAno != "" {
			counts[g.MesAno]++
		}
	}

	var best string
	bestN := 0
	for mesAno, n := range counts {
		if n > bestN || (n == bestN && mesAno < best) {
			best, bestN = mesAno, n
		}
	}
	if best == "" {
		return models.CompetenciaDesconhecida
	}
	return best
}

// rawCompetencia is the dominant MES_ANO over raw rows, used by the dry run
// before any transformation. Returns nil when the column has no usable value.
func rawCompetencia(rows []map[string]string) *string {
	counts := make(map[string]int)
	for _, row := range rows {
		if v := strings.TrimSpace(row["MES_ANO"]); v != "" {
			counts[v]++
		}
	}

	var best string
	bestN := 0
	for mesAno, n := range counts {
		if n > bestN || (n == bestN && mesAno < best) {
			best, bestN = mesAno, n
		}
	}
	if best == "" {
		return nil
	}
	return &best
}

// optional trims v and returns nil for blanks so they persist as NULL.
func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
