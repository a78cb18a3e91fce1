package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gratifpanel/internal/models"
)

// fullRow returns a raw row carrying every required column.
func fullRow(overrides map[string]string) map[string]string {
	row := make(map[string]string, len(ColunasObrigatorias))
	for _, col := range ColunasObrigatorias {
		row[col] = "x"
	}
	row["NUMFUNC"] = "123"
	row["NUMVINC"] = "45"
	row["MES_ANO"] = "01/2024"
	row["VALOR"] = "1,00"
	for col, v := range overrides {
		row[col] = v
	}
	return row
}

func TestMissingColumns(t *testing.T) {
	t.Run("complete header has no missing columns", func(t *testing.T) {
		assert.Empty(t, MissingColumns(ColunasObrigatorias))
	})

	t.Run("reports exactly the absent names in order", func(t *testing.T) {
		var header []string
		for _, col := range ColunasObrigatorias {
			if col != "NUMFUNC" && col != "VALOR" {
				header = append(header, col)
			}
		}

		assert.Equal(t, []string{"NUMFUNC", "VALOR"}, MissingColumns(header))
	})

	t.Run("extra columns are ignored", func(t *testing.T) {
		header := append([]string{"NOME_CARGO", "NOME_ORGAO"}, ColunasObrigatorias...)

		assert.Empty(t, MissingColumns(header))
	})
}

func TestNormalizeValor(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1,00", "1", true},
		{"1234,56", "1234.56", true},
		{"1.234,56", "1234.56", true},
		{"1.234.567,89", "1234567.89", true},
		{"100.25", "100.25", true},
		{"-10,5", "-10.5", true},
		{"R$ 50,00", "50", true},
		{" 7 ", "7", true},
		{"abc", "", false},
		{"", "", false},
		{"   ", "", false},
		{"-", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			valor, ok := NormalizeValor(tc.in)

			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				want, err := decimal.NewFromString(tc.want)
				require.NoError(t, err)
				assert.True(t, valor.Equal(want), "got %s, want %s", valor, want)
			}
		})
	}
}

func TestTransform(t *testing.T) {
	agora := time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)

	t.Run("derives cod from NUMFUNC and NUMVINC", func(t *testing.T) {
		rows := []map[string]string{fullRow(map[string]string{
			"NUMFUNC": " 123 ",
			"NUMVINC": "45",
			"VALOR":   "1.234,56",
		})}

		registros, removidas := Transform(rows, "ana@org.br", agora)

		require.Len(t, registros, 1)
		assert.Zero(t, removidas)
		assert.Equal(t, "12345", registros[0].Cod)
		assert.True(t, registros[0].Valor.Equal(decimal.NewFromFloat(1234.56)))
	})

	t.Run("drops rows with empty cod", func(t *testing.T) {
		rows := []map[string]string{fullRow(map[string]string{
			"NUMFUNC": "  ",
			"NUMVINC": "",
		})}

		registros, removidas := Transform(rows, "ana@org.br", agora)

		assert.Empty(t, registros)
		assert.Equal(t, 1, removidas)
	})

	t.Run("drops rows with unparseable valor", func(t *testing.T) {
		rows := []map[string]string{
			fullRow(map[string]string{"VALOR": "n/d"}),
			fullRow(nil),
		}

		registros, removidas := Transform(rows, "ana@org.br", agora)

		assert.Len(t, registros, 1)
		assert.Equal(t, 1, removidas)
	})

	t.Run("stamps import metadata", func(t *testing.T) {
		registros, _ := Transform([]map[string]string{fullRow(nil)}, "ana@org.br", agora)

		require.Len(t, registros, 1)
		assert.Equal(t, "ana@org.br", registros[0].ImportadoPor)
		assert.Equal(t, agora, registros[0].ImportadoEm)
	})

	t.Run("blank optional fields become nil", func(t *testing.T) {
		registros, _ := Transform([]map[string]string{fullRow(map[string]string{
			"SETOR": "   ",
			"CARGO": " Analista ",
		})}, "ana@org.br", agora)

		require.Len(t, registros, 1)
		assert.Nil(t, registros[0].Setor)
		require.NotNil(t, registros[0].Cargo)
		assert.Equal(t, "Analista", *registros[0].Cargo)
	})

	t.Run("ignores columns outside the required set", func(t *testing.T) {
		row := fullRow(nil)
		row["NOME_CARGO"] = "should not persist"

		registros, _ := Transform([]map[string]string{row}, "ana@org.br", agora)

		require.Len(t, registros, 1)
	})
}

func TestDominantCompetencia(t *testing.T) {
	reg := func(mesAno string) models.Gratificacao {
		return models.Gratificacao{MesAno: mesAno}
	}

	t.Run("returns the most frequent value", func(t *testing.T) {
		registros := []models.Gratificacao{reg("01/2024"), reg("02/2024"), reg("01/2024")}

		assert.Equal(t, "01/2024", DominantCompetencia(registros))
	})

	t.Run("ties break to the smallest value", func(t *testing.T) {
		registros := []models.Gratificacao{reg("02/2024"), reg("01/2024")}

		assert.Equal(t, "01/2024", DominantCompetencia(registros))
	})

	t.Run("no rows yields the unknown sentinel", func(t *testing.T) {
		assert.Equal(t, models.CompetenciaDesconhecida, DominantCompetencia(nil))
		assert.Equal(t, models.CompetenciaDesconhecida, DominantCompetencia([]models.Gratificacao{reg("")}))
	})
}
