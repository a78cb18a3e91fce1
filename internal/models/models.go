package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// -------------------------------------------------------
// Enums
// -------------------------------------------------------

// Operacao defines the kind of import operation recorded in the audit log.
type Operacao string

const (
	OperacaoNova         Operacao = "NOVA"
	OperacaoSubstituicao Operacao = "SUBSTITUICAO"
)

// CompetenciaDesconhecida is returned when a file carries no usable MES_ANO.
const CompetenciaDesconhecida = "DESCONHECIDO"

// -------------------------------------------------------
// Domain Models
// -------------------------------------------------------

// Gratificacao is one payroll bonus row ready for persistence.
// Optional business fields are pointers so blanks reach the store as NULL.
// NUMFUNC/NUMVINC from the source file are not kept; Cod supersedes them.
type Gratificacao struct {
	EmpCodigo     *string         `json:"emp_codigo" db:"emp_codigo"`
	MesAno        string          `json:"mes_ano" db:"mes_ano"`
	NumFolha      *string         `json:"num_folha" db:"num_folha"`
	Setor         *string         `json:"setor" db:"setor"`
	Orgao         *string         `json:"orgao" db:"orgao"`
	Situacao      *string         `json:"situacao" db:"situacao"`
	Cargo         *string         `json:"cargo" db:"cargo"`
	Tipovinc      *string         `json:"tipovinc" db:"tipovinc"`
	Rubrica       *string         `json:"rubrica" db:"rubrica"`
	NomeRubrica   *string         `json:"nome_rubrica" db:"nome_rubrica"`
	Complemento   *string         `json:"complemento" db:"complemento"`
	Competencia   *string         `json:"competencia" db:"competencia"`
	Info          *string         `json:"info" db:"info"`
	TipoPagamento *string         `json:"tipo_pagamento" db:"tipo_pagamento"`
	TipoRubrica   *string         `json:"tipo_rubrica" db:"tipo_rubrica"`
	Vda           *string         `json:"vda" db:"vda"`
	Cod           string          `json:"cod" db:"cod"`
	Valor         decimal.Decimal `json:"valor" db:"valor"`
	ImportadoPor  string          `json:"importado_por" db:"importado_por"`
	ImportadoEm   time.Time       `json:"importado_em" db:"importado_em"`
}

// ImportacaoLog is one audit record per import attempt, append-only.
type ImportacaoLog struct {
	ID              uuid.UUID `json:"id" db:"id"`
	MesAno          string    `json:"mes_ano" db:"mes_ano"`
	Operacao        Operacao  `json:"operacao" db:"operacao"`
	Arquivo         string    `json:"arquivo" db:"arquivo"`
	LinhasTotal     int       `json:"linhas_total" db:"linhas_total"`
	LinhasInseridas int       `json:"linhas_inseridas" db:"linhas_inseridas"`
	LinhasErro      int       `json:"linhas_erro" db:"linhas_erro"`
	ImportadoPor    string    `json:"importado_por" db:"importado_por"`
	ImportadoEm     time.Time `json:"importado_em" db:"importado_em"`
}

// CompetenciaResumo is the per-competency row count returned by /api/competencias.
type CompetenciaResumo struct {
	MesAno string `json:"mes_ano" db:"mes_ano"`
	Total  int    `json:"total" db:"total"`
}

// -------------------------------------------------------
// API results
// -------------------------------------------------------

// ValidacaoResultado is the read-only dry run output of /api/validar.
type ValidacaoResultado struct {
	OK               bool                `json:"ok"`
	TotalLinhas      int                 `json:"total_linhas"`
	ColunasFaltando  []string            `json:"colunas_faltando"`
	MesAno           *string             `json:"mes_ano"`
	JaExiste         bool                `json:"ja_existe"`
	ValoresInvalidos int                 `json:"valores_invalidos"`
	Preview          []map[string]string `json:"preview"`
	Encoding         string              `json:"encoding"`
}

// ImportacaoResultado summarizes a completed import for /api/importar.
type ImportacaoResultado struct {
	OK        bool     `json:"ok"`
	MesAno    string   `json:"mes_ano"`
	Inseridos int      `json:"inseridos"`
	Erros     int      `json:"erros"`
	Operacao  Operacao `json:"operacao"`
}
