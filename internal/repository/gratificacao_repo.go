package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"gratifpanel/internal/models"
)

// GratificacaoRepository handles the gratificacoes table.
type GratificacaoRepository struct {
	db *sql.DB
}

// NewGratificacaoRepository creates a new GratificacaoRepository.
func NewGratificacaoRepository(db *sql.DB) *GratificacaoRepository {
	return &GratificacaoRepository{db: db}
}

// gratificacaoColumns lists insert columns in statement order.
const gratificacaoColumns = `emp_codigo, mes_ano, num_folha, setor, orgao, situacao, cargo,
	 tipovinc, rubrica, nome_rubrica, complemento, competencia, info,
	 tipo_pagamento, tipo_rubrica, vda, cod, valor, importado_por, importado_em`

const gratificacaoParamCount = 20

// InsertBatch inserts one batch of rows in a single multi-row statement.
// The caller controls batch size; a failure here fails the whole batch.
func (r *GratificacaoRepository) InsertBatch(ctx context.Context, rows []models.Gratificacao) error {
	if len(rows) == 0 {
		return nil
	}

	valStrings := make([]string, 0, len(rows))
	valArgs := make([]interface{}, 0, len(rows)*gratificacaoParamCount)
	i := 1

	for _, g := range rows {
		placeholders := make([]string, gratificacaoParamCount)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", i+j)
		}
		valStrings = append(valStrings, "("+strings.Join(placeholders, ", ")+")")
		valArgs = append(valArgs,
			g.EmpCodigo, g.MesAno, g.NumFolha, g.Setor, g.Orgao, g.Situacao, g.Cargo,
			g.Tipovinc, g.Rubrica, g.NomeRubrica, g.Complemento, g.Competencia, g.Info,
			g.TipoPagamento, g.TipoRubrica, g.Vda, g.Cod, g.Valor, g.ImportadoPor, g.ImportadoEm,
		)
		i += gratificacaoParamCount
	}

	query := "INSERT INTO gratificacoes (" + gratificacaoColumns + ") VALUES " + strings.Join(valStrings, ",")

	if _, err := r.db.ExecContext(ctx, query, valArgs...); err != nil {
		return fmt.Errorf("inserting gratificacoes batch: %w", err)
	}
	return nil
}

// DeleteByCompetencia removes every row of one competency and returns the count.
func (r *GratificacaoRepository) DeleteByCompetencia(ctx context.Context, mesAno string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM gratificacoes WHERE mes_ano = $1`, mesAno)
	if err != nil {
		return 0, fmt.Errorf("deleting competencia %s: %w", mesAno, err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted rows: %w", err)
	}
	return deleted, nil
}

// CountByCompetencia returns how many rows exist for a competency.
func (r *GratificacaoRepository) CountByCompetencia(ctx context.Context, mesAno string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM gratificacoes WHERE mes_ano = $1`, mesAno,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting competencia %s: %w", mesAno, err)
	}
	return count, nil
}

// ListCompetencias returns every competency with its row count, newest first.
// Aggregation happens server-side instead of fetching all rows.
func (r *GratificacaoRepository) ListCompetencias(ctx context.Context) ([]models.CompetenciaResumo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT mes_ano, COUNT(*) AS total
		 FROM gratificacoes
		 GROUP BY mes_ano
		 ORDER BY mes_ano DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing competencias: %w", err)
	}
	defer rows.Close()

	var resumos []models.CompetenciaResumo
	for rows.Next() {
		var c models.CompetenciaResumo
		if err := rows.Scan(&c.MesAno, &c.Total); err != nil {
			return nil, fmt.Errorf("scanning competencia row: %w", err)
		}
		resumos = append(resumos, c)
	}
	return resumos, rows.Err()
}

// AcquireCompetenciaLock takes a session advisory lock keyed on the competency,
// serializing replace-mode imports and deletes for the same MES_ANO. The lock
// lives on a dedicated connection; the returned function releases both.
func (r *GratificacaoRepository) AcquireCompetenciaLock(ctx context.Context, mesAno string) (func(), error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring connection for lock: %w", err)
	}

	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock(hashtext($1))`, mesAno); err != nil {
		conn.Close()
		return nil, fmt.Errorf("locking competencia %s: %w", mesAno, err)
	}

	release := func() {
		// Unlock on a fresh context: the request context may already be done.
		_, _ = conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock(hashtext($1))`, mesAno)
		conn.Close()
	}
	return release, nil
}
