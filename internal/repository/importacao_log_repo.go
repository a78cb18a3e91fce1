package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"gratifpanel/internal/models"
)

// ImportacaoLogRepository handles the importacoes_log audit table.
type ImportacaoLogRepository struct {
	db *sql.DB
}

// NewImportacaoLogRepository creates a new ImportacaoLogRepository.
func NewImportacaoLogRepository(db *sql.DB) *ImportacaoLogRepository {
	return &ImportacaoLogRepository{db: db}
}

// Create appends one audit record. The entry ID is generated here.
func (r *ImportacaoLogRepository) Create(ctx context.Context, entry *models.ImportacaoLog) error {
	entry.ID = uuid.New()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO importacoes_log
		 (id, mes_ano, operacao, arquivo, linhas_total, linhas_inseridas, linhas_erro, importado_por, importado_em)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.MesAno, entry.Operacao, entry.Arquivo,
		entry.LinhasTotal, entry.LinhasInseridas, entry.LinhasErro,
		entry.ImportadoPor, entry.ImportadoEm,
	)
	if err != nil {
		return fmt.Errorf("creating importacao log: %w", err)
	}
	return nil
}

// ListRecent returns the latest log entries ordered by import time, newest first.
func (r *ImportacaoLogRepository) ListRecent(ctx context.Context, limit int) ([]models.ImportacaoLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, mes_ano, operacao, arquivo, linhas_total, linhas_inseridas, linhas_erro, importado_por, importado_em
		 FROM importacoes_log
		 ORDER BY importado_em DESC
		 LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing importacao logs: %w", err)
	}
	defer rows.Close()

	var entries []models.ImportacaoLog
	for rows.Next() {
		var e models.ImportacaoLog
		if err := rows.Scan(
			&e.ID, &e.MesAno, &e.Operacao, &e.Arquivo,
			&e.LinhasTotal, &e.LinhasInseridas, &e.LinhasErro,
			&e.ImportadoPor, &e.ImportadoEm,
		); err != nil {
			return nil, fmt.Errorf("scanning importacao log row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
