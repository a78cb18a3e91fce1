package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"gratifpanel/internal/models"
)

// TamanhoLote is the fixed insert batch size; it bounds request size and
// keeps single store calls short.
const TamanhoLote = 500

// previewColumns is the fixed column subset shown in the dry-run preview.
var previewColumns = []string{
	"NUMFUNC", "NUMVINC", "NOME_CARGO", "NOME_ORGAO",
	"MES_ANO", "COMPETENCIA", "NOME_RUBRICA", "VALOR",
}

const previewLimit = 5

// GratificacaoStore is the persistence surface the importer needs.
type GratificacaoStore interface {
	InsertBatch(ctx context.Context, rows []models.Gratificacao) error
	DeleteByCompetencia(ctx context.Context, mesAno string) (int64, error)
	CountByCompetencia(ctx context.Context, mesAno string) (int, error)
	ListCompetencias(ctx context.Context) ([]models.CompetenciaResumo, error)
	AcquireCompetenciaLock(ctx context.Context, mesAno string) (func(), error)
}

// ImportacaoLogStore records one audit row per import attempt.
type ImportacaoLogStore interface {
	Create(ctx context.Context, entry *models.ImportacaoLog) error
	ListRecent(ctx context.Context, limit int) ([]models.ImportacaoLog, error)
}

// ImportService orchestrates the CSV-to-store pipeline: parse, validate,
// transform, reconcile against the existing competency, batch insert, audit.
type ImportService struct {
	gratificacoes GratificacaoStore
	logs          ImportacaoLogStore
	logger        *logrus.Logger
	tamanhoLote   int
}

// NewImportService creates a new ImportService.
func NewImportService(gratificacoes GratificacaoStore, logs ImportacaoLogStore, logger *logrus.Logger) *ImportService {
	return &ImportService{
		gratificacoes: gratificacoes,
		logs:          logs,
		logger:        logger,
		tamanhoLote:   TamanhoLote,
	}
}

// Validar runs the read-only dry run over an uploaded extract: structure
// check, row count, dominant competency and whether it already exists,
// unparseable valor count and a preview of the first rows. Nothing persists.
func (s *ImportService) Validar(ctx context.Context, data []byte) (*models.ValidacaoResultado, error) {
	parsed, err := ReadCSV(data, s.logger)
	if err != nil {
		return nil, err
	}

	faltando := MissingColumns(parsed.Columns)
	resultado := &models.ValidacaoResultado{
		OK:              len(faltando) == 0,
		TotalLinhas:     len(parsed.Rows),
		ColunasFaltando: faltando,
		Encoding:        parsed.Encoding,
		Preview:         previewRows(parsed),
	}

	if mesAno := rawCompetencia(parsed.Rows); mesAno != nil {
		resultado.MesAno = mesAno
		existentes, err := s.gratificacoes.CountByCompetencia(ctx, *mesAno)
		if err != nil {
			return nil, fmt.Errorf("checking existing competencia: %w", err)
		}
		resultado.JaExiste = existentes > 0
	}

	resultado.ValoresInvalidos = countValoresInvalidos(parsed)
	return resultado, nil
}

// Importar runs the full pipeline and records the outcome in the audit log.
// With substituir, existing rows for the competency are deleted first under a
// per-competency lock; a delete failure aborts before any insert.
func (s *ImportService) Importar(ctx context.Context, data []byte, arquivo, usuario string, substituir bool) (*models.ImportacaoResultado, error) {
	parsed, err := ReadCSV(data, s.logger)
	if err != nil {
		return nil, err
	}

	if faltando := MissingColumns(parsed.Columns); len(faltando) > 0 {
		return nil, &ValidationError{ColunasFaltando: faltando}
	}

	registros, removidas := Transform(parsed.Rows, usuario, time.Now())
	if removidas > 0 {
		s.logger.WithField("linhas", removidas).Warn("rows dropped: invalid cod or valor")
	}

	mesAno := DominantCompetencia(registros)
	operacao := models.OperacaoNova

	if substituir {
		operacao = models.OperacaoSubstituicao
		release, err := s.gratificacoes.AcquireCompetenciaLock(ctx, mesAno)
		if err != nil {
			return nil, fmt.Errorf("locking competencia %s: %w", mesAno, err)
		}
		defer release()

		removidos, err := s.gratificacoes.DeleteByCompetencia(ctx, mesAno)
		if err != nil {
			return nil, fmt.Errorf("replacing competencia %s: %w", mesAno, err)
		}
		s.logger.WithFields(logrus.Fields{
			"mes_ano":   mesAno,
			"removidos": removidos,
		}).Info("existing rows removed for replacement")
	}

	inseridos, erros := s.inserirEmLotes(ctx, registros)

	entry := &models.ImportacaoLog{
		MesAno:          mesAno,
		Operacao:        operacao,
		Arquivo:         arquivo,
		LinhasTotal:     len(registros),
		LinhasInseridas: inseridos,
		LinhasErro:      erros,
		ImportadoPor:    usuario,
		ImportadoEm:     time.Now(),
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		// Best-effort auditing: the import already happened.
		s.logger.WithError(err).Warn("failed to record import log")
	}

	s.logger.WithFields(logrus.Fields{
		"mes_ano":   mesAno,
		"operacao":  operacao,
		"inseridos": inseridos,
		"erros":     erros,
	}).Info("import finished")

	return &models.ImportacaoResultado{
		OK:        true,
		MesAno:    mesAno,
		Inseridos: inseridos,
		Erros:     erros,
		Operacao:  operacao,
	}, nil
}

// inserirEmLotes inserts rows in fixed-size batches. A failed batch adds its
// full size to the error count and the import moves on; failures are never
// retried and are attributed at batch granularity only.
func (s *ImportService) inserirEmLotes(ctx context.Context, registros []models.Gratificacao) (int, int) {
	inseridos, erros := 0, 0

	for inicio := 0; inicio < len(registros); inicio += s.tamanhoLote {
		fim := inicio + s.tamanhoLote
		if fim > len(registros) {
			fim = len(registros)
		}
		lote := registros[inicio:fim]

		if err := s.gratificacoes.InsertBatch(ctx, lote); err != nil {
			erros += len(lote)
			s.logger.WithError(err).WithFields(logrus.Fields{
				"inicio": inicio,
				"fim":    fim,
			}).Error("batch insert failed")
			continue
		}
		inseridos += len(lote)
		s.logger.WithFields(logrus.Fields{
			"enviados": fim,
			"total":    len(registros),
		}).Debug("batch inserted")
	}

	return inseridos, erros
}

// Historico returns the latest 20 audit records, newest first.
func (s *ImportService) Historico(ctx context.Context) ([]models.ImportacaoLog, error) {
	return s.logs.ListRecent(ctx, 20)
}

// Competencias lists every competency with its persisted row count.
func (s *ImportService) Competencias(ctx context.Context) ([]models.CompetenciaResumo, error) {
	return s.gratificacoes.ListCompetencias(ctx)
}

// DeleteCompetencia removes all persisted rows of one competency on demand,
// under the same per-competency lock used by replace-mode imports.
func (s *ImportService) DeleteCompetencia(ctx context.Context, mesAno string) (int64, error) {
	release, err := s.gratificacoes.AcquireCompetenciaLock(ctx, mesAno)
	if err != nil {
		return 0, fmt.Errorf("locking competencia %s: %w", mesAno, err)
	}
	defer release()

	return s.gratificacoes.DeleteByCompetencia(ctx, mesAno)
}

// previewRows renders the first rows of the preview column subset, keeping
// only columns present in the file.
func previewRows(parsed *ParsedCSV) []map[string]string {
	present := make(map[string]bool, len(parsed.Columns))
	for _, col := range parsed.Columns {
		present[col] = true
	}

	var cols []string
	for _, col := range previewColumns {
		if present[col] {
			cols = append(cols, col)
		}
	}

	preview := []map[string]string{}
	for i, row := range parsed.Rows {
		if i >= previewLimit {
			break
		}
		out := make(map[string]string, len(cols))
		for _, col := range cols {
			out[col] = row[col]
		}
		preview = append(preview, out)
	}
	return preview
}

// countValoresInvalidos counts rows whose VALOR does not survive
// normalization. Zero when the column is absent entirely.
func countValoresInvalidos(parsed *ParsedCSV) int {
	present := false
	for _, col := range parsed.Columns {
		if col == "VALOR" {
			present = true
			break
		}
	}
	if !present {
		return 0
	}

	invalidos := 0
	for _, row := range parsed.Rows {
		if _, ok := NormalizeValor(row["VALOR"]); !ok {
			invalidos++
		}
	}
	return invalidos
}
