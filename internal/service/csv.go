package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// ParsedCSV is the raw tabular content of one extract: the header in file
// order plus one map per data row. All values are plain text.
type ParsedCSV struct {
	Columns         []string
	Rows            []map[string]string
	Encoding        string
	LinhasIgnoradas int
}

// ReadCSV parses a semicolon-delimited extract. The charset is auto-detected;
// if decoding or parsing fails the whole file is retried once as Latin-1.
// Malformed lines are skipped with a warning, short rows are padded and long
// rows truncated to the header width.
func ReadCSV(data []byte, logger *logrus.Logger) (*ParsedCSV, error) {
	encoding, confidence := DetectEncoding(data)
	logger.WithFields(logrus.Fields{
		"encoding":   encoding,
		"confidence": confidence,
	}).Debug("detected file encoding")

	parsed, err := parseWithCharset(data, encoding, logger)
	if err != nil {
		if encoding == latin1 {
			return nil, &ParseError{Err: err}
		}
		logger.WithError(err).WithField("encoding", encoding).Warn("parse failed, retrying as latin-1")
		parsed, err = parseWithCharset(data, latin1, logger)
		if err != nil {
			return nil, &ParseError{Err: err}
		}
	}
	return parsed, nil
}

func parseWithCharset(data []byte, charset string, logger *logrus.Logger) (*ParsedCSV, error) {
	decoded, err := decodeCharset(data, charset)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.Comma = ';'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file: no header row")
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i, col := range header {
		header[i] = strings.TrimSpace(col)
	}

	parsed := &ParsedCSV{Columns: header, Encoding: charset}
	line := 1

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			parsed.LinhasIgnoradas++
			logger.WithError(err).WithField("linha", line).Warn("skipping malformed line")
			continue
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		parsed.Rows = append(parsed.Rows, row)
	}

	return parsed, nil
}
