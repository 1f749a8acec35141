package pipeline

import (
	"bufio"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"finetune-data-pipeline/internal/model"
	"finetune-data-pipeline/pkg/utils"
)

// Ingestor loads raw records from files in the supported formats.
type Ingestor struct {
	SupportedFormats []string
	logger           *zap.Logger
}

// NewIngestor creates an ingestor restricted to the given formats.
func NewIngestor(supportedFormats []string, logger *zap.Logger) *Ingestor {
	if len(supportedFormats) == 0 {
		supportedFormats = []string{"json", "jsonl", "csv", "txt"}
	}
	return &Ingestor{
		SupportedFormats: supportedFormats,
		logger:           logger,
	}
}

// Load reads all records from a single file, dispatching on the extension.
// An extension outside the supported set is a hard error.
func (ing *Ingestor) Load(filePath string) ([]model.Record, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), ".")

	supported := false
	for _, format := range ing.SupportedFormats {
		if ext == format {
			supported = true
			break
		}
	}
	if !supported {
		return nil, fmt.Errorf("unsupported file format: %s", ext)
	}

	ing.logger.Info("Loading data", zap.String("path", filePath))

	switch ext {
	case "json":
		return ing.loadJSON(filePath)
	case "jsonl":
		return ing.loadJSONL(filePath)
	case "csv":
		return ing.loadCSV(filePath)
	case "txt":
		return ing.loadTxt(filePath)
	case "db", "sqlite":
		return ing.loadSQLite(filePath)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", ext)
	}
}

// loadJSON loads a JSON file holding either an array of objects or a single
// object.
func (ing *Ingestor) loadJSON(filePath string) ([]model.Record, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON file: %w", err)
	}

	var raw interface{}
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	switch data := raw.(type) {
	case []interface{}:
		records := make([]model.Record, 0, len(data))
		for _, item := range data {
			if m, ok := item.(map[string]interface{}); ok {
				records = append(records, model.Record(m))
			}
		}
		return records, nil
	case map[string]interface{}:
		return []model.Record{model.Record(data)}, nil
	default:
		return nil, fmt.Errorf("invalid JSON format")
	}
}

// loadJSONL loads a line-delimited JSON file, one object per line.
func (ing *Ingestor) loadJSONL(filePath string) ([]model.Record, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open JSONL file: %w", err)
	}
	defer file.Close()

	var records []model.Record
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var record model.Record
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, fmt.Errorf("failed to decode JSONL line %d: %w", lineNum, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read JSONL file: %w", err)
	}

	return records, nil
}

// loadCSV loads a tabular CSV file; the header row names the fields and cell
// values are type-inferred.
func (ing *Ingestor) loadCSV(filePath string) ([]model.Record, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	csvReader := csv.NewReader(file)
	csvReader.LazyQuotes = true
	headers, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	// Clean header names: trim whitespace and remove quotes
	for i, h := range headers {
		headers[i] = strings.ReplaceAll(strings.TrimSpace(h), `"`, "")
	}

	var records []model.Record
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			ing.logger.Warn("Skipping bad CSV row", zap.Error(err))
			continue
		}

		record := make(model.Record, len(headers))
		for i, h := range headers {
			if i < len(row) {
				record[h] = utils.ParseValue(row[i])
			}
		}
		records = append(records, record)
	}

	return records, nil
}

// loadTxt loads a plain text file, turning every non-blank line into a
// record with its line number.
func (ing *Ingestor) loadTxt(filePath string) ([]model.Record, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open text file: %w", err)
	}
	defer file.Close()

	var records []model.Record
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		records = append(records, model.Record{
			"text":        line,
			"line_number": lineNum,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read text file: %w", err)
	}

	return records, nil
}

// loadSQLite loads the rows of the first user table of a SQLite file,
// mapping columns to record fields.
func (ing *Ingestor) loadSQLite(filePath string) ([]model.Record, error) {
	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite file: %w", err)
	}
	defer db.Close()

	var table string
	err = db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name LIMIT 1`,
	).Scan(&table)
	if err != nil {
		return nil, fmt.Errorf("no tables found in SQLite file: %w", err)
	}

	rows, err := db.Query(`SELECT * FROM "` + strings.ReplaceAll(table, `"`, `""`) + `"`)
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var records []model.Record
	for rows.Next() {
		values := make([]interface{}, len(columns))
		scanArgs := make([]interface{}, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		record := make(model.Record, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				record[col] = string(b)
			} else {
				record[col] = values[i]
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	ing.logger.Info("Loaded SQLite table",
		zap.String("table", table),
		zap.Int("records", len(records)))

	return records, nil
}

// LoadFromDirectory loads all matching files from a directory. Per-file
// errors are logged and the file is skipped; they never abort the whole load.
func (ing *Ingestor) LoadFromDirectory(directory, pattern string) ([]model.Record, error) {
	if pattern == "" {
		pattern = "*"
	}

	matches, err := filepath.Glob(filepath.Join(directory, pattern))
	if err != nil {
		return nil, fmt.Errorf("failed to list directory %s: %w", directory, err)
	}

	var allData []model.Record
	for _, filePath := range matches {
		info, err := os.Stat(filePath)
		if err != nil || info.IsDir() {
			continue
		}

		data, err := ing.Load(filePath)
		if err != nil {
			ing.logger.Error("Error loading file",
				zap.String("path", filePath),
				zap.Error(err))
			continue
		}
		allData = append(allData, data...)
		ing.logger.Info("Loaded records from file",
			zap.String("file", filepath.Base(filePath)),
			zap.Int("records", len(data)))
	}

	ing.logger.Info("Total records loaded", zap.Int("count", len(allData)))
	return allData, nil
}
