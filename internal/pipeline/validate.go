package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"finetune-data-pipeline/internal/model"
	"finetune-data-pipeline/pkg/utils"
)

// Validator checks structural validity per record and computes aggregate
// quality statistics over a dataset.
type Validator struct {
	RequiredFields []string
	logger         *zap.Logger
}

// NewValidator creates a validator for the given required fields.
func NewValidator(requiredFields []string, logger *zap.Logger) *Validator {
	return &Validator{
		RequiredFields: requiredFields,
		logger:         logger,
	}
}

// ValidateRecord runs every check independently and collects errors instead
// of short-circuiting. A record is valid iff the error list is empty.
func (v *Validator) ValidateRecord(record model.Record) (bool, []string) {
	var errs []string

	for _, field := range v.RequiredFields {
		value, ok := record[field]
		if !ok {
			errs = append(errs, fmt.Sprintf("Missing required field: %s", field))
		} else if !utils.Truthy(value) || isBlankString(value) {
			errs = append(errs, fmt.Sprintf("Empty required field: %s", field))
		}
	}

	if len(record) == 0 {
		errs = append(errs, "Record is empty")
	}

	hasText := false
	for _, value := range record {
		switch val := value.(type) {
		case string:
			if strings.TrimSpace(val) != "" {
				hasText = true
			}
		case []interface{}:
			if len(val) > 0 {
				hasText = true
			}
		case map[string]interface{}:
			if len(val) > 0 {
				hasText = true
			}
		case model.Record:
			if len(val) > 0 {
				hasText = true
			}
		}
		if hasText {
			break
		}
	}
	if !hasText {
		errs = append(errs, "Record has no valid text content")
	}

	return len(errs) == 0, errs
}

func isBlankString(v interface{}) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

// ValidateDataset partitions a dataset into valid records and invalid records
// with their original index and errors.
func (v *Validator) ValidateDataset(data []model.Record) ([]model.Record, []model.InvalidRecord) {
	v.logger.Info("Validating records", zap.Int("count", len(data)))

	validRecords := make([]model.Record, 0, len(data))
	var invalidRecords []model.InvalidRecord

	for idx, record := range data {
		isValid, errs := v.ValidateRecord(record)
		if isValid {
			validRecords = append(validRecords, record)
		} else {
			invalidRecords = append(invalidRecords, model.InvalidRecord{
				RecordIndex: idx,
				Record:      record,
				Errors:      errs,
			})
			v.logger.Debug("Record invalid",
				zap.Int("index", idx),
				zap.Strings("errors", errs))
		}
	}

	v.logger.Info("Validation complete",
		zap.Int("valid", len(validRecords)),
		zap.Int("invalid", len(invalidRecords)))

	return validRecords, invalidRecords
}

// CheckDuplicates keeps the first record per distinct non-empty key value.
// A record whose key is empty is always counted as a duplicate, including
// the first one seen.
func (v *Validator) CheckDuplicates(data []model.Record, keyField string) ([]model.Record, int) {
	seen := make(map[string]struct{})
	uniqueRecords := make([]model.Record, 0, len(data))
	duplicateCount := 0

	for _, record := range data {
		keyValue := utils.Stringify(record[keyField])

		if _, dup := seen[keyValue]; keyValue != "" && !dup {
			seen[keyValue] = struct{}{}
			uniqueRecords = append(uniqueRecords, record)
		} else {
			duplicateCount++
		}
	}

	if duplicateCount > 0 {
		v.logger.Warn("Found duplicate records", zap.Int("count", duplicateCount))
	}

	return uniqueRecords, duplicateCount
}

// GenerateQualityReport computes an aggregate snapshot over the dataset:
// field-name union, text-length distribution over every string value, and
// validity/duplicate counts. The input is not mutated.
func (v *Validator) GenerateQualityReport(data []model.Record) *model.QualityReport {
	v.logger.Info("Generating quality report")

	report := &model.QualityReport{
		TotalRecords: len(data),
	}

	if len(data) == 0 {
		return report
	}

	allFields := make(map[string]struct{})
	for _, record := range data {
		for key := range record {
			allFields[key] = struct{}{}
		}
	}

	fieldNames := make([]string, 0, len(allFields))
	for name := range allFields {
		fieldNames = append(fieldNames, name)
	}
	sort.Strings(fieldNames)
	report.Fields = model.FieldStats{
		TotalUniqueFields: len(fieldNames),
		FieldNames:        fieldNames,
	}

	var textLengths []int
	for _, record := range data {
		for _, value := range record {
			if s, ok := value.(string); ok {
				textLengths = append(textLengths, utf8.RuneCountInString(s))
			}
		}
	}

	if len(textLengths) > 0 {
		sorted := make([]int, len(textLengths))
		copy(sorted, textLengths)
		sort.Ints(sorted)

		sum := 0
		for _, n := range textLengths {
			sum += n
		}

		report.TextLengthStats = &model.TextLengthStats{
			Min: sorted[0],
			Max: sorted[len(sorted)-1],
			Avg: float64(sum) / float64(len(textLengths)),
			// lower-middle element for even-length inputs, not an averaged median
			Median: sorted[len(sorted)/2],
		}
	}

	validRecords, invalidRecords := v.ValidateDataset(data)
	uniqueRecords, duplicateCount := v.CheckDuplicates(data, "text")

	report.Validation = model.ValidationStats{
		ValidCount:     len(validRecords),
		InvalidCount:   len(invalidRecords),
		ValidityRate:   float64(len(validRecords)) / float64(len(data)),
		DuplicateCount: duplicateCount,
		UniqueCount:    len(uniqueRecords),
	}

	v.logger.Info("Quality report generated")

	return report
}
