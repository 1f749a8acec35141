package pipeline

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"finetune-data-pipeline/internal/model"
	"finetune-data-pipeline/pkg/utils"
)

var (
	whitespaceRe = regexp.MustCompile(`[\s\p{Z}]+`)
	// keep letters, digits, underscore, whitespace and basic punctuation;
	// \w and \s alone are ASCII-only in Go and would strip non-Latin text
	specialCharsRe = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Z}.,!?;:\-()]`)
)

// Cleaner normalizes text fields and filters records by text length.
type Cleaner struct {
	MinLength int
	MaxLength int
	logger    *zap.Logger
}

// NewCleaner creates a cleaner with the given text-length bounds.
func NewCleaner(minLength, maxLength int, logger *zap.Logger) *Cleaner {
	return &Cleaner{
		MinLength: minLength,
		MaxLength: maxLength,
		logger:    logger,
	}
}

// CleanText cleans a single text string: whitespace runs collapse to one
// space, characters outside word characters and basic punctuation are
// stripped, and the result is trimmed. Applying it twice equals applying it
// once.
func (c *Cleaner) CleanText(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = specialCharsRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// CleanValue cleans string values and leaves everything else untouched.
// Non-string input that has no string rendering yields an empty string.
func (c *Cleaner) CleanValue(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return c.CleanText(s)
}

// CleanRecord produces a new record with every string field cleaned. List
// fields are cleaned element-wise (string elements only), nested records are
// cleaned recursively, numeric and boolean fields pass through unchanged.
func (c *Cleaner) CleanRecord(record model.Record) model.Record {
	cleaned := make(model.Record, len(record))

	for key, value := range record {
		switch val := value.(type) {
		case string:
			cleaned[key] = c.CleanText(val)
		case []interface{}:
			items := make([]interface{}, len(val))
			for i, item := range val {
				if s, ok := item.(string); ok {
					items[i] = c.CleanText(s)
				} else {
					items[i] = item
				}
			}
			cleaned[key] = items
		case map[string]interface{}:
			cleaned[key] = map[string]interface{}(c.CleanRecord(model.Record(val)))
		case model.Record:
			cleaned[key] = c.CleanRecord(val)
		default:
			cleaned[key] = value
		}
	}

	return cleaned
}

// CleanDataset cleans every record and drops the ones without any string
// field whose cleaned length falls inside [MinLength, MaxLength].
func (c *Cleaner) CleanDataset(data []model.Record) []model.Record {
	c.logger.Info("Cleaning records", zap.Int("count", len(data)))

	cleanedData := make([]model.Record, 0, len(data))
	removedCount := 0

	for _, record := range data {
		cleanedRecord := c.CleanRecord(record)

		hasValidText := false
		for _, value := range cleanedRecord {
			if s, ok := value.(string); ok {
				// character count, not byte count, so non-ASCII text is
				// measured the same as ASCII
				n := utf8.RuneCountInString(s)
				if n >= c.MinLength && n <= c.MaxLength {
					hasValidText = true
					break
				}
			}
		}

		if hasValidText {
			cleanedData = append(cleanedData, cleanedRecord)
		} else {
			removedCount++
		}
	}

	c.logger.Info("Cleaned dataset",
		zap.Int("kept", len(cleanedData)),
		zap.Int("removed", removedCount))

	return cleanedData
}

// RemoveDuplicates drops records whose key tuple was already seen, keeping
// the first occurrence. With no key fields given, the string fields of the
// first record are used. With no resolvable key fields at all, the input is
// returned unchanged.
func (c *Cleaner) RemoveDuplicates(data []model.Record, keyFields []string) []model.Record {
	if len(keyFields) == 0 && len(data) > 0 {
		for key, value := range data[0] {
			if _, ok := value.(string); ok {
				keyFields = append(keyFields, key)
			}
		}
		// map iteration order is random; fix the tuple order for the run
		sort.Strings(keyFields)
	}

	if len(keyFields) == 0 {
		c.logger.Warn("No key fields resolvable, skipping duplicate removal")
		return data
	}

	c.logger.Info("Removing duplicates", zap.Strings("key_fields", keyFields))

	seen := make(map[string]struct{})
	uniqueData := make([]model.Record, 0, len(data))
	duplicateCount := 0

	for _, record := range data {
		parts := make([]string, len(keyFields))
		for i, field := range keyFields {
			// quote each part so a field value containing the join
			// separator cannot collide with another key tuple
			parts[i] = strconv.Quote(utils.Stringify(record[field]))
		}
		key := strings.Join(parts, ",")

		if _, dup := seen[key]; dup {
			duplicateCount++
			continue
		}
		seen[key] = struct{}{}
		uniqueData = append(uniqueData, record)
	}

	c.logger.Info("Removed duplicates",
		zap.Int("duplicates", duplicateCount),
		zap.Int("unique", len(uniqueData)))

	return uniqueData
}

// RemoveEmptyFields keeps only records where every required field is present,
// truthy and, for strings, non-blank after trimming. An empty required-field
// list is a no-op.
func (c *Cleaner) RemoveEmptyFields(data []model.Record, requiredFields []string) []model.Record {
	if len(requiredFields) == 0 {
		return data
	}

	c.logger.Info("Removing records with empty required fields",
		zap.Strings("required_fields", requiredFields))

	filteredData := make([]model.Record, 0, len(data))
	removedCount := 0

	for _, record := range data {
		hasAllFields := true
		for _, field := range requiredFields {
			value, ok := record[field]
			if !ok || !utils.Truthy(value) || strings.TrimSpace(utils.Stringify(value)) == "" {
				hasAllFields = false
				break
			}
		}

		if hasAllFields {
			filteredData = append(filteredData, record)
		} else {
			removedCount++
		}
	}

	c.logger.Info("Removed records with empty required fields",
		zap.Int("removed", removedCount),
		zap.Int("remaining", len(filteredData)))

	return filteredData
}
