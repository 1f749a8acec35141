package pipeline

import (
	"go.uber.org/zap"

	"finetune-data-pipeline/internal/config"
	"finetune-data-pipeline/internal/model"
	"finetune-data-pipeline/pkg/utils"
)

// Candidate field names per logical role, highest priority first.
var (
	instructionFields = []string{"instruction", "prompt", "question", "input"}
	responseFields    = []string{"response", "output", "answer", "text"}
	inputFields       = []string{"context", "input_context"}
	userFields        = []string{"user", "instruction", "prompt", "question"}
	assistantFields   = []string{"assistant", "response", "output", "answer"}
	promptFields      = []string{"prompt", "instruction", "input"}
	completionFields  = []string{"completion", "response", "output", "text"}
)

const defaultSystemPrompt = "You are a helpful AI assistant."

// Transformer reshapes records into one of the fine-tuning output formats.
type Transformer struct {
	OutputFormat string
	template     config.TemplateConfig
	logger       *zap.Logger
}

// NewTransformer creates a transformer for the configured output format,
// picking the matching template section.
func NewTransformer(cfg config.TransformationConfig, logger *zap.Logger) *Transformer {
	var template config.TemplateConfig
	switch cfg.OutputFormat {
	case "instruction":
		template = cfg.InstructionTemplate
	case "conversation":
		template = cfg.ConversationTemplate
	}

	return &Transformer{
		OutputFormat: cfg.OutputFormat,
		template:     template,
		logger:       logger,
	}
}

// firstNonEmpty resolves a logical role against an ordered candidate field
// list: the first truthy value wins, stringified; no match yields "".
func firstNonEmpty(record model.Record, fields []string) string {
	for _, field := range fields {
		if value, ok := record[field]; ok && utils.Truthy(value) {
			return utils.Stringify(value)
		}
	}
	return ""
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// TransformToInstructionFormat produces an instruction/input/response record
// plus the flattened training text.
func (t *Transformer) TransformToInstructionFormat(record model.Record) (model.Record, error) {
	systemPrompt := orDefault(t.template.SystemPrompt, defaultSystemPrompt)
	instructionPrefix := orDefault(t.template.InstructionPrefix, "### Instruction:\n")
	responsePrefix := orDefault(t.template.ResponsePrefix, "### Response:\n")

	instruction := firstNonEmpty(record, instructionFields)
	response := firstNonEmpty(record, responseFields)
	inputText := firstNonEmpty(record, inputFields)

	formattedText := systemPrompt + "\n\n"
	if inputText != "" {
		formattedText += "Input: " + inputText + "\n\n"
	}
	formattedText += instructionPrefix + instruction + "\n\n" + responsePrefix + response

	var input interface{}
	if inputText != "" {
		input = inputText
	}

	return model.Record{
		"instruction": instruction,
		"input":       input,
		"response":    response,
		"text":        formattedText,
	}, nil
}

// TransformToConversationFormat produces a messages sequence with system,
// user and assistant entries plus the flattened training text.
func (t *Transformer) TransformToConversationFormat(record model.Record) (model.Record, error) {
	systemPrompt := orDefault(t.template.SystemPrompt, defaultSystemPrompt)
	userPrefix := orDefault(t.template.UserPrefix, "User: ")
	assistantPrefix := orDefault(t.template.AssistantPrefix, "Assistant: ")

	userContent := firstNonEmpty(record, userFields)
	assistantContent := firstNonEmpty(record, assistantFields)

	messages := []interface{}{
		map[string]interface{}{"role": "system", "content": systemPrompt},
	}
	if userContent != "" {
		messages = append(messages, map[string]interface{}{"role": "user", "content": userContent})
	}
	if assistantContent != "" {
		messages = append(messages, map[string]interface{}{"role": "assistant", "content": assistantContent})
	}

	formattedText := systemPrompt + "\n\n"
	if userContent != "" {
		formattedText += userPrefix + userContent + "\n\n"
	}
	if assistantContent != "" {
		formattedText += assistantPrefix + assistantContent
	}

	return model.Record{
		"messages": messages,
		"text":     formattedText,
	}, nil
}

// TransformToCompletionFormat produces a prompt/completion pair; the text
// field is the direct concatenation with no separator.
func (t *Transformer) TransformToCompletionFormat(record model.Record) (model.Record, error) {
	prompt := firstNonEmpty(record, promptFields)
	completion := firstNonEmpty(record, completionFields)

	return model.Record{
		"prompt":     prompt,
		"completion": completion,
		"text":       prompt + completion,
	}, nil
}

// TransformRecord transforms a single record based on the output format.
// An unrecognized format passes the record through unchanged.
func (t *Transformer) TransformRecord(record model.Record) (model.Record, error) {
	switch t.OutputFormat {
	case "instruction":
		return t.TransformToInstructionFormat(record)
	case "conversation":
		return t.TransformToConversationFormat(record)
	case "completion":
		return t.TransformToCompletionFormat(record)
	default:
		t.logger.Warn("Unknown output format, returning record as-is",
			zap.String("format", t.OutputFormat))
		// copy so the passthrough still produces a new record per stage
		return record.Clone(), nil
	}
}

// TransformDataset transforms every record; a record that fails to transform
// is dropped with a warning and processing continues.
func (t *Transformer) TransformDataset(data []model.Record) []model.Record {
	t.logger.Info("Transforming records",
		zap.Int("count", len(data)),
		zap.String("format", t.OutputFormat))

	transformedData := make([]model.Record, 0, len(data))

	for _, record := range data {
		transformedRecord, err := t.TransformRecord(record)
		if err != nil {
			t.logger.Warn("Error transforming record", zap.Error(err))
			continue
		}
		transformedData = append(transformedData, transformedRecord)
	}

	t.logger.Info("Transformed records", zap.Int("count", len(transformedData)))

	return transformedData
}
