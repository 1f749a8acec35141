package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PipelineConfig holds ingestion and cleaning limits.
type PipelineConfig struct {
	SupportedFormats []string `yaml:"supported_formats"`
	MinTextLength    int      `yaml:"min_text_length"`
	MaxTextLength    int      `yaml:"max_text_length"`
}

// TemplateConfig holds the prompt templates for one output format.
type TemplateConfig struct {
	SystemPrompt      string `yaml:"system_prompt"`
	InstructionPrefix string `yaml:"instruction_prefix"`
	ResponsePrefix    string `yaml:"response_prefix"`
	UserPrefix        string `yaml:"user_prefix"`
	AssistantPrefix   string `yaml:"assistant_prefix"`
}

// TransformationConfig selects the output format and its templates.
type TransformationConfig struct {
	OutputFormat         string         `yaml:"output_format"`
	InstructionTemplate  TemplateConfig `yaml:"instruction_template"`
	ConversationTemplate TemplateConfig `yaml:"conversation_template"`
}

// ValidationConfig holds required fields and optional cleaning sub-steps.
type ValidationConfig struct {
	RequiredFields   []string `yaml:"required_fields"`
	CheckDuplicates  bool     `yaml:"check_duplicates"`
	CheckEmptyFields bool     `yaml:"check_empty_fields"`
}

// DataConfig names the data directories the pipeline works with.
type DataConfig struct {
	RawDataDir       string `yaml:"raw_data_dir"`
	ProcessedDataDir string `yaml:"processed_data_dir"`
	OutputDataDir    string `yaml:"output_data_dir"`
	SampleDataDir    string `yaml:"sample_data_dir"`
}

// OutputConfig controls the train/validation split.
type OutputConfig struct {
	TrainSplit float64 `yaml:"train_split"`
	ValSplit   float64 `yaml:"val_split"`
	Shuffle    bool    `yaml:"shuffle"`
	Seed       int64   `yaml:"seed"`
}

// Config holds the application's configuration. It is read once at startup
// and never mutated.
type Config struct {
	Pipeline       PipelineConfig       `yaml:"pipeline"`
	Transformation TransformationConfig `yaml:"transformation"`
	Validation     ValidationConfig     `yaml:"validation"`
	Data           DataConfig           `yaml:"data"`
	Output         OutputConfig         `yaml:"output"`
}

// defaults returns a config pre-populated with the documented defaults.
// Decoding YAML on top of it means absent keys keep these values while
// explicit keys, including explicit false, override them.
func defaults() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			SupportedFormats: []string{"json", "jsonl", "csv", "txt"},
			MinTextLength:    10,
			MaxTextLength:    5000,
		},
		Transformation: TransformationConfig{
			OutputFormat: "instruction",
		},
		Validation: ValidationConfig{
			CheckDuplicates:  true,
			CheckEmptyFields: true,
		},
		Data: DataConfig{
			RawDataDir:       "data/raw",
			ProcessedDataDir: "data/processed",
			OutputDataDir:    "data/output",
			SampleDataDir:    "data/sample",
		},
		Output: OutputConfig{
			TrainSplit: 0.8,
			ValSplit:   0.2,
			Shuffle:    true,
			Seed:       42,
		},
	}
}

// Load reads configuration from the specified YAML file. A missing file is a
// hard error. As a side effect it creates the configured data directories if
// they do not exist yet.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %s: %w", configPath, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	for _, dir := range []string{
		cfg.Data.RawDataDir,
		cfg.Data.ProcessedDataDir,
		cfg.Data.OutputDataDir,
		cfg.Data.SampleDataDir,
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
		}
	}

	return cfg, nil
}
