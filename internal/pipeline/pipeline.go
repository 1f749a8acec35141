package pipeline

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"finetune-data-pipeline/internal/config"
	"finetune-data-pipeline/internal/model"
	"finetune-data-pipeline/pkg/utils"
)

// Orchestrator sequences the pipeline stages:
// ingest -> clean -> transform -> validate -> split+write.
// Each stage consumes the full output of the previous one; there is no
// shared state across runs.
type Orchestrator struct {
	cfg         *config.Config
	ingestor    *Ingestor
	cleaner     *Cleaner
	transformer *Transformer
	validator   *Validator
	logger      *zap.Logger
}

// NewOrchestrator wires the pipeline components from the configuration.
func NewOrchestrator(cfg *config.Config, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:         cfg,
		ingestor:    NewIngestor(cfg.Pipeline.SupportedFormats, logger),
		cleaner:     NewCleaner(cfg.Pipeline.MinTextLength, cfg.Pipeline.MaxTextLength, logger),
		transformer: NewTransformer(cfg.Transformation, logger),
		validator:   NewValidator(cfg.Validation.RequiredFields, logger),
		logger:      logger,
	}
}

// Run executes the complete pipeline on a file or directory and returns the
// accumulated execution report. On an unrecoverable stage error the report is
// marked failed and the error is returned alongside it.
func (o *Orchestrator) Run(inputPath, outputPath string) (*model.RunReport, error) {
	o.logger.Info("Starting data pipeline run", zap.String("input", inputPath))

	report := &model.RunReport{
		RunID:  uuid.NewString(),
		Status: "running",
	}

	if err := o.runStages(report, inputPath, outputPath); err != nil {
		report.Status = "failed"
		report.Error = err.Error()
		o.logger.Error("Pipeline failed", zap.Error(err))
		return report, err
	}

	report.Status = "success"
	return report, nil
}

func (o *Orchestrator) runStages(report *model.RunReport, inputPath, outputPath string) error {
	// Stage 1: Data Ingestion
	o.logger.Info("[Stage 1] Data Ingestion")

	info, err := os.Stat(inputPath)
	if err != nil {
		return fmt.Errorf("input path does not exist: %s: %w", inputPath, err)
	}

	var data []model.Record
	if info.IsDir() {
		data, err = o.ingestor.LoadFromDirectory(inputPath, "*")
	} else {
		data, err = o.ingestor.Load(inputPath)
	}
	if err != nil {
		return err
	}

	report.Stages.Ingestion = &model.IngestionReport{
		RecordsLoaded: len(data),
		Status:        "success",
	}
	o.logger.Info("Loaded records", zap.Int("count", len(data)))

	// Stage 2: Data Cleaning
	o.logger.Info("[Stage 2] Data Cleaning")

	data = o.cleaner.CleanDataset(data)

	if o.cfg.Validation.CheckDuplicates {
		data = o.cleaner.RemoveDuplicates(data, nil)
	}
	if o.cfg.Validation.CheckEmptyFields && len(o.cfg.Validation.RequiredFields) > 0 {
		data = o.cleaner.RemoveEmptyFields(data, o.cfg.Validation.RequiredFields)
	}

	report.Stages.Cleaning = &model.CleaningReport{
		RecordsAfterCleaning: len(data),
		Status:               "success",
	}
	o.logger.Info("Cleaned dataset", zap.Int("count", len(data)))

	// Stage 3: Data Transformation
	o.logger.Info("[Stage 3] Data Transformation")

	data = o.transformer.TransformDataset(data)

	report.Stages.Transformation = &model.TransformationReport{
		RecordsTransformed: len(data),
		OutputFormat:       o.cfg.Transformation.OutputFormat,
		Status:             "success",
	}

	// Stage 4: Data Validation
	o.logger.Info("[Stage 4] Data Validation")

	validData, invalidData := o.validator.ValidateDataset(data)

	report.Stages.Validation = &model.ValidationReport{
		ValidRecords:   len(validData),
		InvalidRecords: len(invalidData),
		Status:         "success",
	}

	// Quality report is computed over the valid records only.
	report.QualityReport = o.validator.GenerateQualityReport(validData)

	// Stage 5: Saving Output
	o.logger.Info("[Stage 5] Saving Output")

	if outputPath == "" {
		outputPath = o.cfg.Data.OutputDataDir
	}

	om := utils.NewOutputManager(outputPath)
	if err := om.EnsureOutputDirExists(); err != nil {
		return err
	}

	trainData, valData := SplitDataset(
		validData,
		o.cfg.Output.TrainSplit,
		o.cfg.Output.ValSplit,
		o.cfg.Output.Shuffle,
		o.cfg.Output.Seed,
	)

	trainFile := om.FilePath("train.jsonl")
	valFile := om.FilePath("val.jsonl")

	if err := WriteJSONL(trainData, trainFile); err != nil {
		return err
	}
	if err := WriteJSONL(valData, valFile); err != nil {
		return err
	}

	trainBytes, _ := om.FileSize(trainFile)
	valBytes, _ := om.FileSize(valFile)
	o.logger.Info("Saved training records",
		zap.Int("count", len(trainData)),
		zap.String("file", trainFile),
		zap.Int64("bytes", trainBytes))
	o.logger.Info("Saved validation records",
		zap.Int("count", len(valData)),
		zap.String("file", valFile),
		zap.Int64("bytes", valBytes))

	report.Stages.Output = &model.OutputReport{
		TrainRecords: len(trainData),
		ValRecords:   len(valData),
		TrainFile:    trainFile,
		ValFile:      valFile,
		Status:       "success",
	}

	report.FinalStats = &model.FinalStats{
		TotalProcessed: len(data),
		TotalValid:     len(validData),
		TotalInvalid:   len(invalidData),
		TrainSize:      len(trainData),
		ValSize:        len(valData),
	}

	o.logger.Info("Pipeline execution complete",
		zap.Int("total_processed", len(data)),
		zap.Int("valid", len(validData)),
		zap.Int("train", len(trainData)),
		zap.Int("val", len(valData)))

	return nil
}
