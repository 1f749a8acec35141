package model

// IngestionReport holds counts for the ingestion stage.
type IngestionReport struct {
	RecordsLoaded int    `json:"records_loaded"`
	Status        string `json:"status"`
}

// CleaningReport holds counts for the cleaning stage.
type CleaningReport struct {
	RecordsAfterCleaning int    `json:"records_after_cleaning"`
	Status               string `json:"status"`
}

// TransformationReport holds counts for the transformation stage.
type TransformationReport struct {
	RecordsTransformed int    `json:"records_transformed"`
	OutputFormat       string `json:"output_format"`
	Status             string `json:"status"`
}

// ValidationReport holds counts for the validation stage.
type ValidationReport struct {
	ValidRecords   int    `json:"valid_records"`
	InvalidRecords int    `json:"invalid_records"`
	Status         string `json:"status"`
}

// OutputReport holds counts and file paths for the output stage.
type OutputReport struct {
	TrainRecords int    `json:"train_records"`
	ValRecords   int    `json:"val_records"`
	TrainFile    string `json:"train_file"`
	ValFile      string `json:"val_file"`
	Status       string `json:"status"`
}

// StageReports groups the per-stage sub-reports of a run.
type StageReports struct {
	Ingestion      *IngestionReport      `json:"ingestion,omitempty"`
	Cleaning       *CleaningReport       `json:"cleaning,omitempty"`
	Transformation *TransformationReport `json:"transformation,omitempty"`
	Validation     *ValidationReport     `json:"validation,omitempty"`
	Output         *OutputReport         `json:"output,omitempty"`
}

// FinalStats summarizes a completed run.
type FinalStats struct {
	TotalProcessed int `json:"total_processed"`
	TotalValid     int `json:"total_valid"`
	TotalInvalid   int `json:"total_invalid"`
	TrainSize      int `json:"train_size"`
	ValSize        int `json:"val_size"`
}

// RunReport is the structured execution report accumulated across all stages
// of a pipeline run and returned to the caller.
type RunReport struct {
	RunID         string         `json:"run_id"`
	Stages        StageReports   `json:"stages"`
	QualityReport *QualityReport `json:"quality_report,omitempty"`
	FinalStats    *FinalStats    `json:"final_stats,omitempty"`
	Status        string         `json:"status"`
	Error         string         `json:"error,omitempty"`
}

// FieldStats describes the field-name set observed over a dataset.
type FieldStats struct {
	TotalUniqueFields int      `json:"total_unique_fields"`
	FieldNames        []string `json:"field_names"`
}

// TextLengthStats describes the distribution of string-value lengths across
// all records and fields of a dataset.
type TextLengthStats struct {
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Avg    float64 `json:"avg"`
	Median int     `json:"median"`
}

// ValidationStats holds the validity and duplicate counts of a dataset.
type ValidationStats struct {
	ValidCount     int     `json:"valid_count"`
	InvalidCount   int     `json:"invalid_count"`
	ValidityRate   float64 `json:"validity_rate"`
	DuplicateCount int     `json:"duplicate_count"`
	UniqueCount    int     `json:"unique_count"`
}

// QualityReport is an aggregate snapshot over a dataset at one point in time.
type QualityReport struct {
	TotalRecords    int              `json:"total_records"`
	Fields          FieldStats       `json:"fields"`
	TextLengthStats *TextLengthStats `json:"text_length_stats,omitempty"`
	Validation      ValidationStats  `json:"validation"`
}

// InvalidRecord pairs an invalid record with its original index and the
// validation errors that rejected it.
type InvalidRecord struct {
	RecordIndex int      `json:"record_index"`
	Record      Record   `json:"record"`
	Errors      []string `json:"errors"`
}
