package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"finetune-data-pipeline/internal/config"
	"finetune-data-pipeline/internal/pipeline"
)

func main() {
	inputPath := flag.String("input", "", "path to input data file or directory (required)")
	outputPath := flag.String("output", "", "path to output directory (default: from config)")
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *inputPath == "" {
		logger.Error("Missing required -input flag")
		flag.Usage()
		os.Exit(1)
	}

	if _, err := os.Stat(*inputPath); err != nil {
		logger.Error("Input path does not exist", zap.String("path", *inputPath))
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("Failed to load config", zap.Error(err))
		os.Exit(1)
	}

	orchestrator := pipeline.NewOrchestrator(cfg, logger)
	report, err := orchestrator.Run(*inputPath, *outputPath)
	if err != nil {
		logger.Error("Pipeline execution failed", zap.Error(err))
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("================================================================================")
	fmt.Println("PIPELINE SUMMARY")
	fmt.Println("================================================================================")
	fmt.Printf("Total processed: %d\n", report.FinalStats.TotalProcessed)
	fmt.Printf("Valid records: %d\n", report.FinalStats.TotalValid)
	fmt.Printf("Training set: %d\n", report.FinalStats.TrainSize)
	fmt.Printf("Validation set: %d\n", report.FinalStats.ValSize)
	fmt.Println("\nOutput files:")
	fmt.Printf("  - %s\n", report.Stages.Output.TrainFile)
	fmt.Printf("  - %s\n", report.Stages.Output.ValFile)
	fmt.Println("================================================================================")
}
