package pipeline

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"finetune-data-pipeline/internal/model"
)

// SplitDataset splits records into train and validation sets. With shuffle
// enabled the slice is shuffled in place by a generator seeded with the
// configured seed, so the split is reproducible for the same seed and input
// order. Both split sizes are computed from the original length, so train+val
// can be smaller than the input when the ratios do not sum to 1.
func SplitDataset(data []model.Record, trainSplit, valSplit float64, shuffle bool, seed int64) ([]model.Record, []model.Record) {
	if shuffle {
		rng := rand.New(rand.NewSource(seed))
		rng.Shuffle(len(data), func(i, j int) {
			data[i], data[j] = data[j], data[i]
		})
	}

	splitIdx := int(float64(len(data)) * trainSplit)
	if splitIdx > len(data) {
		splitIdx = len(data)
	}
	valEnd := splitIdx + int(float64(len(data))*valSplit)
	if valEnd > len(data) {
		valEnd = len(data)
	}

	return data[:splitIdx], data[splitIdx:valEnd]
}

// WriteJSONL writes records to a newline-delimited JSON file, one object per
// line, no array wrapper.
func WriteJSONL(data []model.Record, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", filePath, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	for _, record := range data {
		if err := encoder.Encode(record); err != nil {
			return fmt.Errorf("failed to write record to %s: %w", filePath, err)
		}
	}

	return nil
}
