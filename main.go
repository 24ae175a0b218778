// Command granule-counter runs the full training pipeline: it loads the
// hand-marked label table, brute-forces per-image boundary pairs,
// builds area-histogram features, fits the boundary regressor and
// writes the model artifact.
package main

import (
	"log"
	"os"

	"granule-counter/internal/dataset"
	"granule-counter/internal/imageprep"
	"granule-counter/internal/regress"
)

const (
	defaultLabelsPath = "data/labels/labels_hand_marked.csv"
	defaultImagesDir  = "data/images"
	defaultModelPath  = "counter_model.json"
)

// Index-artifact columns accumulated by repeated table edits.
var dropColumns = []string{"Unnamed: 0", "Unnamed: 0.1", "Unnamed: 0.1.1"}

// Images excluded from training entirely: known-bad shots plus the
// 905-999 block.
var dropImageIDs = buildDropIDs()

// Images held out for evaluation. Applied by identifier so upstream
// filtering can never leak them into training.
var testImageIDs = []int{776, 675, 42, 3, 714, 312, 127, 653, 592, 205, 179, 191}

func buildDropIDs() []int {
	ids := []int{104, 908, 906, 907, 905, 904}
	for id := 905; id < 1000; id++ {
		ids = append(ids, id)
	}
	return ids
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	labelsPath := defaultLabelsPath
	imagesDir := defaultImagesDir
	modelPath := defaultModelPath
	if len(os.Args) > 1 {
		labelsPath = os.Args[1]
	}
	if len(os.Args) > 2 {
		imagesDir = os.Args[2]
	}
	if len(os.Args) > 3 {
		modelPath = os.Args[3]
	}

	rows, err := dataset.ReadTable(labelsPath, dropColumns, dropImageIDs)
	if err != nil {
		log.Fatalf("Failed to load labels: %v", err)
	}
	log.Printf("Loaded %d labeled images from %s", len(rows), labelsPath)

	assembler := dataset.NewAssembler(imageprep.NewSource(imagesDir))
	ds := assembler.Assemble(rows, testImageIDs)
	log.Printf("Assembled %d training examples (%d held out)", len(ds.TrainIDs), len(ds.HeldOut))

	model, err := regress.Train(ds.TrainFeatures, ds.TrainLabels, regress.DefaultOptions())
	if err != nil {
		log.Fatalf("Training failed: %v", err)
	}

	if err := model.Save(modelPath); err != nil {
		log.Fatalf("Failed to save model: %v", err)
	}
	log.Printf("Wrote model to %s", modelPath)
}
