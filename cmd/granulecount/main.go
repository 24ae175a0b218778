// Command granulecount estimates the granule count of a single
// photograph using a trained boundary model.
//
// Usage: granulecount <model.json> <image>
package main

import (
	"fmt"
	"image"
	"os"

	"granule-counter/internal/count"
	"granule-counter/internal/features"
	"granule-counter/internal/regress"
	"granule-counter/internal/segment"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <model.json> <image>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nPredicts the unit-area window for the image and counts granules.\n")
		os.Exit(1)
	}

	model, err := regress.Load(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading model: %v\n", err)
		os.Exit(1)
	}

	file, err := os.Open(os.Args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening image: %v\n", err)
		os.Exit(1)
	}
	img, _, err := image.Decode(file)
	file.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding image: %v\n", err)
		os.Exit(1)
	}

	stats, areas, err := segment.Extract(img)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error extracting components: %v\n", err)
		os.Exit(1)
	}

	l, r := model.Predict(features.Build(stats))
	fmt.Printf("Predicted unit-area window: (%.1f, %.1f]\n", l, r)

	n, err := count.Estimate(areas, l, r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "No component falls in the predicted window; cannot estimate\n")
		os.Exit(1)
	}
	fmt.Printf("Estimated granule count: %d\n", n)
}
