package dataset

import (
	"image"
	"log"
	"runtime"
	"sync"

	"granule-counter/internal/bounds"
	"granule-counter/internal/features"
	"granule-counter/internal/segment"
)

// ImageSource maps an image identifier to its decoded raw image.
type ImageSource interface {
	ReadImage(id int) (image.Image, error)
}

// ExtractFunc produces component statistics and an Area Vector from a
// raw image. The default is segment.Extract.
type ExtractFunc func(image.Image) ([]segment.Stats, []int, error)

// Example is one assembled training example.
type Example struct {
	ImageID  int
	Features []float64
	Bounds   bounds.Result
}

// Dataset is the assembled training matrix plus the held-out examples.
type Dataset struct {
	TrainFeatures [][]float64
	TrainLabels   [][2]float64
	TrainIDs      []int
	HeldOut       []Example
}

// Assembler builds training examples from labeled rows. Images are
// processed concurrently; each image's work touches only its own data,
// so the only coordination is collecting results in row order.
type Assembler struct {
	Source  ImageSource
	Extract ExtractFunc
	Workers int
}

// NewAssembler returns an Assembler using the real extraction pipeline
// and one worker per CPU.
func NewAssembler(src ImageSource) *Assembler {
	return &Assembler{
		Source:  src,
		Extract: segment.Extract,
		Workers: runtime.NumCPU(),
	}
}

// Assemble builds one Example per row, then partitions by identifier
// into training rows and held-out rows. Per-image failures are logged
// and skipped; they never abort the batch. The returned slices are in
// row order regardless of worker scheduling.
func (a *Assembler) Assemble(rows []Row, testIDs []int) *Dataset {
	results := make([]*Example, len(rows))

	workers := a.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				ex, err := a.buildExample(rows[i])
				if err != nil {
					log.Printf("skipping image %d: %v", rows[i].ImageID, err)
					continue
				}
				results[i] = ex
			}
		}()
	}
	for i := range rows {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	held := make(map[int]bool, len(testIDs))
	for _, id := range testIDs {
		held[id] = true
	}

	ds := &Dataset{}
	for _, ex := range results {
		if ex == nil {
			continue
		}
		if held[ex.ImageID] {
			ds.HeldOut = append(ds.HeldOut, *ex)
			continue
		}
		ds.TrainFeatures = append(ds.TrainFeatures, ex.Features)
		ds.TrainLabels = append(ds.TrainLabels, [2]float64{ex.Bounds.L, ex.Bounds.R})
		ds.TrainIDs = append(ds.TrainIDs, ex.ImageID)
	}
	return ds
}

// buildExample runs the per-image pipeline: extract the Area Vector,
// brute-force the boundary, then re-read and re-extract for the
// wide-range statistics the feature histogram is built from. The second
// read is deliberate; the feature distribution is decoupled from the
// boundary being searched.
func (a *Assembler) buildExample(row Row) (*Example, error) {
	img, err := a.Source.ReadImage(row.ImageID)
	if err != nil {
		return nil, err
	}
	_, areas, err := a.Extract(img)
	if err != nil {
		return nil, err
	}

	best := bounds.Search(areas, row.PropCount)

	img, err = a.Source.ReadImage(row.ImageID)
	if err != nil {
		return nil, err
	}
	stats, _, err := a.Extract(img)
	if err != nil {
		return nil, err
	}

	return &Example{
		ImageID:  row.ImageID,
		Features: features.Build(stats),
		Bounds:   best,
	}, nil
}
