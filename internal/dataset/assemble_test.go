package dataset

import (
	"fmt"
	"image"
	"reflect"
	"testing"

	"granule-counter/internal/bounds"
	"granule-counter/internal/segment"
)

// fakeSource hands out tiny placeholder images; the fake extractor
// keys off the identifier instead, encoded as the image width.
type fakeSource struct {
	areas map[int][]int
}

func (s *fakeSource) ReadImage(id int) (image.Image, error) {
	if _, ok := s.areas[id]; !ok {
		return nil, fmt.Errorf("no image %d", id)
	}
	return image.NewNRGBA(image.Rect(0, 0, id, 1)), nil
}

func (s *fakeSource) extract(img image.Image) ([]segment.Stats, []int, error) {
	id := img.Bounds().Dx()
	areas := s.areas[id]
	stats := []segment.Stats{{Area: 300000}}
	for _, a := range areas {
		stats = append(stats, segment.Stats{Area: a})
	}
	return stats, areas, nil
}

func newFakeAssembler(src *fakeSource, workers int) *Assembler {
	return &Assembler{Source: src, Extract: src.extract, Workers: workers}
}

func TestAssemblePartitionsByIdentifier(t *testing.T) {
	src := &fakeSource{areas: map[int][]int{
		10: {50, 52, 55},
		11: {48, 51},
		12: {60, 61, 300},
		13: {52},
	}}
	rows := []Row{
		{ImageID: 10, PropCount: 3},
		{ImageID: 11, PropCount: 2},
		{ImageID: 12, PropCount: 7},
		{ImageID: 13, PropCount: 1},
	}

	ds := newFakeAssembler(src, 2).Assemble(rows, []int{11, 13})

	if got, want := ds.TrainIDs, []int{10, 12}; !reflect.DeepEqual(got, want) {
		t.Errorf("TrainIDs = %v, want %v", got, want)
	}
	if len(ds.HeldOut) != 2 {
		t.Fatalf("held out %d examples, want 2", len(ds.HeldOut))
	}

	heldIDs := map[int]bool{}
	for _, ex := range ds.HeldOut {
		heldIDs[ex.ImageID] = true
	}
	for _, id := range ds.TrainIDs {
		if heldIDs[id] {
			t.Errorf("identifier %d is both trained and held out", id)
		}
	}

	for i, lab := range ds.TrainLabels {
		if lab[0] != bounds.FixedLower {
			t.Errorf("label %d has l = %v, want %v", i, lab[0], bounds.FixedLower)
		}
	}
}

func TestAssembleContainsPerImageFailures(t *testing.T) {
	src := &fakeSource{areas: map[int][]int{20: {50, 52}}}
	rows := []Row{
		{ImageID: 20, PropCount: 2},
		{ImageID: 99, PropCount: 5}, // unreadable image
	}

	ds := newFakeAssembler(src, 1).Assemble(rows, nil)

	if got, want := ds.TrainIDs, []int{20}; !reflect.DeepEqual(got, want) {
		t.Errorf("TrainIDs = %v, want %v", got, want)
	}
}

func TestAssembleDegenerateImage(t *testing.T) {
	src := &fakeSource{areas: map[int][]int{30: {}}}

	ds := newFakeAssembler(src, 1).Assemble([]Row{{ImageID: 30, PropCount: 4}}, nil)

	if len(ds.TrainIDs) != 1 {
		t.Fatalf("degenerate image dropped; TrainIDs = %v", ds.TrainIDs)
	}
	if got := ds.TrainLabels[0]; got != [2]float64{bounds.FixedLower, bounds.FixedLower + bounds.GridStep} {
		t.Errorf("labels = %v, want first grid window", got)
	}
	for i, v := range ds.TrainFeatures[0] {
		if v != 0 {
			t.Errorf("feature bin %d = %v, want 0", i, v)
		}
	}
}

func TestAssembleIdempotent(t *testing.T) {
	src := &fakeSource{areas: map[int][]int{
		10: {50, 52, 55}, 11: {48, 51}, 12: {60, 61, 300}, 13: {52}, 14: {400, 30},
	}}
	rows := []Row{
		{ImageID: 10, PropCount: 3}, {ImageID: 11, PropCount: 2},
		{ImageID: 12, PropCount: 7}, {ImageID: 13, PropCount: 1},
		{ImageID: 14, PropCount: 9},
	}

	ds1 := newFakeAssembler(src, 4).Assemble(rows, []int{12})
	ds2 := newFakeAssembler(src, 4).Assemble(rows, []int{12})

	if !reflect.DeepEqual(ds1, ds2) {
		t.Error("two assemblies on identical inputs differ")
	}
}
