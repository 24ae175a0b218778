package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAreasDropsBackground(t *testing.T) {
	stats := []Stats{
		{Left: 0, Top: 0, Width: 640, Height: 480, Area: 300000}, // background
		{Left: 10, Top: 12, Width: 8, Height: 9, Area: 52},
		{Left: 40, Top: 80, Width: 20, Height: 18, Area: 310},
	}

	assert.Equal(t, []int{52, 310}, Areas(stats))
}

func TestAreasBackgroundOnly(t *testing.T) {
	stats := []Stats{{Width: 640, Height: 480, Area: 307200}}
	areas := Areas(stats)
	if areas == nil {
		t.Fatal("Areas returned nil, want empty slice")
	}
	if len(areas) != 0 {
		t.Errorf("Areas returned %d entries, want 0", len(areas))
	}
}

func TestAreasEmpty(t *testing.T) {
	if got := Areas(nil); len(got) != 0 {
		t.Errorf("Areas(nil) returned %d entries, want 0", len(got))
	}
}
