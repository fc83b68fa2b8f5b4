package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillZeros_LeftPads(t *testing.T) {
	in := []Series{
		{Name: "Go", Data: []float64{1, 2, 3, 4}},
		{Name: "Rust", Data: []float64{5, 6}},
		{Name: "Zig", Data: nil},
	}

	got := FillZeros(in)

	require.Len(t, got, 3)
	assert.Equal(t, []float64{1, 2, 3, 4}, got[0].Data)
	assert.Equal(t, []float64{0, 0, 5, 6}, got[1].Data)
	assert.Equal(t, []float64{0, 0, 0, 0}, got[2].Data)
	assert.Equal(t, "Rust", got[1].Name)
}

func TestFillZeros_DoesNotMutateInput(t *testing.T) {
	in := []Series{
		{Name: "Go", Data: []float64{1, 2}},
		{Name: "Rust", Data: []float64{3}},
	}

	_ = FillZeros(in)

	assert.Equal(t, []float64{3}, in[1].Data)
}

func TestFillZeros_EqualLengths(t *testing.T) {
	in := []Series{
		{Name: "a", Data: []float64{1}},
		{Name: "b", Data: []float64{0, 7, 0}},
		{Name: "c", Data: []float64{9, 8}},
	}

	got := FillZeros(in)

	for _, s := range got {
		assert.Len(t, s.Data, 3, s.Name)
	}
	assert.Equal(t, []float64{0, 7, 0}, got[1].Data)
	assert.Equal(t, []float64{0, 9, 8}, got[2].Data)
}

func TestFillZeros_Empty(t *testing.T) {
	assert.Empty(t, FillZeros(nil))
}
