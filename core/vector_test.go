package core

import (
	"math"
	"testing"
)

func TestNormalizeVector(t *testing.T) {
	tests := []struct {
		name  string
		input []float32
	}{
		{name: "simple vector", input: []float32{3, 4}},
		{name: "unit vector", input: []float32{1, 0, 0}},
		{name: "negative components", input: []float32{-2, 5, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeVector(tt.input)

			if len(result) != len(tt.input) {
				t.Fatalf("NormalizeVector() length = %d, want %d", len(result), len(tt.input))
			}

			var magnitude float64
			for _, v := range result {
				magnitude += float64(v) * float64(v)
			}
			magnitude = math.Sqrt(magnitude)

			if math.Abs(magnitude-1.0) > 1e-5 {
				t.Errorf("NormalizeVector() magnitude = %f, want 1.0", magnitude)
			}
		})
	}
}

func TestNormalizeVector_ZeroVector(t *testing.T) {
	result := NormalizeVector([]float32{0, 0, 0})
	for i, v := range result {
		if v != 0 {
			t.Errorf("NormalizeVector(zero)[%d] = %f, want 0", i, v)
		}
	}
}

func TestNormalizeVector_Empty(t *testing.T) {
	if result := NormalizeVector(nil); len(result) != 0 {
		t.Errorf("NormalizeVector(nil) = %v, want empty", result)
	}
}

func TestNormalizeVector_DoesNotMutateInput(t *testing.T) {
	input := []float32{3, 4}
	NormalizeVector(input)
	if input[0] != 3 || input[1] != 4 {
		t.Errorf("NormalizeVector() mutated input: %v", input)
	}
}

func TestDotProduct(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float32
	}{
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "identical unit", a: []float32{1, 0}, b: []float32{1, 0}, want: 1},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1},
		{name: "mismatched lengths", a: []float32{1, 2, 3}, b: []float32{1, 1}, want: 3},
		{name: "empty", a: nil, b: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DotProduct(tt.a, tt.b); got != tt.want {
				t.Errorf("DotProduct() = %f, want %f", got, tt.want)
			}
		})
	}
}
