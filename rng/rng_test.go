package rng

import (
	"math"
	"testing"
)

func TestSameSeedSameStream(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		if x, y := a.Normal(0, 1), b.Normal(0, 1); x != y {
			t.Fatalf("draw %d differs: %v vs %v", i, x, y)
		}
		if x, y := a.Uniform(-3, 3), b.Uniform(-3, 3); x != y {
			t.Fatalf("uniform draw %d differs: %v vs %v", i, x, y)
		}
	}
}

func TestUniformRange(t *testing.T) {
	r := New(7)
	for i := 0; i < 10000; i++ {
		v := r.Uniform(2, 5)
		if v < 2 || v >= 5 {
			t.Fatalf("Uniform(2, 5) = %v out of range", v)
		}
	}
}

func TestNormalZeroStd(t *testing.T) {
	r := New(1)
	for i := 0; i < 10; i++ {
		if v := r.Normal(0.25, 0); v != 0.25 {
			t.Fatalf("Normal(0.25, 0) = %v, want exactly 0.25", v)
		}
	}
}

func TestNormalMoments(t *testing.T) {
	r := New(3)
	const n = 20000
	var sum, sumSq float64
	for i := 0; i < n; i++ {
		v := r.Normal(10, 2)
		sum += v
		sumSq += v * v
	}
	mean := sum / n
	std := math.Sqrt(sumSq/n - mean*mean)
	if math.Abs(mean-10) > 0.1 {
		t.Errorf("mean = %v, want ~10", mean)
	}
	if math.Abs(std-2) > 0.1 {
		t.Errorf("std = %v, want ~2", std)
	}
}
