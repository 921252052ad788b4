package core

import (
	"math"
	"testing"
)

func TestVec2Arithmetic(t *testing.T) {
	a := V(3, 4)
	b := V(1, -2)

	if got := a.Add(b); got != V(4, 2) {
		t.Errorf("Add() = %v, expected (4, 2)", got)
	}
	if got := a.Sub(b); got != V(2, 6) {
		t.Errorf("Sub() = %v, expected (2, 6)", got)
	}
	if got := a.Scale(2); got != V(6, 8) {
		t.Errorf("Scale() = %v, expected (6, 8)", got)
	}
	if got := a.DistSq(b); got != 40 {
		t.Errorf("DistSq() = %v, expected 40", got)
	}
}

func TestCirclesOverlap(t *testing.T) {
	tests := []struct {
		name     string
		b        Vec2
		ratio    float64
		expected bool
	}{
		{"touching at full ratio", V(40, 0), 1, true},
		{"touching at lenient ratio", V(40, 0), 0.9, false},
		{"inside lenient reach", V(36, 0), 0.9, true},
		{"diagonal just outside", V(30, 30), 1, false},
		{"same centre", V(0, 0), 0.9, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CirclesOverlap(V(0, 0), 20, tc.b, 20, tc.ratio); got != tc.expected {
				t.Errorf("CirclesOverlap() = %v, expected %v (distance %v)", got, tc.expected, math.Hypot(tc.b.X, tc.b.Y))
			}
		})
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-90, -85, 85, -85},
		{90, -85, 85, 85},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}
