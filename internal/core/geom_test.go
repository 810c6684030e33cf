package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside right", 35, 15, false},
		{"outside top", 15, 5, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := r.Contains(tc.x, tc.y)
			if result != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, result, tc.expected)
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

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestVecOps(t *testing.T) {
	a := V(3, 4)
	b := V(1, 1)

	if got := a.Add(b); got != V(4, 5) {
		t.Errorf("Add() = %v, expected (4, 5)", got)
	}
	if got := a.Sub(b); got != V(2, 3) {
		t.Errorf("Sub() = %v, expected (2, 3)", got)
	}
	if got := a.Mul(2); got != V(6, 8) {
		t.Errorf("Mul() = %v, expected (6, 8)", got)
	}
	if got := a.Len(); got != 5 {
		t.Errorf("Len() = %f, expected 5", got)
	}
	if got := V(0, 0).Lerp(V(10, 20), 0.5); got != V(5, 10) {
		t.Errorf("Lerp() = %v, expected (5, 10)", got)
	}
}

func TestBoxIntersect(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Box
		expected Box
		empty    bool
	}{
		{"overlap", Box{0, 0, 10, 10}, Box{5, 5, 10, 10}, Box{5, 5, 5, 5}, false},
		{"contained", Box{-5, -5, 30, 30}, Box{0, 0, 10, 10}, Box{0, 0, 10, 10}, false},
		{"disjoint", Box{0, 0, 10, 10}, Box{20, 0, 10, 10}, Box{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.a.Intersect(tc.b)
			if got.Empty() != tc.empty {
				t.Errorf("Intersect().Empty() = %v, expected %v", got.Empty(), tc.empty)
			}
			if !tc.empty && got != tc.expected {
				t.Errorf("Intersect() = %+v, expected %+v", got, tc.expected)
			}
		})
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in       string
		expected RGB
		ok       bool
	}{
		{"#ff8000", RGB{255, 128, 0}, true},
		{"0a0b0c", RGB{10, 11, 12}, true},
		{"#fff", RGB{255, 255, 255}, true},
		{"", Black, false},
		{"#12345", Black, false},
		{"#zzzzzz", Black, false},
	}

	for _, tc := range tests {
		got, ok := ParseHex(tc.in)
		if ok != tc.ok || got != tc.expected {
			t.Errorf("ParseHex(%q) = %v, %v, expected %v, %v", tc.in, got, ok, tc.expected, tc.ok)
		}
	}

	if hex := (RGB{255, 128, 0}).Hex(); hex != "#ff8000" {
		t.Errorf("Hex() = %q, expected \"#ff8000\"", hex)
	}
}

func TestActionString(t *testing.T) {
	if ActionSnapshot.String() != "Snapshot" {
		t.Errorf("ActionSnapshot.String() = %q, expected \"Snapshot\"", ActionSnapshot.String())
	}
	if Action(99).String() != "Unknown" {
		t.Errorf("Action(99).String() = %q, expected \"Unknown\"", Action(99).String())
	}
}
