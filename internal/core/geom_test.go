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

func TestRectOnBorder(t *testing.T) {
	r := NewRect(0, 0, 30, 27)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"top-left corner", 0, 0, true},
		{"bottom-right corner", 29, 26, true},
		{"left column", 0, 13, true},
		{"right column", 29, 13, true},
		{"top row", 15, 0, true},
		{"bottom row", 15, 26, true},
		{"interior", 15, 13, false},
		{"just inside", 1, 1, false},
		{"outside", 30, 27, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.OnBorder(tc.x, tc.y); got != tc.expected {
				t.Errorf("OnBorder(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
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

func TestParseColor(t *testing.T) {
	tests := []struct {
		name     string
		expected Color
		wantErr  bool
	}{
		{"", ColorDefault, false},
		{"cyan", ColorCyan, false},
		{"Bright_Red", ColorBrightRed, false},
		{"bright-yellow", ColorBrightYellow, false},
		{"orange", ColorOrange, false},
		{"chartreuse", ColorDefault, true},
	}

	for _, tc := range tests {
		got, err := ParseColor(tc.name)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseColor(%q) err = %v, wantErr %v", tc.name, err, tc.wantErr)
			continue
		}
		if got != tc.expected {
			t.Errorf("ParseColor(%q) = %d, expected %d", tc.name, got, tc.expected)
		}
	}
}
