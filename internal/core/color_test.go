package core

import "testing"

func TestColorBright(t *testing.T) {
	tests := []struct {
		in, expected Color
	}{
		{ColorRed, ColorBrightRed},
		{ColorBlue, ColorBrightBlue},
		{ColorWhite, ColorBrightWhite},
		{ColorBrightGreen, ColorBrightGreen},
		{ColorOrange, ColorOrange},
		{ColorDefault, ColorDefault},
	}

	for _, tc := range tests {
		if got := tc.in.Bright(); got != tc.expected {
			t.Errorf("Bright(%d) = %d, expected %d", tc.in, got, tc.expected)
		}
	}
}
