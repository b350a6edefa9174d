package util

import "testing"

func TestToASCII(t *testing.T) {
	for v := -1; v <= 256; v++ {
		got := ToASCII(v)
		switch {
		case v >= 32 && v <= 126:
			if got != byte(v) {
				t.Errorf("ToASCII(%d) = %q", v, got)
			}
		case got != Placeholder:
			t.Errorf("ToASCII(%d) = %q, want %q", v, got, Placeholder)
		}
	}
}

func TestHexWords(t *testing.T) {
	for _, tc := range []struct{ in, want string }{
		{"", ""},
		{"A", "41"},
		{"RED CHANNEL", "52 45 44 20 43 48 41 4E 4E 45 4C"},
		{"\x00\xff", "00 FF"},
	} {
		if got := HexWords(tc.in); got != tc.want {
			t.Errorf("HexWords(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMinMax(t *testing.T) {
	for _, tc := range []struct{ a, b, min, max int }{
		{1, 2, 1, 2},
		{2, 1, 1, 2},
		{-3, 0, -3, 0},
		{7, 7, 7, 7},
	} {
		if got := Min(tc.a, tc.b); got != tc.min {
			t.Errorf("Min(%d, %d) = %d", tc.a, tc.b, got)
		}
		if got := Max(tc.a, tc.b); got != tc.max {
			t.Errorf("Max(%d, %d) = %d", tc.a, tc.b, got)
		}
	}
}
