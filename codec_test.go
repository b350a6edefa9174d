package depths

import (
	"errors"
	"image/color"
	"math"
	"reflect"
	"testing"

	"github.com/zedseven/depths/internal/algos"
)

func makeTestGrid(w, h int) *Grid {
	g := NewGrid(w, h)
	for i := range g.Pixels {
		x, y := posToXY(i, w)
		g.Pixels[i] = Pixel{uint16((x*7 + y*13) % 256), uint16(x % 256), uint16(y % 256), 0xff}
	}
	return g
}

func countWarnings(warnings []error) (bounds, unreadable, relocated int) {
	for _, w := range warnings {
		switch w.(type) {
		case *BoundsError:
			bounds++
		case *UnreadablePixelError:
			unreadable++
		case *RelocatedError:
			relocated++
		}
	}
	return
}

func TestDecodeMapsPrintableRange(t *testing.T) {
	g := NewGrid(1, 1)
	for v := 0; v < 256; v++ {
		g.Pixels[0][ChannelRed] = uint16(v)
		r := Decode(g, 0, 0, 1)

		want := "?"
		if v >= 32 && v <= 126 {
			want = string(rune(v))
		}
		if r.Text != want {
			t.Errorf("value %d: got %q, want %q", v, r.Text, want)
		}
		if !r.Samples[0].Readable || int(r.Samples[0].Value) != v {
			t.Errorf("value %d: got sample %+v", v, r.Samples[0])
		}
		if len(r.Warnings) != 0 {
			t.Errorf("value %d: unexpected warnings %v", v, r.Warnings)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name   string
		x, y   int
		values []byte
	}{
		{name: "origin", x: 0, y: 0, values: []byte("abc")},
		{name: "middle", x: 42, y: 42, values: []byte("Hidden Depths")},
		{name: "right_edge", x: 95, y: 10, values: []byte("EDGE!")},
		{name: "last_row", x: 0, y: 99, values: []byte{0, 1, 31, 127, 200, 255}},
		{name: "empty", x: 10, y: 10, values: []byte{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g := makeTestGrid(100, 100)
			run, warnings := Encode(g, tc.x, tc.y, tc.values)
			if len(warnings) != 0 {
				t.Fatalf("Encode warnings: %v", warnings)
			}
			if want := (Run{tc.x, tc.y, len(tc.values)}); run != want {
				t.Fatalf("Encode wrote %+v, want %+v", run, want)
			}

			r := Decode(g, tc.x, tc.y, len(tc.values))
			if len(r.Warnings) != 0 {
				t.Fatalf("Decode warnings: %v", r.Warnings)
			}
			if len(r.Samples) != len(tc.values) {
				t.Fatalf("got %d samples, want %d", len(r.Samples), len(tc.values))
			}
			for i, s := range r.Samples {
				if s.Value != tc.values[i] {
					t.Errorf("sample %d: got %d, want %d", i, s.Value, tc.values[i])
				}
			}
		})
	}
}

func TestNeptune(t *testing.T) {
	g := makeTestGrid(100, 100)
	Encode(g, 42, 42, []byte{78, 69, 80, 84, 85, 78, 69})

	r := Decode(g, 42, 42, 7)
	if r.Text != "NEPTUNE" {
		t.Fatalf("got %q, want NEPTUNE", r.Text)
	}
}

func TestDecodePastRightEdge(t *testing.T) {
	g := makeTestGrid(10, 3)
	g.Pixels[8][ChannelRed] = 'h'
	g.Pixels[9][ChannelRed] = 'i'

	r := Decode(g, 8, 0, 5)
	if len(r.Samples) != 5 || len(r.Text) != 5 {
		t.Fatalf("got %d samples and %q, want 5 of each", len(r.Samples), r.Text)
	}
	if r.Text != "hi???" {
		t.Errorf("got %q, want %q", r.Text, "hi???")
	}
	for _, s := range r.Samples {
		if s.Readable == (s.X >= 10) {
			t.Errorf("sample at x=%d: readable=%v", s.X, s.Readable)
		}
	}

	bounds, unreadable, _ := countWarnings(r.Warnings)
	if bounds != 1 || unreadable != 3 {
		t.Errorf("got %d bounds and %d unreadable warnings, want 1 and 3", bounds, unreadable)
	}
}

func TestDecodeBelowLastRow(t *testing.T) {
	g := makeTestGrid(10, 3)
	r := Decode(g, 0, 3, 2)

	if r.Text != "??" {
		t.Errorf("got %q, want %q", r.Text, "??")
	}
	bounds, unreadable, _ := countWarnings(r.Warnings)
	if bounds != 1 || unreadable != 2 {
		t.Errorf("got %d bounds and %d unreadable warnings, want 1 and 2", bounds, unreadable)
	}
}

func TestDecodeNegativeLength(t *testing.T) {
	r := Decode(makeTestGrid(4, 4), 0, 0, -1)
	if len(r.Samples) != 0 || r.Text != "" {
		t.Fatalf("got %+v, want an empty reading", r)
	}
	var runErr *algos.InvalidRunError
	if len(r.Warnings) != 1 || !errors.As(r.Warnings[0], &runErr) {
		t.Fatalf("got warnings %v, want one InvalidRunError", r.Warnings)
	}
}

func TestDecodeHugeLength(t *testing.T) {
	g := makeTestGrid(10, 1)
	for _, length := range []int{math.MaxInt64 - 2, algos.MaxRunLength + 1} {
		r := Decode(g, 5, 0, length)
		if len(r.Samples) != 0 || r.Text != "" {
			t.Fatalf("length %d: got %d samples, want an empty reading", length, len(r.Samples))
		}
		var runErr *algos.InvalidRunError
		if len(r.Warnings) != 1 || !errors.As(r.Warnings[0], &runErr) {
			t.Fatalf("length %d: got warnings %v, want one InvalidRunError", length, r.Warnings)
		}
	}
}

func TestDecodeLongRunPastRightEdge(t *testing.T) {
	g := makeTestGrid(10, 1)
	Encode(g, 8, 0, []byte("ok"))

	r := Decode(g, 8, 0, 5000)
	if len(r.Samples) != 5000 || len(r.Text) != 5000 {
		t.Fatalf("got %d samples and %d characters, want 5000", len(r.Samples), len(r.Text))
	}
	if r.Text[:3] != "ok?" {
		t.Errorf("got %q, want a prefix of %q", r.Text[:3], "ok?")
	}
	bounds, unreadable, _ := countWarnings(r.Warnings)
	if bounds != 1 || unreadable != 4998 {
		t.Errorf("got %d bounds and %d unreadable warnings, want 1 and 4998", bounds, unreadable)
	}
}

func TestDecodeMalformedGrid(t *testing.T) {
	g := &Grid{W: 3, H: 1, Format: fmtInfo{color.NRGBAModel, 4, 8}, Pixels: []Pixel{{'o', 0, 0, 0xff}, {}}}

	r := Decode(g, 0, 0, 3)
	if r.Text != "o??" {
		t.Errorf("got %q, want %q", r.Text, "o??")
	}
	bounds, unreadable, _ := countWarnings(r.Warnings)
	if bounds != 0 || unreadable != 2 {
		t.Errorf("got %d bounds and %d unreadable warnings, want 0 and 2", bounds, unreadable)
	}
}

func TestDecodeOnlyNeedsRedChannel(t *testing.T) {
	// Pixels holding nothing but the red channel still decode.
	g := &Grid{W: 2, H: 1, Format: fmtInfo{color.GrayModel, 1, 8}, Pixels: []Pixel{{'o'}, {'k'}}}
	before := g.Clone()

	if r := Decode(g, 0, 0, 2); r.Text != "ok" {
		t.Errorf("got %q, want %q", r.Text, "ok")
	}
	if !reflect.DeepEqual(g, before) {
		t.Errorf("Decode modified the grid")
	}
}

func TestEncodeRelocatesToOrigin(t *testing.T) {
	g := makeTestGrid(5, 2)
	before := g.Clone()

	run, warnings := Encode(g, 4, 0, []byte{65, 66, 67})
	if want := (Run{0, 0, 3}); run != want {
		t.Fatalf("Encode wrote %+v, want %+v", run, want)
	}
	var relocated *RelocatedError
	if len(warnings) != 1 || !errors.As(warnings[0], &relocated) {
		t.Fatalf("got warnings %v, want one RelocatedError", warnings)
	}
	if relocated.Requested != (Run{4, 0, 3}) {
		t.Errorf("got requested run %+v", relocated.Requested)
	}

	if r := Decode(g, 0, 0, 3); r.Text != "ABC" {
		t.Errorf("got %q, want ABC", r.Text)
	}
	if !reflect.DeepEqual(g.Pixels[4], before.Pixels[4]) {
		t.Errorf("the requested position was written to: %v", g.Pixels[4])
	}
}

func TestEncodeWiderThanGrid(t *testing.T) {
	g := makeTestGrid(3, 1)

	run, warnings := Encode(g, 0, 0, []byte("ABCDE"))
	if want := (Run{0, 0, 5}); run != want {
		t.Fatalf("Encode wrote %+v, want %+v", run, want)
	}
	_, unreadable, relocated := countWarnings(warnings)
	if relocated != 1 || unreadable != 2 {
		t.Errorf("got %d relocated and %d unreadable warnings, want 1 and 2", relocated, unreadable)
	}
	if r := Decode(g, 0, 0, 3); r.Text != "ABC" {
		t.Errorf("got %q, want ABC", r.Text)
	}
}

func TestEncodeLeavesOtherChannels(t *testing.T) {
	g := makeTestGrid(20, 5)
	before := g.Clone()

	Encode(g, 3, 2, []byte("secret"))

	for i := range g.Pixels {
		x, y := posToXY(i, g.W)
		inRun := y == 2 && x >= 3 && x < 9
		for c := range g.Pixels[i] {
			if c == ChannelRed && inRun {
				continue
			}
			if g.Pixels[i][c] != before.Pixels[i][c] {
				t.Errorf("pixel (%d, %d) channel %d changed from %d to %d", x, y, c, before.Pixels[i][c], g.Pixels[i][c])
			}
		}
	}
}

func TestCodecUsesMostSignificantByte(t *testing.T) {
	g := &Grid{W: 2, H: 1, Format: fmtInfo{color.RGBA64Model, 4, 16},
		Pixels: []Pixel{{0x12ff, 1, 2, 0xffff}, {0x3400, 1, 2, 0xffff}}}

	Encode(g, 0, 0, []byte("AB"))
	if g.Pixels[0][ChannelRed] != 0x41ff || g.Pixels[1][ChannelRed] != 0x4200 {
		t.Errorf("got red channels %#04x %#04x", g.Pixels[0][ChannelRed], g.Pixels[1][ChannelRed])
	}
	if r := Decode(g, 0, 0, 2); r.Text != "AB" {
		t.Errorf("got %q, want AB", r.Text)
	}
}
