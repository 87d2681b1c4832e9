package color

import "testing"

func TestColorForBounds(t *testing.T) {
	g := Default()
	stops := g.Stops()

	for _, p := range []int{-500, 0, 199, 200} {
		if c := g.ColorFor(p); c != stops[0] {
			t.Errorf("ColorFor(%d) got %s, wanted first stop %s", p, c, stops[0])
		}
	}
	for _, p := range []int{800, 801, 5000} {
		if c := g.ColorFor(p); c != stops[len(stops)-1] {
			t.Errorf("ColorFor(%d) got %s, wanted last stop %s", p, c, stops[len(stops)-1])
		}
	}
}

func TestColorForBuckets(t *testing.T) {
	g, err := NewGradient(DefaultStops, 250, 700)
	if err != nil {
		t.Fatal(err)
	}

	// Three interior buckets of 150 øre each.
	tests := []struct {
		price int
		want  string
	}{
		{price: 251, want: "#72A300"},
		{price: 399, want: "#72A300"},
		{price: 400, want: "#BD9A00"},
		{price: 450, want: "#BD9A00"},
		{price: 549, want: "#BD9A00"},
		{price: 550, want: "#EA7500"},
		{price: 699, want: "#EA7500"},
	}

	for _, tt := range tests {
		if got := g.ColorFor(tt.price); got != tt.want {
			t.Errorf("ColorFor(%d) got %s, wanted %s", tt.price, got, tt.want)
		}
	}
}

func TestColorForUnevenInterval(t *testing.T) {
	// 100 / 3 floors to 33, so the top of the range would overflow
	// the interior palette without clamping.
	g, err := NewGradient(DefaultStops, 0, 100)
	if err != nil {
		t.Fatal(err)
	}
	if got := g.Index(99); got != 3 {
		t.Errorf("Index(99) got %d, wanted 3", got)
	}
	if got := g.Index(1); got != 1 {
		t.Errorf("Index(1) got %d, wanted 1", got)
	}
}

func TestColorForTinyRange(t *testing.T) {
	g, err := NewGradient(DefaultStops, 10, 11)
	if err != nil {
		t.Fatal(err)
	}
	if got := g.Index(10); got != 0 {
		t.Errorf("Index(10) got %d, wanted 0", got)
	}
	if got := g.Index(11); got != 4 {
		t.Errorf("Index(11) got %d, wanted 4", got)
	}
}

func TestColorForMonotonic(t *testing.T) {
	g := Default()
	prev := g.Index(-100)
	for p := -99; p <= 1000; p++ {
		i := g.Index(p)
		if i < prev {
			t.Fatalf("Index(%d) = %d dropped below Index(%d) = %d", p, i, p-1, prev)
		}
		if i < 0 || i >= len(g.Stops()) {
			t.Fatalf("Index(%d) = %d is outside the palette", p, i)
		}
		prev = i
	}
}

func TestNewGradientValidation(t *testing.T) {
	tests := []struct {
		name  string
		stops []string
		min   int
		max   int
	}{
		{name: "too few stops", stops: []string{"#000000", "#FFFFFF"}, min: 0, max: 10},
		{name: "inverted bounds", stops: DefaultStops, min: 800, max: 200},
		{name: "equal bounds", stops: DefaultStops, min: 200, max: 200},
		{name: "bad color", stops: []string{"#000000", "red", "#FFFFFF"}, min: 0, max: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGradient(tt.stops, tt.min, tt.max); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestGradientCopiesStops(t *testing.T) {
	stops := []string{"#000000", "#111111", "#222222"}
	g, err := NewGradient(stops, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	stops[0] = "#FFFFFF"
	if g.ColorFor(0) != "#000000" {
		t.Errorf("gradient must not share the caller's slice")
	}
}
