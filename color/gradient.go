package color

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	DefaultStops = []string{"#25AA00", "#72A300", "#BD9A00", "#EA7500", "#FF4400"}
	DefaultMin   = 200 // øre
	DefaultMax   = 800 // øre
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Gradient maps prices onto a fixed ordered palette, cheapest first. The
// first and last stops are reserved for prices outside [Min, Max], the
// interior stops split that interval into equally wide buckets.
type Gradient struct {
	stops []string
	min   int
	max   int
}

func NewGradient(stops []string, min, max int) (Gradient, error) {
	if len(stops) < 3 {
		return Gradient{}, errors.New("a gradient needs at least three color stops")
	}
	if min >= max {
		return Gradient{}, fmt.Errorf("gradient lower bound %d must be below upper bound %d", min, max)
	}
	for _, s := range stops {
		if !hexColor.MatchString(s) {
			return Gradient{}, fmt.Errorf("invalid color stop %q, expected #RRGGBB", s)
		}
	}

	return Gradient{
		stops: append([]string(nil), stops...),
		min:   min,
		max:   max,
	}, nil
}

func Default() Gradient {
	g, err := NewGradient(DefaultStops, DefaultMin, DefaultMax)
	if err != nil {
		panic(err)
	}
	return g
}

func (g Gradient) Stops() []string {
	return append([]string(nil), g.stops...)
}

func (g Gradient) Min() int { return g.min }

func (g Gradient) Max() int { return g.max }

func (g Gradient) ColorFor(price int) string {
	return g.stops[g.Index(price)]
}

// Index returns the position in the full palette that price maps to.
func (g Gradient) Index(price int) int {
	if price <= g.min {
		return 0
	}
	if price >= g.max {
		return len(g.stops) - 1
	}

	buckets := len(g.stops) - 2
	interval := max((g.max-g.min)/buckets, 1)
	i := min((price-g.min)/interval, buckets-1)

	return i + 1
}
