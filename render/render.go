// Package render turns prices into text for i3blocks (Pango markup) and for
// the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/hszdev/i3-energy-tracker/color"
	"github.com/hszdev/i3-energy-tracker/types"
)

const (
	Currency          = "DKK"
	DefaultForeground = "#FFFFFF"
	ErrorBackground   = "#FF0000"
)

// FormatPrice converts øre to a two decimal DKK string, e.g. 250 -> "2.50 DKK".
func FormatPrice(price int) string {
	sign := ""
	if price < 0 {
		sign = "-"
		price = -price
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, price/100, price%100, Currency)
}

type Renderer struct {
	gradient   color.Gradient
	foreground string
}

func New(gradient color.Gradient, foreground string) Renderer {
	if foreground == "" {
		foreground = DefaultForeground
	}
	return Renderer{gradient: gradient, foreground: foreground}
}

func (r Renderer) Gradient() color.Gradient {
	return r.gradient
}

func (r Renderer) HourMarkup(hour int, price int) string {
	return span(r.gradient.ColorFor(price), r.foreground, "kW/h "+FormatPrice(price))
}

// ErrorMarkup is shown instead of a price whenever no price can be resolved.
func (r Renderer) ErrorMarkup() string {
	return span(ErrorBackground, r.foreground, "kW/h N/A")
}

func (r Renderer) DayMarkup(date string, prices []types.HourlyPrice) string {
	var b strings.Builder
	b.WriteString(date)
	for _, p := range prices {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%02d:00 %s", p.Hour, span(r.gradient.ColorFor(p.PriceInclVat), r.foreground, FormatPrice(p.PriceInclVat)))
	}
	return b.String()
}

func span(bg, fg, text string) string {
	return fmt.Sprintf(`<span bgcolor="%s" fgcolor="%s"> %s </span>`, bg, fg, text)
}
