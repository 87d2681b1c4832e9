package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hszdev/i3-energy-tracker/types"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1)

	hourStyle = lipgloss.NewStyle().
			Faint(true).
			Width(6)

	summaryStyle = lipgloss.NewStyle().
			Italic(true).
			MarginTop(1)

	dateStyle = lipgloss.NewStyle().
			Faint(true).
			Width(12)

	rangeStyle = lipgloss.NewStyle().
			Faint(true).
			PaddingLeft(2)
)

// DayTable renders a day as colored rows for a terminal.
func (r Renderer) DayTable(date string, prices []types.HourlyPrice) string {
	rows := make([]string, 0, len(prices)+2)
	rows = append(rows, titleStyle.Render("Energy prices "+date))

	if len(prices) == 0 {
		rows = append(rows, "no prices")
		return lipgloss.JoinVertical(lipgloss.Left, rows...)
	}

	lo, hi, sum := prices[0], prices[0], 0
	for _, p := range prices {
		cell := lipgloss.NewStyle().
			Background(lipgloss.Color(r.gradient.ColorFor(p.PriceInclVat))).
			Foreground(lipgloss.Color(r.foreground)).
			Padding(0, 1).
			Render(FormatPrice(p.PriceInclVat))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, hourStyle.Render(fmt.Sprintf("%02d:00", p.Hour)), cell))

		if p.PriceInclVat < lo.PriceInclVat {
			lo = p
		}
		if p.PriceInclVat > hi.PriceInclVat {
			hi = p
		}
		sum += p.PriceInclVat
	}

	summary := strings.Join([]string{
		fmt.Sprintf("min %s at %02d:00", FormatPrice(lo.PriceInclVat), lo.Hour),
		fmt.Sprintf("max %s at %02d:00", FormatPrice(hi.PriceInclVat), hi.Hour),
		fmt.Sprintf("avg %s", FormatPrice(sum/len(prices))),
	}, ", ")
	rows = append(rows, summaryStyle.Render(summary))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

type DayStats struct {
	Date     string
	Hours    int
	Min, Max int
	Avg      float64
}

// HistoryTable renders one row per archived day, the average price colored.
func (r Renderer) HistoryTable(stats []DayStats) string {
	rows := make([]string, 0, len(stats)+1)
	rows = append(rows, titleStyle.Render("Price history"))

	if len(stats) == 0 {
		rows = append(rows, "no archived prices")
		return lipgloss.JoinVertical(lipgloss.Left, rows...)
	}

	for _, s := range stats {
		avg := int(math.Round(s.Avg))
		cell := lipgloss.NewStyle().
			Background(lipgloss.Color(r.gradient.ColorFor(avg))).
			Foreground(lipgloss.Color(r.foreground)).
			Padding(0, 1).
			Render(FormatPrice(avg))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			dateStyle.Render(s.Date),
			cell,
			rangeStyle.Render(fmt.Sprintf("%s - %s (%dh)", FormatPrice(s.Min), FormatPrice(s.Max), s.Hours))))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
