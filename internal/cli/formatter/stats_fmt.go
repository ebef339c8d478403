package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/alexanderramin/lockedin/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// FormatStats renders the totals plus daily and weekly tables.
func FormatStats(s *domain.StatsSummary) string {
	var b strings.Builder

	b.WriteString(Header("Totals"))
	b.WriteString("\n")
	b.WriteString(RenderKeyValues([][2]string{
		{"Time saved", StyleGreen.Render(domain.FormatTimeSaved(s.Totals.TimeSavedSeconds))},
		{"Blocked attempts", strconv.Itoa(s.Totals.BlockedAttempts)},
		{"Sessions", fmt.Sprintf("%d (%d completed)", s.Totals.Sessions, s.Totals.CompletedSessions)},
	}))
	b.WriteString("\n")

	b.WriteString(Header("Last 7 days"))
	b.WriteString("\n")
	b.WriteString(bucketTable("DAY", s.Daily))
	b.WriteString("\n")

	b.WriteString(Header("Last 4 weeks"))
	b.WriteString("\n")
	b.WriteString(bucketTable("WEEK", s.Weekly))
	return b.String()
}

func bucketTable(label string, buckets []domain.Bucket) string {
	rows := make([][]string, 0, len(buckets))
	for _, bk := range buckets {
		name := bk.Label
		if bk.Current {
			name = Bold(name)
		}
		rows = append(rows, []string{
			name,
			strconv.Itoa(bk.Sessions),
			strconv.Itoa(bk.BlockedAttempts),
			domain.FormatTimeSaved(bk.TimeSavedSeconds),
		})
	}
	return RenderTable([]string{label, "SESSIONS", "BLOCKED", "SAVED"}, rows)
}

// RenderSavedChart draws time saved (minutes) per bucket as a bar chart.
func RenderSavedChart(buckets []domain.Bucket, width, height int) string {
	if width < 20 {
		width = 20
	}
	if height < 6 {
		height = 6
	}
	chart := barchart.New(width, height)

	bars := make([]barchart.BarData, 0, len(buckets))
	for _, bk := range buckets {
		style := lipgloss.NewStyle().Foreground(ColorBlue)
		if bk.Current {
			style = lipgloss.NewStyle().Foreground(ColorGreen)
		}
		bars = append(bars, barchart.BarData{
			Label: bk.Label,
			Values: []barchart.BarValue{{
				Name:  "saved",
				Value: float64(bk.TimeSavedSeconds) / 60.0,
				Style: style,
			}},
		})
	}
	chart.PushAll(bars)
	chart.Draw()
	return chart.View()
}
