package report

import (
	"bytes"

	"github.com/rotisserie/eris"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/travelpics/tpg/internal/leaderboard"
)

// chart colors, roughly the game's medal palette.
var (
	chartBarColor  = drawing.Color{R: 0x2a, G: 0x6f, B: 0x97, A: 0xff}
	chartTextColor = drawing.Color{R: 0x21, G: 0x21, B: 0x21, A: 0xff}
)

// StandingsChart renders the points leaderboard as a PNG bar chart,
// one bar per player, capped at the top maxPlayers to stay legible.
func StandingsChart(points leaderboard.Table, maxPlayers int) ([]byte, error) {
	if len(points.Rows) == 0 {
		return renderEmptyChart()
	}
	if maxPlayers <= 0 || maxPlayers > len(points.Rows) {
		maxPlayers = len(points.Rows)
	}

	values := make([]chart.Value, 0, maxPlayers)
	for _, row := range points.Rows[:maxPlayers] {
		values = append(values, chart.Value{
			Label: row.Player,
			Value: row.Total,
			Style: chart.Style{FillColor: chartBarColor, StrokeColor: chartBarColor},
		})
	}

	graph := chart.BarChart{
		Title:    "Standings",
		Width:    max(80*len(values), 400),
		Height:   400,
		BarWidth: 48,
		XAxis:    chart.Style{FontColor: chartTextColor},
		YAxis: chart.YAxis{
			Style:          chart.Style{FontColor: chartTextColor},
			ValueFormatter: func(v any) string { return FormatNumber(v.(float64)) },
		},
		Bars: values,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, eris.Wrap(err, "report: render standings chart")
	}
	return buf.Bytes(), nil
}

func renderEmptyChart() ([]byte, error) {
	const msg = "No scored rounds"

	graph := chart.Chart{
		Width:  400,
		Height: 200,
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFontColor(chartTextColor)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, eris.Wrap(err, "report: render placeholder chart")
	}
	return buf.Bytes(), nil
}
