package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/travelpics/tpg/internal/leaderboard"
	"github.com/travelpics/tpg/internal/tpg"
)

// WriteTableCSV writes a leaderboard table with raw float cells, one
// player per row. Missing rounds come out empty.
func WriteTableCSV(w io.Writer, tb leaderboard.Table) error {
	cw := csv.NewWriter(w)

	header := append([]string{"player"}, tb.Rounds...)
	header = append(header, "total", "average", "stdev")
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}

	for _, row := range tb.Rows {
		record := []string{row.Player}
		for _, name := range tb.Rounds {
			if v, ok := row.Cells[name]; ok {
				record = append(record, strconv.FormatFloat(v, 'f', -1, 64))
			} else {
				record = append(record, "")
			}
		}
		record = append(record,
			strconv.FormatFloat(row.Total, 'f', -1, 64),
			strconv.FormatFloat(row.Average, 'f', -1, 64),
			strconv.FormatFloat(row.Stdev, 'f', -1, 64),
		)
		if err := cw.Write(record); err != nil {
			return eris.Wrapf(err, "report: write csv row %s", row.Player)
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush csv")
}

// WriteRoundsCSV flattens scored rounds to one row per submission.
func WriteRoundsCSV(w io.Writer, rounds []tpg.Round) error {
	cw := csv.NewWriter(w)

	header := []string{"round", "number", "player", "latitude", "longitude", "distance_m", "score", "rank", "description"}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}

	for _, r := range rounds {
		for _, sub := range r.Submissions {
			record := []string{
				r.DisplayName(),
				strconv.Itoa(r.Number),
				sub.Name,
				strconv.FormatFloat(sub.Latitude, 'f', -1, 64),
				strconv.FormatFloat(sub.Longitude, 'f', -1, 64),
				optFloat(sub.Distance),
				optFloat(sub.Score),
				optInt(sub.Rank),
				sub.Description,
			}
			if err := cw.Write(record); err != nil {
				return eris.Wrapf(err, "report: write csv row %s/%s", r.DisplayName(), sub.Name)
			}
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush csv")
}

func optFloat(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func optInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}
