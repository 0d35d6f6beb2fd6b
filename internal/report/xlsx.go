package report

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/travelpics/tpg/internal/leaderboard"
)

// WriteWorkbook saves points, distance, and medal leaderboards to an
// XLSX workbook, one sheet each.
func WriteWorkbook(path string, points, distance leaderboard.Table, medals []leaderboard.MedalRow) error {
	f := xlsx.NewFile()

	if err := addTableSheet(f, "Points", points); err != nil {
		return err
	}
	if err := addTableSheet(f, "Distance (km)", distance); err != nil {
		return err
	}
	if err := addMedalSheet(f, medals); err != nil {
		return err
	}

	return eris.Wrapf(f.Save(path), "report: save workbook %s", path)
}

func addTableSheet(f *xlsx.File, name string, tb leaderboard.Table) error {
	sheet, err := f.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "report: add sheet %s", name)
	}

	header := sheet.AddRow()
	header.AddCell().SetString("Player")
	for _, round := range tb.Rounds {
		header.AddCell().SetString(round)
	}
	header.AddCell().SetString("Total")
	header.AddCell().SetString("Average")
	header.AddCell().SetString("Stdev")

	for _, row := range tb.Rows {
		r := sheet.AddRow()
		r.AddCell().SetString(row.Player)
		for _, round := range tb.Rounds {
			cell := r.AddCell()
			if v, ok := row.Cells[round]; ok {
				cell.SetFloat(v)
			}
		}
		r.AddCell().SetFloat(row.Total)
		r.AddCell().SetFloat(row.Average)
		r.AddCell().SetFloat(row.Stdev)
	}
	return nil
}

func addMedalSheet(f *xlsx.File, medals []leaderboard.MedalRow) error {
	sheet, err := f.AddSheet("Medals")
	if err != nil {
		return eris.Wrap(err, "report: add sheet Medals")
	}

	header := sheet.AddRow()
	for _, col := range []string{"Player", "Gold", "Silver", "Bronze", "Score"} {
		header.AddCell().SetString(col)
	}
	for _, m := range medals {
		r := sheet.AddRow()
		r.AddCell().SetString(m.Player)
		r.AddCell().SetInt(m.Gold)
		r.AddCell().SetInt(m.Silver)
		r.AddCell().SetInt(m.Bronze)
		r.AddCell().SetInt(m.Score)
	}
	return nil
}
