package plotter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/spot-pv-normalizer/internal/timeseries"
)

const indexSheet = "Days"

// RenderXLSX writes one sheet per day. Columns A:B hold PV, D:E hold price,
// and a line chart for each sits to the right of the data.
func RenderXLSX(path string, views []DayView) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", indexSheet); err != nil {
		return err
	}
	_ = f.SetCellValue(indexSheet, "A1", "Day")
	_ = f.SetCellValue(indexSheet, "B1", "PV kWh")
	_ = f.SetCellValue(indexSheet, "C1", "Mean price EUR/kWh")

	for i, v := range views {
		name := v.Day.Format(DayLayout)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("sheet %s: %w", name, err)
		}

		if err := writeColumn(f, name, "A", "B", "kWh", v.PV); err != nil {
			return err
		}
		if err := writeColumn(f, name, "D", "E", "price_kWh", v.Price); err != nil {
			return err
		}

		if len(v.PV) > 0 {
			if err := f.AddChart(name, "G2", lineChart(name, "A", "B", len(v.PV), "PV kWh "+name, "kWh")); err != nil {
				return fmt.Errorf("sheet %s: %w", name, err)
			}
		}
		if len(v.Price) > 0 {
			if err := f.AddChart(name, "G20", lineChart(name, "D", "E", len(v.Price), "Price EUR/kWh "+name, "EUR/kWh")); err != nil {
				return fmt.Errorf("sheet %s: %w", name, err)
			}
		}

		row := i + 2
		_ = f.SetCellValue(indexSheet, fmt.Sprintf("A%d", row), name)
		_ = f.SetCellValue(indexSheet, fmt.Sprintf("B%d", row), sum(v.PV))
		_ = f.SetCellValue(indexSheet, fmt.Sprintf("C%d", row), mean(v.Price))
	}

	return f.SaveAs(path)
}

// writeColumn writes a header and one "HH:MM", value row per point.
func writeColumn(f *excelize.File, sheet, timeCol, valueCol, header string, points []timeseries.Point) error {
	if err := f.SetCellValue(sheet, timeCol+"1", "Time"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, valueCol+"1", header); err != nil {
		return err
	}
	for i, p := range points {
		row := i + 2
		if err := f.SetCellValue(sheet, fmt.Sprintf("%s%d", timeCol, row), p.Time.Format("15:04")); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("%s%d", valueCol, row), p.Value); err != nil {
			return err
		}
	}
	return nil
}

func lineChart(sheet, timeCol, valueCol string, n int, title, unit string) *excelize.Chart {
	last := n + 1
	return &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$%s$1", sheet, valueCol),
			Categories: fmt.Sprintf("'%s'!$%s$2:$%s$%d", sheet, timeCol, timeCol, last),
			Values:     fmt.Sprintf("'%s'!$%s$2:$%s$%d", sheet, valueCol, valueCol, last),
		}},
		Title:     []excelize.RichTextRun{{Text: title}},
		Legend:    excelize.ChartLegend{Position: "none"},
		YAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: unit}}},
		Dimension: excelize.ChartDimension{Width: 640, Height: 320},
	}
}

func sum(points []timeseries.Point) float64 {
	var total float64
	for _, p := range points {
		total += p.Value
	}
	return total
}

func mean(points []timeseries.Point) float64 {
	if len(points) == 0 {
		return 0
	}
	return sum(points) / float64(len(points))
}
