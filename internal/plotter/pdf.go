package plotter

import (
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/ginjaninja78/spot-pv-normalizer/internal/timeseries"
)

// Page geometry in millimetres, landscape A4.
const (
	pageMargin   = 15.0
	panelTop     = 35.0
	panelWidth   = 125.0
	panelHeight  = 140.0
	panelSpacing = 17.0
)

type rgb struct{ r, g, b int }

var (
	pvColor    = rgb{230, 140, 20}
	priceColor = rgb{30, 90, 200}
	gridColor  = rgb{220, 220, 220}
)

// RenderPDF writes one page per day with the PV panel on the left and the
// price panel on the right.
func RenderPDF(path string, views []DayView) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Spot price and PV comparison", false)

	for _, v := range views {
		name := v.Day.Format(DayLayout)
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(0, 8, "Spot price and PV production "+name)
		pdf.Ln(10)

		drawPanel(pdf, pageMargin, panelTop, "PV kWh "+name, "kWh", v.Day, v.PV, pvColor)
		drawPanel(pdf, pageMargin+panelWidth+panelSpacing, panelTop, "Price EUR/kWh "+name, "EUR/kWh", v.Day, v.Price, priceColor)
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// drawPanel draws a framed line plot of points over one day at (x, y).
func drawPanel(pdf *gofpdf.Fpdf, x, y float64, title, unit string, dayStart time.Time, points []timeseries.Point, c rgb) {
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(x, y-3, title)

	// Hour grid and labels.
	pdf.SetFont("Arial", "", 8)
	pdf.SetLineWidth(0.1)
	pdf.SetDrawColor(gridColor.r, gridColor.g, gridColor.b)
	for h := 0; h <= 24; h += 6 {
		gx := x + panelWidth*float64(h)/24
		pdf.Line(gx, y, gx, y+panelHeight)
		pdf.Text(gx-4, y+panelHeight+5, fmt.Sprintf("%02d:00", h%24))
	}

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.3)
	pdf.Rect(x, y, panelWidth, panelHeight, "D")

	lo, hi := valueRange(points)
	pdf.Text(x+1, y+4, fmt.Sprintf("%.4g %s", hi, unit))
	pdf.Text(x+1, y+panelHeight-1, fmt.Sprintf("%.4g %s", lo, unit))

	if len(points) == 0 {
		pdf.Text(x+panelWidth/2-10, y+panelHeight/2, "no data")
		return
	}

	px := func(t time.Time) float64 {
		return x + panelWidth*t.Sub(dayStart).Hours()/24
	}
	py := func(v float64) float64 {
		return y + panelHeight - panelHeight*(v-lo)/(hi-lo)
	}

	pdf.SetDrawColor(c.r, c.g, c.b)
	pdf.SetLineWidth(0.5)
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		pdf.Line(px(prev.Time), py(prev.Value), px(cur.Time), py(cur.Value))
	}
	if len(points) == 1 {
		pdf.SetFillColor(c.r, c.g, c.b)
		pdf.Circle(px(points[0].Time), py(points[0].Value), 0.8, "F")
	}
}
