package reporting

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
)

// PDFExporter exports the per-network report to PDF format
type PDFExporter struct {
	// Title is printed at the top of every report
	Title string
	now   func() time.Time
}

// NewPDFExporter creates a new PDF exporter instance
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{Title: "Signal Trend Report", now: time.Now}
}

// ExportNetworkReport renders the reports derived from view as a PDF table.
func (e *PDFExporter) ExportNetworkReport(view domain.StateView, reports []domain.NetworkReport, settings domain.AnalysisSettings) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	e.addHeader(pdf, view)
	e.addSettings(pdf, settings)
	e.addNetworks(pdf, tr, reports)
	e.addFooter(pdf, view)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) addHeader(pdf *gofpdf.Fpdf, view domain.StateView) {
	pdf.SetFont("Arial", "B", 22)
	pdf.SetTextColor(0, 51, 102) // Dark blue
	pdf.CellFormat(0, 14, e.Title, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", e.now().Format("2006-01-02 15:04:05")), "", 1, "L", false, 0, "")

	status := "sampling"
	if view.Degraded {
		status = "degraded: no adapters available"
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Status: %s | Round: %d", status, view.Round), "", 1, "L", false, 0, "")

	adapters := "none"
	if len(view.Adapters) > 0 {
		adapters = strings.Join(view.Adapters, ", ")
	}
	pdf.CellFormat(0, 6, "Adapters: "+adapters, "", 1, "L", false, 0, "")
	pdf.Ln(6)
}

func (e *PDFExporter) addSettings(pdf *gofpdf.Fpdf, s domain.AnalysisSettings) {
	pdf.SetFont("Arial", "B", 13)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 9, "Analysis Settings", "", 1, "L", false, 0, "")

	rows := []struct{ label, value string }{
		{"Window size", fmt.Sprintf("%d", s.WindowSize)},
		{"Stationarity threshold", fmt.Sprintf("%.1f dB", s.StationarityThreshold)},
		{"Jump threshold", fmt.Sprintf("%.1f dB", s.JumpThreshold)},
		{"Divergence threshold", fmt.Sprintf("%.1f dB", s.DivergenceThreshold)},
		{"Path loss exponent", fmt.Sprintf("%.1f", float64(s.PathLossExponent))},
		{"Reference power", fmt.Sprintf("%.0f dBm", s.ReferencePower)},
	}

	// two columns
	for i, row := range rows {
		x := 20.0
		if i%2 == 1 {
			x = 105.0
		}
		pdf.SetXY(x, pdf.GetY())

		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(50, 7, row.label+":", "", 0, "L", false, 0, "")

		pdf.SetFont("Arial", "B", 10)
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(30, 7, row.value, "", 0, "R", false, 0, "")

		if i%2 == 1 {
			pdf.Ln(7)
		}
	}
	pdf.Ln(8)
}

func (e *PDFExporter) addNetworks(pdf *gofpdf.Fpdf, tr func(string) string, reports []domain.NetworkReport) {
	pdf.SetFont("Arial", "B", 13)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 9, "Tracked Networks", "", 1, "L", false, 0, "")
	pdf.Ln(1)

	if len(reports) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 7, "No network is currently seen by every adapter", "", 1, "L", false, 0, "")
		return
	}

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 9)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(55, 8, "Network", "1", 0, "L", true, 0, "")
	pdf.CellFormat(28, 8, "Trend", "1", 0, "C", true, 0, "")
	pdf.CellFormat(22, 8, "Last dBm", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 8, "Distance", "1", 0, "C", true, 0, "")
	pdf.CellFormat(15, 8, "Jump", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 8, "Divergence", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, r := range reports {
		if pdf.GetY() > 270 {
			pdf.AddPage()
		}

		name := tr(string(r.ID))
		if len(name) > 32 {
			name = name[:29] + "..."
		}
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(55, 7, name, "1", 0, "L", false, 0, "")

		cr, cg, cb := e.getTrendColor(r.Trend)
		pdf.SetTextColor(cr, cg, cb)
		pdf.CellFormat(28, 7, r.Direction, "1", 0, "C", false, 0, "")

		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(22, 7, fmt.Sprintf("%.1f", r.LastValue), "1", 0, "C", false, 0, "")

		dist := "n/a"
		if r.DistanceKnown {
			dist = fmt.Sprintf("%.1f m", r.Distance)
		}
		pdf.CellFormat(25, 7, dist, "1", 0, "C", false, 0, "")
		pdf.CellFormat(15, 7, flag(r.Jump), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 7, flag(r.Divergence), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(6)
}

// getTrendColor returns RGB color based on trend
func (e *PDFExporter) getTrendColor(t domain.Trend) (r, g, b int) {
	switch t {
	case domain.TrendRising:
		return 52, 199, 89 // Green
	case domain.TrendFalling:
		return 220, 53, 69 // Red
	case domain.TrendStationary:
		return 0, 102, 204 // Blue
	default:
		return 150, 150, 150 // Gray
	}
}

func (e *PDFExporter) addFooter(pdf *gofpdf.Fpdf, view domain.StateView) {
	pdf.SetY(-20)

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(3)

	gen := view.Generation
	if len(gen) > 8 {
		gen = gen[:8]
	}
	if gen == "" {
		gen = "-"
	}
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated by rssi-analyzer | Generation: %s", gen), "", 1, "C", false, 0, "")
}

func flag(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}
