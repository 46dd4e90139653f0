package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Gennadyy7/rssi-analyzer/internal/adapters/reporting"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/ports"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/services/analysis"
)

// ReportHandler handles report generation
type ReportHandler struct {
	Source      ports.StateSource
	Settings    *domain.SettingsStore
	PDFExporter *reporting.PDFExporter
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(source ports.StateSource, settings *domain.SettingsStore, exporter *reporting.PDFExporter) *ReportHandler {
	return &ReportHandler{
		Source:      source,
		Settings:    settings,
		PDFExporter: exporter,
	}
}

// HandleReportPDF renders the current per-network report as a PDF download.
func (h *ReportHandler) HandleReportPDF(w http.ResponseWriter, r *http.Request) {
	v := h.Source.Latest()
	settings := h.Settings.Get()

	pdf, err := h.PDFExporter.ExportNetworkReport(v, analysis.Analyze(v, settings), settings)
	if err != nil {
		log.Printf("PDF export failed: %v", err)
		http.Error(w, "Failed to generate report", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("rssi_report_%s.pdf", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.Write(pdf)
}
