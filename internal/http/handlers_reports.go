package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"finview/internal/export"
	"finview/internal/report"
)

type reportsPageData struct {
	ChartType     string
	Report        report.Report
	ReportJSON    template.JS
	TotalExpenses string
	HasExpenses   bool
	Stale         bool
	Error         string
	Currency      string
}

// handleReportsPage renders the reports view. The chart style is a query
// toggle (?chart=pie|bar) so switching is a plain link and the page stays
// bookmarkable.
func (s *Server) handleReportsPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	chart := r.URL.Query().Get("chart")
	if chart != "bar" {
		chart = "pie"
	}

	txs, stale, err := s.fetchTransactions(r.Context(), s.session(r))
	if err != nil && !stale {
		if isUnauthorized(err) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		slog.Error("Failed to fetch transactions for reports",
			"component", "report", "error", err)
		s.render(w, "reports.html", reportsPageData{
			ChartType: chart,
			Error:     "Could not load transactions. Please try again.",
		})
		return
	}

	rep := report.BuildSeries(txs, s.opts.ChartPalette)
	code := s.displayCurrency(r)

	data := reportsPageData{
		ChartType:     chart,
		Report:        rep,
		TotalExpenses: s.money(report.TotalExpenses(txs), code),
		HasExpenses:   len(rep.Category.Labels) > 0,
		Stale:         stale,
		Currency:      code,
	}
	if stale {
		data.Error = "Showing previously loaded data; the latest fetch failed."
	}
	if raw, err := json.Marshal(rep); err == nil {
		data.ReportJSON = template.JS(raw)
	}

	s.render(w, "reports.html", data)
}

// handleReportData serves the aggregated series as JSON for chart refreshes.
func (s *Server) handleReportData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	txs, stale, err := s.fetchTransactions(r.Context(), s.session(r))
	if err != nil && !stale {
		http.Error(w, "failed to load transactions", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report.BuildSeries(txs, s.opts.ChartPalette)); err != nil {
		slog.Error("Failed to encode report data", "component", "report", "error", err)
	}
}

// handleExportCSV streams the full transaction history as a CSV attachment.
// The export always covers everything, independent of any on-screen filters.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// A stale snapshot is still the current in-memory list; the export keeps
	// working through backend outages just like the page does.
	txs, stale, err := s.fetchTransactions(r.Context(), s.session(r))
	if err != nil && !stale {
		if isUnauthorized(err) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		s.renderNotice(w, http.StatusBadGateway, "Export failed: could not load transactions.")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteTransactionsCSV(&buf, txs); err != nil {
		if errors.Is(err, export.ErrNoTransactions) {
			s.renderNotice(w, http.StatusOK, "No transactions to export.")
			return
		}
		slog.Error("CSV export failed", "component", "export", "error", err)
		s.renderNotice(w, http.StatusInternalServerError, "Export failed.")
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.Filename))
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("CSV download interrupted", "component", "export", "error", err)
	}
}
