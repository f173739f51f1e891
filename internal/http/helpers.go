package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"finview/internal/api"
	"finview/internal/api/rest"
	"finview/internal/core"
	"finview/internal/currency"
)

// fetchTransactions returns the full transaction list for a session, serving
// a cached snapshot when fresh and falling back to a stale snapshot when the
// backend is unreachable. stale is true only on the fallback path; the
// returned error is then the fetch error so callers can surface a banner
// while still rendering data.
func (s *Server) fetchTransactions(ctx context.Context, sess api.Session) (txs []core.Transaction, stale bool, err error) {
	key := snapshotKey(sess)

	if cached, ok := s.txCache.Get(key); ok {
		return cached, false, nil
	}

	txs, err = s.txLister.ListTransactions(ctx, sess, api.TransactionFilters{})
	if err != nil {
		if snapshot, present, _ := s.txCache.GetStale(key); present {
			slog.Warn("Serving stale transaction snapshot",
				"component", "http", "error", err)
			return snapshot, true, err
		}
		return nil, false, err
	}

	s.txCache.Set(key, txs)
	return txs, false, nil
}

func (s *Server) fetchAccounts(ctx context.Context, sess api.Session) (accts []core.Account, stale bool, err error) {
	key := snapshotKey(sess)

	if cached, ok := s.acctCache.Get(key); ok {
		return cached, false, nil
	}

	accts, err = s.acctLister.ListAccounts(ctx, sess)
	if err != nil {
		if snapshot, present, _ := s.acctCache.GetStale(key); present {
			slog.Warn("Serving stale account snapshot",
				"component", "http", "error", err)
			return snapshot, true, err
		}
		return nil, false, err
	}

	s.acctCache.Set(key, accts)
	return accts, false, nil
}

// displayCurrency resolves the currency code for a request from the user's
// profile, caching the profile per session. Errors fall back to the
// configured default so rendering never blocks on the profile endpoint.
func (s *Server) displayCurrency(r *http.Request) string {
	sess := s.session(r)
	key := snapshotKey(sess)

	if p, ok := s.profileCache.Get(key); ok && p.Currency != "" {
		return p.Currency
	}

	p, err := s.auth.GetProfile(r.Context(), sess)
	if err != nil {
		return s.opts.DefaultCurrency
	}
	s.profileCache.Set(key, p)
	if p.Currency == "" {
		return s.opts.DefaultCurrency
	}
	return p.Currency
}

// money formats an amount in the request's display currency.
func (s *Server) money(amount float64, code string) string {
	return currency.Format(amount, code, s.opts.UseLocaleFormat)
}

// isUnauthorized reports whether err is a backend 401, meaning the session
// cookie is absent or expired and the user should sign in again.
func isUnauthorized(err error) bool {
	var apiErr *rest.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}
	return false
}

// sanitizeInput trims and strips control characters from form values before
// they reach the backend.
func sanitizeInput(v string) string {
	v = strings.Map(func(r rune) rune {
		if r < 32 && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, v)
	return strings.TrimSpace(v)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	if s.templates == nil {
		http.Error(w, "templates unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("Template render failed",
			"component", "http", "template", name, "error", err)
	}
}

// renderNotice writes a small HTMX-friendly notice fragment. Used where the
// flow would otherwise interrupt the user, such as exporting with no data.
func (s *Server) renderNotice(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<div class="notice" role="alert">%s</div>`, template.HTMLEscapeString(msg))
}
