package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"finview/internal/api"
	"finview/internal/cache"
	"finview/internal/core"
	appweb "finview/web"
)

// Options carries the display and caching knobs the server needs beyond its
// backend ports. Display preferences are passed in explicitly; handlers
// never read them from globals.
type Options struct {
	DefaultCurrency string
	UseLocaleFormat bool
	ChartPalette    []string
	CacheTTL        time.Duration
	SessionCookie   string
}

type Server struct {
	http.Server
	templates *template.Template
	opts      Options

	txLister   api.TransactionLister
	txWriter   api.TransactionWriter
	acctLister api.AccountLister
	acctWriter api.AccountWriter
	auth       api.Authenticator

	rateLimiter *rateLimiter

	// Snapshot caches keyed by hashed session. The stale path backs the
	// "prior data stays visible on fetch failure" behavior.
	txCache      *cache.LRUCache[[]core.Transaction]
	acctCache    *cache.LRUCache[[]core.Account]
	profileCache *cache.LRUCache[api.Profile]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// Backend bundles the ports the server consumes.
type Backend interface {
	api.TransactionLister
	api.TransactionWriter
	api.AccountLister
	api.AccountWriter
	api.Authenticator
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, b Backend, opts Options) *Server {
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "USD"
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 2 * time.Minute
	}
	if opts.SessionCookie == "" {
		opts.SessionCookie = "token"
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		opts:         opts,
		txLister:     b,
		txWriter:     b,
		acctLister:   b,
		acctWriter:   b,
		auth:         b,
		rateLimiter:  newRateLimiter(),
		txCache:      cache.NewLRUCache[[]core.Transaction](100, opts.CacheTTL),
		acctCache:    cache.NewLRUCache[[]core.Account](100, opts.CacheTTL),
		profileCache: cache.NewLRUCache[api.Profile](200, 10*time.Minute),
		cacheManager: cache.NewManager(30 * time.Minute),
	}

	s.cacheManager.Register(s.txCache)
	s.cacheManager.Register(s.acctCache)
	s.cacheManager.Register(s.profileCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleDashboard))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/login", s.withSecurityHeaders(s.handleLogin))
	mux.HandleFunc("/signup", s.withSecurityHeaders(s.handleSignup))
	mux.HandleFunc("/logout", s.withSecurityHeaders(s.handleLogout))
	mux.HandleFunc("/profile", s.withSecurityHeaders(s.handleProfile))
	mux.HandleFunc("/transactions", s.withSecurityHeaders(s.handleTransactions))
	mux.HandleFunc("/transactions/edit", s.withSecurityHeaders(s.handleEditTransaction))
	mux.HandleFunc("/transactions/delete", s.withSecurityHeaders(s.handleDeleteTransaction))
	mux.HandleFunc("/accounts", s.withSecurityHeaders(s.handleAccounts))
	mux.HandleFunc("/accounts/edit", s.withSecurityHeaders(s.handleEditAccount))
	mux.HandleFunc("/accounts/delete", s.withSecurityHeaders(s.handleDeleteAccount))
	mux.HandleFunc("/reports", s.withSecurityHeaders(s.handleReportsPage))
	mux.HandleFunc("/reports/export", s.withSecurityHeaders(s.handleExportCSV))
	mux.HandleFunc("/ui/report-data", s.withSecurityHeaders(s.handleReportData))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// session extracts the backend session token from the browser cookie. The
// zero value means "not signed in".
func (s *Server) session(r *http.Request) api.Session {
	c, err := r.Cookie(s.opts.SessionCookie)
	if err != nil {
		return ""
	}
	return api.Session(c.Value)
}

// snapshotKey derives a cache key from a session without exposing the raw
// token to logs or eviction listings.
func snapshotKey(sess api.Session) string {
	sum := sha256.Sum256([]byte(sess))
	return hex.EncodeToString(sum[:8])
}

// invalidateSnapshots drops every cached snapshot. Called when the backend
// reports a change event; per-user invalidation would require mapping user
// IDs to sessions, which this layer deliberately does not keep.
func (s *Server) invalidateSnapshots() {
	s.txCache.Clear()
	s.acctCache.Clear()
	slog.Debug("Snapshot caches invalidated", "component", "cache")
}

// InvalidateOnChange adapts invalidateSnapshots to the events consumer.
func (s *Server) InvalidateOnChange() func(userID string) {
	return func(string) { s.invalidateSnapshots() }
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
