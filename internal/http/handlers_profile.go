package http

import (
	"log/slog"
	"net/http"

	"finview/internal/api"
	"finview/internal/currency"
)

type signupPageData struct {
	Error string
}

// handleSignup registers a new user through the backend and signs them in on
// success, same as the login flow.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, "signup.html", signupPageData{})
	case http.MethodPost:
		s.doSignup(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) doSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	name := sanitizeInput(r.PostFormValue("name"))
	email := sanitizeInput(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	if name == "" || email == "" || password == "" {
		s.render(w, "signup.html", signupPageData{Error: "All fields are required."})
		return
	}

	_, sess, err := s.auth.Register(r.Context(), name, email, password)
	if err != nil {
		slog.Warn("Registration failed", "component", "http", "error", err)
		s.render(w, "signup.html", signupPageData{Error: "Registration failed. Please try again."})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.SessionCookie,
		Value:    string(sess),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type currencyOption struct {
	Code  string
	Label string
}

type profilePageData struct {
	Name       string
	Email      string
	Currency   string
	Currencies []currencyOption
	Saved      bool
	Error      string
}

func currencyOptions() []currencyOption {
	codes := currency.Codes()
	opts := make([]currencyOption, 0, len(codes))
	for _, code := range codes {
		opts = append(opts, currencyOption{Code: code, Label: code + " (" + currency.Name(code) + ")"})
	}
	return opts
}

// handleProfile shows the user's profile and accepts updates to name, email
// and the display currency the whole app formats with.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderProfilePage(w, r)
	case http.MethodPost:
		s.updateProfile(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderProfilePage(w http.ResponseWriter, r *http.Request) {
	p, err := s.auth.GetProfile(r.Context(), s.session(r))
	if err != nil {
		if isUnauthorized(err) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		slog.Error("Failed to load profile", "component", "http", "error", err)
		s.render(w, "profile.html", profilePageData{
			Currencies: currencyOptions(),
			Error:      "Could not load your profile. Please try again.",
		})
		return
	}

	s.render(w, "profile.html", profilePageData{
		Name:       p.Name,
		Email:      p.Email,
		Currency:   p.Currency,
		Currencies: currencyOptions(),
	})
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	in := api.ProfileInput{
		Name:     sanitizeInput(r.PostFormValue("name")),
		Email:    sanitizeInput(r.PostFormValue("email")),
		Currency: sanitizeInput(r.PostFormValue("currency")),
	}

	data := profilePageData{
		Name:       in.Name,
		Email:      in.Email,
		Currency:   in.Currency,
		Currencies: currencyOptions(),
	}

	if in.Name == "" || in.Email == "" {
		data.Error = "Name and email are required."
		s.render(w, "profile.html", data)
		return
	}
	if _, ok := currency.Currencies[in.Currency]; !ok {
		data.Error = "Unsupported currency."
		s.render(w, "profile.html", data)
		return
	}

	sess := s.session(r)
	p, err := s.auth.UpdateProfile(r.Context(), sess, in)
	if err != nil {
		if isUnauthorized(err) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		slog.Error("Failed to update profile", "component", "http", "error", err)
		data.Error = "Could not save your profile. Please try again."
		s.render(w, "profile.html", data)
		return
	}

	// The display currency may have changed; replace the cached profile so the
	// next page render formats with it.
	s.profileCache.Set(snapshotKey(sess), p)

	data.Name = p.Name
	data.Email = p.Email
	data.Currency = p.Currency
	data.Saved = true
	s.render(w, "profile.html", data)
}
