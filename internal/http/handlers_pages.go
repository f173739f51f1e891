package http

import (
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"finview/internal/api"
	"finview/internal/core"
	"finview/internal/currency"
)

type accountView struct {
	ID      string
	Name    string
	Type    core.AccountType
	Balance string
}

type transactionView struct {
	ID          string
	Date        string
	Amount      string
	Type        core.TransactionType
	Category    string
	Description string
	AccountName string
	IsExpense   bool
}

type dashboardData struct {
	Accounts     []accountView
	Recent       []transactionView
	TotalBalance string
	MonthIncome  string
	MonthExpense string
	Stale        bool
	Error        string
}

// handleDashboard renders the landing page. Accounts and transactions come
// from independent endpoints, so the two fetches run concurrently.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess := s.session(r)

	var (
		accts      []core.Account
		txs        []core.Transaction
		acctsStale bool
		txsStale   bool
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		accts, acctsStale, err = s.fetchAccounts(ctx, sess)
		if acctsStale {
			return nil
		}
		return err
	})
	g.Go(func() error {
		var err error
		txs, txsStale, err = s.fetchTransactions(ctx, sess)
		if txsStale {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		if isUnauthorized(err) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		slog.Error("Failed to load dashboard data",
			"component", "http", "error", err)
		s.render(w, "dashboard.html", dashboardData{
			Error: "Could not load your data. Please try again.",
		})
		return
	}

	code := s.displayCurrency(r)

	data := dashboardData{
		Accounts: make([]accountView, 0, len(accts)),
		Stale:    acctsStale || txsStale,
	}
	if data.Stale {
		data.Error = "Showing previously loaded data; the latest fetch failed."
	}

	var total float64
	for _, a := range accts {
		total += a.CurrentBalance
		data.Accounts = append(data.Accounts, accountView{
			ID:      a.ID,
			Name:    a.Name,
			Type:    a.Type,
			Balance: s.money(a.CurrentBalance, code),
		})
	}
	data.TotalBalance = s.money(total, code)

	var income, expense float64
	now := time.Now()
	for _, t := range txs {
		if t.Date.Year() != now.Year() || t.Date.Month() != now.Month() {
			continue
		}
		switch t.Type {
		case core.Income:
			income += t.Amount
		case core.Expense:
			expense += t.Amount
		}
	}
	data.MonthIncome = s.money(income, code)
	data.MonthExpense = s.money(expense, code)

	sorted := make([]core.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date.Time)
	})
	if len(sorted) > 5 {
		sorted = sorted[:5]
	}
	data.Recent = s.transactionViews(sorted, code)

	s.render(w, "dashboard.html", data)
}

func (s *Server) transactionViews(txs []core.Transaction, code string) []transactionView {
	views := make([]transactionView, 0, len(txs))
	for _, t := range txs {
		v := transactionView{
			ID:          t.ID,
			Date:        t.Date.Short(),
			Amount:      s.money(t.Amount, code),
			Type:        t.Type,
			Category:    t.Category,
			Description: t.Description,
			IsExpense:   t.Type == core.Expense,
		}
		if t.Account != nil {
			v.AccountName = t.Account.Name
		}
		views = append(views, v)
	}
	return views
}

type transactionsPageData struct {
	Transactions []transactionView
	Accounts     []accountView
	Filters      api.TransactionFilters
	Types        []core.TransactionType
	Stale        bool
	Error        string
	Notice       string
}

// handleTransactions lists transactions with optional server-side filters
// and accepts new entries via the same path.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderTransactionsPage(w, r, "")
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderTransactionsPage(w http.ResponseWriter, r *http.Request, notice string) {
	sess := s.session(r)
	q := r.URL.Query()
	filters := api.TransactionFilters{
		AccountID: sanitizeInput(q.Get("accountId")),
		Category:  sanitizeInput(q.Get("category")),
		StartDate: sanitizeInput(q.Get("startDate")),
		EndDate:   sanitizeInput(q.Get("endDate")),
	}

	data := transactionsPageData{
		Filters: filters,
		Types:   core.TransactionTypes(),
		Notice:  notice,
	}

	code := s.displayCurrency(r)

	// Filtered views always hit the backend; the snapshot cache only covers
	// the unfiltered list.
	var txs []core.Transaction
	var err error
	if filters.IsZero() {
		txs, data.Stale, err = s.fetchTransactions(r.Context(), sess)
	} else {
		txs, err = s.txLister.ListTransactions(r.Context(), sess, filters)
	}
	if err != nil && !data.Stale {
		if isUnauthorized(err) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		slog.Error("Failed to list transactions", "component", "http", "error", err)
		data.Error = "Could not load transactions. Please try again."
		s.render(w, "transactions.html", data)
		return
	}
	if data.Stale {
		data.Error = "Showing previously loaded data; the latest fetch failed."
	}

	data.Transactions = s.transactionViews(txs, code)

	if accts, _, err := s.fetchAccounts(r.Context(), sess); err == nil {
		for _, a := range accts {
			data.Accounts = append(data.Accounts, accountView{ID: a.ID, Name: a.Name, Type: a.Type})
		}
	}

	s.render(w, "transactions.html", data)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	in := core.TransactionInput{
		Amount:      currency.ParseAmount(r.PostFormValue("amount")),
		Type:        core.TransactionType(sanitizeInput(r.PostFormValue("type"))),
		Category:    sanitizeInput(r.PostFormValue("category")),
		Description: sanitizeInput(r.PostFormValue("description")),
		Date:        sanitizeInput(r.PostFormValue("date")),
		AccountID:   sanitizeInput(r.PostFormValue("accountId")),
	}
	if err := in.Validate(); err != nil {
		s.renderNotice(w, http.StatusUnprocessableEntity, "Invalid transaction: "+err.Error())
		return
	}

	sess := s.session(r)
	if _, err := s.txWriter.CreateTransaction(r.Context(), sess, in); err != nil {
		if isUnauthorized(err) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		slog.Error("Failed to create transaction", "component", "http", "error", err)
		s.renderNotice(w, http.StatusBadGateway, "Could not save the transaction.")
		return
	}

	s.txCache.Delete(snapshotKey(sess))
	http.Redirect(w, r, "/transactions", http.StatusSeeOther)
}

type editTransactionData struct {
	ID          string
	Amount      string
	Type        core.TransactionType
	Types       []core.TransactionType
	Category    string
	Date        string
	Description string
	AccountID   string
	Accounts    []accountView
	Error       string
}

// handleEditTransaction renders a prefilled form for an existing transaction
// and applies the update on submit.
func (s *Server) handleEditTransaction(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderEditTransaction(w, r)
	case http.MethodPost:
		s.updateTransaction(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderEditTransaction(w http.ResponseWriter, r *http.Request) {
	id := sanitizeInput(r.URL.Query().Get("id"))
	if id == "" {
		http.Error(w, "Missing transaction id", http.StatusBadRequest)
		return
	}

	sess := s.session(r)
	txs, _, err := s.fetchTransactions(r.Context(), sess)
	if err != nil && len(txs) == 0 {
		if isUnauthorized(err) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		s.renderNotice(w, http.StatusBadGateway, "Could not load the transaction.")
		return
	}

	var tx *core.Transaction
	for i := range txs {
		if txs[i].ID == id {
			tx = &txs[i]
			break
		}
	}
	if tx == nil {
		http.NotFound(w, r)
		return
	}

	data := editTransactionData{
		ID:          tx.ID,
		Amount:      strconv.FormatFloat(tx.Amount, 'f', -1, 64),
		Type:        tx.Type,
		Types:       core.TransactionTypes(),
		Category:    tx.Category,
		Date:        tx.Date.ISO(),
		Description: tx.Description,
	}

	if accts, _, err := s.fetchAccounts(r.Context(), sess); err == nil {
		for _, a := range accts {
			data.Accounts = append(data.Accounts, accountView{ID: a.ID, Name: a.Name, Type: a.Type})
			if tx.Account != nil && a.Name == tx.Account.Name {
				data.AccountID = a.ID
			}
		}
	}

	s.render(w, "transaction_edit.html", data)
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request) {
	id := sanitizeInput(r.URL.Query().Get("id"))
	if id == "" {
		http.Error(w, "Missing transaction id", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	in := core.TransactionInput{
		Amount:      currency.ParseAmount(r.PostFormValue("amount")),
		Type:        core.TransactionType(sanitizeInput(r.PostFormValue("type"))),
		Category:    sanitizeInput(r.PostFormValue("category")),
		Description: sanitizeInput(r.PostFormValue("description")),
		Date:        sanitizeInput(r.PostFormValue("date")),
		AccountID:   sanitizeInput(r.PostFormValue("accountId")),
	}
	if err := in.Validate(); err != nil {
		s.renderNotice(w, http.StatusUnprocessableEntity, "Invalid transaction: "+err.Error())
		return
	}

	sess := s.session(r)
	if _, err := s.txWriter.UpdateTransaction(r.Context(), sess, id, in); err != nil {
		if isUnauthorized(err) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		slog.Error("Failed to update transaction",
			"component", "http", "transactionId", id, "error", err)
		s.renderNotice(w, http.StatusBadGateway, "Could not save the transaction.")
		return
	}

	s.txCache.Delete(snapshotKey(sess))
	http.Redirect(w, r, "/transactions", http.StatusSeeOther)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := sanitizeInput(r.URL.Query().Get("id"))
	if id == "" {
		http.Error(w, "Missing transaction id", http.StatusBadRequest)
		return
	}

	sess := s.session(r)
	if err := s.txWriter.DeleteTransaction(r.Context(), sess, id); err != nil {
		if isUnauthorized(err) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		slog.Error("Failed to delete transaction",
			"component", "http", "transactionId", id, "error", err)
		s.renderNotice(w, http.StatusBadGateway, "Could not delete the transaction.")
		return
	}

	s.txCache.Delete(snapshotKey(sess))
	http.Redirect(w, r, "/transactions", http.StatusSeeOther)
}

type accountsPageData struct {
	Accounts     []accountView
	AccountTypes []core.AccountType
	TotalBalance string
	Stale        bool
	Error        string
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderAccountsPage(w, r)
	case http.MethodPost:
		s.createAccount(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderAccountsPage(w http.ResponseWriter, r *http.Request) {
	accts, stale, err := s.fetchAccounts(r.Context(), s.session(r))
	if err != nil && !stale {
		if isUnauthorized(err) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		slog.Error("Failed to list accounts", "component", "http", "error", err)
		s.render(w, "accounts.html", accountsPageData{
			Error: "Could not load accounts. Please try again.",
		})
		return
	}

	code := s.displayCurrency(r)
	data := accountsPageData{
		AccountTypes: core.AccountTypes(),
		Stale:        stale,
	}
	if stale {
		data.Error = "Showing previously loaded data; the latest fetch failed."
	}

	var total float64
	for _, a := range accts {
		total += a.CurrentBalance
		data.Accounts = append(data.Accounts, accountView{
			ID:      a.ID,
			Name:    a.Name,
			Type:    a.Type,
			Balance: s.money(a.CurrentBalance, code),
		})
	}
	data.TotalBalance = s.money(total, code)

	s.render(w, "accounts.html", data)
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	in := core.AccountInput{
		Name:           sanitizeInput(r.PostFormValue("name")),
		Type:           core.AccountType(sanitizeInput(r.PostFormValue("type"))),
		InitialBalance: currency.ParseAmount(r.PostFormValue("initialBalance")),
	}
	if err := in.Validate(); err != nil {
		s.renderNotice(w, http.StatusUnprocessableEntity, "Invalid account: "+err.Error())
		return
	}

	sess := s.session(r)
	if _, err := s.acctWriter.CreateAccount(r.Context(), sess, in); err != nil {
		if isUnauthorized(err) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		slog.Error("Failed to create account", "component", "http", "error", err)
		s.renderNotice(w, http.StatusBadGateway, "Could not save the account.")
		return
	}

	s.acctCache.Delete(snapshotKey(sess))
	http.Redirect(w, r, "/accounts", http.StatusSeeOther)
}

type editAccountData struct {
	ID           string
	Name         string
	Type         core.AccountType
	AccountTypes []core.AccountType
	Error        string
}

// handleEditAccount renders a prefilled form for an account and applies the
// update on submit. Balance is not editable here; it moves with transactions.
func (s *Server) handleEditAccount(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderEditAccount(w, r)
	case http.MethodPost:
		s.updateAccount(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderEditAccount(w http.ResponseWriter, r *http.Request) {
	id := sanitizeInput(r.URL.Query().Get("id"))
	if id == "" {
		http.Error(w, "Missing account id", http.StatusBadRequest)
		return
	}

	accts, _, err := s.fetchAccounts(r.Context(), s.session(r))
	if err != nil && len(accts) == 0 {
		if isUnauthorized(err) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		s.renderNotice(w, http.StatusBadGateway, "Could not load the account.")
		return
	}

	for _, a := range accts {
		if a.ID == id {
			s.render(w, "account_edit.html", editAccountData{
				ID:           a.ID,
				Name:         a.Name,
				Type:         a.Type,
				AccountTypes: core.AccountTypes(),
			})
			return
		}
	}
	http.NotFound(w, r)
}

func (s *Server) updateAccount(w http.ResponseWriter, r *http.Request) {
	id := sanitizeInput(r.URL.Query().Get("id"))
	if id == "" {
		http.Error(w, "Missing account id", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	in := core.AccountInput{
		Name: sanitizeInput(r.PostFormValue("name")),
		Type: core.AccountType(sanitizeInput(r.PostFormValue("type"))),
	}
	if err := in.Validate(); err != nil {
		s.renderNotice(w, http.StatusUnprocessableEntity, "Invalid account: "+err.Error())
		return
	}

	sess := s.session(r)
	if _, err := s.acctWriter.UpdateAccount(r.Context(), sess, id, in); err != nil {
		if isUnauthorized(err) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		slog.Error("Failed to update account",
			"component", "http", "accountId", id, "error", err)
		s.renderNotice(w, http.StatusBadGateway, "Could not save the account.")
		return
	}

	key := snapshotKey(sess)
	s.acctCache.Delete(key)
	// Transactions join the account name, so their snapshot is stale too.
	s.txCache.Delete(key)
	http.Redirect(w, r, "/accounts", http.StatusSeeOther)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := sanitizeInput(r.URL.Query().Get("id"))
	if id == "" {
		http.Error(w, "Missing account id", http.StatusBadRequest)
		return
	}

	sess := s.session(r)
	if err := s.acctWriter.DeleteAccount(r.Context(), sess, id); err != nil {
		if isUnauthorized(err) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		slog.Error("Failed to delete account",
			"component", "http", "accountId", id, "error", err)
		s.renderNotice(w, http.StatusBadGateway, "Could not delete the account.")
		return
	}

	key := snapshotKey(sess)
	s.acctCache.Delete(key)
	s.txCache.Delete(key)
	http.Redirect(w, r, "/accounts", http.StatusSeeOther)
}

type loginPageData struct {
	Error string
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, "login.html", loginPageData{})
	case http.MethodPost:
		s.doLogin(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) doLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	email := sanitizeInput(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	_, sess, err := s.auth.Login(r.Context(), email, password)
	if err != nil {
		slog.Warn("Login failed", "component", "http", "error", err)
		s.render(w, "login.html", loginPageData{Error: "Invalid email or password."})
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

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	if err := s.auth.Logout(r.Context(), sess); err != nil {
		slog.Warn("Logout request failed", "component", "http", "error", err)
	}

	key := snapshotKey(sess)
	s.txCache.Delete(key)
	s.acctCache.Delete(key)
	s.profileCache.Delete(key)

	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
