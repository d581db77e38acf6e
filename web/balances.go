package web

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/sie/ledger"
)

// BalancesResponse is the JSON response structure for the balances endpoint.
type BalancesResponse struct {
	Year      int                     `json:"year"`
	Tolerance decimal.Decimal         `json:"tolerance"`
	Accounts  []*BalanceInfoResponse  `json:"accounts"`
	Periods   map[int]decimal.Decimal `json:"periods,omitempty"`
}

// BalanceInfoResponse is the reconciliation of one account.
type BalanceInfoResponse struct {
	Account  string           `json:"account"`
	Name     string           `json:"name,omitempty"`
	Opening  *decimal.Decimal `json:"opening,omitempty"`
	Movement decimal.Decimal  `json:"movement"`
	Computed decimal.Decimal  `json:"computed"`
	Closing  *decimal.Decimal `json:"closing,omitempty"`
	Result   *decimal.Decimal `json:"result,omitempty"`
	Rows     int              `json:"rows"`
	Balanced bool             `json:"balanced"`
}

// handleGetBalances handles GET requests to /api/balances.
//
// Query parameters:
//   - year: fiscal year id, 0 for the current year (default) and -1 for
//     the previous one.
//   - account: only return this account, with its monthly movements.
//
// Examples:
//   - GET /api/balances - reconciliation of the current year
//   - GET /api/balances?year=-1 - reconciliation of the previous year
//   - GET /api/balances?account=1910 - one account with movements per month
func (s *Server) handleGetBalances(w http.ResponseWriter, r *http.Request) {
	cfg := *s.ledgerConfig()
	if yearParam := r.URL.Query().Get("year"); yearParam != "" {
		year, err := strconv.Atoi(yearParam)
		if err != nil || year > 0 {
			http.Error(w, "invalid year (expected 0 or a negative id): "+yearParam, http.StatusBadRequest)
			return
		}
		cfg.Year = year
	}
	account := r.URL.Query().Get("account")

	s.mu.RLock()
	defer s.mu.RUnlock()

	l := s.ledger
	if cfg.Year != s.ledgerConfig().Year {
		l = ledger.New()
		_ = l.Process(cfg.WithContext(r.Context()), s.document)
	}

	mismatched := make(map[string]bool)
	for _, err := range l.Errors() {
		if e, ok := err.(interface{ GetAccount() string }); ok {
			mismatched[e.GetAccount()] = true
		}
	}

	response := &BalancesResponse{
		Year:      cfg.Year,
		Tolerance: cfg.Tolerance,
		Accounts:  []*BalanceInfoResponse{},
	}

	for _, b := range l.Balances() {
		if account != "" && b.Account != account {
			continue
		}
		response.Accounts = append(response.Accounts, convertBalance(b, !mismatched[b.Account]))
		if account != "" {
			response.Periods = b.Periods
		}
	}

	if account != "" && len(response.Accounts) == 0 {
		http.Error(w, "unknown account: "+account, http.StatusNotFound)
		return
	}

	writeJSONResponse(w, response)
}

func convertBalance(b *ledger.AccountBalance, balanced bool) *BalanceInfoResponse {
	info := &BalanceInfoResponse{
		Account:  b.Account,
		Name:     b.Name,
		Movement: b.Movement,
		Computed: b.Computed(),
		Rows:     b.Rows,
		Balanced: balanced,
	}
	if b.HasOpening {
		info.Opening = &b.Opening
	}
	if b.HasClosing {
		info.Closing = &b.Closing
	}
	if b.HasResult {
		info.Result = &b.Result
	}
	return info
}
