package web

import (
	"net/http"
	"sort"
)

// AccountInfo represents one account of the chart of accounts.
type AccountInfo struct {
	Number string   `json:"number"`
	Name   string   `json:"name"`
	Type   string   `json:"type,omitempty"`
	Unit   string   `json:"unit,omitempty"`
	SRU    []string `json:"sru,omitempty"`
}

// AccountsResponse is the JSON response structure for the accounts endpoint.
type AccountsResponse struct {
	Accounts []AccountInfo `json:"accounts"`
}

// handleGetAccounts handles GET requests to /api/accounts.
// Returns all accounts, sorted by account number.
func (s *Server) handleGetAccounts(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]AccountInfo, 0, s.document.Accounts.Len())
	for number, account := range s.document.Accounts.All() {
		accounts = append(accounts, AccountInfo{
			Number: number,
			Name:   account.Name,
			Type:   account.Type,
			Unit:   account.Unit,
			SRU:    account.SRU,
		})
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Number < accounts[j].Number
	})

	writeJSONResponse(w, &AccountsResponse{Accounts: accounts})
}
