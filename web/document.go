package web

import (
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"golang.org/x/exp/maps"

	"github.com/robinvdvleuten/sie/ast"
	"github.com/robinvdvleuten/sie/errors"
)

const dateLayout = "2006-01-02"

// writeJSONResponse writes a JSON response to the http.ResponseWriter.
// If encoding fails, it writes an error response.
func writeJSONResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// formatDate renders t as an ISO date, or the empty string when unset.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

type ProgramInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type CompanyInfo struct {
	Code            string   `json:"code,omitempty"`
	OrgNumber       string   `json:"orgNumber,omitempty"`
	Name            string   `json:"name"`
	Type            string   `json:"type,omitempty"`
	TypeDescription string   `json:"typeDescription,omitempty"`
	Industry        string   `json:"industry,omitempty"`
	Address         []string `json:"address,omitempty"`
}

type FiscalYearInfo struct {
	ID    int    `json:"id"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// DocumentResponse is the JSON response structure for the document endpoint.
type DocumentResponse struct {
	File        string           `json:"file"`
	Type        int              `json:"type"`
	Format      string           `json:"format,omitempty"`
	Program     ProgramInfo      `json:"program"`
	Generated   string           `json:"generated,omitempty"`
	GeneratedBy string           `json:"generatedBy,omitempty"`
	Prosa       string           `json:"prosa,omitempty"`
	Company     CompanyInfo      `json:"company"`
	AccountPlan string           `json:"accountPlan,omitempty"`
	Currency    string           `json:"currency,omitempty"`
	TaxYear     int              `json:"taxYear,omitempty"`
	ValueDate   string           `json:"valueDate,omitempty"`
	Checksum    int64            `json:"checksum,omitempty"`
	FiscalYears []FiscalYearInfo `json:"fiscalYears"`
	Counts      map[string]int   `json:"counts"`
	Version     string           `json:"serverVersion,omitempty"`
	CommitSHA   string           `json:"serverCommit,omitempty"`
}

// handleGetDocument handles GET requests to /api/document.
// Returns the header, the company block and the record counts.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := s.document

	company := CompanyInfo{
		Code:            doc.Company.Code,
		OrgNumber:       doc.Company.OrgNumber,
		Name:            doc.Company.Name,
		Type:            doc.Company.Type,
		TypeDescription: doc.Company.OrgTypeDescription(),
		Industry:        doc.Company.Industry,
	}
	if addr := doc.Company.Address; !addr.IsZero() {
		company.Address = []string{addr.Contact, addr.Street, addr.PostalCity, addr.Phone}
	}

	ids := maps.Keys(doc.FiscalYears)
	slices.Sort(ids)
	slices.Reverse(ids)
	years := make([]FiscalYearInfo, 0, len(ids))
	for _, id := range ids {
		fy := doc.FiscalYears[id]
		years = append(years, FiscalYearInfo{ID: id, Start: formatDate(fy.Start), End: formatDate(fy.End)})
	}

	counts := map[string]int{
		"accounts":   doc.Accounts.Len(),
		"dimensions": doc.Dimensions.Len(),
		"vouchers":   len(doc.Vouchers),
		"errors":     len(doc.Errors) + len(s.ledger.Errors()),
	}
	for _, kind := range ast.ValueKinds {
		counts[kind.Tag()] = len(doc.Values(kind))
	}

	writeJSONResponse(w, &DocumentResponse{
		File:        s.file,
		Type:        doc.Type,
		Format:      doc.Format,
		Program:     ProgramInfo{Name: doc.Program.Name, Version: doc.Program.Version},
		Generated:   formatDate(doc.Generated),
		GeneratedBy: doc.GeneratedBy,
		Prosa:       doc.Prosa,
		Company:     company,
		AccountPlan: doc.AccountPlan,
		Currency:    doc.Currency,
		TaxYear:     doc.TaxYear,
		ValueDate:   formatDate(doc.ValueDate),
		Checksum:    doc.Checksum,
		FiscalYears: years,
		Counts:      counts,
		Version:     s.Version,
		CommitSHA:   s.CommitSHA,
	})
}

// ErrorsResponse is the JSON response structure for the errors endpoint.
type ErrorsResponse struct {
	Errors []errors.ErrorJSON `json:"errors"`
}

// handleGetErrors handles GET requests to /api/errors.
// Returns the irregularities found while reading followed by the
// reconciliation mismatches.
func (s *Server) handleGetErrors(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := append(slices.Clone(s.document.Errors), s.ledger.Errors()...)
	writeJSONResponse(w, &ErrorsResponse{
		Errors: errors.NewJSONFormatter().FormatAllToSlice(all),
	})
}
