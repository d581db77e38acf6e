package web

import (
	"net/http"

	"github.com/shopspring/decimal"
)

type ObjectInfo struct {
	Dimension string `json:"dimension"`
	Number    string `json:"number"`
}

type RowInfo struct {
	Kind      string           `json:"kind"`
	Account   string           `json:"account"`
	Objects   []ObjectInfo     `json:"objects,omitempty"`
	Amount    decimal.Decimal  `json:"amount"`
	Date      string           `json:"date,omitempty"`
	Text      string           `json:"text,omitempty"`
	Quantity  *decimal.Decimal `json:"quantity,omitempty"`
	CreatedBy string           `json:"createdBy,omitempty"`
}

type VoucherInfo struct {
	Series    string    `json:"series"`
	Number    string    `json:"number"`
	Date      string    `json:"date"`
	Text      string    `json:"text,omitempty"`
	Created   string    `json:"created,omitempty"`
	CreatedBy string    `json:"createdBy,omitempty"`
	Line      int       `json:"line"`
	Rows      []RowInfo `json:"rows"`
}

// VouchersResponse is the JSON response structure for the vouchers endpoint.
type VouchersResponse struct {
	Vouchers []VoucherInfo `json:"vouchers"`
}

// handleGetVouchers handles GET requests to /api/vouchers.
//
// Query parameters:
//   - series: only return vouchers of this series.
//   - account: only return vouchers with a row on this account.
func (s *Server) handleGetVouchers(w http.ResponseWriter, r *http.Request) {
	series := r.URL.Query().Get("series")
	account := r.URL.Query().Get("account")

	s.mu.RLock()
	defer s.mu.RUnlock()

	vouchers := make([]VoucherInfo, 0, len(s.document.Vouchers))
	for _, v := range s.document.Vouchers {
		if series != "" && v.Series != series {
			continue
		}

		rows := make([]RowInfo, 0, len(v.Rows))
		touches := account == ""
		for _, row := range v.Rows {
			if row.Account == account {
				touches = true
			}
			var objects []ObjectInfo
			for _, ref := range row.Objects {
				objects = append(objects, ObjectInfo{Dimension: ref.Dimension, Number: ref.Number})
			}
			rows = append(rows, RowInfo{
				Kind:      row.Kind.Tag(),
				Account:   row.Account,
				Objects:   objects,
				Amount:    row.Amount,
				Date:      formatDate(row.Date),
				Text:      row.Text,
				Quantity:  quantity(row.Quantity),
				CreatedBy: row.CreatedBy,
			})
		}
		if !touches {
			continue
		}

		vouchers = append(vouchers, VoucherInfo{
			Series:    v.Series,
			Number:    v.Number,
			Date:      formatDate(v.Date),
			Text:      v.Text,
			Created:   formatDate(v.CreatedDate),
			CreatedBy: v.CreatedBy,
			Line:      v.Pos.Line,
			Rows:      rows,
		})
	}

	writeJSONResponse(w, &VouchersResponse{Vouchers: vouchers})
}

func quantity(q decimal.NullDecimal) *decimal.Decimal {
	if !q.Valid {
		return nil
	}
	return &q.Decimal
}
