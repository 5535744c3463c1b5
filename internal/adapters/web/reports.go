package web

import (
	"net/http"
)

// apiCustomerBalances handles GET /api/reports/customers.
func (h *Handler) apiCustomerBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.ledger.Reports.CustomerBalances(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "apiCustomerBalances", err)
		return
	}
	writeJSON(w, balances)
}

// apiCustomerBalance handles GET /api/reports/customers/{id}.
func (h *Handler) apiCustomerBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	balance, err := h.ledger.Reports.CustomerBalance(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "apiCustomerBalance", err)
		return
	}
	writeJSON(w, balance)
}

// apiSupplierBalances handles GET /api/reports/suppliers.
func (h *Handler) apiSupplierBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.ledger.Reports.SupplierBalances(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "apiSupplierBalances", err)
		return
	}
	writeJSON(w, balances)
}

// apiSupplierBalance handles GET /api/reports/suppliers/{id}.
func (h *Handler) apiSupplierBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	balance, err := h.ledger.Reports.SupplierBalance(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "apiSupplierBalance", err)
		return
	}
	writeJSON(w, balance)
}

// apiAccountSummaries handles GET /api/reports/accounts.
func (h *Handler) apiAccountSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.ledger.Reports.AccountSummaries(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "apiAccountSummaries", err)
		return
	}
	writeJSON(w, summaries)
}

// apiStockSummary handles GET /api/reports/stock.
func (h *Handler) apiStockSummary(w http.ResponseWriter, r *http.Request) {
	lines, err := h.ledger.Reports.StockSummary(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "apiStockSummary", err)
		return
	}
	writeJSON(w, lines)
}
