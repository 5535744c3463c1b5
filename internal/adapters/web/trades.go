package web

import (
	"net/http"

	"smallbiz-ledger/internal/core"
)

// tradeStatusQuery parses the optional ?status= filter.
func tradeStatusQuery(w http.ResponseWriter, r *http.Request) (*core.TradeStatus, bool) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil, true
	}
	st, err := core.ParseTradeStatus(raw)
	if err != nil {
		writeError(w, r, err.Error(), "VALIDATION_ERROR", http.StatusBadRequest)
		return nil, false
	}
	return &st, true
}

// ── Purchases ─────────────────────────────────────────────────────────────────

// apiListPurchases handles GET /api/purchases?supplierId=&status=.
func (h *Handler) apiListPurchases(w http.ResponseWriter, r *http.Request) {
	supplierID, ok := queryInt(w, r, "supplierId")
	if !ok {
		return
	}
	status, ok := tradeStatusQuery(w, r)
	if !ok {
		return
	}
	purchases, err := h.ledger.Purchases.List(r.Context(), core.PurchaseFilter{SupplierID: supplierID, Status: status})
	if err != nil {
		h.writeServiceError(w, r, "apiListPurchases", err)
		return
	}
	writeJSON(w, purchases)
}

// apiCreatePurchase handles POST /api/purchases.
// Body: { supplierId, date, items: [{itemId, quantity, unitPrice}], totalAmount?, paidAmount?, status? }
func (h *Handler) apiCreatePurchase(w http.ResponseWriter, r *http.Request) {
	var body core.CreatePurchaseInput
	if !decodeJSON(w, r, &body) {
		return
	}
	p, err := h.ledger.Purchases.Create(r.Context(), body)
	if err != nil {
		h.writeServiceError(w, r, "apiCreatePurchase", err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, p)
}

// apiGetPurchase handles GET /api/purchases/{id}.
func (h *Handler) apiGetPurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.ledger.Purchases.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "apiGetPurchase", err)
		return
	}
	writeJSON(w, p)
}

// apiUpdatePurchase handles PATCH /api/purchases/{id}.
// Body: { paidAmount?, totalAmount?, status?, items?: [{itemId, quantity}] }
func (h *Handler) apiUpdatePurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body core.UpdatePurchaseInput
	if !decodeJSONStrict(w, r, &body) {
		return
	}
	p, err := h.ledger.Purchases.Update(r.Context(), id, body)
	if err != nil {
		h.writeServiceError(w, r, "apiUpdatePurchase", err)
		return
	}
	writeJSON(w, p)
}

// apiDeletePurchase handles DELETE /api/purchases/{id}.
func (h *Handler) apiDeletePurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.ledger.Purchases.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "apiDeletePurchase", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── Sales ─────────────────────────────────────────────────────────────────────

// apiListSales handles GET /api/sales?customerId=&status=.
func (h *Handler) apiListSales(w http.ResponseWriter, r *http.Request) {
	customerID, ok := queryInt(w, r, "customerId")
	if !ok {
		return
	}
	status, ok := tradeStatusQuery(w, r)
	if !ok {
		return
	}
	sales, err := h.ledger.Sales.List(r.Context(), core.SaleFilter{CustomerID: customerID, Status: status})
	if err != nil {
		h.writeServiceError(w, r, "apiListSales", err)
		return
	}
	writeJSON(w, sales)
}

// apiCreateSale handles POST /api/sales.
// Body: { customerId, date, items: [{itemId, quantity, unitPrice}], totalAmount?, receivedAmount?, status? }
func (h *Handler) apiCreateSale(w http.ResponseWriter, r *http.Request) {
	var body core.CreateSaleInput
	if !decodeJSON(w, r, &body) {
		return
	}
	s, err := h.ledger.Sales.Create(r.Context(), body)
	if err != nil {
		h.writeServiceError(w, r, "apiCreateSale", err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, s)
}

func (h *Handler) apiGetSale(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s, err := h.ledger.Sales.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "apiGetSale", err)
		return
	}
	writeJSON(w, s)
}

func (h *Handler) apiUpdateSale(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body core.UpdateSaleInput
	if !decodeJSONStrict(w, r, &body) {
		return
	}
	s, err := h.ledger.Sales.Update(r.Context(), id, body)
	if err != nil {
		h.writeServiceError(w, r, "apiUpdateSale", err)
		return
	}
	writeJSON(w, s)
}

func (h *Handler) apiDeleteSale(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.ledger.Sales.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "apiDeleteSale", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
