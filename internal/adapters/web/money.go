package web

import (
	"net/http"

	"smallbiz-ledger/internal/core"
)

// ── Payments ──────────────────────────────────────────────────────────────────

// apiListPayments handles GET /api/payments?supplierId=&accountId=.
func (h *Handler) apiListPayments(w http.ResponseWriter, r *http.Request) {
	supplierID, ok := queryInt(w, r, "supplierId")
	if !ok {
		return
	}
	accountID, ok := queryInt(w, r, "accountId")
	if !ok {
		return
	}
	payments, err := h.ledger.Payments.List(r.Context(), core.PaymentFilter{SupplierID: supplierID, AccountID: accountID})
	if err != nil {
		h.writeServiceError(w, r, "apiListPayments", err)
		return
	}
	writeJSON(w, payments)
}

// apiCreatePayment handles POST /api/payments.
// Body: { supplierId, amount, method: "cash"|"account", accountId?, date, note? }
func (h *Handler) apiCreatePayment(w http.ResponseWriter, r *http.Request) {
	var body core.CreatePaymentInput
	if !decodeJSON(w, r, &body) {
		return
	}
	p, err := h.ledger.Payments.Create(r.Context(), body)
	if err != nil {
		h.writeServiceError(w, r, "apiCreatePayment", err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, p)
}

func (h *Handler) apiGetPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.ledger.Payments.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "apiGetPayment", err)
		return
	}
	writeJSON(w, p)
}

// apiUpdatePayment handles PATCH /api/payments/{id}.
// Body: { date?, note? }. Amount, method and account cannot change.
func (h *Handler) apiUpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body core.UpdateMoneyInput
	if !decodeJSONStrict(w, r, &body) {
		return
	}
	p, err := h.ledger.Payments.Update(r.Context(), id, body)
	if err != nil {
		h.writeServiceError(w, r, "apiUpdatePayment", err)
		return
	}
	writeJSON(w, p)
}

func (h *Handler) apiDeletePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.ledger.Payments.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "apiDeletePayment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── Receipts ──────────────────────────────────────────────────────────────────

// apiListReceipts handles GET /api/receipts?customerId=&accountId=.
func (h *Handler) apiListReceipts(w http.ResponseWriter, r *http.Request) {
	customerID, ok := queryInt(w, r, "customerId")
	if !ok {
		return
	}
	accountID, ok := queryInt(w, r, "accountId")
	if !ok {
		return
	}
	receipts, err := h.ledger.Receipts.List(r.Context(), core.ReceiptFilter{CustomerID: customerID, AccountID: accountID})
	if err != nil {
		h.writeServiceError(w, r, "apiListReceipts", err)
		return
	}
	writeJSON(w, receipts)
}

// apiCreateReceipt handles POST /api/receipts.
// Body: { customerId, amount, method: "cash"|"account", accountId?, date, note? }
func (h *Handler) apiCreateReceipt(w http.ResponseWriter, r *http.Request) {
	var body core.CreateReceiptInput
	if !decodeJSON(w, r, &body) {
		return
	}
	rc, err := h.ledger.Receipts.Create(r.Context(), body)
	if err != nil {
		h.writeServiceError(w, r, "apiCreateReceipt", err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, rc)
}

func (h *Handler) apiGetReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rc, err := h.ledger.Receipts.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "apiGetReceipt", err)
		return
	}
	writeJSON(w, rc)
}

func (h *Handler) apiUpdateReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body core.UpdateMoneyInput
	if !decodeJSONStrict(w, r, &body) {
		return
	}
	rc, err := h.ledger.Receipts.Update(r.Context(), id, body)
	if err != nil {
		h.writeServiceError(w, r, "apiUpdateReceipt", err)
		return
	}
	writeJSON(w, rc)
}

func (h *Handler) apiDeleteReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.ledger.Receipts.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "apiDeleteReceipt", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
