package web

import (
	"net/http"

	"smallbiz-ledger/internal/core"
)

// Master data has create and read routes only. Stock and balances change
// through purchases, sales, payments and receipts.

// apiListSuppliers handles GET /api/suppliers.
func (h *Handler) apiListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.ledger.MasterData.ListSuppliers(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "apiListSuppliers", err)
		return
	}
	writeJSON(w, suppliers)
}

// apiCreateSupplier handles POST /api/suppliers.
// Body: { name, phone?, address? }
func (h *Handler) apiCreateSupplier(w http.ResponseWriter, r *http.Request) {
	var body core.PartyInput
	if !decodeJSON(w, r, &body) {
		return
	}
	s, err := h.ledger.MasterData.CreateSupplier(r.Context(), body)
	if err != nil {
		h.writeServiceError(w, r, "apiCreateSupplier", err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, s)
}

func (h *Handler) apiGetSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s, err := h.ledger.MasterData.GetSupplier(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "apiGetSupplier", err)
		return
	}
	writeJSON(w, s)
}

func (h *Handler) apiListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.ledger.MasterData.ListCustomers(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "apiListCustomers", err)
		return
	}
	writeJSON(w, customers)
}

// apiCreateCustomer handles POST /api/customers.
// Body: { name, phone?, address? }
func (h *Handler) apiCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var body core.PartyInput
	if !decodeJSON(w, r, &body) {
		return
	}
	c, err := h.ledger.MasterData.CreateCustomer(r.Context(), body)
	if err != nil {
		h.writeServiceError(w, r, "apiCreateCustomer", err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, c)
}

func (h *Handler) apiGetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.ledger.MasterData.GetCustomer(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "apiGetCustomer", err)
		return
	}
	writeJSON(w, c)
}

func (h *Handler) apiListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.ledger.MasterData.ListItems(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "apiListItems", err)
		return
	}
	writeJSON(w, items)
}

// apiCreateItem handles POST /api/items.
// Body: { name, unit?, basePrice?, sellingPrice?, openingStock? }
func (h *Handler) apiCreateItem(w http.ResponseWriter, r *http.Request) {
	var body core.ItemInput
	if !decodeJSON(w, r, &body) {
		return
	}
	it, err := h.ledger.MasterData.CreateItem(r.Context(), body)
	if err != nil {
		h.writeServiceError(w, r, "apiCreateItem", err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, it)
}

func (h *Handler) apiGetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	it, err := h.ledger.MasterData.GetItem(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "apiGetItem", err)
		return
	}
	writeJSON(w, it)
}

// apiItemMovements handles GET /api/items/{id}/movements.
func (h *Handler) apiItemMovements(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	moves, err := h.ledger.Stock.MovementsForItem(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "apiItemMovements", err)
		return
	}
	if moves == nil {
		moves = []core.StockTransaction{}
	}
	writeJSON(w, moves)
}

func (h *Handler) apiListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.ledger.MasterData.ListAccounts(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "apiListAccounts", err)
		return
	}
	writeJSON(w, accounts)
}

// apiCreateAccount handles POST /api/accounts.
// Body: { bankName, accountNumber, accountHolder, openingBalance? }
func (h *Handler) apiCreateAccount(w http.ResponseWriter, r *http.Request) {
	var body core.AccountInput
	if !decodeJSON(w, r, &body) {
		return
	}
	a, err := h.ledger.MasterData.CreateAccount(r.Context(), body)
	if err != nil {
		h.writeServiceError(w, r, "apiCreateAccount", err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, a)
}

func (h *Handler) apiGetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := h.ledger.MasterData.GetAccount(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "apiGetAccount", err)
		return
	}
	writeJSON(w, a)
}
