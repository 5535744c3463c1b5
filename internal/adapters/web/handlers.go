package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"smallbiz-ledger/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// Handler holds the ledger services and the chi router.
type Handler struct {
	ledger *app.Ledger
	logger logrus.FieldLogger
	router chi.Router
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(ledger *app.Ledger, logger logrus.FieldLogger, allowedOrigins string) http.Handler {
	h := &Handler{ledger: ledger, logger: logger}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Tracing)
	r.Use(Logger(logger))
	r.Use(Recoverer(logger))
	r.Use(CORS(allowedOrigins))

	// ── Health ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)

	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		// ── Purchases & sales ─────────────────────────────────────────────────
		r.Get("/api/purchases", h.apiListPurchases)
		r.Post("/api/purchases", h.apiCreatePurchase)
		r.Get("/api/purchases/{id}", h.apiGetPurchase)
		r.Patch("/api/purchases/{id}", h.apiUpdatePurchase)
		r.Delete("/api/purchases/{id}", h.apiDeletePurchase)

		r.Get("/api/sales", h.apiListSales)
		r.Post("/api/sales", h.apiCreateSale)
		r.Get("/api/sales/{id}", h.apiGetSale)
		r.Patch("/api/sales/{id}", h.apiUpdateSale)
		r.Delete("/api/sales/{id}", h.apiDeleteSale)

		// ── Payments & receipts ───────────────────────────────────────────────
		r.Get("/api/payments", h.apiListPayments)
		r.Post("/api/payments", h.apiCreatePayment)
		r.Get("/api/payments/{id}", h.apiGetPayment)
		r.Patch("/api/payments/{id}", h.apiUpdatePayment)
		r.Delete("/api/payments/{id}", h.apiDeletePayment)

		r.Get("/api/receipts", h.apiListReceipts)
		r.Post("/api/receipts", h.apiCreateReceipt)
		r.Get("/api/receipts/{id}", h.apiGetReceipt)
		r.Patch("/api/receipts/{id}", h.apiUpdateReceipt)
		r.Delete("/api/receipts/{id}", h.apiDeleteReceipt)

		// ── Master data ───────────────────────────────────────────────────────
		r.Get("/api/suppliers", h.apiListSuppliers)
		r.Post("/api/suppliers", h.apiCreateSupplier)
		r.Get("/api/suppliers/{id}", h.apiGetSupplier)
		r.Get("/api/customers", h.apiListCustomers)
		r.Post("/api/customers", h.apiCreateCustomer)
		r.Get("/api/customers/{id}", h.apiGetCustomer)
		r.Get("/api/items", h.apiListItems)
		r.Post("/api/items", h.apiCreateItem)
		r.Get("/api/items/{id}", h.apiGetItem)
		r.Get("/api/items/{id}/movements", h.apiItemMovements)
		r.Get("/api/accounts", h.apiListAccounts)
		r.Post("/api/accounts", h.apiCreateAccount)
		r.Get("/api/accounts/{id}", h.apiGetAccount)

		// ── Reports ───────────────────────────────────────────────────────────
		r.Get("/api/reports/customers", h.apiCustomerBalances)
		r.Get("/api/reports/customers/{id}", h.apiCustomerBalance)
		r.Get("/api/reports/suppliers", h.apiSupplierBalances)
		r.Get("/api/reports/suppliers/{id}", h.apiSupplierBalance)
		r.Get("/api/reports/accounts", h.apiAccountSummaries)
		r.Get("/api/reports/stock", h.apiStockSummary)
	})

	h.router = r
	return r
}

// health returns service status and database reachability.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}

	if err := h.ledger.Ping(r.Context()); err != nil {
		h.logger.WithError(err).Warn("health check: database unreachable")
		writeJSONStatus(w, http.StatusServiceUnavailable, response{Status: "degraded", Database: "unreachable"})
		return
	}
	writeJSON(w, response{Status: "ok", Database: "ok"})
}

// pathID parses the {id} URL parameter. Writes HTTP 400 and returns false
// when it is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, "id must be a positive integer", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// queryInt parses an optional positive integer query parameter.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		writeError(w, r, name+" must be a positive integer", "BAD_REQUEST", http.StatusBadRequest)
		return nil, false
	}
	return &v, true
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	return decode(w, r, json.NewDecoder(r.Body), v)
}

// decodeJSONStrict is decodeJSON that also rejects fields v does not declare.
// PATCH bodies use it so attempts to change immutable fields fail loudly.
func decodeJSONStrict(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return decode(w, r, dec, v)
}

func decode(w http.ResponseWriter, r *http.Request, dec *json.Decoder, v any) bool {
	if err := dec.Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
