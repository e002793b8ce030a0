package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Bloinx/investco/internal/domain"
	"github.com/Bloinx/investco/internal/service"
)

// BoxHandler handles savings box HTTP requests.
type BoxHandler struct {
	box *service.BoxService
}

// NewBoxHandler creates a new BoxHandler.
func NewBoxHandler(box *service.BoxService) *BoxHandler {
	return &BoxHandler{box: box}
}

// HandleGetBox returns the box configuration and state.
// GET /api/box
// Response: {"box": {...}}
func (h *BoxHandler) HandleGetBox(w http.ResponseWriter, r *http.Request) {
	registered, err := h.box.UserCount(r.Context())
	if err != nil {
		slog.Error("count registered savers", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"box": toBoxDTO(h.box.Box(), h.box.CurrentRealPeriod(), registered),
	})
}

// HandlePay admits one fixed contribution for the authenticated user.
// POST /api/box/pay
// Response: {"receipt": {...}}
func (h *BoxHandler) HandlePay(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	receipt, err := h.box.AdmitPayment(r.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoMorePayments):
			writeError(w, http.StatusConflict, "The payment schedule has ended.")
		case errors.Is(err, domain.ErrPaymentsUpToDate):
			writeError(w, http.StatusConflict, "Your payments are up to date.")
		default:
			slog.Error("admit payment", "error", err, "user_id", user.ID)
			writeError(w, http.StatusBadGateway, "The payment could not be completed.")
		}
		return
	}

	paymentsAdmitted.Inc()
	writeJSON(w, http.StatusCreated, map[string]any{
		"receipt": toPaymentReceiptDTO(receipt),
	})
}

// HandleWithdraw pays out part of the authenticated user's savings.
// POST /api/box/withdraw
// Request:  {"amount": 100}
// Response: {"receipt": {...}}
func (h *BoxHandler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	receipt, err := h.box.Withdraw(r.Context(), user, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, domain.ErrUserNotRegistered):
			writeError(w, http.StatusForbidden, "You are not registered in this box.")
		case errors.Is(err, domain.ErrWithdrawalTooLarge):
			writeError(w, http.StatusUnprocessableEntity, "The requested amount exceeds your available savings.")
		default:
			slog.Error("withdraw", "error", err, "user_id", user.ID)
			writeError(w, http.StatusBadGateway, "The withdrawal could not be completed.")
		}
		return
	}

	withdrawalsPaid.Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"receipt": toWithdrawalReceiptDTO(receipt),
	})
}

// HandleGetSaver returns the authenticated user's ledger record.
// GET /api/box/saver
// Response: {"saver": {...}} or 404 if the user has never paid
func (h *BoxHandler) HandleGetSaver(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	saver, err := h.box.Saver(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No payments on record.")
			return
		}
		slog.Error("get saver", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	future, err := h.box.FuturePayments(r.Context(), user.ID)
	if err != nil {
		slog.Error("compute future payments", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"saver": toSaverDTO(saver, future),
	})
}

// HandleGetCollateral returns the yield pool's view of the custody account.
// GET /api/box/collateral
// Response: {"account": {...}}
func (h *BoxHandler) HandleGetCollateral(w http.ResponseWriter, r *http.Request) {
	data, err := h.box.Collateral(r.Context())
	if err != nil {
		slog.Error("get collateral", "error", err)
		writeError(w, http.StatusBadGateway, "The yield pool could not be reached.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"account": toAccountDataDTO(data),
	})
}

// HandleGetBalance returns an asset balance. The account query parameter is
// optional and defaults to the box's custody account.
// GET /api/box/balance?account=...
// Response: {"balance": 123}
func (h *BoxHandler) HandleGetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.box.AssetBalance(r.Context(), r.URL.Query().Get("account"))
	if err != nil {
		slog.Error("get asset balance", "error", err)
		writeError(w, http.StatusBadGateway, "The asset gateway could not be reached.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"balance": balance,
	})
}
