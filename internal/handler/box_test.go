package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func doRequest(t *testing.T, env *testEnv, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	env.mux.ServeHTTP(w, req)
	return w
}

func TestHandleGetBox(t *testing.T) {
	env := newTestEnv(t)

	w := doRequest(t, env, http.MethodGet, "/api/box", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Box struct {
			ContributionAmount int64  `json:"contributionAmount"`
			NumPayments        int    `json:"numPayments"`
			Stage              string `json:"stage"`
			CurrentPeriod      int    `json:"currentPeriod"`
		} `json:"box"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Box.ContributionAmount != 100 || body.Box.NumPayments != 3 {
		t.Fatalf("unexpected box config: %+v", body.Box)
	}
	if body.Box.Stage != "active" || body.Box.CurrentPeriod != 1 {
		t.Fatalf("unexpected box state: %+v", body.Box)
	}
}

func TestHandlePay_Success(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.login(t, "payer@example.com")

	w := doRequest(t, env, http.MethodPost, "/api/box/pay", "", cookie)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Receipt struct {
			Ref              string `json:"ref"`
			Period           int    `json:"period"`
			Amount           int64  `json:"amount"`
			AvailableSavings int64  `json:"availableSavings"`
		} `json:"receipt"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Receipt.Ref == "" {
		t.Fatal("expected a non-empty payment ref")
	}
	if body.Receipt.Period != 1 || body.Receipt.Amount != 100 || body.Receipt.AvailableSavings != 100 {
		t.Fatalf("unexpected receipt: %+v", body.Receipt)
	}
}

func TestHandlePay_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	w := doRequest(t, env, http.MethodPost, "/api/box/pay", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestHandlePay_UpToDate(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.login(t, "prepay@example.com")

	// Prepay the whole schedule, then one more.
	for i := 0; i < 3; i++ {
		w := doRequest(t, env, http.MethodPost, "/api/box/pay", "", cookie)
		if w.Code != http.StatusCreated {
			t.Fatalf("payment %d: expected 201, got %d: %s", i+1, w.Code, w.Body.String())
		}
	}

	w := doRequest(t, env, http.MethodPost, "/api/box/pay", "", cookie)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandlePay_EmptyWallet(t *testing.T) {
	env := newTestEnv(t)
	user, cookie := env.login(t, "broke@example.com")

	// Drain the wallet so the pull fails at the gateway.
	env.bank.Mint(user.WalletAddress, -10000)

	w := doRequest(t, env, http.MethodPost, "/api/box/pay", "", cookie)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", w.Code, w.Body.String())
	}
	// A gateway failure may happen before or after funds moved; the body
	// must not claim otherwise.
	if body := w.Body.String(); strings.Contains(body, "No funds were moved") {
		t.Fatalf("error body asserts funds did not move: %s", body)
	}
	if body := w.Body.String(); !strings.Contains(body, "The payment could not be completed.") {
		t.Fatalf("expected generic failure message, got %s", body)
	}
}

func TestHandleWithdraw_Success(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.login(t, "saver@example.com")

	if w := doRequest(t, env, http.MethodPost, "/api/box/pay", "", cookie); w.Code != http.StatusCreated {
		t.Fatalf("pay: expected 201, got %d", w.Code)
	}

	w := doRequest(t, env, http.MethodPost, "/api/box/withdraw", `{"amount":50}`, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Receipt struct {
			Fee int64 `json:"fee"`
			Net int64 `json:"net"`
		} `json:"receipt"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Receipt.Fee != 5 || body.Receipt.Net != 45 {
		t.Fatalf("expected fee=5 net=45, got %+v", body.Receipt)
	}
}

func TestHandleWithdraw_TooLarge(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.login(t, "greedy@example.com")

	if w := doRequest(t, env, http.MethodPost, "/api/box/pay", "", cookie); w.Code != http.StatusCreated {
		t.Fatalf("pay: expected 201, got %d", w.Code)
	}

	w := doRequest(t, env, http.MethodPost, "/api/box/withdraw", `{"amount":500}`, cookie)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandleWithdraw_NotRegistered(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.login(t, "nopay@example.com")

	w := doRequest(t, env, http.MethodPost, "/api/box/withdraw", `{"amount":50}`, cookie)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandleGetSaver(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.login(t, "ledger@example.com")

	// Before any payment there is no record.
	w := doRequest(t, env, http.MethodGet, "/api/box/saver", "", cookie)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before first payment, got %d", w.Code)
	}

	if w := doRequest(t, env, http.MethodPost, "/api/box/pay", "", cookie); w.Code != http.StatusCreated {
		t.Fatalf("pay: expected 201, got %d", w.Code)
	}

	w = doRequest(t, env, http.MethodGet, "/api/box/saver", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Saver struct {
			AvailableSavings int64 `json:"availableSavings"`
			ValidPayments    int   `json:"validPayments"`
			Active           bool  `json:"active"`
			Position         int   `json:"position"`
			FuturePayments   int64 `json:"futurePayments"`
		} `json:"saver"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Saver.AvailableSavings != 100 || body.Saver.ValidPayments != 1 {
		t.Fatalf("unexpected ledger: %+v", body.Saver)
	}
	if !body.Saver.Active || body.Saver.Position != 1 {
		t.Fatalf("expected registered saver at position 1, got %+v", body.Saver)
	}
	if body.Saver.FuturePayments != 200 {
		t.Fatalf("expected 200 still owed, got %d", body.Saver.FuturePayments)
	}
}

func TestHandleGetBalance(t *testing.T) {
	env := newTestEnv(t)
	user, cookie := env.login(t, "balance@example.com")

	w := doRequest(t, env, http.MethodGet, "/api/box/balance?account="+user.WalletAddress, "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Balance int64 `json:"balance"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Balance != 10000 {
		t.Fatalf("expected balance 10000, got %d", body.Balance)
	}
}

func TestHandleGetCollateral(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.login(t, "collateral@example.com")

	if w := doRequest(t, env, http.MethodPost, "/api/box/pay", "", cookie); w.Code != http.StatusCreated {
		t.Fatalf("pay: expected 201, got %d", w.Code)
	}

	w := doRequest(t, env, http.MethodGet, "/api/box/collateral", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Account struct {
			CollateralValue int64 `json:"collateralValue"`
		} `json:"account"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Account.CollateralValue != 100 {
		t.Fatalf("expected collateral 100, got %d", body.Account.CollateralValue)
	}
}
