package handler

import (
	"net/http"

	"github.com/Bloinx/investco/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, box *service.BoxService, cookieSecure bool) {
	authHandler := NewAuthHandler(auth, cookieSecure)
	boxHandler := NewBoxHandler(box)

	mux.HandleFunc("GET /healthz", HandleHealthz)
	mux.Handle("GET /metrics", MetricsHandler())

	mux.HandleFunc("POST /api/auth/register", authHandler.HandleRegister)
	mux.HandleFunc("POST /api/auth/login", authHandler.HandleLogin)
	mux.HandleFunc("POST /api/auth/logout", authHandler.HandleLogout)
	mux.Handle("GET /api/auth/me", RequireAuth(auth, http.HandlerFunc(authHandler.HandleMe)))

	mux.HandleFunc("GET /api/box", boxHandler.HandleGetBox)
	mux.Handle("POST /api/box/pay", RequireAuth(auth, http.HandlerFunc(boxHandler.HandlePay)))
	mux.Handle("POST /api/box/withdraw", RequireAuth(auth, http.HandlerFunc(boxHandler.HandleWithdraw)))
	mux.Handle("GET /api/box/saver", RequireAuth(auth, http.HandlerFunc(boxHandler.HandleGetSaver)))
	mux.Handle("GET /api/box/collateral", RequireAuth(auth, http.HandlerFunc(boxHandler.HandleGetCollateral)))
	mux.Handle("GET /api/box/balance", RequireAuth(auth, http.HandlerFunc(boxHandler.HandleGetBalance)))
}
