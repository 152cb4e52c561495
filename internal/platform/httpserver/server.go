package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	adminerrors "faucet/contexts/identity-access/admin-authority/domain/errors"
	faucetengine "faucet/contexts/treasury-core/faucet-engine"
	faucetdomainerrors "faucet/contexts/treasury-core/faucet-engine/domain/errors"
	"faucet/contexts/treasury-core/faucet-engine/domain/valueobjects"
	faucethttp "faucet/contexts/treasury-core/faucet-engine/transport/http"
	_ "faucet/internal/platform/httpserver/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
	addr   string
	faucet faucetengine.Module
}

func New(faucet faucetengine.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		addr:   addr,
		faucet: faucet,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/faucet/v1/config/delay", s.handleSetClaimDelay)
	s.mux.HandleFunc("GET /api/faucet/v1/config/delay", s.handleGetClaimDelay)
	s.mux.HandleFunc("POST /api/faucet/v1/assets/{asset_id}/amount", s.handleSetClaimAmount)
	s.mux.HandleFunc("POST /api/faucet/v1/assets/{asset_id}/quota", s.handleSetMaxClaims)
	s.mux.HandleFunc("GET /api/faucet/v1/assets/{asset_id}", s.handleGetAssetView)
	s.mux.HandleFunc("POST /api/faucet/v1/deposits", s.handleDeposit)
	s.mux.HandleFunc("POST /api/faucet/v1/claims", s.handleClaim)
	s.mux.HandleFunc("GET /api/faucet/v1/wallets/{wallet}/claims/{asset_id}", s.handleGetUserClaimCount)
	s.mux.HandleFunc("GET /api/faucet/v1/treasury/{asset_id}", s.handleGetTreasuryBalance)
}

func (s *Server) handleSetClaimDelay(w http.ResponseWriter, r *http.Request) {
	var req faucethttp.SetClaimDelayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFaucetError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.faucet.Handler.SetClaimDelayHandler(r.Context(), req)
	if err != nil {
		writeFaucetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetClaimDelay(w http.ResponseWriter, r *http.Request) {
	resp, err := s.faucet.Handler.GetClaimDelayHandler(r.Context())
	if err != nil {
		writeFaucetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetClaimAmount(w http.ResponseWriter, r *http.Request) {
	var req faucethttp.SetClaimAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFaucetError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.faucet.Handler.SetClaimAmountHandler(r.Context(), r.PathValue("asset_id"), req)
	if err != nil {
		writeFaucetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetMaxClaims(w http.ResponseWriter, r *http.Request) {
	var req faucethttp.SetMaxClaimsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFaucetError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.faucet.Handler.SetMaxClaimsHandler(r.Context(), r.PathValue("asset_id"), req)
	if err != nil {
		writeFaucetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAssetView(w http.ResponseWriter, r *http.Request) {
	resp, err := s.faucet.Handler.GetAssetViewHandler(r.Context(), r.PathValue("asset_id"))
	if err != nil {
		writeFaucetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req faucethttp.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFaucetError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.faucet.Handler.DepositHandler(r.Context(), req)
	if err != nil {
		writeFaucetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	var req faucethttp.ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFaucetError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.faucet.Handler.ClaimHandler(r.Context(), req)
	if err != nil {
		writeFaucetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetUserClaimCount(w http.ResponseWriter, r *http.Request) {
	resp, err := s.faucet.Handler.GetUserClaimCountHandler(r.Context(), r.PathValue("wallet"), r.PathValue("asset_id"))
	if err != nil {
		writeFaucetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetTreasuryBalance(w http.ResponseWriter, r *http.Request) {
	resp, err := s.faucet.Handler.GetTreasuryBalanceHandler(r.Context(), r.PathValue("asset_id"))
	if err != nil {
		writeFaucetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeFaucetDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, adminerrors.ErrNotAdmin), errors.Is(err, faucetdomainerrors.ErrNotAdmin):
		writeFaucetError(w, http.StatusForbidden, "not_admin", err.Error())
	case errors.Is(err, adminerrors.ErrNotInitialized), errors.Is(err, faucetdomainerrors.ErrNotInitialized):
		writeFaucetError(w, http.StatusServiceUnavailable, "not_initialized", err.Error())
	case errors.Is(err, faucetdomainerrors.ErrRateLimited):
		writeFaucetError(w, http.StatusTooManyRequests, "rate_limited", err.Error())
	case errors.Is(err, faucetdomainerrors.ErrMaxClaimsReached):
		writeFaucetError(w, http.StatusConflict, "max_claims_reached", err.Error())
	case errors.Is(err, faucetdomainerrors.ErrAlreadyClaimed):
		writeFaucetError(w, http.StatusConflict, "already_claimed", err.Error())
	case errors.Is(err, faucetdomainerrors.ErrAssetNotConfigured):
		writeFaucetError(w, http.StatusNotFound, "asset_not_configured", err.Error())
	case errors.Is(err, faucetdomainerrors.ErrInsufficientFunds):
		writeFaucetError(w, http.StatusConflict, "insufficient_funds", err.Error())
	case errors.Is(err, faucetdomainerrors.ErrZeroDeposit):
		writeFaucetError(w, http.StatusBadRequest, "zero_deposit", err.Error())
	case errors.Is(err, faucetdomainerrors.ErrBelowMinimum):
		writeFaucetError(w, http.StatusBadRequest, "below_minimum", err.Error())
	case errors.Is(err, faucetdomainerrors.ErrInvalidDelay):
		writeFaucetError(w, http.StatusBadRequest, "invalid_delay", err.Error())
	case errors.Is(err, faucetdomainerrors.ErrInvalidInput), errors.Is(err, valueobjects.ErrInvalidAssetID):
		writeFaucetError(w, http.StatusBadRequest, "invalid_input", err.Error())
	default:
		writeFaucetError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeFaucetError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, faucethttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
