package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/subhaliAR21/cross-game-wallet-assignment/internal/api/httpx"
	"github.com/subhaliAR21/cross-game-wallet-assignment/internal/api/validate"
	"github.com/subhaliAR21/cross-game-wallet-assignment/internal/config"
	"github.com/subhaliAR21/cross-game-wallet-assignment/internal/ledger"
	"github.com/subhaliAR21/cross-game-wallet-assignment/internal/metrics"
	"github.com/subhaliAR21/cross-game-wallet-assignment/internal/middleware"
	"github.com/subhaliAR21/cross-game-wallet-assignment/internal/models"
)

type applyResponse struct {
	UserID   string `json:"user_id"`
	Balance  int64  `json:"balance"`
	Replayed bool   `json:"replayed"`
}

func NewRouter(cfg config.Config, led *ledger.Ledger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.RateLimit(cfg.RateRPS), middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// topup takes USD and credits coins 1:1, truncating cents
		r.Post("/wallet/topup", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				UserID    string  `json:"user_id"`
				AmountUSD float64 `json:"amount_usd"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", "malformed body", nil)
				return
			}
			applyOp(w, r, led, models.Operation{
				UserID: req.UserID,
				Type:   models.OpTopUp,
				Amount: int64(req.AmountUSD),
			})
		})

		r.Post("/game/reward", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				UserID   string `json:"user_id"`
				Amount   int64  `json:"amount"`
				RewardID string `json:"reward_id"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", "malformed body", nil)
				return
			}
			applyOp(w, r, led, models.Operation{
				UserID: req.UserID,
				Type:   models.OpReward,
				Amount: req.Amount,
			})
		})

		r.Post("/wallet/debit", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				UserID string `json:"user_id"`
				Amount int64  `json:"amount"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", "malformed body", nil)
				return
			}
			applyOp(w, r, led, models.Operation{
				UserID: req.UserID,
				Type:   models.OpDebit,
				Amount: req.Amount,
			})
		})

		r.Get("/wallet/{userID}", func(w http.ResponseWriter, r *http.Request) {
			uid := chi.URLParam(r, "userID")
			httpx.WriteJSON(w, http.StatusOK, map[string]any{
				"user_id": uid,
				"balance": led.Balance(uid),
			})
		})
	})

	return r
}

// applyOp fills in the idempotency key, validates the request shape and maps
// the ledger outcome to HTTP.
func applyOp(w http.ResponseWriter, r *http.Request, led *ledger.Ledger, op models.Operation) {
	op.IdempotencyKey = r.Header.Get("Idempotency-Key")

	var errs validate.Errs
	if e := validate.Required("user_id", op.UserID); e != nil {
		errs = append(errs, *e)
	}
	if e := validate.Required("Idempotency-Key", op.IdempotencyKey); e != nil {
		errs = append(errs, *e)
	}
	if e := validate.MinInt("amount", op.Amount, 1); e != nil {
		errs = append(errs, *e)
	}
	if len(errs) > 0 {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", errs.Error(), errs)
		return
	}

	out, err := led.Apply(op)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInsufficientFunds):
			metrics.OperationsFailed.WithLabelValues("insufficient_funds").Inc()
			httpx.WriteError(w, http.StatusConflict, "insufficient_funds", err.Error(), nil)
		case errors.Is(err, ledger.ErrInvalidOperation):
			metrics.OperationsFailed.WithLabelValues("invalid_operation").Inc()
			httpx.WriteError(w, http.StatusUnprocessableEntity, "invalid_operation", err.Error(), nil)
		default:
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
		}
		return
	}

	if out.Replayed {
		metrics.OperationsReplayed.Inc()
	} else {
		metrics.OperationsTotal.WithLabelValues(string(op.Type)).Inc()
	}
	httpx.WriteJSON(w, http.StatusOK, applyResponse{
		UserID:   op.UserID,
		Balance:  out.Balance,
		Replayed: out.Replayed,
	})
}
