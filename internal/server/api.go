package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"verdant/internal/garden"
	"verdant/internal/gardener"
	"verdant/internal/ledger"
	"verdant/internal/telemetry"
)

// App holds everything the handlers depend on.
type App struct {
	Engine    garden.Engine
	Gardeners *gardener.Service
	Ledger    *ledger.Memory
	Events    telemetry.Repository
	Hub       *Hub

	BootNow time.Time
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeStatusJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the engine's error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, garden.ErrUnknownPlant):
		status = http.StatusNotFound
	case errors.Is(err, garden.ErrNotOwner), errors.Is(err, garden.ErrNotAdministrator):
		status = http.StatusForbidden
	case errors.Is(err, garden.ErrInsufficientPayment), errors.Is(err, ledger.ErrInsufficientFunds):
		status = http.StatusPaymentRequired
	case errors.Is(err, garden.ErrAlreadyDead),
		errors.Is(err, garden.ErrNotActive),
		errors.Is(err, garden.ErrNotReady),
		errors.Is(err, garden.ErrTransferFailed):
		status = http.StatusConflict
	case errors.Is(err, ledger.ErrNoAccount), errors.Is(err, ledger.ErrNegativeAmount),
		errors.Is(err, gardener.ErrInvalidName):
		status = http.StatusBadRequest
	}
	writeStatusJSON(w, status, map[string]string{"error": err.Error()})
}

func caller(r *http.Request) string {
	g, _ := gardener.FromContext(r.Context())
	return g.ID
}

func RegisterAPIRoutes(mux *http.ServeMux, rr *RouteRegistry, app *App) {
	engine := app.Engine
	gardeners := app.Gardeners
	led := app.Ledger

	Handle(mux, rr, "POST /api/gardeners", "Register a gardener, returns the bearer token", `{"name":"alice"}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json body", 400)
			return
		}

		now := engine.Clock.Now()
		g, token, err := gardeners.Register(body.Name, now)
		if err != nil {
			writeError(w, err)
			return
		}
		led.Open(g.ID, now)

		writeStatusJSON(w, http.StatusCreated, map[string]any{
			"gardener": g,
			"token":    token,
		})
	})

	Handle(mux, rr, "GET /api/me", "Current gardener", "", gardeners.Require(func(w http.ResponseWriter, r *http.Request) {
		g, _ := gardener.FromContext(r.Context())
		writeJSON(w, g)
	}))

	Handle(mux, rr, "GET /api/wallet", "Current gardener's wallet", "", gardeners.Require(func(w http.ResponseWriter, r *http.Request) {
		a, ok := led.Account(caller(r))
		if !ok {
			writeError(w, ledger.ErrNoAccount)
			return
		}
		writeJSON(w, a)
	}))

	Handle(mux, rr, "POST /api/wallet/deposit", "Fund the caller's wallet", `{"amount_micro":10000}`, gardeners.Require(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			AmountMicro int64 `json:"amount_micro"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json body", 400)
			return
		}

		balance, err := led.Deposit(caller(r), ledger.Funds(body.AmountMicro))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]any{"balance": balance})
	}))

	Handle(mux, rr, "POST /api/plants", "Plant a seed (fee is debited from the wallet)", `{"fee_micro":1000}`, gardeners.Require(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			FeeMicro int64 `json:"fee_micro"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json body", 400)
			return
		}

		p, err := engine.Create(r.Context(), caller(r), ledger.Funds(body.FeeMicro))
		if err != nil {
			writeError(w, err)
			return
		}
		writeStatusJSON(w, http.StatusCreated, p)
	}))

	Handle(mux, rr, "POST /api/plants/water", "Water a plant you own", `{"id":1}`, gardeners.Require(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ID uint64 `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json body", 400)
			return
		}

		res, err := engine.Water(r.Context(), caller(r), body.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, res)
	}))

	// Advancing is open to anyone: it only applies time the plant has
	// already lived through.
	Handle(mux, rr, "POST /api/plants/advance", "Recompute water and stage for a plant", `{"id":1}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ID uint64 `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json body", 400)
			return
		}

		res, err := engine.AdvanceStage(r.Context(), body.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, res)
	})

	Handle(mux, rr, "POST /api/plants/harvest", "Harvest a blooming plant for the fixed reward", `{"id":1}`, gardeners.Require(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ID uint64 `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json body", 400)
			return
		}

		res, err := engine.Harvest(r.Context(), caller(r), body.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, res)
	}))

	Handle(mux, rr, "GET /api/plants/{id}", "Plant snapshot with live water level", "", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid plant id", 400)
			return
		}

		snap, err := engine.GetPlant(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, snap)
	})

	Handle(mux, rr, "GET /api/plants", "The caller's plants, live snapshots", "", gardeners.Require(func(w http.ResponseWriter, r *http.Request) {
		plants, err := engine.ListPlants(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		owner := caller(r)
		mine := plants[:0]
		for _, p := range plants {
			if p.Owner == owner {
				mine = append(mine, p)
			}
		}
		writeJSON(w, mine)
	}))

	Handle(mux, rr, "GET /api/gardeners/{id}/plants", "Append-order plant id history for a gardener", "", func(w http.ResponseWriter, r *http.Request) {
		ids, err := engine.OwnerPlants(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]any{"plant_ids": ids})
	})

	Handle(mux, rr, "GET /api/escrow", "Pooled escrow balance", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"escrow_micro": led.Escrow()})
	})

	Handle(mux, rr, "POST /api/admin/withdraw", "Sweep the escrow to the administrator wallet", "", gardeners.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		amount, err := engine.Withdraw(r.Context(), engine.AdminAccount)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]any{"swept_micro": amount})
	}))

	Handle(mux, rr, "POST /api/admin/freeze", "Freeze or thaw a gardener's wallet", `{"gardener_id":"g_abc","frozen":true}`, gardeners.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			GardenerID string `json:"gardener_id"`
			Frozen     bool   `json:"frozen"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json body", 400)
			return
		}

		if err := led.SetFrozen(body.GardenerID, body.Frozen); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]any{"gardener_id": body.GardenerID, "frozen": body.Frozen})
	}))

	Handle(mux, rr, "GET /api/events", "Lifecycle event log", "", func(w http.ResponseWriter, r *http.Request) {
		var since time.Time
		if s := r.URL.Query().Get("since"); s != "" {
			parsed, err := time.Parse(time.RFC3339, s)
			if err != nil {
				http.Error(w, "since must be RFC3339", 400)
				return
			}
			since = parsed
		}

		var types []telemetry.EventType
		if t := r.URL.Query().Get("type"); t != "" {
			types = append(types, telemetry.EventType(t))
		}

		events, err := app.Events.GetEvents(since, types)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, events)
	})

	Handle(mux, rr, "GET /api/stats", "Garden stats aggregated from the event log", "", func(w http.ResponseWriter, r *http.Request) {
		events, err := app.Events.GetEvents(time.Time{}, nil)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, telemetry.CalculateStats(events, app.BootNow))
	})

	if app.Hub != nil {
		Handle(mux, rr, "GET /api/events/ws", "Live lifecycle event stream", "", app.Hub.Serve)
	}

	Handle(mux, rr, "GET /healthz", "Liveness probe", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"ok":      true,
			"service": "verdant",
			"time":    engine.Clock.Now().UTC().Format(time.RFC3339),
		})
	})
}
