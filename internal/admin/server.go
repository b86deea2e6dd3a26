// Package admin exposes the simulator over HTTP and a websocket feed.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"craneguard/internal/config"
	"craneguard/internal/crane"
	"craneguard/internal/sim"
)

type Server struct {
	Sim      *sim.Simulator
	log      *slog.Logger
	upgrader websocket.Upgrader
	mux      *http.ServeMux
	srv      *http.Server
}

func NewServer(s *sim.Simulator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	srv := &Server{
		Sim: s,
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		mux: http.NewServeMux(),
	}
	srv.routes()
	return srv
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/cranes", s.handleListCranes)
	s.mux.HandleFunc("POST /api/cranes", s.handleAddCrane)
	s.mux.HandleFunc("GET /api/cranes/{id}", s.handleGetCrane)
	s.mux.HandleFunc("DELETE /api/cranes/{id}", s.handleRemoveCrane)
	s.mux.HandleFunc("POST /api/cranes/{id}/control", s.handleControl)
	s.mux.HandleFunc("GET /api/status", s.handleStatus)
	s.mux.HandleFunc("GET /api/collisions", s.handleCollisions)
	s.mux.HandleFunc("GET /api/scenarios", s.handleScenarios)
	s.mux.HandleFunc("POST /api/scenarios/apply", s.handleApplyScenario)
	s.mux.HandleFunc("POST /api/simulation/speed", s.handleSpeed)
	s.mux.HandleFunc("POST /api/simulation/stop-all", s.handleStopAll)
	s.mux.HandleFunc("GET /api/snapshot", s.handleSnapshot)
	s.mux.HandleFunc("GET /ws", s.handleWS)
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler { return s.mux }

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.srv = &http.Server{Addr: addr, Handler: s.mux, ReadHeaderTimeout: 5 * time.Second}
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops a server started with Start.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleListCranes(w http.ResponseWriter, r *http.Request) {
	cranes := s.Sim.Cranes()
	out := make([]sim.CraneState, 0, len(cranes))
	for _, c := range cranes {
		out = append(out, sim.NewCraneState(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetCrane(w http.ResponseWriter, r *http.Request) {
	c, ok := s.Sim.Crane(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "crane not found")
		return
	}
	writeJSON(w, http.StatusOK, sim.NewCraneState(c))
}

func (s *Server) handleAddCrane(w http.ResponseWriter, r *http.Request) {
	var cfg config.Crane
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	c, err := s.Sim.AddCrane(cfg)
	if err != nil {
		if !errors.Is(err, crane.ErrExists) && !errors.Is(err, crane.ErrInvalidCrane) {
			s.log.Error("add crane failed", "crane_id", cfg.ID, "err", err)
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, sim.NewCraneState(c))
}

func (s *Server) handleRemoveCrane(w http.ResponseWriter, r *http.Request) {
	if !s.Sim.RemoveCrane(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, "crane not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req controlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if !req.apply(s.Sim, id) {
		writeError(w, http.StatusNotFound, "crane not found")
		return
	}
	c, _ := s.Sim.Crane(id)
	writeJSON(w, http.StatusOK, sim.NewCraneState(c))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.Sim.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     snap.Status,
		"simulation": snap.Simulation,
	})
}

func (s *Server) handleCollisions(w http.ResponseWriter, r *http.Request) {
	snap := s.Sim.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"collisions": snap.Collisions,
		"alerts":     snap.Alerts,
	})
}

func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Sim.Scenarios())
}

func (s *Server) handleApplyScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if !s.Sim.ApplyScenario(req.ScenarioID) {
		writeError(w, http.StatusNotFound, "scenario not found")
		return
	}
	s.log.Info("scenario applied", "scenario", req.ScenarioID)
	writeJSON(w, http.StatusOK, map[string]string{"active_scenario": req.ScenarioID})
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Multiplier float64 `json:"multiplier"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	applied := s.Sim.SetSpeedMultiplier(req.Multiplier)
	writeJSON(w, http.StatusOK, map[string]float64{"speed_multiplier": applied})
}

func (s *Server) handleStopAll(w http.ResponseWriter, r *http.Request) {
	s.Sim.StopAll()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Sim.Snapshot())
}
