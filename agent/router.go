package agent

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/nstehr/vimy/vimy-raid/config"
	"github.com/nstehr/vimy/vimy-raid/ipc"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// NewRouter exposes the health check, the websocket host endpoint and the
// engagement registry.
func NewRouter(cfg config.Config, registry *Registry) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.HandleFunc("/ws", serveWS(cfg, registry))
	r.HandleFunc("/engagements", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, registry.List())
	}).Methods(http.MethodGet)
	r.HandleFunc("/engagements/{id}", func(w http.ResponseWriter, req *http.Request) {
		info, ok := registry.Get(mux.Vars(req)["id"])
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "engagement not found"})
			return
		}
		writeJSON(w, http.StatusOK, info)
	}).Methods(http.MethodGet)
	return r
}

func serveWS(cfg config.Config, registry *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("websocket upgrade failed", "error", err)
			return
		}
		slog.Info("new websocket connection", "remote", r.RemoteAddr)
		Serve(ipc.NewWSTransport(conn), cfg, registry)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}
