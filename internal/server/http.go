package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"FreshmanRoll/internal/director"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

// sessionActions are the payload-free commands accepted on /api/session.
var sessionActions = map[string]director.Command{
	"abort":  director.Abort{},
	"pause":  director.Pause{},
	"resume": director.Resume{},
}

func newMux(s *Stage) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /api/routes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, routesToDTO(s.Routes()))
	})
	mux.HandleFunc("GET /api/progress", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.Progress())
	})
	mux.HandleFunc("GET /api/session", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.Status())
	})
	mux.HandleFunc("POST /api/routes/{id}/start", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil || !s.HasRoute(id) {
			log.Printf("[route] start requested for unknown route %q", r.PathValue("id"))
			writeJSON(w, http.StatusNotFound, errorDTO{Error: "unknown route"})
			return
		}
		s.Enqueue(director.StartRoute{RouteID: id})
		writeJSON(w, http.StatusAccepted, startRouteDTO{RouteID: id})
	})
	mux.HandleFunc("POST /api/session/{action}", func(w http.ResponseWriter, r *http.Request) {
		action := r.PathValue("action")
		cmd, ok := sessionActions[action]
		if !ok {
			writeJSON(w, http.StatusNotFound, errorDTO{Error: "unknown action"})
			return
		}
		s.Enqueue(cmd)
		writeJSON(w, http.StatusAccepted, map[string]string{"action": action})
	})
	mux.HandleFunc("GET /ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(s, w, r)
	})
	return mux
}
