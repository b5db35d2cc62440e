package http

import (
	"encoding/json"
	"net/http"

	"samskrtam-drill/internal/app"
	"samskrtam-drill/internal/logger"
)

// Routes registers the JSON endpoints and the websocket on mux.
func Routes(mux *http.ServeMux, service *app.DrillService, log *logger.Logger) {
	ws := NewWSHandler(service, log)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", ws.ServeWS)

	mux.HandleFunc("/lessons", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, service.Lessons())
	})

	mux.HandleFunc("/progress", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, service.Progress())
		case http.MethodDelete:
			service.ResetProgress(r.Context())
			writeJSON(w, http.StatusOK, service.Progress())
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
