// Package api is the HTTP read/write surface over the shared state.
// Handlers are stateless; every request touches at most one state field.
package api

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/juju/errors"

	"pimon/internal/sensor"
	"pimon/internal/state"
	"pimon/log2"
)

const greeting = "Pi Zero monitor is running!"

// displayUnavailable is returned by GET /display when the rendered text
// cannot be read back (hardware panel keeps no text model).
const displayUnavailable = "Hardware mode - content not available via API"

type systemStatus struct {
	UptimeSeconds     uint64          `json:"uptime_seconds"`
	LedStatus         bool            `json:"led_status"`
	LastSensorReading *sensor.Reading `json:"last_sensor_reading"`
	DisplayContent    *string         `json:"display_content"`
}

type ledRequest struct {
	State bool `json:"state"`
}

type Server struct {
	g   *state.Global
	log *log2.Log
}

func NewServer(g *state.Global) *Server {
	return &Server{g: g, log: g.Log}
}

// Handler builds the full middleware stack: request logging, then
// permissive CORS, then the router.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.root).Methods("GET")
	r.HandleFunc("/status", s.status).Methods("GET")
	r.HandleFunc("/sensor", s.sensorData).Methods("GET")
	r.HandleFunc("/led", s.ledControl).Methods("POST")
	r.HandleFunc("/display", s.displayContent).Methods("GET")

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	return handlers.LoggingHandler(logWriter{s.log}, cors(r))
}

// Serve binds the configured address and serves until the Global stops.
// Binding happens before this returns control to the caller's goroutine
// spawn, so a bad listen address fails startup instead of racing it.
func (s *Server) Serve() error {
	ln, err := net.Listen("tcp", s.g.Config.Listen)
	if err != nil {
		return errors.Annotatef(err, "api listen=%s", s.g.Config.Listen)
	}
	s.log.Infof("api listening on %s", ln.Addr().String())

	srv := &http.Server{Handler: s.Handler()}
	if !s.g.Alive.Add(1) {
		_ = ln.Close()
		return nil
	}
	go func() {
		defer s.g.Alive.Done()
		<-s.g.Alive.StopChan()
		_ = srv.Close()
	}()

	err = srv.Serve(ln)
	if err == http.ErrServerClosed {
		err = nil
	}
	return errors.Trace(err)
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, greeting)
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	// Each field is read under its own lock; the snapshot is not
	// cross-field atomic and does not need to be.
	st := systemStatus{
		UptimeSeconds: uint64(s.g.Uptime() / time.Second),
		LedStatus:     s.g.Led(),
	}
	if reading, ok := s.g.SensorReading(); ok {
		st.LastSensorReading = &reading
	}
	if text, ok := s.g.DisplayText(); ok {
		st.DisplayContent = &text
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) sensorData(w http.ResponseWriter, r *http.Request) {
	reading, ok := s.g.SensorReading()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]string{"error": "No sensor data available"})
		return
	}
	writeJSON(w, http.StatusOK, reading)
}

func (s *Server) ledControl(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req ledRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "invalid json body",
		})
		return
	}

	if err := s.g.SetLed(req.State); err != nil {
		s.log.Errorf("api led set: %v", err)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"error":   "Failed to access GPIO",
		})
		return
	}
	if req.State {
		s.log.Infof("LED turned ON via API")
	} else {
		s.log.Infof("LED turned OFF via API")
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"led_state": req.State,
	})
}

func (s *Server) displayContent(w http.ResponseWriter, r *http.Request) {
	text, ok := s.g.DisplayText()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]string{
			"display_content": displayUnavailable,
			"mode":            "hardware",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"display_content": text,
		"mode":            "simulation",
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// logWriter routes gorilla's access log lines into log2.
type logWriter struct{ log *log2.Log }

func (lw logWriter) Write(p []byte) (int, error) {
	lw.log.Debugf("http %s", p)
	return len(p), nil
}
