package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jsphweid/lightorchestra/controller"
	"github.com/jsphweid/lightorchestra/model"
	"github.com/jsphweid/lightorchestra/session"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Submitter runs control operations on the playback loop.
type Submitter interface {
	Submit(ctx context.Context, op controller.Op) (controller.Reply, error)
}

const requestTimeout = 2 * time.Second

type Server struct {
	ctl      Submitter
	deviceId string
	log      *zap.Logger
}

func New(ctl Submitter, deviceId string, log *zap.Logger) *Server {
	return &Server{ctl: ctl, deviceId: deviceId, log: log}
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/health", s.handleHealth).Methods("GET")
	router.HandleFunc("/sensor", s.handleSensor).Methods("GET")
	router.HandleFunc("/recording/start", s.control(controller.StartRecording)).Methods("POST")
	router.HandleFunc("/recording/stop", s.control(controller.StopRecording)).Methods("POST")
	router.HandleFunc("/replay/start", s.control(controller.StartReplay)).Methods("POST")
	router.HandleFunc("/replay/stop", s.control(controller.StopReplay)).Methods("POST")
	router.HandleFunc("/session/save", s.control(controller.SaveSession)).Methods("POST")
	router.HandleFunc("/session/load", s.control(controller.LoadSession)).Methods("POST")
	return cors.Default().Handler(router)
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request, op controller.Op) (controller.Reply, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	reply, err := s.ctl.Submit(ctx, op)
	if err != nil {
		s.log.Warn("control loop unavailable", zap.String("op", string(op)), zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, model.ErrorResponse{Error: err.Error()})
		return reply, false
	}
	return reply, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reply, ok := s.submit(w, r, controller.GetStatus)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, model.HealthResponse{
		DeviceId: s.deviceId,
		Status:   "ok",
		Mode:     reply.Status.Mode.String(),
	})
}

func (s *Server) handleSensor(w http.ResponseWriter, r *http.Request) {
	reply, ok := s.submit(w, r, controller.GetStatus)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, model.SensorResponse{Raw: reply.Status.Light, Norm: reply.Status.Norm})
}

func (s *Server) control(op controller.Op) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply, ok := s.submit(w, r, op)
		if !ok {
			return
		}
		res := model.ControlResponse{Changed: reply.Changed, Mode: reply.Status.Mode.String()}
		if !reply.Changed && reply.Err == nil {
			res.Detail = "nothing to do"
		}
		if reply.Err != nil {
			res.Detail = reply.Err.Error()
		}
		writeJSON(w, statusFor(reply.Err), res)
	}
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, session.ErrStorage):
		return http.StatusInternalServerError
	case errors.Is(err, session.ErrReplaying),
		errors.Is(err, session.ErrRecording),
		errors.Is(err, session.ErrEmptySession),
		errors.Is(err, session.ErrBusy):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
