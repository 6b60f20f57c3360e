package api

import (
	"encoding/json"
	"log"
	"net/http"

	vtterr "github.com/KirkDiggler/symbaroum-vtt/internal/errors"
	characterService "github.com/KirkDiggler/symbaroum-vtt/internal/services/character"
	rollService "github.com/KirkDiggler/symbaroum-vtt/internal/services/roll"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

const (
	// HeaderUserID names the caller. Authentication happens in front of this API.
	HeaderUserID   = "X-User-ID"
	HeaderUserName = "X-User-Name"

	maxBodyBytes = 1 << 20
)

// Server is the JSON API over the character and roll services
type Server struct {
	router       *mux.Router
	characters   characterService.Service
	rolls        rollService.Service
	chatPageSize int
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	CharacterService characterService.Service // Required
	RollService      rollService.Service      // Required
	ChatPageSize     int                      // Optional, defaults to 50
}

// NewServer creates the API server and registers its routes
func NewServer(cfg *ServerConfig) *Server {
	if cfg.CharacterService == nil {
		panic("character service is required")
	}
	if cfg.RollService == nil {
		panic("roll service is required")
	}

	s := &Server{
		router:       mux.NewRouter().StrictSlash(true),
		characters:   cfg.CharacterService,
		rolls:        cfg.RollService,
		chatPageSize: cfg.ChatPageSize,
	}
	if s.chatPageSize <= 0 {
		s.chatPageSize = 50
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/rolls", s.handleRoll).Methods(http.MethodPost)
	api.HandleFunc("/checks", s.handleCheck).Methods(http.MethodPost)
	api.HandleFunc("/derived", s.handleDerived).Methods(http.MethodPost)

	api.HandleFunc("/characters", s.handleCreateCharacter).Methods(http.MethodPost)
	api.HandleFunc("/characters", s.handleListCharacters).Methods(http.MethodGet)
	api.HandleFunc("/characters/{id}", s.handleGetCharacter).Methods(http.MethodGet)
	api.HandleFunc("/characters/{id}", s.handleDeleteCharacter).Methods(http.MethodDelete)
	api.HandleFunc("/characters/{id}/actions", s.handleSheetActions).Methods(http.MethodPost)
	api.HandleFunc("/characters/{id}/checks", s.handleCharacterCheck).Methods(http.MethodPost)
	api.HandleFunc("/characters/{id}/damage", s.handleDamage).Methods(http.MethodPost)

	api.HandleFunc("/campaigns/{id}/chat", s.handleChat).Methods(http.MethodGet)
	api.HandleFunc("/campaigns/{id}/characters", s.handleCampaignCharacters).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, vtterr.NotFoundf("no route for %s %s", r.Method, r.URL.Path))
	})
}

// ServeHTTP implements http.Handler without logging or recovery middleware
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler wraps the router with access logging and panic recovery
func (s *Server) Handler() http.Handler {
	recovered := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(s.router)
	return handlers.CombinedLoggingHandler(log.Writer(), recovered)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("API: failed to encode response: %v", err)
	}
}

type errorResponse struct {
	Error   string         `json:"error"`
	Code    vtterr.Code    `json:"code"`
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("API: internal error: %v", err)
		message = "internal error"
	}

	writeJSON(w, status, errorResponse{
		Error:   http.StatusText(status),
		Code:    vtterr.GetCode(err),
		Message: message,
		Meta:    vtterr.GetMeta(err),
	})
}

func statusFor(err error) int {
	switch vtterr.GetCode(err) {
	case vtterr.CodeInvalidArgument:
		return http.StatusBadRequest
	case vtterr.CodeValidation:
		return http.StatusUnprocessableEntity
	case vtterr.CodeNotFound:
		return http.StatusNotFound
	case vtterr.CodeAlreadyExists:
		return http.StatusConflict
	case vtterr.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return vtterr.InvalidArgumentf("malformed request body: %v", err)
	}
	return nil
}

func author(r *http.Request, campaignID string) rollService.Author {
	return rollService.Author{
		CampaignID: campaignID,
		UserID:     r.Header.Get(HeaderUserID),
		Name:       r.Header.Get(HeaderUserName),
	}
}

func requireUser(r *http.Request) (string, error) {
	userID := r.Header.Get(HeaderUserID)
	if userID == "" {
		return "", vtterr.InvalidArgumentf("%s header is required", HeaderUserID)
	}
	return userID, nil
}
