package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/algo-verite/engine/internal/engine"
	"github.com/algo-verite/engine/internal/integrity"
	"github.com/algo-verite/engine/internal/store"
)

// #region types

// Server exposes the analysis pipeline over HTTP.
type Server struct {
	engine  *engine.Engine
	store   *store.Store
	log     *zap.Logger
	started time.Time
	now     func() time.Time
}

// New creates a server. A nil logger is replaced with a no-op one.
func New(eng *engine.Engine, st *store.Store, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		engine:  eng,
		store:   st,
		log:     log,
		started: time.Now(),
		now:     time.Now,
	}
}

// profileDTO uses a pointer for the immunity level so an absent field can
// fall back to the documented default without conflating it with 0.
type profileDTO struct {
	Age           int      `json:"age"`
	Comorbidities int      `json:"comorbidities"`
	ImmunityLevel *float64 `json:"immunity_level"`
}

type patientDTO struct {
	ID        string     `json:"id"`
	Pathology string     `json:"pathology"`
	Symptoms  []string   `json:"symptoms"`
	Profile   profileDTO `json:"profile"`
}

func (d patientDTO) toInput() engine.PatientInput {
	immunity := 0.7
	if d.Profile.ImmunityLevel != nil {
		immunity = *d.Profile.ImmunityLevel
	}
	return engine.PatientInput{
		ID:        d.ID,
		Pathology: d.Pathology,
		Symptoms:  d.Symptoms,
		Profile: engine.Profile{
			Age:           d.Profile.Age,
			Comorbidities: d.Profile.Comorbidities,
			ImmunityLevel: immunity,
		},
	}
}

type followUpDTO struct {
	PatientID    string   `json:"patient_id"`
	DayNumber    int      `json:"day_number"`
	HealthStatus string   `json:"health_status"`
	Symptoms     []string `json:"symptoms"`
	Notes        string   `json:"notes"`
}

type errorBody struct {
	Error string `json:"error"`
}

// #endregion types

// #region handler

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/medical/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/medical/patient/{id}", s.handleGetPatient)
	mux.HandleFunc("POST /api/medical/treatment/recommend", s.handleRecommend)
	mux.HandleFunc("POST /api/medical/cohort/analyze", s.handleCohort)
	mux.HandleFunc("POST /api/medical/followup", s.handleFollowUp)
	mux.HandleFunc("GET /api/medical/verify/{id}", s.handleVerify)
	mux.HandleFunc("GET /api/system/status", s.handleStatus)

	return s.withRecovery(s.withLogging(mux))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "Algo Verite Medical Prediction API",
		"version": engine.Version,
		"status":  "operational",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var dto patientDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return
	}

	analysis, err := s.engine.Analyze(dto.toInput())
	if err != nil {
		s.writeError(w, err)
		return
	}

	if s.store != nil {
		if err := s.store.SavePatient(analysis.PatientID, dto.toInput()); err != nil {
			s.log.Error("save patient", zap.Error(err))
		}
		if err := s.store.SaveAnalysis(analysis); err != nil {
			s.log.Error("save analysis", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleGetPatient(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	analysis, err := s.store.LatestAnalysis(id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "patient not found"})
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	followUps, err := s.store.FollowUps(id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"analysis":   analysis,
		"follow_ups": followUps,
	})
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var dto patientDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return
	}

	candidates, err := s.engine.Recommend(dto.toInput())
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"pathology":  dto.Pathology,
		"treatments": candidates,
	})
}

func (s *Server) handleCohort(w http.ResponseWriter, r *http.Request) {
	var dtos []patientDTO
	if err := json.NewDecoder(r.Body).Decode(&dtos); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "expected a JSON array of patients"})
		return
	}

	patients := make([]engine.PatientInput, len(dtos))
	for i, dto := range dtos {
		patients[i] = dto.toInput()
	}

	writeJSON(w, http.StatusOK, s.engine.AnalyzeCohort(patients))
}

func (s *Server) handleFollowUp(w http.ResponseWriter, r *http.Request) {
	var dto followUpDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return
	}
	if dto.PatientID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "patient_id is required"})
		return
	}

	id, err := s.store.AddFollowUp(store.FollowUp{
		PatientID:    dto.PatientID,
		DayNumber:    dto.DayNumber,
		HealthStatus: dto.HealthStatus,
		Symptoms:     dto.Symptoms,
		Notes:        dto.Notes,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	result, err := integrity.Verify(s.store, id, s.now())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if result.Status == integrity.StatusNotFound {
		writeJSON(w, http.StatusNotFound, result)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats()
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"version":        engine.Version,
		"uptime_seconds": int(time.Since(s.started).Seconds()),
		"statistics":     stats,
	})
}

// #endregion handler

// #region middleware

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var verr *engine.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: verr.Error()})
		return
	}
	s.log.Error("request failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("panic recovered", zap.Any("panic", rec))
				writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// #endregion middleware
