package controllers

import (
	"errors"
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	"ctd/internal/backend"
	"ctd/internal/controller"
	"ctd/internal/providers"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type TimerController struct {
	logger providers.Logger
	timer  controller.ControllerInterface
	client backend.ClientInterface
	cache  providers.CacheProviderInterface
}

func NewTimerController(logger providers.Logger, timer controller.ControllerInterface, client backend.ClientInterface, cache providers.CacheProviderInterface) *TimerController {
	return &TimerController{
		logger: logger,
		timer:  timer,
		client: client,
		cache:  cache,
	}
}

type actionRequest struct {
	CaseID string `json:"caseId"`
}

type actionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// writeActionError maps the timer error taxonomy onto HTTP statuses:
// gated duplicate submission 409, business rejection 422 with the
// backend's message verbatim, missing case 404, transport failure 502.
func (tc *TimerController) writeActionError(w http.ResponseWriter, err error) {
	var rejection *backend.BusinessRejection
	var notFound *backend.NotFoundError

	switch {
	case errors.Is(err, controller.ErrActionInFlight):
		writeJSON(w, http.StatusConflict, actionResponse{Success: false, Message: err.Error()})
	case errors.Is(err, controller.ErrMissingCaseID), errors.Is(err, controller.ErrNoActiveCase):
		writeJSON(w, http.StatusBadRequest, actionResponse{Success: false, Message: err.Error()})
	case errors.As(err, &rejection):
		writeJSON(w, http.StatusUnprocessableEntity, actionResponse{Success: false, Message: rejection.Message})
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, actionResponse{Success: false, Message: err.Error()})
	default:
		writeJSON(w, http.StatusBadGateway, actionResponse{Success: false, Message: "backend unavailable"})
	}
}

func decodeAction(w http.ResponseWriter, r *http.Request) (*actionRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload actionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		// an empty body is fine, stop falls back to the active case
		if errors.Is(err, io.EOF) {
			return &payload, true
		}
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return nil, false
	}
	return &payload, true
}

func (tc *TimerController) GetTimer(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, tc.timer.View())
}

func (tc *TimerController) StartTimer(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeAction(w, r)
	if !ok {
		return
	}

	message, err := tc.timer.Start(r.Context(), payload.CaseID)
	if err != nil {
		tc.writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{Success: true, Message: message})
}

func (tc *TimerController) StopTimer(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeAction(w, r)
	if !ok {
		return
	}

	message, err := tc.timer.Stop(r.Context(), payload.CaseID)
	if err != nil {
		tc.writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{Success: true, Message: message})
}

func (tc *TimerController) DismissTimer(w http.ResponseWriter, r *http.Request) {
	if err := tc.timer.Dismiss(); err != nil {
		tc.writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{Success: true})
}

func (tc *TimerController) FinalizeCase(w http.ResponseWriter, r *http.Request) {
	if err := tc.timer.Finalize(r.Context()); err != nil {
		tc.writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{Success: true})
}

// GetCase is a read-through proxy for list and detail surfaces. Responses
// are cached under a short TTL; the controller's own reconciliation
// fetches bypass this cache entirely.
func (tc *TimerController) GetCase(w http.ResponseWriter, r *http.Request) {
	caseID := r.URL.Query().Get("id")
	if caseID == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	cacheKey := "case:" + caseID
	if data, ok := tc.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	snapshot, err := tc.client.FetchCase(r.Context(), caseID)
	if err != nil {
		var notFound *backend.NotFoundError
		if errors.As(err, &notFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		tc.logger.Warnf(providers.TypeBackend, "Case proxy fetch for %s failed: %s", caseID, err)
		http.Error(w, "Bad Gateway", http.StatusBadGateway)
		return
	}

	gson, err := json.Marshal(snapshot)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	tc.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}
