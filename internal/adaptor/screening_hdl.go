package adaptor

import (
	"encoding/json"
	"net/http"
	"time"

	"showtime-engine/internal/dto/request"
	"showtime-engine/internal/usecase"
	"showtime-engine/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ScreeningHandler struct {
	schedule  usecase.ScheduleService
	lifecycle usecase.LifecycleService
	log       *zap.Logger
}

func NewScreeningHandler(schedule usecase.ScheduleService, lifecycle usecase.LifecycleService, log *zap.Logger) *ScreeningHandler {
	return &ScreeningHandler{
		schedule:  schedule,
		lifecycle: lifecycle,
		log:       log.With(zap.String("handler", "screening")),
	}
}

// CreateScreening handles POST /api/admin/screenings
func (h *ScreeningHandler) CreateScreening(w http.ResponseWriter, r *http.Request) {
	var req request.CreateScreeningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	screening, err := h.schedule.CreateScreening(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create screening")
		return
	}

	utils.ResponseCreated(w, "Screening created successfully", screening)
}

// BulkCreateScreenings handles POST /api/admin/screenings/bulk
func (h *ScreeningHandler) BulkCreateScreenings(w http.ResponseWriter, r *http.Request) {
	var req request.BulkCreateScreeningsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	screenings, err := h.schedule.BulkCreateScreenings(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "bulk create screenings")
		return
	}

	utils.ResponseCreated(w, "Screenings created successfully", screenings)
}

// UpdateScreening handles PUT /api/admin/screenings/{id}
func (h *ScreeningHandler) UpdateScreening(w http.ResponseWriter, r *http.Request) {
	screeningID := chi.URLParam(r, "id")
	if screeningID == "" {
		utils.ResponseBadRequest(w, "Screening ID is required", nil)
		return
	}

	var req request.UpdateScreeningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	screening, err := h.schedule.UpdateScreening(r.Context(), screeningID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update screening")
		return
	}

	utils.ResponseSuccess(w, "Screening updated successfully", screening)
}

// DeleteScreening handles DELETE /api/admin/screenings/{id}
func (h *ScreeningHandler) DeleteScreening(w http.ResponseWriter, r *http.Request) {
	screeningID := chi.URLParam(r, "id")
	if screeningID == "" {
		utils.ResponseBadRequest(w, "Screening ID is required", nil)
		return
	}

	if err := h.schedule.DeleteScreening(r.Context(), screeningID); err != nil {
		handleServiceError(h.log, w, err, "delete screening")
		return
	}

	utils.ResponseSuccess(w, "Screening deleted successfully", nil)
}

// GetScreenings handles GET /api/screenings
func (h *ScreeningHandler) GetScreenings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	var status, movieID *string
	if s := query.Get("status"); s != "" {
		status = &s
	}
	if m := query.Get("movie_id"); m != "" {
		movieID = &m
	}

	screenings, err := h.schedule.GetScreenings(r.Context(), req, status, movieID)
	if err != nil {
		handleServiceError(h.log, w, err, "get screenings")
		return
	}

	utils.ResponseSuccess(w, "success", screenings)
}

// GetScreeningByID handles GET /api/screenings/{id}
func (h *ScreeningHandler) GetScreeningByID(w http.ResponseWriter, r *http.Request) {
	screeningID := chi.URLParam(r, "id")
	if screeningID == "" {
		utils.ResponseBadRequest(w, "Screening ID is required", nil)
		return
	}

	screening, err := h.schedule.GetScreeningByID(r.Context(), screeningID)
	if err != nil {
		handleServiceError(h.log, w, err, "get screening by ID")
		return
	}

	utils.ResponseSuccess(w, "success", screening)
}

// CheckConflicts handles GET /api/screenings/conflicts?screen_id&start&end
func (h *ScreeningHandler) CheckConflicts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	screenID := query.Get("screen_id")
	if screenID == "" {
		utils.ResponseBadRequest(w, "screen_id is required", nil)
		return
	}

	start, err := time.Parse(time.RFC3339, query.Get("start"))
	if err != nil {
		utils.ResponseBadRequest(w, "start must be RFC3339", nil)
		return
	}
	end, err := time.Parse(time.RFC3339, query.Get("end"))
	if err != nil {
		utils.ResponseBadRequest(w, "end must be RFC3339", nil)
		return
	}

	conflicts, err := h.schedule.CheckConflicts(r.Context(), screenID, start, end)
	if err != nil {
		handleServiceError(h.log, w, err, "check conflicts")
		return
	}

	utils.ResponseSuccess(w, "success", conflicts)
}

// SweepStatuses handles POST /api/admin/lifecycle/sweep
func (h *ScreeningHandler) SweepStatuses(w http.ResponseWriter, r *http.Request) {
	result, err := h.lifecycle.Sweep(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "sweep statuses")
		return
	}

	utils.ResponseSuccess(w, "Sweep completed", result)
}
