package exercise

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/deweis/fcc-exercise-tracker/internal/api"
	"github.com/deweis/fcc-exercise-tracker/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	AddExercise(w http.ResponseWriter, r *http.Request)
	GetLog(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	exerciseService ExerciseService
	logger          *slog.Logger
}

// NewHandlerImpl creates a new exercise HandlerImpl instance.
func NewHandlerImpl(exerciseService ExerciseService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		exerciseService: exerciseService,
		logger:          logger,
	}
}

// AddExercise godoc
// @Summary      Add Exercise
// @Description  Logs an exercise entry for a user. Date is optional yyyy-mm-dd; omitted means today.
// @Tags         Exercise
// @Accept       json
// @Produce      json
// @Param        exercise body types.AddExerciseRequest true "Exercise to log"
// @Success      201 {object} types.EnrichedExercise "Logged Exercise"
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      404 {object} types.Response "User Not Found"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /api/exercise/add [post]
func (h *HandlerImpl) AddExercise(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "AddExercise"))

	var userID, description, durationRaw, dateRaw string
	if api.IsFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			l.WarnContext(ctx, "Failed to parse form body", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
			return
		}
		userID = r.PostFormValue("userId")
		description = r.PostFormValue("description")
		durationRaw = r.PostFormValue("duration")
		dateRaw = r.PostFormValue("date")
	} else {
		var req types.AddExerciseRequest
		if err := api.DecodeJSONBody(w, r, &req); err != nil {
			l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
			return
		}
		userID = req.UserID
		description = req.Description
		durationRaw = req.Duration.String()
		dateRaw = req.Date
	}

	entry, err := h.exerciseService.Add(ctx, userID, description, durationRaw, dateRaw)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrUserNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, types.ErrUserNotFound.Error())
		case errors.Is(err, types.ErrInvalidDate):
			api.ErrorResponse(w, r, http.StatusBadRequest, types.ErrInvalidDate.Error())
		case errors.Is(err, types.ErrInvalidDuration):
			api.ErrorResponse(w, r, http.StatusBadRequest, types.ErrInvalidDuration.Error())
		default:
			l.ErrorContext(ctx, "Failed to add exercise", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to add exercise")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, entry)
}

// GetLog godoc
// @Summary      Get Exercise Log
// @Description  Returns a user's exercise log. Optional from/to (yyyy-mm-dd, inclusive) and limit filters; malformed filter values are ignored.
// @Tags         Exercise
// @Produce      json
// @Param        userId query string true "User id"
// @Param        from query string false "Inclusive lower date bound (yyyy-mm-dd)"
// @Param        to query string false "Inclusive upper date bound (yyyy-mm-dd)"
// @Param        limit query int false "Maximum number of entries"
// @Success      200 {object} types.ExerciseLog "Exercise Log"
// @Failure      404 {object} types.Response "User Not Found"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /api/exercise/log [get]
func (h *HandlerImpl) GetLog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "GetLog"))

	q := r.URL.Query()
	userID := q.Get("userId")
	fromRaw := q.Get("from")
	toRaw := q.Get("to")
	limitRaw := q.Get("limit")

	logResult, err := h.exerciseService.GetLog(ctx, userID, fromRaw, toRaw, limitRaw)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, types.ErrUserNotFound.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to retrieve exercise log", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve exercise log")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, logResult)
}
