package user

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/deweis/fcc-exercise-tracker/internal/api"
	"github.com/deweis/fcc-exercise-tracker/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	CreateUser(w http.ResponseWriter, r *http.Request)
	ListUsers(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	userService UserService
	logger      *slog.Logger
}

// NewHandlerImpl creates a new user HandlerImpl instance.
func NewHandlerImpl(userService UserService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		userService: userService,
		logger:      logger,
	}
}

// CreateUser godoc
// @Summary      Register User
// @Description  Registers a username and returns the user. Idempotent: an existing username returns the existing user unchanged.
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        user body types.NewUserRequest true "Username to register"
// @Success      201 {object} types.User "Registered User"
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /api/exercise/new-user [post]
func (h *HandlerImpl) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "CreateUser"))

	var username string
	if api.IsFormRequest(r) {
		// The original tracker took classic HTML form posts.
		if err := r.ParseForm(); err != nil {
			l.WarnContext(ctx, "Failed to parse form body", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
			return
		}
		username = r.PostFormValue("username")
	} else {
		var req types.NewUserRequest
		if err := api.DecodeJSONBody(w, r, &req); err != nil {
			l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
			return
		}
		username = req.Username
	}

	u, err := h.userService.CreateOrGet(ctx, username)
	if err != nil {
		if errors.Is(err, types.ErrEmptyUsername) {
			api.ErrorResponse(w, r, http.StatusBadRequest, types.ErrEmptyUsername.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to register user", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to register user")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, u)
}

// ListUsers godoc
// @Summary      List Users
// @Description  Returns every registered user as {id, username}.
// @Tags         User
// @Produce      json
// @Success      200 {array} types.User "Registered Users"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /api/exercise/users [get]
func (h *HandlerImpl) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "ListUsers"))

	users, err := h.userService.GetAll(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list users")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, users)
}
