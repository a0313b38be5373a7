package user

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/deweis/fcc-exercise-tracker/internal/types"
)

// MockUserService is a mock implementation of the UserService interface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) CreateOrGet(ctx context.Context, username string) (*types.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserService) GetAll(ctx context.Context) ([]types.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, userID string) (*types.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func TestCreateUserHandler(t *testing.T) {
	registered := &types.User{ID: "aiCsi", Username: "gen"}

	t.Run("JSON body", func(t *testing.T) {
		mockService := new(MockUserService)
		mockService.On("CreateOrGet", mock.Anything, "gen").Return(registered, nil)
		handler := NewHandlerImpl(mockService, slog.Default())

		body, _ := json.Marshal(types.NewUserRequest{Username: "gen"})
		req := httptest.NewRequest(http.MethodPost, "/api/exercise/new-user", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		handler.CreateUser(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		var got types.User
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, *registered, got)
		mockService.AssertExpectations(t)
	})

	t.Run("form body, as the original clients posted", func(t *testing.T) {
		mockService := new(MockUserService)
		mockService.On("CreateOrGet", mock.Anything, "gen").Return(registered, nil)
		handler := NewHandlerImpl(mockService, slog.Default())

		form := url.Values{"username": {"gen"}}
		req := httptest.NewRequest(http.MethodPost, "/api/exercise/new-user", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()

		handler.CreateUser(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("empty username is a 400", func(t *testing.T) {
		mockService := new(MockUserService)
		mockService.On("CreateOrGet", mock.Anything, "").Return(nil, types.ErrEmptyUsername)
		handler := NewHandlerImpl(mockService, slog.Default())

		body, _ := json.Marshal(types.NewUserRequest{Username: ""})
		req := httptest.NewRequest(http.MethodPost, "/api/exercise/new-user", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		handler.CreateUser(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("malformed JSON is a 400", func(t *testing.T) {
		mockService := new(MockUserService)
		handler := NewHandlerImpl(mockService, slog.Default())

		req := httptest.NewRequest(http.MethodPost, "/api/exercise/new-user", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		handler.CreateUser(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "CreateOrGet", mock.Anything, mock.Anything)
	})

	t.Run("store failure is a 500", func(t *testing.T) {
		mockService := new(MockUserService)
		mockService.On("CreateOrGet", mock.Anything, "gen").Return(nil, errors.New("connection refused"))
		handler := NewHandlerImpl(mockService, slog.Default())

		body, _ := json.Marshal(types.NewUserRequest{Username: "gen"})
		req := httptest.NewRequest(http.MethodPost, "/api/exercise/new-user", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		handler.CreateUser(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestListUsersHandler(t *testing.T) {
	t.Run("returns the registered users", func(t *testing.T) {
		mockService := new(MockUserService)
		mockService.On("GetAll", mock.Anything).Return([]types.User{
			{ID: "aiCsi", Username: "den"},
			{ID: "aiCsi2", Username: "den2"},
		}, nil)
		handler := NewHandlerImpl(mockService, slog.Default())

		req := httptest.NewRequest(http.MethodGet, "/api/exercise/users", nil)
		rr := httptest.NewRecorder()

		handler.ListUsers(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got []types.User
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Len(t, got, 2)
		mockService.AssertExpectations(t)
	})

	t.Run("store failure is a 500", func(t *testing.T) {
		mockService := new(MockUserService)
		mockService.On("GetAll", mock.Anything).Return(nil, errors.New("connection refused"))
		handler := NewHandlerImpl(mockService, slog.Default())

		req := httptest.NewRequest(http.MethodGet, "/api/exercise/users", nil)
		rr := httptest.NewRecorder()

		handler.ListUsers(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
