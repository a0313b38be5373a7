package user

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/deweis/fcc-exercise-tracker/internal/types"
)

// MockUserRepo is a mock implementation of UserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) CreateOrGet(ctx context.Context, username string) (*types.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserRepo) GetAll(ctx context.Context) ([]types.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.User), args.Error(1)
}

func (m *MockUserRepo) GetByID(ctx context.Context, userID string) (*types.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func TestCreateOrGet(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	existing := &types.User{ID: "aiCsi", Username: "gen"}

	tests := []struct {
		name          string
		username      string
		setupMock     func(m *MockUserRepo)
		expectedError error
	}{
		{
			name:     "Success",
			username: "gen",
			setupMock: func(m *MockUserRepo) {
				m.On("CreateOrGet", mock.Anything, "gen").Return(existing, nil)
			},
		},
		{
			name:          "Empty username rejected before the store",
			username:      "   ",
			setupMock:     func(m *MockUserRepo) {},
			expectedError: types.ErrEmptyUsername,
		},
		{
			name:     "Repository error propagates",
			username: "gen",
			setupMock: func(m *MockUserRepo) {
				m.On("CreateOrGet", mock.Anything, "gen").Return(nil, errors.New("connection refused"))
			},
			expectedError: errors.New("connection refused"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := new(MockUserRepo)
			tc.setupMock(mockRepo)
			service := NewUserService(mockRepo, logger)

			u, err := service.CreateOrGet(ctx, tc.username)

			if tc.expectedError != nil {
				assert.Error(t, err)
				assert.Nil(t, u)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, existing, u)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCreateOrGetIsIdempotent(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepo)
	service := NewUserService(mockRepo, slog.Default())

	existing := &types.User{ID: "aiCsi", Username: "gen"}
	mockRepo.On("CreateOrGet", mock.Anything, "gen").Return(existing, nil).Twice()

	first, err := service.CreateOrGet(ctx, "gen")
	assert.NoError(t, err)
	second, err := service.CreateOrGet(ctx, "gen")
	assert.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	mockRepo.AssertExpectations(t)
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepo)
	service := NewUserService(mockRepo, slog.Default())

	mockRepo.On("GetByID", mock.Anything, "missing").Return(nil, types.ErrUserNotFound)

	u, err := service.GetByID(ctx, "missing")
	assert.Nil(t, u)
	assert.ErrorIs(t, err, types.ErrUserNotFound)
	mockRepo.AssertExpectations(t)
}

func TestGetByIDCachesImmutableUsers(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepo)
	service := NewUserService(mockRepo, slog.Default())

	stored := &types.User{ID: "aiCsi", Username: "gen"}
	mockRepo.On("GetByID", mock.Anything, "aiCsi").Return(stored, nil).Once()

	first, err := service.GetByID(ctx, "aiCsi")
	assert.NoError(t, err)
	second, err := service.GetByID(ctx, "aiCsi")
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	// Only the first lookup reaches the store.
	mockRepo.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestGetAll(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepo)
	service := NewUserService(mockRepo, slog.Default())

	users := []types.User{
		{ID: "aiCsi", Username: "den"},
		{ID: "aiCsi2", Username: "den2"},
	}
	mockRepo.On("GetAll", mock.Anything).Return(users, nil)

	got, err := service.GetAll(ctx)
	assert.NoError(t, err)
	assert.Equal(t, users, got)
	mockRepo.AssertExpectations(t)
}
