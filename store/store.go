// Package store holds the client-side state of the application: the user
// session and the food log cache. Each store owns its state behind a mutex and
// proxies the backend through the api client.
package store

import (
	"context"

	"github.com/aguxez/nutrilog/api"
	"github.com/aguxez/nutrilog/models"
)

// UserAPI is the part of the backend the user store needs.
type UserAPI interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*api.MessageResponse, error)
	UserInfo(ctx context.Context, userID string) (*models.UserInfo, error)
	UpdateUserInfo(ctx context.Context, userID string, req models.UpdateUserRequest) (*api.MessageResponse, error)
	UserIntake(ctx context.Context, userID string) (*models.UserStats, error)
}

// FoodLogAPI is the part of the backend the food log store needs.
type FoodLogAPI interface {
	QueryFoodLog(ctx context.Context, userID, date string) ([]models.FoodLogEntry, error)
	AddFoodLog(ctx context.Context, req api.AddFoodLogRequest) (*api.AddFoodLogResponse, error)
	DeleteFoodLog(ctx context.Context, logID string) (*api.MessageResponse, error)
	AddHealthLog(ctx context.Context, req api.AddHealthLogRequest) (*api.MessageResponse, error)
}

// SessionReader exposes the current identity to stores that act on behalf of
// the logged-in user.
type SessionReader interface {
	UserID() string
	IsLoggedIn() bool
}

var (
	_ UserAPI       = (*api.Client)(nil)
	_ FoodLogAPI    = (*api.Client)(nil)
	_ SessionReader = (*UserStore)(nil)
)
