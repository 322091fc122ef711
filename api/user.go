package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/aguxez/nutrilog/models"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	UserID  models.ID `json:"user_id"`
	Message string    `json:"message,omitempty"`
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	body, err := c.do(ctx, http.MethodPost, "/login", nil, req)
	if err != nil {
		return nil, err
	}

	resp, err := decode[LoginResponse](body)
	if err != nil {
		return nil, err
	}
	if resp.UserID == "" {
		return nil, errors.New("login response is missing user_id")
	}
	return resp, nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*MessageResponse, error) {
	body, err := c.do(ctx, http.MethodPost, "/register", nil, req)
	if err != nil {
		return nil, err
	}
	return decode[MessageResponse](body)
}

func (c *Client) UserInfo(ctx context.Context, userID string) (*models.UserInfo, error) {
	body, err := c.do(ctx, http.MethodGet, "/user/"+url.PathEscape(userID), nil, nil)
	if err != nil {
		return nil, err
	}
	return decode[models.UserInfo](body)
}

func (c *Client) UpdateUserInfo(ctx context.Context, userID string, req models.UpdateUserRequest) (*MessageResponse, error) {
	body, err := c.do(ctx, http.MethodPut, "/update_user_info/"+url.PathEscape(userID), nil, req)
	if err != nil {
		return nil, err
	}
	return decode[MessageResponse](body)
}

// UserIntake returns the aggregate intake stats behind /user_intake.
func (c *Client) UserIntake(ctx context.Context, userID string) (*models.UserStats, error) {
	body, err := c.do(ctx, http.MethodGet, "/user_intake/"+url.PathEscape(userID), nil, nil)
	if err != nil {
		return nil, err
	}
	return decode[models.UserStats](body)
}
