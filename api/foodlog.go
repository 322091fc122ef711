package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/aguxez/nutrilog/models"
)

// AddFoodLogRequest is the body of POST /add_food_log.
type AddFoodLogRequest struct {
	UserID   string              `json:"user_id"`
	Date     string              `json:"date"`
	Meal     models.MealCategory `json:"meal"`
	FoodItem string              `json:"food_item"`
	Calories float64             `json:"calories"`
	Protein  float64             `json:"protein"`
	Carbs    float64             `json:"carbs"`
	Fats     float64             `json:"fats"`
}

type AddFoodLogResponse struct {
	Message   string    `json:"message"`
	FoodLogID models.ID `json:"food_log_id"`
}

// AddHealthLogRequest is the body of POST /add_health_log.
type AddHealthLogRequest struct {
	UserID string `json:"user_id"`
	models.HealthLog
}

type foodLogsResponse struct {
	FoodLogs []models.FoodLogEntry `json:"food_logs"`
}

// QueryFoodLog lists a user's food logs for one date.
func (c *Client) QueryFoodLog(ctx context.Context, userID, date string) ([]models.FoodLogEntry, error) {
	query := url.Values{}
	query.Set("user_id", userID)
	query.Set("date", date)

	body, err := c.do(ctx, http.MethodGet, "/query_food_log", query, nil)
	if err != nil {
		return nil, err
	}

	if !gjson.GetBytes(body, "food_logs").IsArray() {
		return nil, errors.New("response is missing food_logs")
	}

	resp, err := decode[foodLogsResponse](body)
	if err != nil {
		return nil, err
	}

	for i := range resp.FoodLogs {
		if resp.FoodLogs[i].Date == "" {
			resp.FoodLogs[i].Date = date
		}
	}
	return resp.FoodLogs, nil
}

func (c *Client) AddFoodLog(ctx context.Context, req AddFoodLogRequest) (*AddFoodLogResponse, error) {
	body, err := c.do(ctx, http.MethodPost, "/add_food_log", nil, req)
	if err != nil {
		return nil, err
	}
	return decode[AddFoodLogResponse](body)
}

func (c *Client) DeleteFoodLog(ctx context.Context, logID string) (*MessageResponse, error) {
	if logID == "" {
		return nil, errors.New("food log id is required")
	}

	body, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/delete_food_log/%s", url.PathEscape(logID)), nil, nil)
	if err != nil {
		return nil, err
	}
	return decode[MessageResponse](body)
}

func (c *Client) AddHealthLog(ctx context.Context, req AddHealthLogRequest) (*MessageResponse, error) {
	body, err := c.do(ctx, http.MethodPost, "/add_health_log", nil, req)
	if err != nil {
		return nil, err
	}
	return decode[MessageResponse](body)
}
