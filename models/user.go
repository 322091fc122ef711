package models

type LaborIntensity string

const (
	BrainWork    LaborIntensity = "brain-domain"
	ManualLabor  LaborIntensity = "labor-domain"
	MixedOrOther LaborIntensity = "other"
)

// UserInfo is the backend's view of an account.
type UserInfo struct {
	ID             ID             `json:"id"`
	Username       string         `json:"username"`
	Email          string         `json:"email"`
	Name           string         `json:"name"`
	Gender         string         `json:"gender"`
	Weight         Number         `json:"weight"`
	Height         Number         `json:"height"`
	LaborIntensity LaborIntensity `json:"laborIntensity"`
}

// UserStats is the aggregate intake summary for a user.
type UserStats struct {
	TargetCalories Number `json:"target_calories"`
	BMI            Number `json:"bmi"`
	Weight         Number `json:"weight"`
}

// Profile is the locally populated placeholder profile shown before the
// backend exposes a profile endpoint.
type Profile struct {
	ID                 int      `json:"id"`
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	Age                int      `json:"age"`
	Gender             string   `json:"gender"`
	Height             float64  `json:"height"`
	Weight             float64  `json:"weight"`
	TargetCalories     float64  `json:"targetCalories"`
	DietaryPreferences []string `json:"dietaryPreferences"`
	HealthGoals        []string `json:"healthGoals"`
}

// PlaceholderProfile returns a fresh copy of the fixed placeholder profile.
func PlaceholderProfile() Profile {
	return Profile{
		ID:                 1,
		Name:               "Test User",
		Email:              "test@example.com",
		Age:                23,
		Gender:             "female",
		Height:             175,
		Weight:             60,
		TargetCalories:     2000,
		DietaryPreferences: []string{"balanced diet"},
		HealthGoals:        []string{"stay healthy"},
	}
}

// RegisterRequest carries new-account data. The validate tags mirror the rules
// the backend enforces so obviously bad input never leaves the client.
type RegisterRequest struct {
	Username       string         `json:"username" validate:"required,username"`
	Email          string         `json:"email" validate:"required,email"`
	Password       string         `json:"password" validate:"required,password"`
	Name           string         `json:"name" validate:"required"`
	Gender         string         `json:"gender" validate:"required"`
	Weight         float64        `json:"weight" validate:"gt=0"`
	Height         float64        `json:"height" validate:"gt=0"`
	LaborIntensity LaborIntensity `json:"laborIntensity" validate:"required"`
}

// UpdateUserRequest lists the mutable profile fields. Nil fields are left
// unchanged by the backend.
type UpdateUserRequest struct {
	Name           *string         `json:"name,omitempty"`
	Gender         *string         `json:"gender,omitempty"`
	Weight         *float64        `json:"weight,omitempty"`
	Height         *float64        `json:"height,omitempty"`
	LaborIntensity *LaborIntensity `json:"laborIntensity,omitempty"`
}
