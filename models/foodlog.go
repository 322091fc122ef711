package models

// DateLayout is the wire format for log dates.
const DateLayout = "2006-01-02"

type MealCategory string

const (
	Breakfast MealCategory = "breakfast"
	Lunch     MealCategory = "lunch"
	Dinner    MealCategory = "dinner"
	Snack     MealCategory = "snack"
)

// FoodLogEntry is one row returned by the food log query.
type FoodLogEntry struct {
	ID       ID           `json:"id"`
	Date     string       `json:"date,omitempty"`
	Meal     MealCategory `json:"meal"`
	FoodItem string       `json:"food_item"`
	Calories Number       `json:"calories"`
	Protein  Number       `json:"protein"`
	Carbs    Number       `json:"carbs"`
	Fats     Number       `json:"fats"`
}

// NewFoodLog is what a caller supplies to record a food log. Date is optional
// and defaults to the local date at the time of the call.
type NewFoodLog struct {
	Date     string       `json:"date,omitempty"`
	Meal     MealCategory `json:"meal"`
	FoodItem string       `json:"food_item"`
	Calories float64      `json:"calories"`
	Protein  float64      `json:"protein"`
	Carbs    float64      `json:"carbs"`
	Fats     float64      `json:"fats"`
}

// HealthLog is a health metric sample. Zero-valued metrics are omitted on the
// wire.
type HealthLog struct {
	Date       string  `json:"date,omitempty"`
	Weight     float64 `json:"weight,omitempty"`
	WaterML    int     `json:"water_ml,omitempty"`
	Steps      int     `json:"steps,omitempty"`
	SleepHours float64 `json:"sleep_hours,omitempty"`
	Note       string  `json:"note,omitempty"`
}
