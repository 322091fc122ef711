package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cast"

	"github.com/aguxez/nutrilog/models"
)

// formMode names the editor open on top of the current view.
type formMode int

const (
	modeNone formMode = iota
	modeSettings
	modeAddFood
	modeHealth
	modeRegister
)

// form is a column of labelled text inputs with one focused at a time.
type form struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

type formField struct {
	label       string
	placeholder string
	value       string
}

func newForm(fields ...formField) form {
	f := form{}
	for _, fd := range fields {
		in := textinput.New()
		in.Placeholder = fd.placeholder
		in.Prompt = "  "
		in.Cursor.SetMode(cursor.CursorStatic)
		in.SetValue(fd.value)

		f.labels = append(f.labels, fd.label)
		f.inputs = append(f.inputs, in)
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

func masked(f form, i int) form {
	f.inputs[i].EchoMode = textinput.EchoPassword
	f.inputs[i].EchoCharacter = '•'
	return f
}

func newLoginForm(username string) form {
	return masked(newForm(
		formField{label: "Username", placeholder: "username", value: username},
		formField{label: "Password", placeholder: "password"},
	), 1)
}

func newRegisterForm() form {
	return masked(newForm(
		formField{label: "Username", placeholder: "letters, digits, _"},
		formField{label: "Email", placeholder: "you@example.com"},
		formField{label: "Password", placeholder: "8+ characters, letters and digits"},
		formField{label: "Name", placeholder: "name"},
		formField{label: "Gender", placeholder: "female / male / other"},
		formField{label: "Weight (kg)", placeholder: "60"},
		formField{label: "Height (cm)", placeholder: "170"},
		formField{label: "Work", placeholder: "brain-domain / labor-domain / other"},
	), 2)
}

func newSettingsForm(name, weight, height string) form {
	return newForm(
		formField{label: "Name", placeholder: "name", value: name},
		formField{label: "Weight (kg)", placeholder: "weight (kg)", value: weight},
		formField{label: "Height (cm)", placeholder: "height (cm)", value: height},
	)
}

func newFoodForm() form {
	return newForm(
		formField{label: "Meal", placeholder: "breakfast / lunch / dinner / snack", value: string(models.Snack)},
		formField{label: "Food", placeholder: "what did you eat"},
		formField{label: "Calories (kcal)", placeholder: "0"},
		formField{label: "Protein (g)", placeholder: "0"},
		formField{label: "Carbs (g)", placeholder: "0"},
		formField{label: "Fat (g)", placeholder: "0"},
	)
}

func newHealthForm() form {
	return newForm(
		formField{label: "Weight (kg)", placeholder: "optional"},
		formField{label: "Water (ml)", placeholder: "optional"},
		formField{label: "Steps", placeholder: "optional"},
		formField{label: "Sleep (h)", placeholder: "optional"},
		formField{label: "Note", placeholder: "optional"},
	)
}

// move shifts focus by delta, wrapping around.
func (f *form) move(delta int) {
	if len(f.inputs) == 0 {
		return
	}
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f form) values() []string {
	out := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		out[i] = strings.TrimSpace(in.Value())
	}
	return out
}

func (f form) view() string {
	var b strings.Builder
	for i, in := range f.inputs {
		b.WriteString(labelStyle.Render(f.labels[i]))
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	return b.String()
}

// number parses an optional non-negative form value. Blank is zero.
func number(label, raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil || v < 0 {
		return 0, errors.New(label + " must be a non-negative number")
	}
	return v, nil
}

// updateRequest turns the settings form values into a partial update. Blank
// fields are left unchanged.
func updateRequest(values []string) (models.UpdateUserRequest, error) {
	var req models.UpdateUserRequest
	if values[0] != "" {
		req.Name = &values[0]
	}

	nums := []**float64{&req.Weight, &req.Height}
	for i, label := range []string{"weight", "height"} {
		raw := values[i+1]
		if raw == "" {
			continue
		}
		v, err := cast.ToFloat64E(raw)
		if err != nil || v <= 0 {
			return models.UpdateUserRequest{}, errors.New(label + " must be a positive number")
		}
		*nums[i] = &v
	}
	return req, nil
}

// foodEntry builds a food log from the add-entry form for date (empty means
// today).
func foodEntry(values []string, date string) (models.NewFoodLog, error) {
	meal := models.MealCategory(strings.ToLower(values[0]))
	switch meal {
	case models.Breakfast, models.Lunch, models.Dinner, models.Snack:
	default:
		return models.NewFoodLog{}, errors.New("meal must be breakfast, lunch, dinner or snack")
	}
	if values[1] == "" {
		return models.NewFoodLog{}, errors.New("food is required")
	}

	entry := models.NewFoodLog{Date: date, Meal: meal, FoodItem: values[1]}
	targets := []*float64{&entry.Calories, &entry.Protein, &entry.Carbs, &entry.Fats}
	for i, label := range []string{"calories", "protein", "carbs", "fat"} {
		v, err := number(label, values[i+2])
		if err != nil {
			return models.NewFoodLog{}, err
		}
		*targets[i] = v
	}
	return entry, nil
}

// healthEntry builds a health sample from the health form. At least one metric
// or a note is required.
func healthEntry(values []string, date string) (models.HealthLog, error) {
	entry := models.HealthLog{Date: date, Note: values[4]}

	var nums [4]float64
	for i, label := range []string{"weight", "water", "steps", "sleep"} {
		v, err := number(label, values[i])
		if err != nil {
			return models.HealthLog{}, err
		}
		nums[i] = v
	}
	entry.Weight = nums[0]
	entry.WaterML = int(nums[1])
	entry.Steps = int(nums[2])
	entry.SleepHours = nums[3]

	if entry == (models.HealthLog{Date: date}) {
		return models.HealthLog{}, errors.New("enter at least one value")
	}
	return entry, nil
}

// registerRequest builds a sign-up request. Field rules are checked by the
// user store.
func registerRequest(values []string) (models.RegisterRequest, error) {
	req := models.RegisterRequest{
		Username:       values[0],
		Email:          values[1],
		Password:       values[2],
		Name:           values[3],
		Gender:         strings.ToLower(values[4]),
		LaborIntensity: models.LaborIntensity(strings.ToLower(values[7])),
	}

	var err error
	if req.Weight, err = number("weight", values[5]); err != nil {
		return models.RegisterRequest{}, err
	}
	if req.Height, err = number("height", values[6]); err != nil {
		return models.RegisterRequest{}, err
	}

	switch req.LaborIntensity {
	case models.BrainWork, models.ManualLabor, models.MixedOrOther:
	default:
		return models.RegisterRequest{}, errors.New("work must be brain-domain, labor-domain or other")
	}
	return req, nil
}
