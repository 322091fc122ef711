package ui

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aguxez/nutrilog/agent"
	"github.com/aguxez/nutrilog/api"
	"github.com/aguxez/nutrilog/models"
	"github.com/aguxez/nutrilog/router"
	"github.com/aguxez/nutrilog/storage"
	"github.com/aguxez/nutrilog/store"
	"github.com/aguxez/nutrilog/testutil"
)

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.Local)

type fixture struct {
	backend *testutil.Backend
	storage storage.Storage
	users   *store.UserStore
	foods   *store.FoodLogStore
	userID  string
}

type fakeAdvisor struct {
	advice agent.Advice
	err    error
	calls  int
}

func (f *fakeAdvisor) Advise(context.Context) (agent.Advice, error) {
	f.calls++
	return f.advice, f.err
}

func newFixture(t *testing.T, loggedIn bool) *fixture {
	t.Helper()

	backend := testutil.NewBackend(t)
	id := strconv.Itoa(backend.AddUser("alice", "password1"))
	log, _ := test.NewNullLogger()

	st := storage.NewMemory()
	if loggedIn {
		require.NoError(t, st.Set(storage.UserIDKey, id))
	}

	client := api.New(api.Config{BaseURL: backend.URL(), Logger: log})
	users := store.NewUserStore(client, st, log, store.WithProfileDelay(time.Millisecond))
	foods := store.NewFoodLogStore(client, users, log, store.WithClock(func() time.Time { return fixedNow }))

	return &fixture{backend: backend, storage: st, users: users, foods: foods, userID: id}
}

func (f *fixture) model(t *testing.T, advisor Advisor) Model {
	t.Helper()
	log, _ := test.NewNullLogger()
	m := New(context.Background(), Options{
		Router:  router.New(router.DefaultRoutes(), f.users),
		Users:   f.users,
		Foods:   f.foods,
		Advisor: advisor,
		Log:     log,
	})
	return drain(t, m, m.Init())
}

// drain runs cmd and every command it leads to, feeding the resulting
// messages back into the model. Spinner ticks are dropped.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()

	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 100, "command loop did not settle")

		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case nil, spinner.TickMsg, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			updated, c := m.Update(msg)
			m = updated.(Model)
			queue = append(queue, c)
		}
	}
	return m
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		case "ctrl+r":
			msg = tea.KeyMsg{Type: tea.KeyCtrlR}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, cmd := m.Update(msg)
		m = drain(t, updated.(Model), cmd)
	}
	return m
}

// fill replaces the open form's values in field order.
func fill(t *testing.T, m Model, values ...string) Model {
	t.Helper()
	require.Len(t, values, len(m.form.inputs))
	for i, v := range values {
		m.form.inputs[i].SetValue(v)
	}
	return m
}

func lastCall(t *testing.T, b *testutil.Backend, path string) testutil.Call {
	t.Helper()
	calls := b.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Path == path {
			return calls[i]
		}
	}
	require.Failf(t, "call not found", "no request to %s", path)
	return testutil.Call{}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestStartsOnLoginWhenLoggedOut(t *testing.T) {
	m := newFixture(t, false).model(t, nil)

	assert.Equal(t, router.Login, m.Route().Name)
	assert.Contains(t, m.View(), "Log in")
}

func TestStartsOnDashboardWhenLoggedIn(t *testing.T) {
	f := newFixture(t, true)
	f.backend.SeedLogs(f.userID, "2024-05-10",
		models.FoodLogEntry{Meal: models.Breakfast, FoodItem: "Oatmeal", Calories: 150, Protein: 5, Carbs: 27, Fats: 3},
		models.FoodLogEntry{Meal: models.Lunch, FoodItem: "Chicken salad", Calories: 1250, Protein: 35, Carbs: 10, Fats: 22},
	)

	m := f.model(t, nil)

	assert.Equal(t, router.Dashboard, m.Route().Name)
	assert.Equal(t, 0, m.pending)
	view := m.View()
	assert.Contains(t, view, "Today, 2024-05-10")
	assert.Contains(t, view, "Oatmeal")
	assert.Contains(t, view, "1,400 kcal")
	assert.Contains(t, f.backend.Paths(), "GET /query_food_log")
}

func TestLogin(t *testing.T) {
	f := newFixture(t, false)
	m := f.model(t, nil)

	m = press(t, m, "alice", "tab", "password1", "enter")

	assert.Equal(t, router.Dashboard, m.Route().Name)
	assert.NoError(t, m.err)
	assert.True(t, f.users.IsLoggedIn())

	id, ok, err := f.storage.Get(storage.UserIDKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, f.userID, id)

	assert.Equal(t, []string{
		"POST /login",
		"GET /user/" + f.userID,
		"GET /query_food_log",
		"GET /user_intake/" + f.userID,
	}, f.backend.Paths())
}

func TestLoginTypingShortcutsGoesIntoFields(t *testing.T) {
	m := newFixture(t, false).model(t, nil)

	m = press(t, m, "q", "1", "L")

	assert.Equal(t, router.Login, m.Route().Name)
	assert.Equal(t, []string{"q1L", ""}, m.login.values())
}

func TestLoginFailure(t *testing.T) {
	f := newFixture(t, false)
	m := f.model(t, nil)

	m = press(t, m, "alice", "tab", "wrong-password", "enter")

	assert.Equal(t, router.Login, m.Route().Name)
	require.Error(t, m.err)
	assert.True(t, errors.Is(m.err, store.ErrAuth))
	assert.Contains(t, m.View(), "invalid username or password")
}

func TestLoginRequiresBothFields(t *testing.T) {
	f := newFixture(t, false)
	m := press(t, f.model(t, nil), "alice", "enter")

	assert.EqualError(t, m.err, "username and password are required")
	assert.Empty(t, f.backend.Calls())
}

func TestNavigationKeys(t *testing.T) {
	f := newFixture(t, true)
	m := f.model(t, nil)

	m = press(t, m, "2")
	assert.Equal(t, router.Profile, m.Route().Name)
	require.NotNil(t, m.stats)
	assert.Equal(t, models.Number(2100.5), m.stats.TargetCalories)
	assert.NotNil(t, f.users.Snapshot().UserData)
	assert.Contains(t, m.View(), "Test User")

	m = press(t, m, "3")
	assert.Equal(t, router.Settings, m.Route().Name)
	assert.Contains(t, m.View(), "alice@example.com")

	m = press(t, m, "b")
	assert.Equal(t, router.Profile, m.Route().Name)

	m = press(t, m, "1")
	assert.Equal(t, router.Dashboard, m.Route().Name)
	assert.Contains(t, m.View(), "of "+formatNumber(m.stats.TargetCalories))
}

func TestLogout(t *testing.T) {
	f := newFixture(t, true)
	f.backend.SeedLogs(f.userID, "2024-05-10", models.FoodLogEntry{Meal: models.Snack, FoodItem: "Apple", Calories: 95})
	m := f.model(t, nil)
	require.Len(t, f.foods.TodayLogs(), 1)

	m = press(t, m, "L")

	assert.Equal(t, router.Login, m.Route().Name)
	assert.False(t, f.users.IsLoggedIn())
	assert.Empty(t, f.foods.TodayLogs())
	_, ok, err := f.storage.Get(storage.UserIDKey)
	require.NoError(t, err)
	assert.False(t, ok)

	m = drain(t, m, navigate("/profile"))
	assert.Equal(t, router.Login, m.Route().Name)
}

func TestDayNavigation(t *testing.T) {
	f := newFixture(t, true)
	f.backend.SeedLogs(f.userID, "2024-05-09", models.FoodLogEntry{Meal: models.Dinner, FoodItem: "Pasta", Calories: 600})
	m := f.model(t, nil)

	m = press(t, m, "right")
	assert.Equal(t, "", m.day, "cannot move past today")

	m = press(t, m, "left")
	assert.Equal(t, "2024-05-09", m.day)
	assert.Contains(t, m.View(), "Pasta")
	assert.Contains(t, m.View(), "Thu 9 May 2024")
	assert.Equal(t, []string{"2024-05-09"}, f.foods.HistoryDates())

	last := f.backend.Calls()[len(f.backend.Calls())-1]
	assert.Contains(t, last.Query, "date=2024-05-09")

	m = press(t, m, "right")
	assert.Equal(t, "", m.day)
	assert.NotContains(t, m.View(), "Pasta")
}

func TestDeleteSelectedEntry(t *testing.T) {
	f := newFixture(t, true)
	f.backend.SeedLogs(f.userID, "2024-05-10",
		models.FoodLogEntry{Meal: models.Breakfast, FoodItem: "Oatmeal", Calories: 150},
		models.FoodLogEntry{Meal: models.Lunch, FoodItem: "Soup", Calories: 200},
	)
	m := f.model(t, nil)

	m = press(t, m, "down")
	assert.Equal(t, 1, m.selected)

	m = press(t, m, "x")

	assert.Equal(t, "entry deleted", m.status)
	assert.Contains(t, f.backend.Paths(), "DELETE /delete_food_log/2")
	logs := f.foods.TodayLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "Oatmeal", logs[0].FoodItem)
	assert.Equal(t, 0, m.selected)
}

func TestDeleteFailureIsShown(t *testing.T) {
	f := newFixture(t, true)
	f.backend.SeedLogs(f.userID, "2024-05-10", models.FoodLogEntry{Meal: models.Lunch, FoodItem: "Soup", Calories: 200})
	f.backend.Fail("delete_food_log", 500, "")
	m := f.model(t, nil)

	m = press(t, m, "x")

	require.Error(t, m.err)
	assert.Equal(t, "failed to delete food log", m.err.Error())
	assert.Len(t, f.foods.TodayLogs(), 1)
}

func TestAdvisor(t *testing.T) {
	advisor := &fakeAdvisor{advice: agent.Advice{Summary: "Eat more greens.", Suggestions: []string{"Spinach"}}}
	m := newFixture(t, true).model(t, advisor)

	m = press(t, m, "a")

	assert.Equal(t, 1, advisor.calls)
	assert.True(t, m.showAdvice)
	assert.Contains(t, m.advice, "greens")
	assert.Contains(t, m.advice, "Spinach")

	m = press(t, m, "b")
	assert.False(t, m.showAdvice)
	assert.Equal(t, router.Dashboard, m.Route().Name)
}

func TestAdvisorDisabled(t *testing.T) {
	m := press(t, newFixture(t, true).model(t, nil), "a")

	assert.False(t, m.showAdvice)
	assert.Contains(t, m.status, "advisor disabled")
}

func TestAdvisorError(t *testing.T) {
	advisor := &fakeAdvisor{err: errors.New("calling chain: rate limited")}
	m := press(t, newFixture(t, true).model(t, advisor), "a")

	assert.False(t, m.showAdvice)
	assert.EqualError(t, m.err, "calling chain: rate limited")
}

func TestEditSettings(t *testing.T) {
	f := newFixture(t, true)
	m := press(t, f.model(t, nil), "3", "e")
	require.Equal(t, modeSettings, m.mode)
	assert.Equal(t, []string{"alice", "60", "170"}, m.form.values())
	assert.Contains(t, m.View(), "Edit settings")

	m = press(t, m, "tab")
	m.form.inputs[1].SetValue("")
	m = press(t, m, "58.5", "enter")

	assert.Equal(t, modeNone, m.mode)
	assert.Equal(t, "settings saved", m.status)
	assert.Contains(t, f.backend.Paths(), "PUT /update_user_info/"+f.userID)
	require.NotNil(t, f.users.UserInfo())
	assert.Equal(t, models.Number(58.5), f.users.UserInfo().Weight)
}

func TestEditSettingsRejectsBadNumbers(t *testing.T) {
	f := newFixture(t, true)
	m := press(t, f.model(t, nil), "3", "e", "tab")
	m.form.inputs[1].SetValue("")
	m = press(t, m, "heavy", "enter")

	assert.Equal(t, modeSettings, m.mode)
	assert.EqualError(t, m.err, "weight must be a positive number")
	assert.NotContains(t, f.backend.Paths(), "PUT /update_user_info/"+f.userID)
}

func TestSessionChangedElsewhere(t *testing.T) {
	f := newFixture(t, true)
	m := f.model(t, nil)
	require.Equal(t, router.Dashboard, m.Route().Name)

	require.NoError(t, f.storage.Remove(storage.UserIDKey))
	require.True(t, f.users.Reload())

	m = drain(t, m, func() tea.Msg { return SessionChangedMsg{} })
	assert.Equal(t, router.Login, m.Route().Name)
}

func TestImportedMsg(t *testing.T) {
	m := newFixture(t, true).model(t, nil)

	m = drain(t, m, func() tea.Msg { return ImportedMsg{Added: 3} })
	assert.Equal(t, "imported 3 food log(s)", m.status)
}

func TestUnknownPathShowsNotFound(t *testing.T) {
	m := newFixture(t, true).model(t, nil)

	m = drain(t, m, navigate("/nowhere"))
	assert.Equal(t, router.NotFound, m.Route().Name)
	assert.Contains(t, m.View(), "Page not found.")
}

func TestQuit(t *testing.T) {
	m := newFixture(t, true).model(t, nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.True(t, isQuit(cmd))

	login := newFixture(t, false).model(t, nil)
	_, cmd = login.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, isQuit(cmd))
}

func TestUpdateRequest(t *testing.T) {
	req, err := updateRequest([]string{"", "70", ""})
	require.NoError(t, err)
	assert.Nil(t, req.Name)
	require.NotNil(t, req.Weight)
	assert.Equal(t, 70.0, *req.Weight)
	assert.Nil(t, req.Height)

	_, err = updateRequest([]string{"", "", "-3"})
	assert.EqualError(t, err, "height must be a positive number")
}

func TestDashboardShowsTargetWithoutVisitingProfile(t *testing.T) {
	f := newFixture(t, true)
	m := f.model(t, nil)

	require.NotNil(t, m.stats)
	assert.Contains(t, m.View(), "of "+formatNumber(m.stats.TargetCalories))
	assert.Contains(t, f.backend.Paths(), "GET /user_intake/"+f.userID)

	// Stats are fetched once per session, not on every day change.
	m = press(t, m, "left", "right", "r")
	intake := 0
	for _, p := range f.backend.Paths() {
		if p == "GET /user_intake/"+f.userID {
			intake++
		}
	}
	assert.Equal(t, 1, intake)
}

func TestStatsClearedOnLogout(t *testing.T) {
	m := press(t, newFixture(t, true).model(t, nil), "L")

	assert.Nil(t, m.stats)
	assert.Equal(t, router.Login, m.Route().Name)
}

func TestAddFoodEntry(t *testing.T) {
	f := newFixture(t, true)
	m := press(t, f.model(t, nil), "n")
	require.Equal(t, modeAddFood, m.mode)
	assert.Equal(t, "snack", m.form.values()[0])
	assert.Contains(t, m.View(), "Add food, 2024-05-10")

	m = fill(t, m, "Lunch", "Apple", "95", "0.5", "25", "0.3")
	m = press(t, m, "enter")

	assert.Equal(t, modeNone, m.mode)
	assert.NoError(t, m.err)
	assert.Equal(t, "food logged", m.status)

	call := lastCall(t, f.backend, "/add_food_log")
	assert.Equal(t, f.userID, call.Body["user_id"])
	assert.Equal(t, "2024-05-10", call.Body["date"])
	assert.Equal(t, "lunch", call.Body["meal"])
	assert.Equal(t, 95.0, call.Body["calories"])

	logs := f.foods.TodayLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "Apple", logs[0].FoodItem)
	assert.Contains(t, m.View(), "Apple")
}

func TestAddFoodEntryTypedIntoForm(t *testing.T) {
	f := newFixture(t, true)
	m := press(t, f.model(t, nil), "n")
	m.form.inputs[0].SetValue("")

	m = press(t, m, "dinner", "tab", "Quiche", "tab", "410", "enter")

	assert.Equal(t, modeNone, m.mode)
	logs := f.foods.TodayLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "Quiche", logs[0].FoodItem)
	assert.Equal(t, models.Number(410), logs[0].Calories)
	assert.Equal(t, models.Number(0), logs[0].Protein)
}

func TestAddFoodEntryOnHistoryDay(t *testing.T) {
	f := newFixture(t, true)
	m := press(t, f.model(t, nil), "left", "n")
	assert.Contains(t, m.View(), "Add food, 2024-05-09")

	m = fill(t, m, "dinner", "Pasta", "600", "", "", "")
	m = press(t, m, "enter")

	assert.Equal(t, "2024-05-09", lastCall(t, f.backend, "/add_food_log").Body["date"])
	logs, ok := f.foods.HistoryLogs("2024-05-09")
	require.True(t, ok)
	require.Len(t, logs, 1)
	assert.Equal(t, "Pasta", logs[0].FoodItem)
	assert.Contains(t, m.View(), "Pasta")
	assert.Empty(t, f.foods.TodayLogs())
}

func TestAddFoodEntryRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"unknown meal", []string{"brunch", "Eggs", "200", "", "", ""}, "meal must be breakfast, lunch, dinner or snack"},
		{"missing food", []string{"lunch", "", "200", "", "", ""}, "food is required"},
		{"bad calories", []string{"lunch", "Eggs", "lots", "", "", ""}, "calories must be a non-negative number"},
		{"negative fat", []string{"lunch", "Eggs", "200", "", "", "-1"}, "fat must be a non-negative number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, true)
			m := fill(t, press(t, f.model(t, nil), "n"), tt.values...)
			m = press(t, m, "enter")

			assert.Equal(t, modeAddFood, m.mode)
			assert.EqualError(t, m.err, tt.want)
			assert.NotContains(t, f.backend.Paths(), "POST /add_food_log")
		})
	}
}

func TestAddFoodEntryCancel(t *testing.T) {
	f := newFixture(t, true)
	m := press(t, f.model(t, nil), "n", "esc")

	assert.Equal(t, modeNone, m.mode)
	assert.Equal(t, router.Dashboard, m.Route().Name)
	assert.NotContains(t, f.backend.Paths(), "POST /add_food_log")
}

func TestAddFoodEntryFailureKeepsForm(t *testing.T) {
	f := newFixture(t, true)
	f.backend.Fail("add_food_log", 500, "")
	m := fill(t, press(t, f.model(t, nil), "n"), "snack", "Apple", "95", "", "", "")

	m = press(t, m, "enter")

	assert.Equal(t, modeAddFood, m.mode)
	require.Error(t, m.err)
	assert.True(t, errors.Is(m.err, store.ErrLog))
	assert.Equal(t, 0, m.pending)
}

func TestLogHealth(t *testing.T) {
	f := newFixture(t, true)
	m := press(t, f.model(t, nil), "w")
	require.Equal(t, modeHealth, m.mode)

	m = fill(t, m, "61.5", "1500", "", "", "felt good")
	m = press(t, m, "enter")

	assert.Equal(t, modeNone, m.mode)
	assert.Equal(t, "health log saved", m.status)
	call := lastCall(t, f.backend, "/add_health_log")
	assert.Equal(t, f.userID, call.Body["user_id"])
	assert.Equal(t, "2024-05-10", call.Body["date"])
	assert.Equal(t, 61.5, call.Body["weight"])
	assert.Equal(t, 1500.0, call.Body["water_ml"])
	assert.Equal(t, "felt good", call.Body["note"])
	assert.NotContains(t, call.Body, "steps")
}

func TestLogHealthNeedsAValue(t *testing.T) {
	f := newFixture(t, true)
	m := press(t, f.model(t, nil), "w", "enter")

	assert.Equal(t, modeHealth, m.mode)
	assert.EqualError(t, m.err, "enter at least one value")
	assert.NotContains(t, f.backend.Paths(), "POST /add_health_log")
}

func TestRegisterThenLogin(t *testing.T) {
	f := newFixture(t, false)
	m := press(t, f.model(t, nil), "ctrl+r")
	require.Equal(t, modeRegister, m.mode)
	assert.Contains(t, m.View(), "Sign up")

	m = fill(t, m, "bob", "bob@example.com", "secret123", "Bob", "Male", "80", "180", "labor-domain")
	m = press(t, m, "enter")

	assert.Equal(t, modeNone, m.mode)
	assert.Equal(t, router.Login, m.Route().Name)
	assert.Equal(t, "account created, log in to continue", m.status)
	assert.Equal(t, []string{"bob", ""}, m.login.values())
	assert.False(t, f.users.IsLoggedIn())

	call := lastCall(t, f.backend, "/register")
	assert.Equal(t, "male", call.Body["gender"])
	assert.Equal(t, "labor-domain", call.Body["laborIntensity"])
	assert.Equal(t, 80.0, call.Body["weight"])

	m = press(t, m, "secret123", "enter")
	assert.Equal(t, router.Dashboard, m.Route().Name)
	assert.True(t, f.users.IsLoggedIn())
}

func TestRegisterRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "bad email",
			values: []string{"bob", "not-an-email", "secret123", "Bob", "male", "80", "180", "other"},
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, store.ErrAuth))
			},
		},
		{
			name:   "unknown work",
			values: []string{"bob", "bob@example.com", "secret123", "Bob", "male", "80", "180", "desk"},
			check: func(t *testing.T, err error) {
				assert.EqualError(t, err, "work must be brain-domain, labor-domain or other")
			},
		},
		{
			name:   "bad weight",
			values: []string{"bob", "bob@example.com", "secret123", "Bob", "male", "heavy", "180", "other"},
			check: func(t *testing.T, err error) {
				assert.EqualError(t, err, "weight must be a non-negative number")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, false)
			m := fill(t, press(t, f.model(t, nil), "ctrl+r"), tt.values...)
			m = press(t, m, "enter")

			assert.Equal(t, modeRegister, m.mode)
			require.Error(t, m.err)
			tt.check(t, m.err)
			assert.NotContains(t, f.backend.Paths(), "POST /register")
		})
	}
}

func TestRegisterCancelReturnsToLogin(t *testing.T) {
	m := press(t, newFixture(t, false).model(t, nil), "ctrl+r", "esc")

	assert.Equal(t, modeNone, m.mode)
	assert.Equal(t, router.Login, m.Route().Name)
	assert.Contains(t, m.View(), "Log in")
}

func TestHealthEntry(t *testing.T) {
	entry, err := healthEntry([]string{"", "", "8000", "7.5", ""}, "")
	require.NoError(t, err)
	assert.Equal(t, models.HealthLog{Steps: 8000, SleepHours: 7.5}, entry)

	entry, err = healthEntry([]string{"", "", "", "", "rest day"}, "2024-05-09")
	require.NoError(t, err)
	assert.Equal(t, models.HealthLog{Date: "2024-05-09", Note: "rest day"}, entry)

	_, err = healthEntry([]string{"", "", "many", "", ""}, "")
	assert.EqualError(t, err, "steps must be a non-negative number")
}
