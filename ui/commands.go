package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aguxez/nutrilog/agent"
	"github.com/aguxez/nutrilog/models"
	"github.com/aguxez/nutrilog/store"
)

type navigateMsg struct{ path string }

type loginMsg struct{ err error }

type logsMsg struct {
	date  string
	stats *models.UserStats
}

type deletedMsg struct{ err error }

type profileMsg struct {
	stats *models.UserStats
	err   error
}

type userInfoMsg struct{ info *models.UserInfo }

type updatedMsg struct{ err error }

type addedMsg struct{ err error }

type healthMsg struct{ err error }

type registeredMsg struct {
	username string
	err      error
}

type adviceMsg struct {
	advice agent.Advice
	err    error
}

// SessionChangedMsg tells the shell that the persisted session was changed by
// another process. The current route is re-checked against the guard.
type SessionChangedMsg struct{}

// ImportedMsg reports the result of an inbox import.
type ImportedMsg struct {
	Added int
	Err   error
}

func navigate(path string) tea.Cmd {
	return func() tea.Msg {
		return navigateMsg{path: path}
	}
}

func loginCmd(ctx context.Context, users *store.UserStore, username, password string) tea.Cmd {
	return func() tea.Msg {
		_, err := users.Login(ctx, username, password)
		return loginMsg{err: err}
	}
}

// fetchLogs loads date into the food log store: today's logs when date is
// today, a history entry otherwise. With withStats it also fetches the intake
// target shown under the totals.
func fetchLogs(ctx context.Context, foods *store.FoodLogStore, users *store.UserStore, date string, withStats bool) tea.Cmd {
	return func() tea.Msg {
		if date == foods.Today() {
			foods.GetTodayLogs(ctx)
		} else {
			foods.GetLogsByDate(ctx, date)
		}
		msg := logsMsg{date: date}
		if withStats {
			msg.stats = users.UserStats(ctx)
		}
		return msg
	}
}

// addFoodCmd records entry. The store refreshes today; a history day being
// viewed is refreshed here.
func addFoodCmd(ctx context.Context, foods *store.FoodLogStore, entry models.NewFoodLog) tea.Cmd {
	return func() tea.Msg {
		if _, err := foods.AddFoodLog(ctx, entry); err != nil {
			return addedMsg{err: err}
		}
		if entry.Date != "" && entry.Date != foods.Today() {
			foods.GetLogsByDate(ctx, entry.Date)
		}
		return addedMsg{}
	}
}

func addHealthCmd(ctx context.Context, foods *store.FoodLogStore, entry models.HealthLog) tea.Cmd {
	return func() tea.Msg {
		_, err := foods.AddHealthLog(ctx, entry)
		return healthMsg{err: err}
	}
}

func registerCmd(ctx context.Context, users *store.UserStore, req models.RegisterRequest) tea.Cmd {
	return func() tea.Msg {
		_, err := users.Register(ctx, req)
		return registeredMsg{username: req.Username, err: err}
	}
}

func deleteLogCmd(ctx context.Context, foods *store.FoodLogStore, id, date string) tea.Cmd {
	return func() tea.Msg {
		if _, err := foods.DeleteFoodLog(ctx, id); err != nil {
			return deletedMsg{err: err}
		}
		if date != foods.Today() {
			foods.GetLogsByDate(ctx, date)
		}
		return deletedMsg{}
	}
}

func fetchProfile(ctx context.Context, users *store.UserStore) tea.Cmd {
	return func() tea.Msg {
		err := users.FetchUserProfile(ctx)
		return profileMsg{stats: users.UserStats(ctx), err: err}
	}
}

func fetchUserInfo(ctx context.Context, users *store.UserStore) tea.Cmd {
	return func() tea.Msg {
		return userInfoMsg{info: users.FetchUserInfo(ctx)}
	}
}

func updateUserCmd(ctx context.Context, users *store.UserStore, req models.UpdateUserRequest) tea.Cmd {
	return func() tea.Msg {
		_, err := users.UpdateUserInfo(ctx, req)
		return updatedMsg{err: err}
	}
}

func adviseCmd(ctx context.Context, advisor Advisor) tea.Cmd {
	return func() tea.Msg {
		advice, err := advisor.Advise(ctx)
		return adviceMsg{advice: advice, err: err}
	}
}
