package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aguxez/nutrilog/api"
	"github.com/aguxez/nutrilog/models"
)

// FoodLogCollection is a copy of the food log cache.
type FoodLogCollection struct {
	TodayLogs   []models.FoodLogEntry
	HistoryLogs map[string][]models.FoodLogEntry
	Loading     bool
}

// FoodLogStore caches the current user's food logs. TodayLogs always holds the
// result of the latest fetch for today; HistoryLogs holds one entry per date
// queried, replaced on re-fetch.
type FoodLogStore struct {
	client  FoodLogAPI
	session SessionReader
	log     logrus.FieldLogger
	now     func() time.Time

	mu           sync.RWMutex
	todayLogs    []models.FoodLogEntry
	historyLogs  map[string][]models.FoodLogEntry
	historyOrder []string
	inflight     int
}

type FoodLogOption func(*FoodLogStore)

// WithClock replaces time.Now when computing today's date.
func WithClock(now func() time.Time) FoodLogOption {
	return func(s *FoodLogStore) { s.now = now }
}

func NewFoodLogStore(client FoodLogAPI, session SessionReader, log logrus.FieldLogger, opts ...FoodLogOption) *FoodLogStore {
	if log == nil {
		log = logrus.StandardLogger()
	}

	s := &FoodLogStore{
		client:      client,
		session:     session,
		log:         log.WithField("component", "food_log_store"),
		now:         time.Now,
		todayLogs:   []models.FoodLogEntry{},
		historyLogs: make(map[string][]models.FoodLogEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today is the local date in wire format.
func (s *FoodLogStore) Today() string {
	return s.now().Format(models.DateLayout)
}

// TodayTotal sums the nutrients of the cached TodayLogs.
func (s *FoodLogStore) TodayTotal() models.Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.SumLogs(s.todayLogs)
}

func (s *FoodLogStore) TodayLogs() []models.FoodLogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.FoodLogEntry{}, s.todayLogs...)
}

// HistoryLogs returns the cached logs for date and whether that date has been
// fetched.
func (s *FoodLogStore) HistoryLogs(date string) ([]models.FoodLogEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	logs, ok := s.historyLogs[date]
	if !ok {
		return nil, false
	}
	return append([]models.FoodLogEntry{}, logs...), true
}

// HistoryDates lists fetched dates in the order they were first queried.
func (s *FoodLogStore) HistoryDates() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.historyOrder...)
}

func (s *FoodLogStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

func (s *FoodLogStore) Snapshot() FoodLogCollection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := make(map[string][]models.FoodLogEntry, len(s.historyLogs))
	for date, logs := range s.historyLogs {
		history[date] = append([]models.FoodLogEntry{}, logs...)
	}
	return FoodLogCollection{
		TodayLogs:   append([]models.FoodLogEntry{}, s.todayLogs...),
		HistoryLogs: history,
		Loading:     s.inflight > 0,
	}
}

// Reset drops every cached log. Used when the session changes hands.
func (s *FoodLogStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todayLogs = []models.FoodLogEntry{}
	s.historyLogs = make(map[string][]models.FoodLogEntry)
	s.historyOrder = nil
}

// GetTodayLogs fetches today's logs into TodayLogs. Failures are logged and
// yield an empty slice; the cache keeps its previous contents.
func (s *FoodLogStore) GetTodayLogs(ctx context.Context) []models.FoodLogEntry {
	today := s.Today()

	logs, userID, ok := s.query(ctx, today)
	if !ok {
		return []models.FoodLogEntry{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.sameUser(userID) {
		return []models.FoodLogEntry{}
	}
	s.todayLogs = logs

	return append([]models.FoodLogEntry{}, logs...)
}

// GetLogsByDate fetches the logs for date into HistoryLogs[date]. TodayLogs
// is not touched even when date is today. Same failure policy as
// GetTodayLogs.
func (s *FoodLogStore) GetLogsByDate(ctx context.Context, date string) []models.FoodLogEntry {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		s.log.WithError(err).WithField("date", date).Warn("invalid log date")
		return []models.FoodLogEntry{}
	}

	logs, userID, ok := s.query(ctx, date)
	if !ok {
		return []models.FoodLogEntry{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.sameUser(userID) {
		return []models.FoodLogEntry{}
	}
	if _, seen := s.historyLogs[date]; !seen {
		s.historyOrder = append(s.historyOrder, date)
	}
	s.historyLogs[date] = logs

	return append([]models.FoodLogEntry{}, logs...)
}

// sameUser reports whether userID is still the session's user. Results of a
// query that outlived its session are dropped. Callers hold s.mu.
func (s *FoodLogStore) sameUser(userID string) bool {
	if current := s.session.UserID(); current != userID {
		s.log.WithField("user_id", userID).Debug("session changed during food log query, dropping result")
		return false
	}
	return true
}

func (s *FoodLogStore) query(ctx context.Context, date string) ([]models.FoodLogEntry, string, bool) {
	userID := s.session.UserID()
	log := s.log.WithFields(logrus.Fields{"user_id": userID, "date": date})

	if userID == "" {
		log.Debug("no user logged in, skipping food log query")
		return nil, "", false
	}

	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inflight--
		s.mu.Unlock()
	}()

	logs, err := s.client.QueryFoodLog(ctx, userID, date)
	if err != nil {
		log.WithError(err).Warn("fetching food logs failed")
		return nil, "", false
	}
	if logs == nil {
		logs = []models.FoodLogEntry{}
	}
	return logs, userID, true
}

// AddFoodLog records an entry for the current user and refreshes today's logs.
// The user id always comes from the session; the date defaults to today.
func (s *FoodLogStore) AddFoodLog(ctx context.Context, entry models.NewFoodLog) (*api.AddFoodLogResponse, error) {
	resp, err := s.addFoodLog(ctx, entry)
	if err != nil {
		return nil, err
	}

	s.GetTodayLogs(ctx)
	return resp, nil
}

func (s *FoodLogStore) addFoodLog(ctx context.Context, entry models.NewFoodLog) (*api.AddFoodLogResponse, error) {
	userID := s.session.UserID()
	if userID == "" {
		return nil, &Error{Kind: ErrLog, Message: "please log in first"}
	}

	date, err := s.entryDate(entry.Date)
	if err != nil {
		return nil, &Error{Kind: ErrLog, Message: "invalid date, expected YYYY-MM-DD", Err: err}
	}

	resp, err := s.client.AddFoodLog(ctx, api.AddFoodLogRequest{
		UserID:   userID,
		Date:     date,
		Meal:     entry.Meal,
		FoodItem: entry.FoodItem,
		Calories: entry.Calories,
		Protein:  entry.Protein,
		Carbs:    entry.Carbs,
		Fats:     entry.Fats,
	})
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"user_id":   userID,
			"food_item": entry.FoodItem,
		}).Error("adding food log failed")
		return nil, wrap(ErrLog, "network error, please try again later", err)
	}
	return resp, nil
}

// ImportFoodLogs adds entries in order and refreshes today's logs once at the
// end. It returns how many were added and the joined errors of the rest.
func (s *FoodLogStore) ImportFoodLogs(ctx context.Context, entries []models.NewFoodLog) (int, error) {
	var (
		added int
		errs  []error
	)
	for i, entry := range entries {
		if _, err := s.addFoodLog(ctx, entry); err != nil {
			errs = append(errs, fmt.Errorf("entry %d (%s): %w", i+1, entry.FoodItem, err))
			continue
		}
		added++
	}

	if added > 0 {
		s.GetTodayLogs(ctx)
	}
	return added, errors.Join(errs...)
}

// DeleteFoodLog removes a log by id and refreshes today's logs.
func (s *FoodLogStore) DeleteFoodLog(ctx context.Context, logID string) (*api.MessageResponse, error) {
	resp, err := s.client.DeleteFoodLog(ctx, logID)
	if err != nil {
		return nil, wrap(ErrLog, "failed to delete food log", err)
	}

	s.GetTodayLogs(ctx)
	return resp, nil
}

// AddHealthLog records a health sample for the current user. No cache is
// refreshed.
func (s *FoodLogStore) AddHealthLog(ctx context.Context, entry models.HealthLog) (*api.MessageResponse, error) {
	userID := s.session.UserID()
	if userID == "" {
		return nil, &Error{Kind: ErrLog, Message: "please log in first"}
	}

	date, err := s.entryDate(entry.Date)
	if err != nil {
		return nil, &Error{Kind: ErrLog, Message: "invalid date, expected YYYY-MM-DD", Err: err}
	}
	entry.Date = date

	resp, err := s.client.AddHealthLog(ctx, api.AddHealthLogRequest{UserID: userID, HealthLog: entry})
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("adding health log failed")
		return nil, wrap(ErrLog, "network error, please try again later", err)
	}
	return resp, nil
}

func (s *FoodLogStore) entryDate(date string) (string, error) {
	if date == "" {
		return s.Today(), nil
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return "", err
	}
	return date, nil
}
