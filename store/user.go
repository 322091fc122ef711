package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/aguxez/nutrilog/api"
	"github.com/aguxez/nutrilog/models"
	"github.com/aguxez/nutrilog/storage"
)

// DefaultProfileDelay is the latency FetchUserProfile waits before filling in
// the placeholder profile.
const DefaultProfileDelay = 500 * time.Millisecond

// Session is the in-memory view of the current login identity.
type Session struct {
	UserID     string
	IsLoggedIn bool
	UserInfo   *models.UserInfo
	UserData   *models.Profile
	Loading    bool
	Error      string
}

// UserStore owns the session. UserID and IsLoggedIn always agree: the user is
// logged in exactly when an identifier is held.
type UserStore struct {
	client       UserAPI
	storage      storage.Storage
	log          logrus.FieldLogger
	validate     *validator.Validate
	profileDelay time.Duration

	mu      sync.RWMutex
	session Session
}

type UserOption func(*UserStore)

// WithProfileDelay overrides DefaultProfileDelay.
func WithProfileDelay(d time.Duration) UserOption {
	return func(s *UserStore) { s.profileDelay = d }
}

// NewUserStore builds the store and restores the session from durable storage.
func NewUserStore(client UserAPI, st storage.Storage, log logrus.FieldLogger, opts ...UserOption) *UserStore {
	if log == nil {
		log = logrus.StandardLogger()
	}

	s := &UserStore{
		client:       client,
		storage:      st,
		log:          log.WithField("component", "user_store"),
		validate:     newValidator(),
		profileDelay: DefaultProfileDelay,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Reload()
	return s
}

func (s *UserStore) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.UserID
}

func (s *UserStore) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.IsLoggedIn
}

func (s *UserStore) UserInfo() *models.UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session.UserInfo == nil {
		return nil
	}
	info := *s.session.UserInfo
	return &info
}

// Snapshot returns a copy of the session safe to read without the lock.
func (s *UserStore) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.session
	if snap.UserInfo != nil {
		info := *snap.UserInfo
		snap.UserInfo = &info
	}
	if snap.UserData != nil {
		data := *snap.UserData
		snap.UserData = &data
	}
	return snap
}

// Reload re-reads the stored identifier and reports whether the identity
// changed. Profile data belonging to a previous identity is dropped.
func (s *UserStore) Reload() bool {
	id, ok, err := s.storage.Get(storage.UserIDKey)
	if err != nil {
		s.log.WithError(err).Warn("reading stored session failed, treating as logged out")
		id, ok = "", false
	}
	if !ok {
		id = ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id == s.session.UserID {
		return false
	}

	s.session.UserID = id
	s.session.IsLoggedIn = id != ""
	s.session.UserInfo = nil
	if id == "" {
		s.session.UserData = nil
	}
	return true
}

// Login authenticates, persists the identifier and refreshes the profile
// before returning the login response.
func (s *UserStore) Login(ctx context.Context, username, password string) (*api.LoginResponse, error) {
	resp, err := s.client.Login(ctx, api.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, wrap(ErrAuth, "login failed", err)
	}

	id := resp.UserID.String()
	if err := s.storage.Set(storage.UserIDKey, id); err != nil {
		return nil, wrap(ErrAuth, "login failed", fmt.Errorf("persisting session: %w", err))
	}

	s.mu.Lock()
	if s.session.UserID != id {
		s.session.UserInfo = nil
	}
	s.session.UserID = id
	s.session.IsLoggedIn = true
	s.mu.Unlock()

	s.log.WithField("user_id", id).Info("logged in")

	s.FetchUserInfo(ctx)
	return resp, nil
}

// Register creates an account. It does not log the new user in.
func (s *UserStore) Register(ctx context.Context, req models.RegisterRequest) (*api.MessageResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, &Error{Kind: ErrAuth, Message: validationMessage(err), Err: err}
	}

	resp, err := s.client.Register(ctx, req)
	if err != nil {
		return nil, wrap(ErrAuth, "registration failed", err)
	}
	return resp, nil
}

// FetchUserInfo refreshes UserInfo. It is best effort: with no user, or on any
// failure, it returns nil and leaves the previous value in place.
func (s *UserStore) FetchUserInfo(ctx context.Context) *models.UserInfo {
	id := s.UserID()
	if id == "" {
		return nil
	}

	info, err := s.client.UserInfo(ctx, id)
	if err != nil {
		s.log.WithError(err).WithField("user_id", id).Warn("fetching user info failed")
		return nil
	}

	s.mu.Lock()
	// the user may have logged out while the request was in flight
	if s.session.UserID == id {
		stored := *info
		s.session.UserInfo = &stored
	}
	s.mu.Unlock()

	return info
}

// UpdateUserInfo saves profile changes and then refreshes UserInfo.
func (s *UserStore) UpdateUserInfo(ctx context.Context, req models.UpdateUserRequest) (*api.MessageResponse, error) {
	id := s.UserID()
	if id == "" {
		return nil, &Error{Kind: ErrUpdate, Message: "please log in first"}
	}

	resp, err := s.client.UpdateUserInfo(ctx, id, req)
	if err != nil {
		return nil, wrap(ErrUpdate, "failed to update user info", err)
	}

	s.FetchUserInfo(ctx)
	return resp, nil
}

// UserStats returns the user's intake summary, or nil when unavailable.
func (s *UserStore) UserStats(ctx context.Context) *models.UserStats {
	id := s.UserID()
	if id == "" {
		return nil
	}

	stats, err := s.client.UserIntake(ctx, id)
	if err != nil {
		s.log.WithError(err).WithField("user_id", id).Warn("fetching user stats failed")
		return nil
	}
	return stats
}

// Logout forgets the session locally. There is no backend call.
func (s *UserStore) Logout() {
	s.mu.Lock()
	s.session.UserID = ""
	s.session.UserInfo = nil
	s.session.IsLoggedIn = false
	s.mu.Unlock()

	if err := s.storage.Remove(storage.UserIDKey); err != nil {
		s.log.WithError(err).Warn("removing stored session failed")
	}
}

// FetchUserProfile fills UserData with the placeholder profile after a short
// simulated delay. Loading is held for the duration of the call regardless of
// outcome.
func (s *UserStore) FetchUserProfile(ctx context.Context) error {
	s.mu.Lock()
	s.session.Loading = true
	s.session.Error = ""
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.session.Loading = false
		s.mu.Unlock()
	}()

	timer := time.NewTimer(s.profileDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		err := ctx.Err()
		s.log.WithError(err).Warn("fetching user profile failed")
		s.mu.Lock()
		s.session.Error = fmt.Sprintf("failed to load user profile: %v", err)
		s.mu.Unlock()
		return err
	case <-timer.C:
	}

	profile := models.PlaceholderProfile()
	s.mu.Lock()
	s.session.UserData = &profile
	s.mu.Unlock()
	return nil
}

// Init restores the session from durable storage and loads the profile when
// someone is logged in.
func (s *UserStore) Init(ctx context.Context) error {
	s.Reload()
	if !s.IsLoggedIn() {
		return nil
	}
	return s.FetchUserProfile(ctx)
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return validPassword(fl.Field().String())
	})
	return v
}

// validPassword requires at least 8 characters, only ASCII letters and
// digits, and at least one of each.
func validPassword(p string) bool {
	if len(p) < 8 {
		return false
	}
	var letter, digit bool
	for _, r := range p {
		switch {
		case r > unicode.MaxASCII:
			return false
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		default:
			return false
		}
	}
	return letter && digit
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "registration failed"
	}

	fe := verrs[0]
	switch fe.Field() {
	case "Username":
		return "username may only contain letters, digits and underscores"
	case "Password":
		return "password must be at least 8 characters and mix letters and digits"
	case "Email":
		return "please enter a valid email address"
	default:
		return fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field()))
	}
}
