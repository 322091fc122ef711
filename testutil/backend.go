// Package testutil provides a fake nutrition backend for tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/aguxez/nutrilog/models"
)

// Call is one request the fake backend received.
type Call struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

// Backend is an in-memory stand-in for the nutrition API. It keeps just enough
// state to answer the endpoints the client uses and records every call.
type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	calls    []Call
	users    map[string]fakeUser // by username
	logs     map[string][]models.FoodLogEntry
	nextLog  int
	failures map[string]failure // by route name
	stats    models.UserStats
}

type fakeUser struct {
	id       int
	password string
	info     models.UserInfo
}

type failure struct {
	status  int
	message string
}

// NewBackend starts a fake backend and registers cleanup on t.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		users:    make(map[string]fakeUser),
		logs:     make(map[string][]models.FoodLogEntry),
		failures: make(map[string]failure),
		nextLog:  1,
		stats:    models.UserStats{TargetCalories: 2100.5, BMI: 21.3, Weight: 65},
	}

	r := mux.NewRouter()
	r.HandleFunc("/login", b.login).Methods(http.MethodPost).Name("login")
	r.HandleFunc("/register", b.register).Methods(http.MethodPost).Name("register")
	r.HandleFunc("/user/{id}", b.userInfo).Methods(http.MethodGet).Name("user")
	r.HandleFunc("/update_user_info/{id}", b.updateUser).Methods(http.MethodPut).Name("update_user_info")
	r.HandleFunc("/user_intake/{id}", b.userIntake).Methods(http.MethodGet).Name("user_intake")
	r.HandleFunc("/query_food_log", b.queryFoodLog).Methods(http.MethodGet).Name("query_food_log")
	r.HandleFunc("/add_food_log", b.addFoodLog).Methods(http.MethodPost).Name("add_food_log")
	r.HandleFunc("/delete_food_log/{id}", b.deleteFoodLog).Methods(http.MethodDelete).Name("delete_food_log")
	r.HandleFunc("/add_health_log", b.addHealthLog).Methods(http.MethodPost).Name("add_health_log")
	r.Use(b.record)

	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Server.Close)
	return b
}

func (b *Backend) URL() string {
	return b.Server.URL
}

// AddUser registers an account and returns its id.
func (b *Backend) AddUser(username, password string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := len(b.users) + 1
	b.users[username] = fakeUser{
		id:       id,
		password: password,
		info: models.UserInfo{
			ID:             models.ID(strconv.Itoa(id)),
			Username:       username,
			Email:          username + "@example.com",
			Name:           username,
			Gender:         "female",
			Weight:         60,
			Height:         170,
			LaborIntensity: models.BrainWork,
		},
	}
	return id
}

// SeedLogs stores entries for a user and date as if they had been added.
func (b *Backend) SeedLogs(userID, date string, entries ...models.FoodLogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, e := range entries {
		e.ID = models.ID(strconv.Itoa(b.nextLog))
		b.nextLog++
		b.logs[userID+"|"+date] = append(b.logs[userID+"|"+date], e)
	}
}

// Fail makes every request to the named route answer with status and message.
func (b *Backend) Fail(route string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[route] = failure{status: status, message: message}
}

// Calls returns a copy of the calls received so far.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// Paths returns "METHOD /path" for every call received so far.
func (b *Backend) Paths() []string {
	calls := b.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Method + " " + c.Path
	}
	return out
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := Call{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
		if r.Body != nil {
			data, _ := io.ReadAll(r.Body)
			r.Body.Close()
			if len(data) > 0 {
				_ = json.Unmarshal(data, &call.Body)
			}
			r.Body = io.NopCloser(bytes.NewReader(data))
		}

		b.mu.Lock()
		b.calls = append(b.calls, call)
		var f failure
		var failed bool
		if route := mux.CurrentRoute(r); route != nil {
			f, failed = b.failures[route.GetName()]
		}
		b.mu.Unlock()

		if failed {
			writeJSON(w, f.status, map[string]any{"message": f.message})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "bad request"})
		return
	}

	b.mu.Lock()
	u, ok := b.users[req.Username]
	b.mu.Unlock()

	if !ok || u.password != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "invalid username or password"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user_id": u.id})
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "bad request"})
		return
	}

	b.mu.Lock()
	_, exists := b.users[req.Username]
	b.mu.Unlock()
	if exists {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "username already exists"})
		return
	}

	b.AddUser(req.Username, req.Password)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "registered"})
}

func (b *Backend) findUser(id string) (fakeUser, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if strconv.Itoa(u.id) == id {
			return u, true
		}
	}
	return fakeUser{}, false
}

func (b *Backend) userInfo(w http.ResponseWriter, r *http.Request) {
	u, ok := b.findUser(mux.Vars(r)["id"])
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "user not found"})
		return
	}
	writeJSON(w, http.StatusOK, u.info)
}

func (b *Backend) updateUser(w http.ResponseWriter, r *http.Request) {
	u, ok := b.findUser(mux.Vars(r)["id"])
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "user not found"})
		return
	}

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "bad request"})
		return
	}
	if req.Name != nil {
		u.info.Name = *req.Name
	}
	if req.Weight != nil {
		u.info.Weight = models.Number(*req.Weight)
	}

	b.mu.Lock()
	b.users[u.info.Username] = u
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"message": "updated"})
}

func (b *Backend) userIntake(w http.ResponseWriter, r *http.Request) {
	if _, ok := b.findUser(mux.Vars(r)["id"]); !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "user not found"})
		return
	}
	b.mu.Lock()
	stats := b.stats
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, stats)
}

func (b *Backend) queryFoodLog(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("user_id") + "|" + r.URL.Query().Get("date")

	b.mu.Lock()
	logs := append([]models.FoodLogEntry{}, b.logs[key]...)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"food_logs": logs})
}

func (b *Backend) addFoodLog(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   string              `json:"user_id"`
		Date     string              `json:"date"`
		Meal     models.MealCategory `json:"meal"`
		FoodItem string              `json:"food_item"`
		Calories models.Number       `json:"calories"`
		Protein  models.Number       `json:"protein"`
		Carbs    models.Number       `json:"carbs"`
		Fats     models.Number       `json:"fats"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid data format"})
		return
	}
	if req.UserID == "" || req.Date == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "missing required field"})
		return
	}

	b.mu.Lock()
	id := b.nextLog
	b.nextLog++
	b.logs[req.UserID+"|"+req.Date] = append(b.logs[req.UserID+"|"+req.Date], models.FoodLogEntry{
		ID:       models.ID(strconv.Itoa(id)),
		Meal:     req.Meal,
		FoodItem: req.FoodItem,
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fats:     req.Fats,
	})
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{"message": "food log added", "food_log_id": id})
}

func (b *Backend) deleteFoodLog(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	b.mu.Lock()
	defer b.mu.Unlock()
	for key, entries := range b.logs {
		for i, e := range entries {
			if string(e.ID) == id {
				b.logs[key] = append(entries[:i:i], entries[i+1:]...)
				writeJSON(w, http.StatusOK, map[string]any{"message": "food log deleted"})
				return
			}
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"message": "food log not found"})
}

func (b *Backend) addHealthLog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, map[string]any{"message": "health log added"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
