package store

import (
	"strconv"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/aguxez/nutrilog/api"
	"github.com/aguxez/nutrilog/storage"
	"github.com/aguxez/nutrilog/testutil"
)

var fixedNow = time.Date(2024, 5, 10, 23, 30, 0, 0, time.Local)

type fixture struct {
	backend *testutil.Backend
	client  *api.Client
	storage storage.Storage
	users   *UserStore
	logs    *FoodLogStore
	hook    *test.Hook
}

// newFixture wires both stores to a fake backend. When loggedIn is set the
// user "alice" is already persisted in storage.
func newFixture(t *testing.T, loggedIn bool) *fixture {
	t.Helper()

	backend := testutil.NewBackend(t)
	id := backend.AddUser("alice", "password1")

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	st := storage.NewMemory()
	if loggedIn {
		require.NoError(t, st.Set(storage.UserIDKey, itoa(id)))
	}

	client := api.New(api.Config{BaseURL: backend.URL(), Logger: logger})
	users := NewUserStore(client, st, logger, WithProfileDelay(time.Millisecond))
	logs := NewFoodLogStore(client, users, logger, WithClock(func() time.Time { return fixedNow }))

	return &fixture{
		backend: backend,
		client:  client,
		storage: st,
		users:   users,
		logs:    logs,
		hook:    hook,
	}
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

func warnings(hook *test.Hook) []*logrus.Entry {
	var out []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Level <= logrus.WarnLevel {
			out = append(out, e)
		}
	}
	return out
}
