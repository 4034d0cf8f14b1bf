package integration

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"steward/internal/config"
	"steward/internal/db"
	"steward/internal/lifecycle"
	"steward/internal/server"
	"steward/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildStack wires the collaborators the way the app package does, with a
// throwaway sqlite database and an ephemeral listener port.
func buildStack(t *testing.T) (*lifecycle.Lifecycle, *server.Server) {
	t.Helper()

	cfg := &config.ServiceConfig{
		Name: "api",
		Port: 0, // ephemeral
		Database: config.DatabaseConfig{
			Driver: "sqlite3",
			Path:   filepath.Join(t.TempDir(), "steward.db"),
		},
	}

	database := db.New(db.ConfigFromService(cfg.Database))
	journal := db.NewTransitionRepo(database)

	srv := server.New(server.DefaultConfig(), nil, journal)
	lc := lifecycle.New(cfg, database, srv.ResponseCache(), srv)
	lc.SetJournal(journal)
	srv.SetStatusSource(lc)

	return lc, srv
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, testutil.DecodeJSON(resp.Body, out))
	}
	return resp.StatusCode
}

func TestLifecycleEndToEnd(t *testing.T) {
	lc, srv := buildStack(t)
	ctx := context.Background()

	require.NoError(t, lc.Start(ctx))
	t.Cleanup(func() {
		if lc.Status() == lifecycle.StatusRunning {
			_ = lc.Stop(context.Background())
		}
	})

	base := "http://" + srv.Addr()

	var status map[string]interface{}
	code := getJSON(t, base+"/api/status", &status)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "api", status["service"])
	assert.Equal(t, "running", status["status"])
	assert.Equal(t, "1.0.0", status["version"])
	assert.GreaterOrEqual(t, status["uptime"].(float64), float64(0))

	var page struct {
		Transitions []*db.Transition `json:"transitions"`
		Total       int              `json:"total"`
	}
	code = getJSON(t, base+"/api/transitions", &page)
	require.Equal(t, http.StatusOK, code)
	require.GreaterOrEqual(t, page.Total, 1)
	assert.Equal(t, "running", page.Transitions[0].ToStatus)

	require.NoError(t, lc.Stop(ctx))
	assert.Equal(t, lifecycle.StatusStopped, lc.Status())

	// The listener is gone after stop
	_, err := http.Get(base + "/api/status")
	assert.Error(t, err)
}

func TestLifecycleRestart(t *testing.T) {
	lc, _ := buildStack(t)
	ctx := context.Background()

	require.NoError(t, lc.Start(ctx))
	require.NoError(t, lc.Stop(ctx))
	require.NoError(t, lc.Start(ctx))
	assert.Equal(t, lifecycle.StatusRunning, lc.Status())
	require.NoError(t, lc.Stop(ctx))
}
