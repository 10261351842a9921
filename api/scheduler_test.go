package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/site-statement/api"
	"github.com/warp/site-statement/config"
	"github.com/warp/site-statement/generic"
	"github.com/warp/site-statement/generic/store"
)

func newScheduler(t *testing.T, mem *store.Memory, today string, outDir string) (*api.Handler, *api.SweepScheduler) {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	h := api.NewHandler(mem, 2, logger)
	h.Scanner.ClosingFromSummary = true
	s := api.NewSweepScheduler(h.Scanner, config.SweepConfig{Enabled: true, CheckInterval: time.Hour, OutputDir: outDir}, logger)
	day, err := generic.ParseDate(today)
	require.NoError(t, err)
	s.Now = func() generic.TimePoint { return day }
	h.Scheduler = s
	return h, s
}

func TestSweepScheduler_RunsOncePerCycleDay(t *testing.T) {
	// GIVEN: Today is the 20th and an output directory is configured
	// WHEN: The scheduler checks twice
	// THEN: One sweep runs and its workbook is written

	mem := store.NewMemory()
	mem.Put(ledger("obra-a"))
	out := t.TempDir()
	_, s := newScheduler(t, mem, "20/02/2025", out)

	ran, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)

	ran, err = s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.False(t, ran)

	require.NotNil(t, s.Latest())
	assert.True(t, s.Latest().GrandTotal.Equal(s.Latest().Clients[0].Total))
	_, err = os.Stat(filepath.Join(out, "pending-2025-02-20.xlsx"))
	assert.NoError(t, err)
}

func TestSweepScheduler_SkipsOffCycleDays(t *testing.T) {
	mem := store.NewMemory()
	mem.Put(ledger("obra-a"))
	_, s := newScheduler(t, mem, "21/02/2025", "")

	ran, err := s.RunOnce(context.Background())

	require.NoError(t, err)
	assert.False(t, ran)
	assert.Nil(t, s.Latest())
}

func TestSweepScheduler_KeepsFailedSweep(t *testing.T) {
	mem := store.NewMemory()
	mem.Fail("obra-c", errors.New("file is locked"))
	_, s := newScheduler(t, mem, "05/03/2025", "")

	ran, err := s.RunOnce(context.Background())

	assert.True(t, ran)
	assert.ErrorIs(t, err, generic.ErrNoLedgers)
	require.NotNil(t, s.Latest())
	assert.Len(t, s.Latest().Failures, 1)
}

func TestSweepScheduler_StartStop(t *testing.T) {
	mem := store.NewMemory()
	mem.Put(ledger("obra-a"))
	_, s := newScheduler(t, mem, "05/03/2025", "")

	s.Start()
	require.Eventually(t, func() bool { return s.Latest() != nil }, 2*time.Second, 10*time.Millisecond)
	s.Stop()
	s.Stop()
}

func TestSweepScheduler_Restart(t *testing.T) {
	// GIVEN: A scheduler that was started and stopped
	// WHEN: Starting and stopping it again
	// THEN: The second cycle runs without panicking

	mem := store.NewMemory()
	mem.Put(ledger("obra-a"))
	_, s := newScheduler(t, mem, "05/03/2025", "")

	s.Start()
	s.Stop()

	assert.NotPanics(t, func() {
		s.Start()
		s.Start()
		s.Stop()
	})
	assert.NotNil(t, s.Latest())
}

func TestLatestPending(t *testing.T) {
	mem := store.NewMemory()
	mem.Put(ledger("obra-a"))
	h, s := newScheduler(t, mem, "05/03/2025", "")
	srv := httptest.NewServer(api.NewRouter(h, nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/pending/latest")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, err = s.RunOnce(context.Background())
	require.NoError(t, err)

	resp, err = http.Get(srv.URL + "/api/pending/latest")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
