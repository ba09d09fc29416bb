package settings_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luticapital/arbitrage-helper/internal/settings"
	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*domain.Settings)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*domain.Settings) {}},
		{name: "zero fee", mutate: func(s *domain.Settings) { s.FeePercent = 0 }},
		{name: "negative fee", mutate: func(s *domain.Settings) { s.FeePercent = -1 }, wantErr: true},
		{name: "fee of 100", mutate: func(s *domain.Settings) { s.FeePercent = 100 }, wantErr: true},
		{name: "margin of 100", mutate: func(s *domain.Settings) { s.MarginPercent = 100 }},
		{name: "margin above 100", mutate: func(s *domain.Settings) { s.MarginPercent = 101 }, wantErr: true},
		{name: "zero scan limit", mutate: func(s *domain.Settings) { s.GridScanLimit = 0 }, wantErr: true},
		{name: "scan limit too high", mutate: func(s *domain.Settings) { s.GridScanLimit = 501 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := domain.DefaultSettings()
			tt.mutate(&s)
			err := settings.Validate(s)
			if tt.wantErr {
				require.ErrorIs(t, err, settings.ErrInvalid)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("in memory", func(t *testing.T) {
		t.Parallel()
		st, err := settings.New(domain.DefaultSettings(), settings.WithLogger(quietLogger()))
		require.NoError(t, err)

		cur := st.Current()
		assert.Equal(t, int64(1), cur.Version)
		assert.InDelta(t, 8.0, cur.FeePercent, 0.0001)
		assert.Empty(t, st.Path())
	})

	t.Run("missing file uses defaults", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "settings.yaml")
		st, err := settings.New(domain.DefaultSettings(), settings.WithFile(path), settings.WithLogger(quietLogger()))
		require.NoError(t, err)
		assert.Equal(t, 5, st.Current().GridScanLimit)
	})

	t.Run("file overlays defaults", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "settings.yaml")
		writeFile(t, path, "fee_percent: 5\nhistoric_enabled: true\n")

		st, err := settings.New(domain.DefaultSettings(), settings.WithFile(path), settings.WithLogger(quietLogger()))
		require.NoError(t, err)

		cur := st.Current()
		assert.InDelta(t, 5.0, cur.FeePercent, 0.0001)
		assert.InDelta(t, 10.0, cur.MarginPercent, 0.0001)
		assert.True(t, cur.HistoricEnabled)
		assert.True(t, cur.OracleEnabled)
	})

	t.Run("invalid file rejected", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "settings.yaml")
		writeFile(t, path, "fee_percent: 150\n")

		_, err := settings.New(domain.DefaultSettings(), settings.WithFile(path), settings.WithLogger(quietLogger()))
		require.ErrorIs(t, err, settings.ErrInvalid)
	})
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	st, err := settings.New(domain.DefaultSettings(), settings.WithLogger(quietLogger()))
	require.NoError(t, err)

	var got []domain.Settings
	st.Subscribe(func(s domain.Settings) { got = append(got, s) })

	next := st.Current()
	next.FeePercent = 12
	next.Version = 99

	applied, err := st.Update(next)
	require.NoError(t, err)
	assert.Equal(t, int64(2), applied.Version)
	assert.InDelta(t, 12.0, st.Current().FeePercent, 0.0001)

	// Unchanged values keep the version and notify nobody.
	same, err := st.Update(applied)
	require.NoError(t, err)
	assert.Equal(t, int64(2), same.Version)

	bad := applied
	bad.GridScanLimit = 0
	_, err = st.Update(bad)
	require.ErrorIs(t, err, settings.ErrInvalid)
	assert.Equal(t, 5, st.Current().GridScanLimit)

	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].Version)
}

func TestSubscribe_Cancel(t *testing.T) {
	t.Parallel()

	st, err := settings.New(domain.DefaultSettings(), settings.WithLogger(quietLogger()))
	require.NoError(t, err)

	calls := 0
	cancel := st.Subscribe(func(domain.Settings) { calls++ })

	next := st.Current()
	next.MarginPercent = 20
	_, err = st.Update(next)
	require.NoError(t, err)

	cancel()
	next.MarginPercent = 25
	_, err = st.Update(next)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestUpdate_PersistsAndReloads(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "conf", "settings.yaml")
	st, err := settings.New(domain.DefaultSettings(), settings.WithFile(path), settings.WithLogger(quietLogger()))
	require.NoError(t, err)

	next := st.Current()
	next.OracleEnabled = false
	next.GridScanLimit = 20
	_, err = st.Update(next)
	require.NoError(t, err)

	reopened, err := settings.New(domain.DefaultSettings(), settings.WithFile(path), settings.WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.False(t, reopened.Current().OracleEnabled)
	assert.Equal(t, 20, reopened.Current().GridScanLimit)

	writeFile(t, path, "grid_scan_limit: 30\noracle_enabled: false\n")
	applied, err := st.Reload()
	require.NoError(t, err)
	assert.Equal(t, 30, applied.GridScanLimit)
	assert.Equal(t, int64(3), applied.Version)

	writeFile(t, path, "grid_scan_limit: 0\n")
	_, err = st.Reload()
	require.ErrorIs(t, err, settings.ErrInvalid)
	assert.Equal(t, 30, st.Current().GridScanLimit)
}

func TestWatch(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	writeFile(t, path, "fee_percent: 8\n")

	st, err := settings.New(domain.DefaultSettings(), settings.WithFile(path), settings.WithLogger(quietLogger()))
	require.NoError(t, err)

	var (
		mu      sync.Mutex
		version int64
	)
	st.Subscribe(func(s domain.Settings) {
		mu.Lock()
		version = s.Version
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- st.Watch(ctx) }()

	// Keep rewriting until the watcher is attached and picks a change up.
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("fee_percent: 3\n"), 0o600)
		return st.Current().FeePercent == 3
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, int64(2), version)
}

func TestWatch_InMemory(t *testing.T) {
	t.Parallel()

	st, err := settings.New(domain.DefaultSettings(), settings.WithLogger(quietLogger()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, st.Watch(ctx))
}
