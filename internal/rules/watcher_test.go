package rules

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fyrsmithlabs/sweepd/internal/engine"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validRulesYAML), 0o600))

	var reloaded atomic.Pointer[engine.Ruleset]
	w, err := NewWatcher(path, func(rs *engine.Ruleset) {
		reloaded.Store(rs)
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// Give the watcher a moment to start before touching the file.
	time.Sleep(50 * time.Millisecond)

	updated := strings.Replace(validRulesYAML, "low: 3", "low: 7", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))

	require.Eventually(t, func() bool {
		rs := reloaded.Load()
		return rs != nil && rs.Thresholds["low"] == 7
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatcherKeepsPreviousRulesetOnInvalidWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validRulesYAML), 0o600))

	var reloads atomic.Int32
	w, err := NewWatcher(path, func(*engine.Ruleset) {
		reloads.Add(1)
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("thresholds: {low: 0}"), 0o600))

	// The invalid document must never reach the callback.
	time.Sleep(2 * debounceWindow)
	assert.Zero(t, reloads.Load())
}

func TestNewWatcherValidatesArguments(t *testing.T) {
	_, err := NewWatcher("", func(*engine.Ruleset) {}, nil)
	require.Error(t, err)

	_, err = NewWatcher(filepath.Join(t.TempDir(), "rules.yaml"), nil, nil)
	require.Error(t, err)
}
