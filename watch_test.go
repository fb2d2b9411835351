// FILE: chassis/watch_test.go
package chassis

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// watchRegistry builds a registry whose env keys cannot collide with the host
// environment, so snapshots resolve from the file and defaults alone.
func watchRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(
		NewGroup("server",
			Int("port", WithEnv("CHASSISWATCH_PORT"), WithKey("server.port"), WithDefault(8000)),
			String("host", WithEnv("CHASSISWATCH_HOST"), WithKey("server.host"), WithDefault("localhost")),
		),
		NewGroup("features",
			Bool("enabled", WithEnv("CHASSISWATCH_ENABLED"), WithKey("features.enabled"), WithDefault(false)),
		),
		NewGroup("core",
			String("time_zone", WithKey("core.time_zone"), WithDefault("UTC")),
		),
	)
	if err != nil {
		t.Fatal("Failed to build registry:", err)
	}
	return r
}

func TestWatcherNotifiesChangedFields(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.toml")

	initialConfig := `
[server]
port = 8080
host = "localhost"

[features]
enabled = true
`
	if err := os.WriteFile(configPath, []byte(initialConfig), 0644); err != nil {
		t.Fatal("Failed to write initial config:", err)
	}

	w := NewWatcher(watchRegistry(t), configPath, WatchOptions{
		PollInterval: 100 * time.Millisecond,
		Debounce:     50 * time.Millisecond,
		MaxWatchers:  10,
	})
	w.Start()
	defer w.Stop()

	if !w.IsWatching() {
		t.Fatal("Watcher should be running after Start")
	}

	changes := w.Subscribe()

	var mu sync.Mutex
	changedNames := make(map[string]bool)
	go func() {
		for name := range changes {
			mu.Lock()
			changedNames[name] = true
			mu.Unlock()
		}
	}()

	updatedConfig := `
[server]
port = 9090
host = "0.0.0.0"

[features]
enabled = false
`
	if err := os.WriteFile(configPath, []byte(updatedConfig), 0644); err != nil {
		t.Fatal("Failed to update config:", err)
	}

	// Wait for poll, debounce, and reload to complete
	time.Sleep(500 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	for _, name := range []string{"server.port", "server.host", "features.enabled"} {
		if !changedNames[name] {
			t.Errorf("Expected change notification for %s", name)
		}
	}
	if changedNames["core.time_zone"] {
		t.Error("core.time_zone did not change and should not be notified")
	}
}

func TestWatcherFileDeleted(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.toml")

	if err := os.WriteFile(configPath, []byte("[server]\nport = 8080\n"), 0644); err != nil {
		t.Fatal("Failed to write config:", err)
	}

	w := NewWatcher(watchRegistry(t), configPath, WatchOptions{
		PollInterval: 100 * time.Millisecond,
		Debounce:     50 * time.Millisecond,
	})
	w.Start()
	defer w.Stop()

	changes := w.Subscribe()

	if err := os.Remove(configPath); err != nil {
		t.Fatal("Failed to delete config:", err)
	}

	select {
	case name := <-changes:
		if name != "file_deleted" {
			t.Errorf("Expected file_deleted, got %s", name)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timeout waiting for deletion notification")
	}
}

func TestWatcherReloadError(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.toml")

	if err := os.WriteFile(configPath, []byte("[server]\nport = 8080\n"), 0644); err != nil {
		t.Fatal("Failed to write config:", err)
	}

	w := NewWatcher(watchRegistry(t), configPath, WatchOptions{
		PollInterval: 100 * time.Millisecond,
		Debounce:     50 * time.Millisecond,
	})
	w.Start()
	defer w.Stop()

	changes := w.Subscribe()

	if err := os.WriteFile(configPath, []byte("port = [unclosed\n"), 0644); err != nil {
		t.Fatal("Failed to corrupt config:", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case name := <-changes:
			if strings.HasPrefix(name, "reload_error:") {
				return
			}
		case <-deadline:
			t.Fatal("Timeout waiting for reload error notification")
		}
	}
}

func TestWatcherSectionScope(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.toml")

	if err := os.WriteFile(configPath, []byte("[staging.server]\nport = 8080\n"), 0644); err != nil {
		t.Fatal("Failed to write config:", err)
	}

	w := NewWatcher(watchRegistry(t), configPath, WatchOptions{
		PollInterval: 100 * time.Millisecond,
		Debounce:     50 * time.Millisecond,
		Section:      "staging",
	})
	w.Start()
	defer w.Stop()

	changes := w.Subscribe()

	updated := "[staging.server]\nport = 9090\nhost = \"0.0.0.0\"\n"
	if err := os.WriteFile(configPath, []byte(updated), 0644); err != nil {
		t.Fatal("Failed to update config:", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case name := <-changes:
			if name == "server.port" {
				return
			}
		case <-deadline:
			t.Fatal("Timeout waiting for server.port notification")
		}
	}
}

func TestWatcherMaxWatchers(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.toml")

	if err := os.WriteFile(configPath, []byte("[server]\nport = 8080\n"), 0644); err != nil {
		t.Fatal("Failed to write config:", err)
	}

	w := NewWatcher(watchRegistry(t), configPath, WatchOptions{
		PollInterval: 100 * time.Millisecond,
		MaxWatchers:  2,
	})
	w.Start()
	defer w.Stop()

	first := w.Subscribe()
	second := w.Subscribe()
	if n := w.SubscriberCount(); n != 2 {
		t.Errorf("Expected 2 subscribers, got %d", n)
	}

	third := w.Subscribe()
	select {
	case _, ok := <-third:
		if ok {
			t.Error("Channel over the limit should be closed, not delivering")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("Channel over the limit should be closed immediately")
	}

	// The first two stay open and quiet
	select {
	case <-first:
		t.Error("Open subscriber should have no pending notifications")
	case <-second:
		t.Error("Open subscriber should have no pending notifications")
	default:
	}
}

func TestWatcherDebounce(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.toml")

	if err := os.WriteFile(configPath, []byte("[server]\nport = 9000\n"), 0644); err != nil {
		t.Fatal("Failed to write config:", err)
	}

	w := NewWatcher(watchRegistry(t), configPath, WatchOptions{
		PollInterval: 100 * time.Millisecond,
		Debounce:     400 * time.Millisecond,
	})
	w.Start()
	defer w.Stop()

	changes := w.Subscribe()

	var mu sync.Mutex
	changeCount := 0
	go func() {
		for range changes {
			mu.Lock()
			changeCount++
			mu.Unlock()
		}
	}()

	// Rapid writes inside the debounce window coalesce into one reload
	for port := 9001; port <= 9004; port++ {
		content := fmt.Sprintf("[server]\nport = %d\n", port)
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatal("Failed to write config:", err)
		}
		time.Sleep(100 * time.Millisecond)
	}

	time.Sleep(800 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if changeCount != 1 {
		t.Errorf("Expected 1 coalesced notification, got %d", changeCount)
	}
}

func TestWatcherStop(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.toml")

	if err := os.WriteFile(configPath, []byte("[server]\nport = 8080\n"), 0644); err != nil {
		t.Fatal("Failed to write config:", err)
	}

	w := NewWatcher(watchRegistry(t), configPath, WatchOptions{
		PollInterval: 100 * time.Millisecond,
	})
	w.Start()
	w.Start() // second Start is a no-op

	changes := w.Subscribe()

	start := time.Now()
	w.Stop()
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Stop took %v, want a bounded join", elapsed)
	}
	if w.IsWatching() {
		t.Error("Watcher should not be running after Stop")
	}

	select {
	case _, ok := <-changes:
		if ok {
			t.Error("Expected subscriber channel to close after Stop")
		}
	case <-time.After(time.Second):
		t.Error("Subscriber channel should close after Stop")
	}

	if n := w.SubscriberCount(); n != 0 {
		t.Errorf("Expected 0 subscribers after Stop, got %d", n)
	}
}

func TestWatchOptionsClamped(t *testing.T) {
	w := NewWatcher(watchRegistry(t), "unused.toml", WatchOptions{
		PollInterval: 10 * time.Millisecond,
		MaxWatchers:  -1,
	})

	if w.opts.PollInterval != MinPollInterval {
		t.Errorf("PollInterval = %v, want clamp to %v", w.opts.PollInterval, MinPollInterval)
	}
	if w.opts.MaxWatchers != DefaultMaxWatchers {
		t.Errorf("MaxWatchers = %d, want %d", w.opts.MaxWatchers, DefaultMaxWatchers)
	}
	if w.opts.ReloadTimeout != DefaultReloadTimeout {
		t.Errorf("ReloadTimeout = %v, want %v", w.opts.ReloadTimeout, DefaultReloadTimeout)
	}
}

func TestDefaultWatchOptions(t *testing.T) {
	opts := DefaultWatchOptions()
	if opts.PollInterval != DefaultPollInterval {
		t.Errorf("PollInterval = %v, want %v", opts.PollInterval, DefaultPollInterval)
	}
	if opts.Debounce != DefaultDebounce {
		t.Errorf("Debounce = %v, want %v", opts.Debounce, DefaultDebounce)
	}
	if opts.MaxWatchers != DefaultMaxWatchers {
		t.Errorf("MaxWatchers = %d, want %d", opts.MaxWatchers, DefaultMaxWatchers)
	}
	if opts.ReloadTimeout != DefaultReloadTimeout {
		t.Errorf("ReloadTimeout = %v, want %v", opts.ReloadTimeout, DefaultReloadTimeout)
	}
}
