package store

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestSaveConfig_ConcurrentWriters_DoesNotCorruptConfig(t *testing.T) {
	t.Setenv("NOTEWIN_CONFIG_DIR", t.TempDir())

	if err := SaveConfig(&GlobalConfig{CurrentActorID: "act-seed"}); err != nil {
		t.Fatalf("SaveConfig(seed): %v", err)
	}

	const n = 32
	errCh := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cfg, err := LoadConfig()
			if err != nil {
				errCh <- err
				return
			}
			cfg.CurrentActorID = fmt.Sprintf("act-%d", i)
			if err := SaveConfig(cfg); err != nil {
				errCh <- err
			}
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Errorf("concurrent SaveConfig: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig after concurrent writes: %v", err)
	}
	if cfg.CurrentActorID == "" {
		t.Fatalf("expected some actor id to survive, got empty config")
	}
}

func TestLoadConfig_MissingFileIsEmpty(t *testing.T) {
	t.Setenv("NOTEWIN_CONFIG_DIR", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.CurrentActorID != "" || cfg.TUI != nil {
		t.Fatalf("expected empty config, got %#v", cfg)
	}
	if got := cfg.TitleAutosave(); got != 500*time.Millisecond {
		t.Fatalf("expected default autosave 500ms, got %v", got)
	}
}

func TestTitleAutosave_UsesConfiguredValue(t *testing.T) {
	cfg := &GlobalConfig{TUI: &TUIConfig{TitleAutosaveMs: 1200}}
	if got := cfg.TitleAutosave(); got != 1200*time.Millisecond {
		t.Fatalf("expected 1.2s, got %v", got)
	}
}
