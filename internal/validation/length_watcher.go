package validation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen/conceptnametag-service/internal/domain"
)

const defaultReloadDebounce = 250 * time.Millisecond

// lengthFile is the on-disk layout of a length override file:
//
//	max_lengths:
//	  concept_name_tag:
//	    tag: 50
//	    voidReason: 255
type lengthFile struct {
	MaxLengths map[string]map[string]int `yaml:"max_lengths"`
}

// LoadLengthFile reads length overrides from a YAML file.
func LoadLengthFile(path string) (Limits, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from trusted configuration
	if err != nil {
		return nil, fmt.Errorf("reading length file: %w", err)
	}

	var raw lengthFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing length file %s: %w", path, err)
	}

	limits := LimitsFromMap(raw.MaxLengths)
	if err := limits.Validate(); err != nil {
		return nil, fmt.Errorf("length file %s: %w", path, err)
	}

	return limits, nil
}

// LengthFileWatcherConfig configures a LengthFileWatcher.
type LengthFileWatcherConfig struct {
	// Path is the YAML override file. Required.
	Path string

	// Base is the table the overrides are merged onto, usually the
	// configured max_lengths.
	Base Limits

	// Debounce is the quiet period before a reload (default: 250ms).
	Debounce time.Duration

	// OnReload is called after every reload attempt. Optional; used by tests.
	OnReload func(err error)
}

// LengthFileWatcher reloads a LengthPolicy when its override file changes.
// A file that fails to parse leaves the current table in place.
type LengthFileWatcher struct {
	policy *LengthPolicy
	cfg    LengthFileWatcherConfig
	logger *slog.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// NewLengthFileWatcher creates a watcher for policy.
func NewLengthFileWatcher(policy *LengthPolicy, cfg LengthFileWatcherConfig, logger *slog.Logger) (*LengthFileWatcher, error) {
	if policy == nil {
		return nil, domain.NewInvalidArgumentError("policy", "must not be nil")
	}

	if cfg.Path == "" {
		return nil, domain.NewInvalidArgumentError("path", "must not be empty")
	}

	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultReloadDebounce
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &LengthFileWatcher{
		policy: policy,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "validation.LengthFileWatcher"), slog.String("path", cfg.Path)),
	}, nil
}

// Reload reads the override file and swaps the policy table.
func (w *LengthFileWatcher) Reload() error {
	overrides, err := LoadLengthFile(w.cfg.Path)
	if err == nil {
		err = w.policy.Replace(w.cfg.Base.Merge(overrides))
	}

	if err != nil {
		w.logger.Error("length table reload failed, keeping current table", slog.Any("error", err))
	} else {
		w.logger.Info("length table reloaded")
	}

	if w.cfg.OnReload != nil {
		w.cfg.OnReload(err)
	}

	return err
}

// Run loads the file once, then watches it until ctx is cancelled.
// The parent directory is watched so that editors which replace the file
// atomically are still picked up.
func (w *LengthFileWatcher) Run(ctx context.Context) error {
	if err := w.Reload(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.cfg.Path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	w.logger.Info("watching length table", slog.Duration("debounce", w.cfg.Debounce))

	defer w.cancelPending()

	target := filepath.Clean(w.cfg.Path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}

			if filepath.Clean(event.Name) != target || event.Has(fsnotify.Chmod) {
				continue
			}

			w.logger.Debug("length file event", slog.String("op", event.Op.String()))
			w.schedule(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}

			w.logger.Warn("file watcher error", slog.Any("error", err))
		}
	}
}

// schedule debounces reloads: bursts of events result in one reload after
// the quiet period.
func (w *LengthFileWatcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.cfg.Debounce, func() {
		if ctx.Err() != nil {
			return
		}

		_ = w.Reload()
	})
}

func (w *LengthFileWatcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
