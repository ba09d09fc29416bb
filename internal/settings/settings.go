// Package settings holds the user-tunable settings. Every accepted change
// produces a new immutable snapshot with a higher version; invalid changes
// are rejected before anyone sees them.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/luticapital/arbitrage-helper/internal/metrics"
	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

// ErrInvalid is returned for settings that fail validation.
var ErrInvalid = errors.New("invalid settings")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks s against the allowed ranges.
func Validate(s domain.Settings) error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]error, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Errorf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			}
			return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(msgs...))
		}
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Change sources reported in metrics and logs.
const (
	SourceAPI  = "api"
	SourceFile = "file"
)

// Store owns the current settings snapshot. When backed by a file, updates
// are written to it and edits made to it are picked up by Watch.
type Store struct {
	defaults domain.Settings
	path     string
	log      *slog.Logger

	// fileMu serializes reads and writes of the settings file.
	fileMu sync.Mutex
	// applyMu keeps subscribers seeing snapshots in version order.
	applyMu sync.Mutex

	mu      sync.RWMutex
	current domain.Settings
	subs    map[int]func(domain.Settings)
	nextSub int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// WithFile backs the store with a YAML file. A missing file is created on
// the first update.
func WithFile(path string) Option {
	return func(s *Store) {
		s.path = path
	}
}

// New creates a Store seeded with defaults, overlaid with the settings file
// when one is configured and present.
func New(defaults domain.Settings, opts ...Option) (*Store, error) {
	s := &Store{
		defaults: defaults,
		log:      slog.Default(),
		subs:     make(map[int]func(domain.Settings)),
	}
	for _, opt := range opts {
		opt(s)
	}

	initial, err := s.load(true)
	if err != nil {
		return nil, err
	}
	if err := Validate(initial); err != nil {
		return nil, err
	}

	initial.Version = 1
	s.current = initial
	metrics.SettingsVersion.Set(float64(initial.Version))
	return s, nil
}

func (s *Store) newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("fee_percent", s.defaults.FeePercent)
	v.SetDefault("margin_percent", s.defaults.MarginPercent)
	v.SetDefault("oracle_enabled", s.defaults.OracleEnabled)
	v.SetDefault("historic_enabled", s.defaults.HistoricEnabled)
	v.SetDefault("grid_scan_limit", s.defaults.GridScanLimit)
	if s.path != "" {
		v.SetConfigFile(s.path)
		v.SetConfigType("yaml")
	}
	return v
}

// load decodes the defaults overlaid with the settings file.
func (s *Store) load(allowMissing bool) (domain.Settings, error) {
	s.fileMu.Lock()
	defer s.fileMu.Unlock()

	v := s.newViper()
	if s.path != "" {
		err := v.ReadInConfig()
		if err != nil && !(allowMissing && errors.Is(err, fs.ErrNotExist)) {
			return domain.Settings{}, fmt.Errorf("reading settings file: %w", err)
		}
	}

	var out domain.Settings
	if err := v.Unmarshal(&out); err != nil {
		return domain.Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	return out, nil
}

func (s *Store) persist(cur domain.Settings) error {
	s.fileMu.Lock()
	defer s.fileMu.Unlock()

	v := s.newViper()
	v.Set("fee_percent", cur.FeePercent)
	v.Set("margin_percent", cur.MarginPercent)
	v.Set("oracle_enabled", cur.OracleEnabled)
	v.Set("historic_enabled", cur.HistoricEnabled)
	v.Set("grid_scan_limit", cur.GridScanLimit)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	return nil
}

// Current returns the active snapshot.
func (s *Store) Current() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Path returns the backing file, or "" for an in-memory store.
func (s *Store) Path() string {
	return s.path
}

// Subscribe registers fn to receive every new snapshot. Callbacks run
// synchronously in the goroutine that applied the change and must not
// update the store themselves. The returned func removes the subscription.
func (s *Store) Subscribe(fn func(domain.Settings)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Update validates next and makes it the active snapshot. The Version of
// next is ignored. When backed by a file the change is persisted.
func (s *Store) Update(next domain.Settings) (domain.Settings, error) {
	applied, changed, err := s.apply(next, SourceAPI)
	if err != nil || !changed || s.path == "" {
		return applied, err
	}
	return applied, s.persist(applied)
}

// Reload re-reads the settings file and applies it.
func (s *Store) Reload() (domain.Settings, error) {
	if s.path == "" {
		return s.Current(), nil
	}

	next, err := s.load(false)
	if err != nil {
		metrics.SettingsReloadsTotal.WithLabelValues(SourceFile, "error").Inc()
		return s.Current(), err
	}

	applied, _, err := s.apply(next, SourceFile)
	return applied, err
}

// apply installs next if it is valid and differs from the current
// snapshot, then notifies subscribers.
func (s *Store) apply(next domain.Settings, source string) (domain.Settings, bool, error) {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	if err := Validate(next); err != nil {
		metrics.SettingsReloadsTotal.WithLabelValues(source, "rejected").Inc()
		s.log.Warn("settings change rejected", "source", source, "error", err)
		return s.Current(), false, err
	}

	s.mu.Lock()
	next.Version = s.current.Version
	if next == s.current {
		s.mu.Unlock()
		return next, false, nil
	}
	next.Version++
	s.current = next
	subs := make([]func(domain.Settings), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	metrics.SettingsVersion.Set(float64(next.Version))
	metrics.SettingsReloadsTotal.WithLabelValues(source, "applied").Inc()
	s.log.Info("settings changed",
		"source", source,
		"version", next.Version,
		"fee_percent", next.FeePercent,
		"margin_percent", next.MarginPercent,
		"oracle_enabled", next.OracleEnabled,
		"historic_enabled", next.HistoricEnabled,
		"grid_scan_limit", next.GridScanLimit,
	)

	for _, fn := range subs {
		fn(next)
	}
	return next, true, nil
}
