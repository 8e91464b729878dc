package settings

import (
	"errors"
	"sync"
)

var ErrReadOnly = errors.New("settings provider is read-only")

// Settings are the gateway settings owned by the host application.
type Settings struct {
	// EnableService toggles whether the gateway is managed at all.
	EnableService bool `conf:"enable_service" json:"enable_service"`

	// ExecutablePath is the path to the gateway binary. It may start
	// with "~" to refer to the home directory.
	ExecutablePath string `conf:"executable_path" json:"executable_path"`

	// ConfigPath is the directory holding the gateway's own settings
	// file. Optional.
	ConfigPath string `conf:"config_path" json:"config_path"`
}

// Provider supplies the current gateway settings. Implementations are
// queried on every status check, so changes take effect immediately.
type Provider interface {
	Settings() (Settings, error)
}

// Updater is implemented by providers that accept changes at runtime.
type Updater interface {
	Update(Settings) error
}

// Store is an in-memory, writable Provider.
type Store struct {
	mu       sync.RWMutex
	settings Settings
}

var (
	_ Provider = (*Store)(nil)
	_ Updater  = (*Store)(nil)
)

func NewStore(initial Settings) *Store {
	return &Store{settings: initial}
}

func (s *Store) Settings() (Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.settings, nil
}

func (s *Store) Update(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settings

	return nil
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func() (Settings, error)

func (f ProviderFunc) Settings() (Settings, error) {
	return f()
}
