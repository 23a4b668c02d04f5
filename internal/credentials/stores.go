package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"

	"dale-assistant/internal/integrations/paramstore"
)

// MapStore is an in-memory page-local store, the analogue of browser local
// storage. The owning auth subsystem seeds it; the widget only reads.
type MapStore struct {
	mu   sync.RWMutex
	vals map[string]string
}

// NewMapStore copies vals into a new store.
func NewMapStore(vals map[string]string) *MapStore {
	m := make(map[string]string, len(vals))
	for k, v := range vals {
		m[k] = v
	}
	return &MapStore{vals: m}
}

func (s *MapStore) Lookup(_ context.Context, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vals[key]
	return v, ok
}

// EnvStore maps key "access_token" to the variable PREFIX_ACCESS_TOKEN.
type EnvStore struct {
	Prefix string
	lookup func(string) (string, bool)
}

// NewEnvStore reads from the process environment.
func NewEnvStore(prefix string) *EnvStore {
	return &EnvStore{Prefix: prefix, lookup: os.LookupEnv}
}

// EnvName returns the variable consulted for key.
func (s *EnvStore) EnvName(key string) string {
	name := strings.ToUpper(strings.NewReplacer("-", "_", ".", "_", "/", "_").Replace(key))
	if s.Prefix == "" {
		return name
	}
	return strings.TrimSuffix(strings.ToUpper(s.Prefix), "_") + "_" + name
}

func (s *EnvStore) Lookup(_ context.Context, key string) (string, bool) {
	lookup := s.lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return lookup(s.EnvName(key))
}

// FileStore reads a flat JSON object of string values (a local storage
// export) on every lookup, so external rewrites are picked up.
type FileStore struct {
	Path   string
	Logger *slog.Logger
}

func (s *FileStore) Lookup(_ context.Context, key string) (string, bool) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger().Warn("credential file unreadable", "path", s.Path, "err", err)
		}
		return "", false
	}
	var vals map[string]string
	if err := json.Unmarshal(raw, &vals); err != nil {
		s.logger().Warn("credential file is not a JSON object of strings", "path", s.Path, "err", err)
		return "", false
	}
	v, ok := vals[key]
	return v, ok
}

func (s *FileStore) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// ParamStore looks keys up in AWS SSM under Prefix. Missing parameters and
// API failures both read as absent.
type ParamStore struct {
	getter paramstore.Getter
	prefix string
	logger *slog.Logger
}

// NewParamStore returns a store reading "<prefix>/<key>" parameters.
func NewParamStore(getter paramstore.Getter, prefix string, logger *slog.Logger) (*ParamStore, error) {
	if getter == nil {
		return nil, errors.New("credentials: paramstore getter must not be nil")
	}
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return nil, errors.New("credentials: parameter prefix must not be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ParamStore{getter: getter, prefix: prefix, logger: logger}, nil
}

func (s *ParamStore) Lookup(ctx context.Context, key string) (string, bool) {
	name := s.prefix + "/" + key
	v, err := s.getter.GetParameter(ctx, name)
	if err != nil {
		if !errors.Is(err, paramstore.ErrNotFound) {
			s.logger.Warn("credential lookup failed", "parameter", name, "err", err)
		}
		return "", false
	}
	return v, true
}
