package credentials

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"dale-assistant/internal/integrations/paramstore"
)

func TestNewAccessor_ValidatesStore(t *testing.T) {
	_, err := NewAccessor(nil, "", "")
	require.Error(t, err)
}

func TestAccessor_PrimaryWins(t *testing.T) {
	a, err := NewAccessor(NewMapStore(map[string]string{"access_token": "primary", "token": "fallback"}), "", "")
	require.NoError(t, err)
	tok, ok := a.Token(context.Background())
	require.True(t, ok)
	require.Equal(t, "primary", tok)
}

func TestAccessor_FallsBack(t *testing.T) {
	a, err := NewAccessor(NewMapStore(map[string]string{"token": "fallback"}), "", "")
	require.NoError(t, err)
	tok, ok := a.Token(context.Background())
	require.True(t, ok)
	require.Equal(t, "fallback", tok)

	a, err = NewAccessor(NewMapStore(map[string]string{"access_token": "", "token": "fallback"}), "", "")
	require.NoError(t, err)
	tok, ok = a.Token(context.Background())
	require.True(t, ok)
	require.Equal(t, "fallback", tok)
}

func TestAccessor_Absent(t *testing.T) {
	a, err := NewAccessor(NewMapStore(nil), "", "")
	require.NoError(t, err)
	_, ok := a.Token(context.Background())
	require.False(t, ok)
}

func TestAccessor_CustomKeys(t *testing.T) {
	a, err := NewAccessor(NewMapStore(map[string]string{"jwt": "j"}), "jwt", "legacy")
	require.NoError(t, err)
	tok, ok := a.Token(context.Background())
	require.True(t, ok)
	require.Equal(t, "j", tok)
}

func TestEnvStore(t *testing.T) {
	s := &EnvStore{Prefix: "DALE", lookup: func(name string) (string, bool) {
		if name == "DALE_ACCESS_TOKEN" {
			return "from-env", true
		}
		return "", false
	}}
	require.Equal(t, "DALE_ACCESS_TOKEN", s.EnvName("access_token"))
	v, ok := s.Lookup(context.Background(), "access_token")
	require.True(t, ok)
	require.Equal(t, "from-env", v)
	_, ok = s.Lookup(context.Background(), "token")
	require.False(t, ok)
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "storage.json")
	s := &FileStore{Path: path}

	_, ok := s.Lookup(context.Background(), "token")
	require.False(t, ok, "missing file reads as absent")

	require.NoError(t, os.WriteFile(path, []byte(`{"token":"t-1"}`), 0o600))
	v, ok := s.Lookup(context.Background(), "token")
	require.True(t, ok)
	require.Equal(t, "t-1", v)

	require.NoError(t, os.WriteFile(path, []byte(`not-json`), 0o600))
	_, ok = s.Lookup(context.Background(), "token")
	require.False(t, ok)
}

type fakeGetter struct {
	vals  map[string]string
	err   error
	names []string
}

func (f *fakeGetter) GetParameter(_ context.Context, name string) (string, error) {
	f.names = append(f.names, name)
	if f.err != nil {
		return "", f.err
	}
	v, ok := f.vals[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", paramstore.ErrNotFound, name)
	}
	return v, nil
}

func TestParamStore(t *testing.T) {
	_, err := NewParamStore(nil, "/dale", nil)
	require.Error(t, err)
	_, err = NewParamStore(&fakeGetter{}, " / ", nil)
	require.Error(t, err)

	g := &fakeGetter{vals: map[string]string{"/dale/token": "ssm-token"}}
	s, err := NewParamStore(g, "/dale/", nil)
	require.NoError(t, err)

	a, err := NewAccessor(s, "", "")
	require.NoError(t, err)
	tok, ok := a.Token(context.Background())
	require.True(t, ok)
	require.Equal(t, "ssm-token", tok)
	require.Equal(t, []string{"/dale/access_token", "/dale/token"}, g.names)
}

func TestParamStore_ErrorReadsAbsent(t *testing.T) {
	s, err := NewParamStore(&fakeGetter{err: errors.New("throttled")}, "/dale", nil)
	require.NoError(t, err)
	_, ok := s.Lookup(context.Background(), "token")
	require.False(t, ok)
}
