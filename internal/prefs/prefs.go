package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const prefsFile = "prefs.json"

// Store is a small string-keyed preference file for layout state: dock ratio,
// collapsed flag, expanded panel ids, last library location. Values are read
// once when the store opens and written back on every change; there is no
// transactional guarantee across keys.
type Store struct {
	path   string
	values map[string]json.RawMessage
}

func defaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "berth")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, prefsFile), nil
}

// Open loads the preference file from the user config dir, creating the
// directory if needed. A missing file yields an empty store.
func Open() (*Store, error) {
	path, err := defaultPath()
	if err != nil {
		return nil, err
	}
	return OpenAt(path)
}

// OpenAt loads the preference file at an explicit path.
func OpenAt(path string) (*Store, error) {
	s := &Store{path: path, values: map[string]json.RawMessage{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		// Corrupt prefs are not fatal; start over rather than refuse to boot.
		s.values = map[string]json.RawMessage{}
	}
	return s, nil
}

func (s *Store) flush() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *Store) set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.values[key] = data
	return s.flush()
}

func (s *Store) get(key string, out any) bool {
	raw, ok := s.values[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

// String returns the value for key, or def when absent or malformed.
func (s *Store) String(key, def string) string {
	var v string
	if s.get(key, &v) {
		return v
	}
	return def
}

func (s *Store) Float(key string, def float64) float64 {
	var v float64
	if s.get(key, &v) {
		return v
	}
	return def
}

func (s *Store) Bool(key string, def bool) bool {
	var v bool
	if s.get(key, &v) {
		return v
	}
	return def
}

// Strings returns a list value. Absent keys return nil.
func (s *Store) Strings(key string) []string {
	var v []string
	if s.get(key, &v) {
		return v
	}
	return nil
}

// FloatMap returns a string-to-number map value. Absent keys return nil.
func (s *Store) FloatMap(key string) map[string]float64 {
	var v map[string]float64
	if s.get(key, &v) {
		return v
	}
	return nil
}

func (s *Store) SetString(key, v string) error                      { return s.set(key, v) }
func (s *Store) SetFloat(key string, v float64) error               { return s.set(key, v) }
func (s *Store) SetBool(key string, v bool) error                   { return s.set(key, v) }
func (s *Store) SetStrings(key string, v []string) error            { return s.set(key, v) }
func (s *Store) SetFloatMap(key string, v map[string]float64) error { return s.set(key, v) }
