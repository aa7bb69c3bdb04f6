package deviceid

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Get returns the stable device ID of this installation.
// If no ID has been persisted at the given path yet, a new one is generated
// and written there.
func Get(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		id := strings.TrimSpace(string(data))
		if _, parseErr := uuid.Parse(id); parseErr == nil {
			return id, nil
		}
	}

	id := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", err
	}
	return id, nil
}
