package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

var validID = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// DiskStore writes entries as JSON files to a directory. With no directory
// configured it lazily creates a temp directory on first use.
type DiskStore struct {
	mu  sync.Mutex
	dir string
}

// NewDiskStore creates a DiskStore rooted at dir, or at a lazily created
// temp directory when dir is empty.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir}
}

// Save writes the entry as <id>.json.
func (s *DiskStore) Save(entry *Entry) error {
	path, err := s.path(entry.ID)
	if err != nil {
		return err
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshalling run %s: %w", entry.ID, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing run %s: %w", entry.ID, err)
	}
	return nil
}

// Load reads <id>.json.
func (s *DiskStore) Load(runID string) (*Entry, error) {
	path, err := s.path(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run %s: %w", runID, err)
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshalling run %s: %w", runID, err)
	}
	return &entry, nil
}

// path maps a run ID to its file, rejecting IDs that could escape the
// directory.
func (s *DiskStore) path(runID string) (string, error) {
	if !validID.MatchString(runID) {
		return "", fmt.Errorf("invalid run id %q", runID)
	}
	dir, err := s.ensureDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, runID+".json"), nil
}

func (s *DiskStore) ensureDir() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return "", fmt.Errorf("creating history directory: %w", err)
		}
		return s.dir, nil
	}
	dir, err := os.MkdirTemp("", "ampyctl-runs-*")
	if err != nil {
		return "", fmt.Errorf("creating history directory: %w", err)
	}
	s.dir = dir
	return dir, nil
}
