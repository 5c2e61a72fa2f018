package bot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// cookieJar tracks how many plots each user has reported open. One cookie
// per successful open; purely for bragging rights.
type cookieJar struct {
	mu   sync.Mutex
	path string
	data map[string]int
}

func loadCookieJar(path string) (*cookieJar, error) {
	j := &cookieJar{path: path, data: map[string]int{}}
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return j, j.save()
		}
		return nil, err
	}
	if err := json.Unmarshal(b, &j.data); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *cookieJar) save() error {
	b, err := json.MarshalIndent(j.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(j.path, b, 0644)
}

// Award adds one cookie and persists.
func (j *cookieJar) Award(userID string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.data[userID]++
	return j.save()
}

// Count returns a user's balance.
func (j *cookieJar) Count(userID string) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.data[userID]
}
