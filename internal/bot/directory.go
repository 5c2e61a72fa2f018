package bot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// ServerEntry is one server's record in the directory: which datacenter it
// belongs to and where scheduled reports go. The JSON keys match the file
// the bot has always shipped with.
type ServerEntry struct {
	Datacenter string `json:"datacenter"`
	// ReportingChannel is a channel id, or a non-positive sentinel ("0",
	// "-1", "") meaning no channel is registered.
	ReportingChannel string `json:"reporting channel"`
}

// Unset reports whether no reporting channel is registered.
func (e ServerEntry) Unset() bool {
	s := strings.TrimSpace(e.ReportingChannel)
	if s == "" {
		return true
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil && n <= 0 {
		return true
	}
	return false
}

// Directory is the server-name → datacenter/reporting-channel mapping,
// persisted as a JSON document. It replaces the old process-global
// dictionary: loaded once at startup and passed to every consumer, with
// mutations going through explicit update-and-persist calls.
type Directory struct {
	mu   sync.Mutex
	path string
	data map[string]ServerEntry
}

func LoadDirectory(path string) (*Directory, error) {
	d := &Directory{path: path, data: map[string]ServerEntry{}}
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, d.Save()
		}
		return nil, err
	}
	if err := json.Unmarshal(b, &d.data); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Directory) Save() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, err := json.MarshalIndent(d.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(d.path, b, 0644)
}

// Match finds the server whose name keyword is a substring of the
// case-folded channel name. A miss means the channel is not a
// plot-reporting channel.
func (d *Directory) Match(channelName string) (server, datacenter string, ok bool) {
	name := strings.ToLower(channelName)
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, e := range d.data {
		if strings.Contains(name, key) {
			return key, e.Datacenter, true
		}
	}
	return "", "", false
}

// Servers lists all registered server keywords, sorted for deterministic
// scan order.
func (d *Directory) Servers() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.data))
	for key := range d.data {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func (d *Directory) Entry(server string) (ServerEntry, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.data[server]
	return e, ok
}

// SetReportingChannel registers a server's reporting channel and persists
// the directory.
func (d *Directory) SetReportingChannel(server, channelID string) error {
	d.mu.Lock()
	e := d.data[server]
	e.ReportingChannel = channelID
	d.data[server] = e
	d.mu.Unlock()
	return d.Save()
}

// SetServer adds or rewrites a whole entry and persists.
func (d *Directory) SetServer(server string, e ServerEntry) error {
	d.mu.Lock()
	d.data[strings.ToLower(server)] = e
	d.mu.Unlock()
	return d.Save()
}
