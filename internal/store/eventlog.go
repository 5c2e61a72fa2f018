package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/enonoeno/housingbot/internal/housing"
)

// EventType classifies a lifecycle log entry.
type EventType int

const (
	EventOpened EventType = iota
	EventSold
)

// Event is one open/close entry for the per-server text log.
type Event struct {
	Type    EventType
	Time    time.Time // already in the bot's configured zone
	Address housing.Address
	Size    housing.PlotSize

	// Sold only.
	ListedHours int
	OrMore      bool
}

// AppendEvent appends one line to Datacenters/<DC>/<Server>/logfile.txt.
// Best effort from the caller's point of view: a failed log write should be
// reported but must not roll back the transition it describes.
func (s *Store) AppendEvent(ev Event) error {
	dir := filepath.Join(s.root, capitalize(ev.Address.Datacenter), capitalize(ev.Address.Server))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path := filepath.Join(dir, "logfile.txt")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(ev.line())
	return err
}

func (ev Event) line() string {
	now := ev.Time
	head := fmt.Sprintf("[%d-%d-%d %d:%d] %s Ward %02d Plot %02d [%c] ",
		int(now.Month()), now.Day(), now.Year(), now.Hour(), now.Minute(),
		ev.Address.District.Display(), ev.Address.Ward, ev.Address.Plot, ev.Size)

	// wall-clock display: subtract 12 only above 12, so midnight logs as 00
	hour := now.Hour()
	zone := "am"
	if hour > 11 {
		zone = "pm"
	}
	if hour > 12 {
		hour -= 12
	}
	clock := fmt.Sprintf("%02d:%02d%s", hour, now.Minute(), zone)

	switch ev.Type {
	case EventOpened:
		return head + fmt.Sprintf("became available at %s.\n", clock)
	case EventSold:
		qual := ""
		if ev.OrMore {
			qual = " or more"
		}
		return head + fmt.Sprintf("was sold at %s after being listed for %d%s hours.\n",
			clock, ev.ListedHours, qual)
	}
	return head + "\n"
}
