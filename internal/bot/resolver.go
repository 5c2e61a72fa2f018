package bot

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/enonoeno/housingbot/internal/housing"
)

// Location is a resolved plot address plus the directory keyword it came
// from (needed for role callouts and reporting-channel lookups).
type Location struct {
	housing.Address
	ServerKey string
}

// Resolver maps a channel name and command body to a plot address. Pure:
// only the injected directory is consulted.
type Resolver struct {
	dir *Directory
}

func NewResolver(dir *Directory) *Resolver {
	return &Resolver{dir: dir}
}

var numTokens = regexp.MustCompile(`\d+`)

// Resolve derives the target address for a command issued in channelName
// with body (command token already stripped). ok=false means the command is
// not applicable here: wrong channel, no district keyword, too few numbers,
// or out-of-range ward/plot. Callers log and otherwise stay silent.
func (r *Resolver) Resolve(channelName, body string) (Location, bool) {
	server, dc, ok := r.dir.Match(channelName)
	if !ok {
		return Location{}, false
	}

	body = strings.ToLower(body)
	district, ok := housing.MatchDistrict(body)
	if !ok {
		return Location{}, false
	}

	// all numeric runs, non-digits are separators; first = ward, second = plot
	nums := numTokens.FindAllString(body, -1)
	if len(nums) < 2 {
		return Location{}, false
	}
	ward, err := strconv.Atoi(nums[0])
	if err != nil {
		return Location{}, false
	}
	plot, err := strconv.Atoi(nums[1])
	if err != nil {
		return Location{}, false
	}

	loc := Location{
		Address: housing.Address{
			Datacenter: dc,
			Server:     server,
			District:   district,
			Ward:       ward,
			Plot:       plot,
		},
		ServerKey: server,
	}
	if !loc.Valid() {
		return Location{}, false
	}
	return loc, true
}

// ResolveServer is the channel-only half of Resolve, for commands like
// sweep that target a whole server.
func (r *Resolver) ResolveServer(channelName string) (server, datacenter string, ok bool) {
	return r.dir.Match(channelName)
}
