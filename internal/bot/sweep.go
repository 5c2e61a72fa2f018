package bot

import (
	"fmt"
	"log"
	"strings"

	"github.com/enonoeno/housingbot/internal/housing"
)

// buildSweep renders the open-plot report for one server. District order is
// fixed; a district with nothing open renders a placeholder line.
func (b *HousingBot) buildSweep(dc, server string) string {
	total := 0
	var sections []string
	for _, d := range housing.Districts {
		n, entries := b.sweepDistrict(dc, server, d)
		total += n
		body := "No plots available."
		if n > 0 {
			body = strings.TrimSuffix(strings.TrimSpace(entries), ",") + "."
		}
		sections = append(sections, fmt.Sprintf("[%d] %s %s: %s", n, d.Emoji(), d.Display(), body))
	}
	header := fmt.Sprintf("__Sweep Report: %d plot(s) available. <all prime times are EST>__", total)
	return header + "\n" + strings.Join(sections, "\n") + "\n"
}

// sweepDistrict walks every ward sheet of a district and collects the open
// plots as " [S] 03-05 <0am>," entries. A ward that fails to load is logged
// and skipped; the rest of the sweep continues.
func (b *HousingBot) sweepDistrict(dc, server string, d housing.District) (int, string) {
	wards, err := b.store.Wards(dc, server, d)
	if err != nil {
		log.Printf("[sweep] %s/%s %s: %v", dc, server, d, err)
		return 0, ""
	}
	n := 0
	var sb strings.Builder
	for _, w := range wards {
		t, err := b.store.Load(housing.Address{
			Datacenter: dc, Server: server, District: d, Ward: w, Plot: 1,
		})
		if err != nil {
			log.Printf("[sweep] %s/%s %s ward %d: %v", dc, server, d, w, err)
			continue
		}
		for _, r := range t.Records {
			if !r.Available {
				continue
			}
			n++
			pt := "?"
			if _, _, hour, err := housing.ParseStamp(r.ListingTime); err == nil {
				pt = housing.ToClock12(housing.PrimeHour(hour)).String()
			}
			fmt.Fprintf(&sb, " [%c] %02d-%02d <%s>,", r.Size, w, r.Plot, pt)
		}
	}
	return n, sb.String()
}
