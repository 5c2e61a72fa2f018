package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/enonoeno/housingbot/internal/housing"
	"github.com/enonoeno/housingbot/internal/store"
)

// startScheduler launches the once-a-minute tick loop that fires the
// prime-time scan at the configured minute of each hour.
func (b *HousingBot) startScheduler() error {
	b.schedMu.Lock()
	defer b.schedMu.Unlock()
	if b.schedRunning {
		return errors.New("scheduler already running")
	}
	ctx, cancel := context.WithCancel(context.Background())
	b.schedCancel = cancel
	b.schedRunning = true
	go b.scanLoop(ctx)
	return nil
}

func (b *HousingBot) stopScheduler() {
	b.schedMu.Lock()
	defer b.schedMu.Unlock()
	if !b.schedRunning {
		return
	}
	b.schedRunning = false
	if b.schedCancel != nil {
		b.schedCancel()
		b.schedCancel = nil
	}
}

func (b *HousingBot) scanLoop(ctx context.Context) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			now := b.now().In(b.loc)
			if now.Minute() != b.scanMinute {
				continue
			}
			b.CheckPrimeTimes(ctx, now)
		}
	}
}

// CheckPrimeTimes runs one full scan cycle: for every server with a
// registered reporting channel, collect the open plots whose prime time
// begins in the upcoming hour and post one aggregated message. One server's
// failure never blocks the others.
func (b *HousingBot) CheckPrimeTimes(ctx context.Context, now time.Time) {
	log.Println("[scan] checking prime times...")
	for _, server := range b.dir.Servers() {
		entry, ok := b.dir.Entry(server)
		if !ok || entry.Unset() {
			continue
		}
		lines, notified := b.collectPrimeTimes(ctx, entry.Datacenter, server, now)
		if len(lines) == 0 {
			continue
		}
		msg := "__The following plots will be in prime time in the upcoming hour:__\n" +
			strings.Join(lines, "\n")
		if _, err := b.gw.SendMessage(ctx, entry.ReportingChannel, msg); err != nil {
			log.Printf("[scan] notify %s: %v", server, err)
			continue
		}
		// the ping went out: clear those wishlists so the same listing does
		// not re-ping every hour (a user can always re-wish)
		for _, a := range notified {
			err := b.store.Update(a, func(t *housing.WardTable) (bool, error) {
				t.Record(a.Plot).WishList = nil
				return true, nil
			})
			if err != nil {
				log.Printf("[scan] clear wishlist %s: %v", a, err)
			}
		}
	}
}

// collectPrimeTimes walks every ward of every district for one server and
// returns the report lines plus the addresses whose wishlists were pinged.
// Errors are isolated per ward and per user.
func (b *HousingBot) collectPrimeTimes(ctx context.Context, dc, server string, now time.Time) ([]string, []housing.Address) {
	var lines []string
	var notified []housing.Address
	for _, d := range housing.Districts {
		for w := 1; w <= housing.MaxWards; w++ {
			a := housing.Address{Datacenter: dc, Server: server, District: d, Ward: w, Plot: 1}
			t, err := b.store.Load(a)
			if errors.Is(err, store.ErrNoTable) {
				continue
			}
			if err != nil {
				log.Printf("[scan] %s: %v", a, err)
				continue
			}
			for _, r := range t.Records {
				if !r.Available {
					continue
				}
				_, _, hour, err := housing.ParseStamp(r.ListingTime)
				if err != nil {
					log.Printf("[scan] %s plot %d: %v", a, r.Plot, err)
					continue
				}
				if housing.PrimeHour(hour)-1 != now.Hour() {
					continue
				}
				line := fmt.Sprintf("%s, [%c] Ward %d Plot %d ", d.Display(), r.Size, w, r.Plot)
				for _, id := range r.WishList {
					mention, err := b.gw.ResolveUser(ctx, id)
					if err != nil {
						log.Printf("[scan] wishlist user %s: %v", id, err)
						continue
					}
					line += ">> " + mention + " "
				}
				lines = append(lines, line)
				if len(r.WishList) > 0 {
					na := a
					na.Plot = r.Plot
					notified = append(notified, na)
				}
			}
		}
	}
	return lines, notified
}
