package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/enonoeno/housingbot/internal/chat"
	"github.com/enonoeno/housingbot/internal/housing"
	"github.com/enonoeno/housingbot/internal/store"
)

// command aliases, all matched case-insensitively after the prefix
var (
	openAliases   = map[string]bool{"open": true, "list": true, "forsale": true}
	closeAliases  = map[string]bool{"close": true, "unlist": true, "sold": true, "sell": true}
	sweepAliases  = map[string]bool{"sweep": true, "report": true}
	wishAliases   = map[string]bool{"wish": true, "wishlist": true}
	unwishAliases = map[string]bool{"unwish": true, "unwishlist": true}
)

const adminRole = "Admin"

// HandleMessage routes one incoming chat message. Anything that does not
// look like a command for this bot is ignored without a reply.
func (b *HousingBot) HandleMessage(ev chat.MessageEvent) {
	text := strings.TrimSpace(ev.Text)
	if !strings.HasPrefix(text, b.prefix) || ev.AuthorID == b.gw.SelfID() {
		return
	}
	rest := strings.TrimSpace(strings.TrimPrefix(text, b.prefix))
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return
	}
	cmd := strings.ToLower(fields[0])
	body := strings.TrimSpace(strings.TrimPrefix(rest, fields[0]))

	ctx, cancel := context.WithTimeout(context.Background(), b.reqTimeout)
	defer cancel()

	switch {
	case openAliases[cmd]:
		b.cmdOpen(ctx, ev, body)
	case closeAliases[cmd]:
		b.cmdClose(ctx, ev, body)
	case sweepAliases[cmd]:
		b.cmdSweep(ctx, ev)
	case wishAliases[cmd]:
		b.cmdWish(ctx, ev, body)
	case unwishAliases[cmd]:
		b.cmdUnwish(ctx, ev, body)
	case cmd == "cookies":
		b.cmdCookies(ctx, ev)
	case cmd == "assemble_reports":
		b.cmdAssembleReports(ctx, ev)
	}
}

// cmdOpen lists a plot for sale: persist the transition first, then
// announce. A crash between the two saves leaves an open record without a
// message ref, never an announcement without a record.
func (b *HousingBot) cmdOpen(ctx context.Context, ev chat.MessageEvent, body string) {
	loc, ok := b.resolver.Resolve(ev.ChannelName, body)
	if !ok {
		log.Printf("[resolve] open %q in #%s: not a plot address", body, ev.ChannelName)
		return
	}
	now := b.now().In(b.loc)

	var res housing.OpenResult
	var size housing.PlotSize
	var wishes []string
	err := b.store.Update(loc.Address, func(t *housing.WardTable) (bool, error) {
		res = housing.OpenPlot(t, loc.Plot, now)
		if res.AlreadyOpen {
			return false, nil
		}
		r := t.Record(loc.Plot)
		size = r.Size
		wishes = append([]string(nil), r.WishList...)
		return true, nil
	})
	if err != nil {
		log.Printf("[store] open %s: %v", loc.Address, err)
		b.say(ctx, ev.ChannelID, "Something went wrong reading the plot database.")
		return
	}
	if res.AlreadyOpen {
		b.say(ctx, ev.ChannelID, "This plot was already listed as open on "+res.ListingTime)
		return
	}

	if b.cookies != nil {
		if err := b.cookies.Award(ev.AuthorID); err != nil {
			log.Printf("[cookies] award %s: %v", ev.AuthorID, err)
		}
	}

	// ping the size+district role, e.g. @SmallMist
	roleName := size.Name() + loc.District.String()
	mention, err := b.gw.ResolveRole(ctx, ev.ChannelID, roleName)
	if err != nil {
		log.Printf("[chat] role %s: %v", roleName, err)
		mention = "@" + roleName
	}
	announce := fmt.Sprintf("%s, a %s plot has opened at: %s, Ward %d, Plot %d. Prime time will be at %s EST.",
		mention, strings.ToLower(size.Name()), loc.District.Display(), loc.Ward, loc.Plot, res.Prime)

	msgID, err := b.sendWithRetry(ctx, ev.ChannelID, announce)
	if err != nil {
		// the listing is committed; the record just has no message ref yet
		log.Printf("[chat] announce %s: %v", loc.Address, err)
		return
	}

	b.pingWishers(ctx, ev.ChannelID, wishes)

	err = b.store.Update(loc.Address, func(t *housing.WardTable) (bool, error) {
		t.Record(loc.Plot).ListingID = msgID
		return true, nil
	})
	if err != nil {
		log.Printf("[store] record announcement %s: %v", loc.Address, err)
	}

	if err := b.store.AppendEvent(store.Event{
		Type: store.EventOpened, Time: now, Address: loc.Address, Size: size,
	}); err != nil {
		log.Printf("[store] event log: %v", err)
	}
}

// pingWishers tells everyone wishlisted on a plot that it just opened.
// A user id that no longer resolves is logged and skipped.
func (b *HousingBot) pingWishers(ctx context.Context, channelID string, wishes []string) {
	for _, id := range wishes {
		mention, err := b.gw.ResolveUser(ctx, id)
		if err != nil {
			log.Printf("[chat] wishlist user %s: %v", id, err)
			continue
		}
		b.say(ctx, channelID, "This plot is on your wishlist, "+mention+".")
	}
}

func (b *HousingBot) cmdClose(ctx context.Context, ev chat.MessageEvent, body string) {
	loc, ok := b.resolver.Resolve(ev.ChannelName, body)
	if !ok {
		log.Printf("[resolve] close %q in #%s: not a plot address", body, ev.ChannelName)
		return
	}
	now := b.now().In(b.loc)

	var res housing.CloseResult
	err := b.store.Update(loc.Address, func(t *housing.WardTable) (bool, error) {
		res = housing.ClosePlot(t, loc.Plot)
		return !res.NotOpen, nil
	})
	if err != nil {
		log.Printf("[store] close %s: %v", loc.Address, err)
		b.say(ctx, ev.ChannelID, "Something went wrong reading the plot database.")
		return
	}
	if res.NotOpen {
		b.say(ctx, ev.ChannelID, "This plot is not currently listed as available.")
		return
	}

	b.annotateSold(ctx, ev.ChannelID, res.Former.ListingID, now)

	evLog := store.Event{
		Type: store.EventSold, Time: now, Address: loc.Address, Size: res.Former.Size,
	}
	hours, orMore, herr := housing.ListedHours(res.Former.ListingTime, now)
	if herr != nil {
		log.Printf("[store] close %s: %v", loc.Address, herr)
	} else {
		evLog.ListedHours, evLog.OrMore = hours, orMore
	}
	if err := b.store.AppendEvent(evLog); err != nil {
		log.Printf("[store] event log: %v", err)
	}
}

// annotateSold edits the original announcement to read as sold and stamps
// the sold emoji on it. Best effort with one retry on the edit.
func (b *HousingBot) annotateSold(ctx context.Context, channelID, messageID string, now time.Time) {
	if messageID == "" {
		return
	}
	former, err := b.gw.FetchMessage(ctx, channelID, messageID)
	if err != nil {
		log.Printf("[chat] fetch announcement %s: %v", messageID, err)
		return
	}
	soldAt := housing.ToClock12(now.Hour())
	edited := former + fmt.Sprintf(" **This plot was sold at %s EST.**", soldAt)
	if err := b.gw.EditMessage(ctx, channelID, messageID, edited); err != nil {
		log.Printf("[chat] edit failed, retrying once: %v", err)
		if err := b.gw.EditMessage(ctx, channelID, messageID, edited); err != nil {
			log.Printf("[chat] edit announcement %s: %v", messageID, err)
			return
		}
	}
	b.react(ctx, channelID, messageID, reactSold)
}

func (b *HousingBot) cmdSweep(ctx context.Context, ev chat.MessageEvent) {
	server, dc, ok := b.resolver.ResolveServer(ev.ChannelName)
	if !ok {
		log.Printf("[resolve] sweep in #%s: not a plot-reporting channel", ev.ChannelName)
		return
	}
	log.Printf("[sweep] report for %s/%s", dc, server)
	b.say(ctx, ev.ChannelID, b.buildSweep(dc, server))
}

func (b *HousingBot) cmdWish(ctx context.Context, ev chat.MessageEvent, body string) {
	loc, ok := b.resolver.Resolve(ev.ChannelName, body)
	if !ok {
		log.Printf("[resolve] wish %q in #%s: not a plot address", body, ev.ChannelName)
		return
	}
	added := false
	err := b.store.Update(loc.Address, func(t *housing.WardTable) (bool, error) {
		added = t.Record(loc.Plot).AddWish(ev.AuthorID)
		return added, nil
	})
	if err != nil {
		log.Printf("[store] wish %s: %v", loc.Address, err)
		b.say(ctx, ev.ChannelID, "Something went wrong reading the plot database.")
		return
	}
	if !added {
		b.say(ctx, ev.ChannelID, "You have already wishlisted this plot.")
		b.react(ctx, ev.ChannelID, ev.MessageID, reactDeny)
		return
	}
	b.react(ctx, ev.ChannelID, ev.MessageID, reactWish)
}

func (b *HousingBot) cmdUnwish(ctx context.Context, ev chat.MessageEvent, body string) {
	loc, ok := b.resolver.Resolve(ev.ChannelName, body)
	if !ok {
		log.Printf("[resolve] unwish %q in #%s: not a plot address", body, ev.ChannelName)
		return
	}
	removed := false
	err := b.store.Update(loc.Address, func(t *housing.WardTable) (bool, error) {
		removed = t.Record(loc.Plot).RemoveWish(ev.AuthorID)
		return removed, nil
	})
	if err != nil {
		log.Printf("[store] unwish %s: %v", loc.Address, err)
		b.say(ctx, ev.ChannelID, "Something went wrong reading the plot database.")
		return
	}
	if !removed {
		b.say(ctx, ev.ChannelID, "You have not wished for this plot.")
		b.react(ctx, ev.ChannelID, ev.MessageID, reactDeny)
		return
	}
	b.react(ctx, ev.ChannelID, ev.MessageID, reactDone)
}

func (b *HousingBot) cmdCookies(ctx context.Context, ev chat.MessageEvent) {
	if b.cookies == nil {
		return
	}
	c := b.cookies.Count(ev.AuthorID)
	if c == 0 {
		b.say(ctx, ev.ChannelID, "You don't have any cookies, report open plots to get some.")
		return
	}
	b.say(ctx, ev.ChannelID, fmt.Sprintf("You have %d cookies. Good job!", c))
}

// cmdAssembleReports scans channel names for per-server sweep channels and
// registers them as reporting channels. Admin only.
func (b *HousingBot) cmdAssembleReports(ctx context.Context, ev chat.MessageEvent) {
	if !hasRole(ev.AuthorRoles, adminRole) {
		return
	}
	channels, err := b.gw.ListChannels(ctx)
	if err != nil {
		log.Printf("[chat] list channels: %v", err)
		b.say(ctx, ev.ChannelID, "Something went wrong scanning the channels.")
		return
	}
	for _, ch := range channels {
		name := strings.ToLower(ch.Name)
		if !strings.Contains(name, "sweep") {
			continue
		}
		for _, server := range b.dir.Servers() {
			if !strings.Contains(name, server) {
				continue
			}
			if err := b.dir.SetReportingChannel(server, ch.ID); err != nil {
				log.Printf("[directory] register %s -> %s: %v", server, ch.ID, err)
			} else {
				log.Printf("[directory] reporting channel for %s: #%s", server, ch.Name)
			}
		}
	}
	b.react(ctx, ev.ChannelID, ev.MessageID, reactDone)
}

func hasRole(roles []string, want string) bool {
	for _, r := range roles {
		if r == want {
			return true
		}
	}
	return false
}
