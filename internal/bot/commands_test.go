package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/enonoeno/housingbot/internal/chat"
	"github.com/enonoeno/housingbot/internal/housing"
)

var testNow = time.Date(2024, 5, 1, 14, 0, 0, 0, time.UTC)

func TestOpenAnnouncesAndPersists(t *testing.T) {
	f := newFixture(t, testNow)
	f.seedWard(t, housing.Goblet, 3, housing.Small)
	f.gw.roles["SmallGoblet"] = "<@&small-goblet>"
	f.gw.users["fan1"] = "@Fan"

	// one standing wishlist entry, registered before the plot opened
	a := housing.Address{Datacenter: "Crystal", Server: "zalera", District: housing.Goblet, Ward: 3, Plot: 5}
	err := f.store.Update(a, func(wt *housing.WardTable) (bool, error) {
		wt.Record(5).AddWish("fan1")
		return true, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	f.bot.HandleMessage(f.message("zalera-plots", "##open gob w3 p5"))

	if len(f.gw.sent) != 2 {
		t.Fatalf("sent %d messages, want announcement + wishlist ping", len(f.gw.sent))
	}
	announce := f.gw.sent[0]
	want := "<@&small-goblet>, a small plot has opened at: Goblet, Ward 3, Plot 5. Prime time will be at 0am EST."
	if announce.Text != want {
		t.Fatalf("announcement = %q, want %q", announce.Text, want)
	}
	if ping := f.gw.sent[1].Text; ping != "This plot is on your wishlist, @Fan." {
		t.Fatalf("wishlist ping = %q", ping)
	}

	r := f.record(t, housing.Goblet, 3, 5)
	if !r.Available {
		t.Fatal("plot not marked available")
	}
	if r.ListingTime != "5/1/14" {
		t.Fatalf("ListingTime = %q, want 5/1/14", r.ListingTime)
	}
	if r.ListingID != announce.MessageID {
		t.Fatalf("ListingID = %q, want %q", r.ListingID, announce.MessageID)
	}
}

func TestOpenAlreadyListed(t *testing.T) {
	f := newFixture(t, testNow)
	f.seedWard(t, housing.Goblet, 3, housing.Small)

	f.bot.HandleMessage(f.message("zalera-plots", "##open gob 3 5"))
	first := f.record(t, housing.Goblet, 3, 5)

	f.bot.HandleMessage(f.message("zalera-plots", "##open gob 3 5"))

	reply := f.gw.lastSent(t)
	if reply.Text != "This plot was already listed as open on 5/1/14" {
		t.Fatalf("reply = %q", reply.Text)
	}
	if got := f.record(t, housing.Goblet, 3, 5); got.ListingID != first.ListingID {
		t.Fatalf("ListingID changed on repeat open: %q -> %q", first.ListingID, got.ListingID)
	}
}

func TestOpenRoleFallback(t *testing.T) {
	f := newFixture(t, testNow)
	f.seedWard(t, housing.Mist, 1, housing.Large)

	f.bot.HandleMessage(f.message("zalera-plots", "##open mist 1 12"))

	if got := f.gw.lastSent(t).Text; !strings.HasPrefix(got, "@LargeMist, a large plot has opened") {
		t.Fatalf("announcement = %q", got)
	}
}

func TestOpenRetriesSendOnce(t *testing.T) {
	f := newFixture(t, testNow)
	f.seedWard(t, housing.Goblet, 3, housing.Small)
	f.gw.failSends = 1

	f.bot.HandleMessage(f.message("zalera-plots", "##open gob 3 5"))

	announce := f.gw.lastSent(t)
	if !strings.Contains(announce.Text, "plot has opened at: Goblet, Ward 3, Plot 5") {
		t.Fatalf("announcement = %q", announce.Text)
	}
	if got := f.record(t, housing.Goblet, 3, 5); got.ListingID != announce.MessageID {
		t.Fatalf("ListingID = %q, want %q", got.ListingID, announce.MessageID)
	}
}

func TestOpenIgnoresUnresolvable(t *testing.T) {
	f := newFixture(t, testNow)
	f.seedWard(t, housing.Goblet, 3, housing.Small)

	f.bot.HandleMessage(f.message("general", "##open gob 3 5"))
	f.bot.HandleMessage(f.message("zalera-plots", "##open nothing here"))

	if len(f.gw.sent) != 0 {
		t.Fatalf("sent %d messages, want silence", len(f.gw.sent))
	}
}

func TestCloseAnnotatesAnnouncement(t *testing.T) {
	f := newFixture(t, testNow)
	f.seedWard(t, housing.Goblet, 3, housing.Small)

	f.bot.HandleMessage(f.message("zalera-plots", "##open gob 3 5"))
	announce := f.gw.lastSent(t)

	f.bot.HandleMessage(f.message("zalera-plots", "##sold gob 3 5"))

	edited := f.gw.messages[announce.MessageID]
	if !strings.HasSuffix(edited, " **This plot was sold at 2pm EST.**") {
		t.Fatalf("edited announcement = %q", edited)
	}
	if !strings.HasPrefix(edited, announce.Text) {
		t.Fatalf("edit did not preserve the announcement: %q", edited)
	}
	found := false
	for _, rc := range f.gw.reacts {
		if rc.MessageID == announce.MessageID && rc.Emoji == reactSold {
			found = true
		}
	}
	if !found {
		t.Fatal("sold reaction missing")
	}

	r := f.record(t, housing.Goblet, 3, 5)
	if r.Available {
		t.Fatal("plot still available after close")
	}
	// stale metadata stays on the row until the next listing
	if r.ListingTime != "5/1/14" || r.ListingID != announce.MessageID {
		t.Fatalf("close rewrote metadata: %+v", r)
	}
}

func TestCloseNotOpen(t *testing.T) {
	f := newFixture(t, testNow)
	f.seedWard(t, housing.Goblet, 3, housing.Small)

	f.bot.HandleMessage(f.message("zalera-plots", "##close gob 3 5"))

	if got := f.gw.lastSent(t).Text; got != "This plot is not currently listed as available." {
		t.Fatalf("reply = %q", got)
	}
}

func TestWishUnwish(t *testing.T) {
	f := newFixture(t, testNow)
	f.seedWard(t, housing.Goblet, 3, housing.Small)

	f.bot.HandleMessage(f.message("zalera-plots", "##wish gob 3 5"))
	if !f.record(t, housing.Goblet, 3, 5).Wished("u1") {
		t.Fatal("wish not persisted")
	}
	if last := f.gw.reacts[len(f.gw.reacts)-1]; last.Emoji != reactWish {
		t.Fatalf("reaction = %q, want %q", last.Emoji, reactWish)
	}

	f.bot.HandleMessage(f.message("zalera-plots", "##wish gob 3 5"))
	if got := f.gw.lastSent(t).Text; got != "You have already wishlisted this plot." {
		t.Fatalf("reply = %q", got)
	}
	if last := f.gw.reacts[len(f.gw.reacts)-1]; last.Emoji != reactDeny {
		t.Fatalf("reaction = %q, want %q", last.Emoji, reactDeny)
	}

	f.bot.HandleMessage(f.message("zalera-plots", "##unwish gob 3 5"))
	if f.record(t, housing.Goblet, 3, 5).Wished("u1") {
		t.Fatal("unwish not persisted")
	}
	if last := f.gw.reacts[len(f.gw.reacts)-1]; last.Emoji != reactDone {
		t.Fatalf("reaction = %q, want %q", last.Emoji, reactDone)
	}

	f.bot.HandleMessage(f.message("zalera-plots", "##unwish gob 3 5"))
	if got := f.gw.lastSent(t).Text; got != "You have not wished for this plot." {
		t.Fatalf("reply = %q", got)
	}
}

func TestCookies(t *testing.T) {
	f := newFixture(t, testNow)
	f.seedWard(t, housing.Goblet, 3, housing.Small)

	f.bot.HandleMessage(f.message("zalera-plots", "##cookies"))
	if got := f.gw.lastSent(t).Text; got != "You don't have any cookies, report open plots to get some." {
		t.Fatalf("reply = %q", got)
	}

	f.bot.HandleMessage(f.message("zalera-plots", "##open gob 3 5"))
	f.bot.HandleMessage(f.message("zalera-plots", "##cookies"))
	if got := f.gw.lastSent(t).Text; got != "You have 1 cookies. Good job!" {
		t.Fatalf("reply = %q", got)
	}
}

func TestAssembleReports(t *testing.T) {
	f := newFixture(t, testNow)
	f.gw.channels = []chat.ChannelInfo{
		{ID: "c1", Name: "general"},
		{ID: "c2", Name: "zalera-sweep"},
	}

	ev := f.message("zalera-plots", "##assemble_reports")
	f.bot.HandleMessage(ev)
	if e, _ := f.dir.Entry("zalera"); !e.Unset() {
		t.Fatal("non-admin registered a reporting channel")
	}

	ev.AuthorRoles = []string{"Admin"}
	f.bot.HandleMessage(ev)

	e, ok := f.dir.Entry("zalera")
	if !ok || e.ReportingChannel != "c2" {
		t.Fatalf("reporting channel = %q, want c2", e.ReportingChannel)
	}
	if last := f.gw.reacts[len(f.gw.reacts)-1]; last.MessageID != ev.MessageID || last.Emoji != reactDone {
		t.Fatalf("ack reaction = %+v", last)
	}
}

func TestHandleMessageIgnores(t *testing.T) {
	f := newFixture(t, testNow)
	f.seedWard(t, housing.Goblet, 3, housing.Small)

	// no prefix
	f.bot.HandleMessage(f.message("zalera-plots", "open gob 3 5"))
	// own message
	ev := f.message("zalera-plots", "##open gob 3 5")
	ev.AuthorID = f.gw.SelfID()
	f.bot.HandleMessage(ev)
	// bare prefix
	f.bot.HandleMessage(f.message("zalera-plots", "##"))

	if len(f.gw.sent) != 0 {
		t.Fatalf("sent %d messages, want silence", len(f.gw.sent))
	}
}

func TestHandleReactionDeletesOwnMessage(t *testing.T) {
	f := newFixture(t, testNow)
	id, err := f.gw.SendMessage(context.Background(), "ch1", "bot output")
	if err != nil {
		t.Fatal(err)
	}

	// wrong emoji, then a message that is not the bot's
	f.bot.HandleReaction(chat.ReactionEvent{ChannelID: "ch1", MessageID: id, MessageAuthorID: f.gw.SelfID(), Emoji: reactWish})
	f.bot.HandleReaction(chat.ReactionEvent{ChannelID: "ch1", MessageID: id, MessageAuthorID: "u1", Emoji: reactDeny})
	if len(f.gw.deleted) != 0 {
		t.Fatalf("deleted %v, want nothing", f.gw.deleted)
	}

	f.bot.HandleReaction(chat.ReactionEvent{ChannelID: "ch1", MessageID: id, MessageAuthorID: f.gw.SelfID(), Emoji: reactDeny})
	if len(f.gw.deleted) != 1 || f.gw.deleted[0] != id {
		t.Fatalf("deleted %v, want [%s]", f.gw.deleted, id)
	}
}
