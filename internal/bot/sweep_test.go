package bot

import (
	"strings"
	"testing"

	"github.com/enonoeno/housingbot/internal/housing"
)

func TestSweepCommand(t *testing.T) {
	f := newFixture(t, testNow)
	f.seedWard(t, housing.Goblet, 3, housing.Small)
	f.seedWard(t, housing.Mist, 7, housing.Large)

	f.bot.HandleMessage(f.message("zalera-plots", "##open gob 3 5"))
	f.bot.HandleMessage(f.message("zalera-plots", "##sweep"))

	report := f.gw.lastSent(t).Text
	lines := strings.Split(strings.TrimRight(report, "\n"), "\n")
	want := []string{
		"__Sweep Report: 1 plot(s) available. <all prime times are EST>__",
		"[1] ☀ Goblet: [S] 03-05 <0am>.",
		"[0] \U0001f490 Lavender Beds: No plots available.",
		"[0] \U0001F30A Mist: No plots available.",
		"[0] ⛩ Shirogane: No plots available.",
	}
	if len(lines) != len(want) {
		t.Fatalf("report has %d lines, want %d:\n%s", len(lines), len(want), report)
	}
	for i, w := range want {
		if lines[i] != w {
			t.Fatalf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestSweepMultipleEntries(t *testing.T) {
	f := newFixture(t, testNow)
	f.seedWard(t, housing.Goblet, 3, housing.Small)

	f.bot.HandleMessage(f.message("zalera-plots", "##open gob 3 5"))
	f.bot.HandleMessage(f.message("zalera-plots", "##open gob 3 12"))

	report := f.bot.buildSweep("Crystal", "zalera")
	if !strings.Contains(report, "__Sweep Report: 2 plot(s) available.") {
		t.Fatalf("report header wrong:\n%s", report)
	}
	if !strings.Contains(report, "[2] ☀ Goblet: [S] 03-05 <0am>, [S] 03-12 <0am>.") {
		t.Fatalf("goblet section wrong:\n%s", report)
	}
}

func TestSweepUnparsableStamp(t *testing.T) {
	f := newFixture(t, testNow)
	f.seedWard(t, housing.Goblet, 3, housing.Small)

	a := housing.Address{Datacenter: "Crystal", Server: "zalera", District: housing.Goblet, Ward: 3, Plot: 5}
	err := f.store.Update(a, func(wt *housing.WardTable) (bool, error) {
		r := wt.Record(5)
		r.Available = true
		r.ListingTime = "garbage"
		return true, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if report := f.bot.buildSweep("Crystal", "zalera"); !strings.Contains(report, "[S] 03-05 <?>.") {
		t.Fatalf("bad stamp not rendered as <?>:\n%s", report)
	}
}

func TestSweepIgnoredOutsidePlotChannels(t *testing.T) {
	f := newFixture(t, testNow)
	f.bot.HandleMessage(f.message("general", "##sweep"))
	if len(f.gw.sent) != 0 {
		t.Fatalf("sent %d messages, want silence", len(f.gw.sent))
	}
}
