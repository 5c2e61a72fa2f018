package bot

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/enonoeno/housingbot/internal/chat"
	"github.com/enonoeno/housingbot/internal/housing"
	"github.com/enonoeno/housingbot/internal/store"
)

type sentMsg struct {
	ChannelID string
	MessageID string
	Text      string
}

type reaction struct {
	MessageID string
	Emoji     string
}

// fakeGateway records every outbound call; users/roles not in the maps fail
// to resolve.
type fakeGateway struct {
	mu       sync.Mutex
	nextID   int
	sent     []sentMsg
	messages map[string]string // messageID -> current text
	reacts   []reaction
	deleted  []string
	users    map[string]string
	roles    map[string]string
	channels []chat.ChannelInfo

	failSends int // fail this many sends before succeeding
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		messages: map[string]string{},
		users:    map[string]string{},
		roles:    map[string]string{},
	}
}

func (g *fakeGateway) SendMessage(_ context.Context, channelID, text string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failSends > 0 {
		g.failSends--
		return "", errors.New("send failed")
	}
	g.nextID++
	id := fmt.Sprintf("m%d", g.nextID)
	g.sent = append(g.sent, sentMsg{ChannelID: channelID, MessageID: id, Text: text})
	g.messages[id] = text
	return id, nil
}

func (g *fakeGateway) FetchMessage(_ context.Context, _, messageID string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	text, ok := g.messages[messageID]
	if !ok {
		return "", errors.New("no such message")
	}
	return text, nil
}

func (g *fakeGateway) EditMessage(_ context.Context, _, messageID, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.messages[messageID]; !ok {
		return errors.New("no such message")
	}
	g.messages[messageID] = text
	return nil
}

func (g *fakeGateway) AddReaction(_ context.Context, _, messageID, emoji string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reacts = append(g.reacts, reaction{MessageID: messageID, Emoji: emoji})
	return nil
}

func (g *fakeGateway) DeleteMessage(_ context.Context, _, messageID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.messages, messageID)
	g.deleted = append(g.deleted, messageID)
	return nil
}

func (g *fakeGateway) ResolveUser(_ context.Context, userID string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	m, ok := g.users[userID]
	if !ok {
		return "", chat.ErrUserNotFound
	}
	return m, nil
}

func (g *fakeGateway) ResolveRole(_ context.Context, _, name string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	m, ok := g.roles[name]
	if !ok {
		return "", errors.New("no such role")
	}
	return m, nil
}

func (g *fakeGateway) ListChannels(context.Context) ([]chat.ChannelInfo, error) {
	return g.channels, nil
}

func (g *fakeGateway) SelfID() string { return "bot-self" }

func (g *fakeGateway) lastSent(t *testing.T) sentMsg {
	t.Helper()
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.sent) == 0 {
		t.Fatal("nothing was sent")
	}
	return g.sent[len(g.sent)-1]
}

// fixture wires a bot against a fake gateway, a temp store and a directory
// with one server (zalera on Crystal).
type fixture struct {
	bot   *HousingBot
	gw    *fakeGateway
	store *store.Store
	dir   *Directory
}

func newFixture(t *testing.T, at time.Time) *fixture {
	t.Helper()
	root := t.TempDir()
	st := store.New(filepath.Join(root, "Datacenters"))

	dir, err := LoadDirectory(filepath.Join(root, "directory.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := dir.SetServer("zalera", ServerEntry{Datacenter: "Crystal", ReportingChannel: "0"}); err != nil {
		t.Fatal(err)
	}

	gw := newFakeGateway()
	b := New(gw, st, dir)
	b.now = func() time.Time { return at }
	if err := b.UseCookies(filepath.Join(root, "cookies.json")); err != nil {
		t.Fatal(err)
	}
	return &fixture{bot: b, gw: gw, store: st, dir: dir}
}

func (f *fixture) seedWard(t *testing.T, d housing.District, ward int, size housing.PlotSize) {
	t.Helper()
	wt := &housing.WardTable{Ward: ward}
	wt.Normalize()
	for i := range wt.Records {
		wt.Records[i].Size = size
	}
	a := housing.Address{Datacenter: "Crystal", Server: "zalera", District: d, Ward: ward, Plot: 1}
	if err := f.store.Create(a, wt); err != nil {
		t.Fatal(err)
	}
}

func (f *fixture) record(t *testing.T, d housing.District, ward, plot int) *housing.PlotRecord {
	t.Helper()
	a := housing.Address{Datacenter: "Crystal", Server: "zalera", District: d, Ward: ward, Plot: plot}
	wt, err := f.store.Load(a)
	if err != nil {
		t.Fatal(err)
	}
	return wt.Record(plot)
}

func (f *fixture) message(channel, text string) chat.MessageEvent {
	return chat.MessageEvent{
		ChannelID:   "ch1",
		ChannelName: channel,
		MessageID:   "cmd1",
		AuthorID:    "u1",
		Text:        text,
	}
}
