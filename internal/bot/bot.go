package bot

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/enonoeno/housingbot/internal/chat"
	"github.com/enonoeno/housingbot/internal/store"
)

// reaction emoji the bot understands / hands out
const (
	reactDone = "\U0001F44D" // 👍 command applied
	reactDeny = "❌"     // ❌ rejected; also deletes bot messages
	reactWish = "\U0001F320" // 🌠 wishlist registered
	// custom guild emoji stamped on an announcement once the plot sells
	reactSold = ":sold:814622054379683890"
)

const defaultScanMinute = 55

// HousingBot glues the gateway, the plot store and the server directory
// into the chat-facing bot.
type HousingBot struct {
	gw      chat.Gateway
	store   *store.Store
	dir     *Directory
	cookies *cookieJar

	resolver   *Resolver
	loc        *time.Location
	prefix     string
	scanMinute int
	reqTimeout time.Duration
	now        func() time.Time

	schedMu      sync.Mutex
	schedRunning bool
	schedCancel  context.CancelFunc
}

func New(gw chat.Gateway, st *store.Store, dir *Directory) *HousingBot {
	return &HousingBot{
		gw:         gw,
		store:      st,
		dir:        dir,
		resolver:   NewResolver(dir),
		loc:        time.UTC,
		prefix:     "##",
		scanMinute: defaultScanMinute,
		reqTimeout: 10 * time.Second,
		now:        time.Now,
	}
}

// UseCookies enables the per-user cookie counter backed by path.
func (b *HousingBot) UseCookies(path string) error {
	j, err := loadCookieJar(path)
	if err != nil {
		return err
	}
	b.cookies = j
	return nil
}

// SetTimezone sets the zone listing stamps and prime times are computed in.
func (b *HousingBot) SetTimezone(loc *time.Location) {
	if loc != nil {
		b.loc = loc
	}
}

// SetScanMinute sets the minute-of-hour the prime-time scan triggers on.
func (b *HousingBot) SetScanMinute(m int) {
	if m >= 0 && m <= 59 {
		b.scanMinute = m
	}
}

// SetPrefix sets the command prefix (default "##").
func (b *HousingBot) SetPrefix(p string) {
	if p != "" {
		b.prefix = p
	}
}

// Attach wires the bot's handlers into a gateway client's event hooks.
func (b *HousingBot) Attach(c *chat.Client) {
	c.OnConnecting = func() { log.Println("[chat] connecting...") }
	c.OnConnected = func() { log.Println("[chat] connected") }
	c.OnError = func(err error) { log.Println("[chat] err:", err) }
	c.OnMessage = b.HandleMessage
	c.OnReaction = b.HandleReaction
}

// Start launches the prime-time scheduler.
func (b *HousingBot) Start() error {
	return b.startScheduler()
}

func (b *HousingBot) Stop() {
	b.stopScheduler()
}

// say posts text best-effort and logs failures.
func (b *HousingBot) say(ctx context.Context, channelID, text string) {
	if _, err := b.gw.SendMessage(ctx, channelID, text); err != nil {
		log.Printf("[chat] send: %v", err)
	}
}

// react adds an emoji best-effort.
func (b *HousingBot) react(ctx context.Context, channelID, messageID, emoji string) {
	if err := b.gw.AddReaction(ctx, channelID, messageID, emoji); err != nil {
		log.Printf("[chat] react: %v", err)
	}
}

// sendWithRetry retries a failed send exactly once before giving up.
func (b *HousingBot) sendWithRetry(ctx context.Context, channelID, text string) (string, error) {
	id, err := b.gw.SendMessage(ctx, channelID, text)
	if err == nil {
		return id, nil
	}
	log.Printf("[chat] send failed, retrying once: %v", err)
	return b.gw.SendMessage(ctx, channelID, text)
}

// HandleReaction implements the message-cleanup convention: anyone reacting
// ❌ to one of the bot's own messages deletes it.
func (b *HousingBot) HandleReaction(ev chat.ReactionEvent) {
	if ev.Emoji != reactDeny || ev.MessageAuthorID != b.gw.SelfID() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), b.reqTimeout)
	defer cancel()
	if err := b.gw.DeleteMessage(ctx, ev.ChannelID, ev.MessageID); err != nil {
		log.Printf("[chat] delete: %v", err)
	}
}
