package userbot

import (
	"bufio"
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"

	"github.com/botlistbot/botlistd/internal/biz/domain"
	"github.com/botlistbot/botlistd/internal/biz/repo"
)

// Config contains userbot client configuration
type Config struct {
	APIID       int
	APIHash     string
	PhoneNumber string
	SessionFile string

	// Probe messages, sent in order until one draws a reply
	PingMessages []string
	// Inline queries tried when a bot supports them but sent no reply
	InlineQueries []string
}

// Client drives a regular user account over MTProto to contact listed
// bots. It implements repo.ProbeClient.
type Client struct {
	cfg     Config
	tgc     *telegram.Client
	api     *tg.Client
	flood   *FloodGate
	waiters *replyWaiters
	photos  *PhotoStore
}

// New creates a new userbot client. The client is usable only between
// Run being called and its context ending.
func New(cfg Config, flood *FloodGate, photos *PhotoStore) *Client {
	c := &Client{
		cfg:     cfg,
		flood:   flood,
		waiters: newReplyWaiters(),
		photos:  photos,
	}

	dispatcher := tg.NewUpdateDispatcher()
	dispatcher.OnNewMessage(c.onNewMessage)

	c.tgc = telegram.NewClient(cfg.APIID, cfg.APIHash, telegram.Options{
		SessionStorage: &session.FileStorage{Path: cfg.SessionFile},
		UpdateHandler:  dispatcher,
	})
	return c
}

// Run connects, authorizes the account if needed (interactive code
// prompt on first run) and blocks until ctx is cancelled. ready is
// called once the client can serve probes.
func (c *Client) Run(ctx context.Context, ready func()) error {
	return c.tgc.Run(ctx, func(ctx context.Context) error {
		status, err := c.tgc.Auth().Status(ctx)
		if err != nil {
			return fmt.Errorf("failed to get auth status: %w", err)
		}
		if !status.Authorized {
			fmt.Printf("[UserBot] Logging in as %s\n", c.cfg.PhoneNumber)
			flow := auth.NewFlow(
				auth.Constant(c.cfg.PhoneNumber, "", auth.CodeAuthenticatorFunc(askCode)),
				auth.SendCodeOptions{},
			)
			if err := flow.Run(ctx, c.tgc.Auth()); err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
		}

		c.api = c.tgc.API()
		fmt.Println("[UserBot] Connected")
		ready()

		<-ctx.Done()
		return ctx.Err()
	})
}

func askCode(ctx context.Context, sentCode *tg.AuthSentCode) (string, error) {
	fmt.Print("Enter the login code sent to your Telegram account: ")
	code, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(code), nil
}

// onNewMessage feeds incoming private messages to the reply waiters.
func (c *Client) onNewMessage(ctx context.Context, e tg.Entities, u *tg.UpdateNewMessage) error {
	m, ok := u.Message.(*tg.Message)
	if !ok || m.Out {
		return nil
	}
	peer, ok := m.PeerID.(*tg.PeerUser)
	if !ok {
		return nil
	}
	c.waiters.deliver(peer.UserID, m.Message)
	return nil
}

// Resolve resolves a bot to a peer handle, preferring the stored chat
// id and falling back to flood-gated username resolution.
func (c *Client) Resolve(ctx context.Context, bot *domain.Bot) (*domain.Peer, error) {
	if bot.ChatID != 0 {
		users, err := c.api.UsersGetUsers(ctx, []tg.InputUserClass{
			&tg.InputUser{UserID: bot.ChatID, AccessHash: bot.AccessHash},
		})
		if err == nil {
			for _, u := range users {
				if user, ok := u.(*tg.User); ok {
					return peerFromUser(user), nil
				}
			}
		}
		// Stale access hash or similar: fall through to the username.
	}

	if !c.flood.MayResolveUsername() {
		return nil, nil
	}

	res, err := c.api.ContactsResolveUsername(ctx, &tg.ContactsResolveUsernameRequest{
		Username: strings.TrimPrefix(bot.Username, "@"),
	})
	if err != nil {
		if wait, ok := tgerr.AsFloodWait(err); ok {
			c.flood.RecordFloodWait(wait)
			fmt.Printf("[UserBot] Flood wait for username resolution: %s\n", wait)
			return nil, nil
		}
		if tgerr.Is(err, "USERNAME_NOT_OCCUPIED", "USERNAME_INVALID") {
			return nil, fmt.Errorf("%w: %s", repo.ErrNotFound, bot.Username)
		}
		return nil, fmt.Errorf("failed to resolve %s: %w", bot.Username, err)
	}

	for _, u := range res.Users {
		if user, ok := u.(*tg.User); ok {
			return peerFromUser(user), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", repo.ErrNotFound, bot.Username)
}

func peerFromUser(u *tg.User) *domain.Peer {
	return &domain.Peer{
		UserID:         u.ID,
		AccessHash:     u.AccessHash,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Bot:            u.Bot,
		Verified:       u.Verified,
		InlineQueries:  u.BotInlinePlaceholder != "",
		BotInfoVersion: u.BotInfoVersion,
	}
}

// Probe sends the configured probe messages and, when allowed, falls
// back to inline queries. Returns the zero Reply when the bot stayed
// silent for the whole timeout.
func (c *Client) Probe(ctx context.Context, peer *domain.Peer, timeout time.Duration, tryInline bool) (domain.Reply, error) {
	replies := c.waiters.expect(peer.UserID)
	defer c.waiters.cancel(peer.UserID)

	input := &tg.InputPeerUser{UserID: peer.UserID, AccessHash: peer.AccessHash}

	for _, text := range c.cfg.PingMessages {
		_, err := c.api.MessagesSendMessage(ctx, &tg.MessagesSendMessageRequest{
			Peer:     input,
			Message:  text,
			RandomID: rand.Int64(),
		})
		if err != nil {
			return domain.Reply{}, fmt.Errorf("failed to send probe message: %w", err)
		}

		if reply, ok := c.awaitReply(ctx, replies, timeout); ok {
			return reply, nil
		}
	}

	if tryInline {
		return c.probeInline(ctx, peer)
	}
	return domain.Reply{}, nil
}

// awaitReply waits for the first non-empty reply from the peer.
func (c *Client) awaitReply(ctx context.Context, replies <-chan string, timeout time.Duration) (domain.Reply, bool) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case text := <-replies:
			if strings.TrimSpace(text) != "" {
				return domain.Reply{Text: text}, true
			}
		case <-deadline.C:
			return domain.Reply{}, false
		case <-ctx.Done():
			return domain.Reply{}, false
		}
	}
}

// probeInline tries the configured inline queries against a bot that
// supports them. A transient query timeout moves on to the next query;
// anything else propagates.
func (c *Client) probeInline(ctx context.Context, peer *domain.Peer) (domain.Reply, error) {
	for _, q := range c.cfg.InlineQueries {
		res, err := c.api.MessagesGetInlineBotResults(ctx, &tg.MessagesGetInlineBotResultsRequest{
			Bot:   &tg.InputUser{UserID: peer.UserID, AccessHash: peer.AccessHash},
			Peer:  &tg.InputPeerEmpty{},
			Query: q,
		})
		if err != nil {
			if tgerr.Is(err, "QUERY_TOO_SHORT") || strings.Contains(strings.ToLower(err.Error()), "timeout") {
				continue
			}
			return domain.Reply{}, fmt.Errorf("inline probe failed: %w", err)
		}
		if len(res.Results) > 0 {
			return domain.Reply{Inline: true}, nil
		}
	}
	return domain.Reply{}, nil
}

// FetchProfilePhoto downloads the peer's current profile photo and
// replaces the stored file if the content changed.
func (c *Client) FetchProfilePhoto(ctx context.Context, peer *domain.Peer, path string) (bool, error) {
	return c.photos.fetch(ctx, c.api, peer, path)
}

// ScheduleConversationCleanup clears the conversation history with the
// peer after a delay. Best-effort.
func (c *Client) ScheduleConversationCleanup(peer *domain.Peer, delay time.Duration) {
	go func() {
		time.Sleep(delay)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		_, err := c.api.MessagesDeleteHistory(ctx, &tg.MessagesDeleteHistoryRequest{
			Peer:      &tg.InputPeerUser{UserID: peer.UserID, AccessHash: peer.AccessHash},
			JustClear: true,
		})
		if err != nil {
			fmt.Printf("[UserBot] Failed to clear conversation with %d: %v\n", peer.UserID, err)
			return
		}
		fmt.Printf("[UserBot] Cleared conversation with %d\n", peer.UserID)
	}()
}
