// Package bot is the Discord gateway for Manageable. It is a thin transport
// layer: the router parses prefix commands and each handler delegates to a
// service, so everything below the session boundary is unit-testable.
package bot

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/louisbranch/manageable/internal/core/dice"
	"github.com/louisbranch/manageable/internal/services/cookiehunt"
	"github.com/louisbranch/manageable/internal/services/moderation"
	"github.com/louisbranch/manageable/internal/services/sketchprompt"
	"github.com/louisbranch/manageable/internal/services/tags"
)

const promptEmbedColor = 0x9b59b6

// Features toggles individual command groups, mirroring the content
// configuration.
type Features struct {
	Roll         bool
	Tags         bool
	Warnings     bool
	Roles        bool
	Airlock      bool
	CookieHunt   bool
	SketchPrompt bool
}

// Config holds the gateway settings.
type Config struct {
	Token  string
	Prefix string
	// ModRoleIDs gate mod-only commands.
	ModRoleIDs    []string
	RoleWhitelist []string

	AirlockChannelID  string
	AirlockRoleID     string
	AirlockSweepDelay time.Duration

	// CookieChannelIDs are the channels timed drops may land in.
	CookieChannelIDs   []string
	CookieWinnerRoleID string
	CookieDropInterval time.Duration

	PromptChannelID    string
	PromptPollInterval time.Duration

	HelpPageSize int
	Features     Features
}

// Deps are the services the gateway fronts. Only the ones whose feature is
// enabled need to be set.
type Deps struct {
	Dice       dice.Source
	Tags       *tags.Book
	Moderation *moderation.Service
	Hunt       *cookiehunt.Hunt
	Prompts    *sketchprompt.Fetcher
}

// Bot owns the Discord session and the command router.
type Bot struct {
	session *discordgo.Session
	adapter *sessionAdapter
	router  *Router
	airlock *airlockHandler
	cookies *cookieHandler
	cfg     Config
	deps    Deps
	rng     *rand.Rand
}

// New builds the gateway: it creates the session, registers the enabled
// commands, and hooks the message handler. The session is not opened until
// Run.
func New(cfg Config, deps Deps) (*Bot, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, fmt.Errorf("discord token is required")
	}
	if strings.TrimSpace(cfg.Prefix) == "" {
		return nil, fmt.Errorf("command prefix is required")
	}
	if cfg.AirlockSweepDelay <= 0 {
		cfg.AirlockSweepDelay = 5 * time.Second
	}
	if cfg.CookieDropInterval <= 0 {
		cfg.CookieDropInterval = time.Minute
	}
	if cfg.PromptPollInterval <= 0 {
		cfg.PromptPollInterval = 15 * time.Minute
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMessages |
		discordgo.IntentGuildMembers |
		discordgo.IntentMessageContent

	adapter := &sessionAdapter{session: session}
	b := &Bot{
		session: session,
		adapter: adapter,
		router:  NewRouter(cfg.Prefix, adapter, cfg.ModRoleIDs),
		cfg:     cfg,
		deps:    deps,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if err := b.register(); err != nil {
		return nil, err
	}

	session.AddHandler(b.onMessageCreate)
	return b, nil
}

func (b *Bot) register() error {
	cfg, deps := b.cfg, b.deps

	if cfg.Features.Roll {
		if deps.Dice == nil {
			return fmt.Errorf("roll feature needs a dice source")
		}
		b.router.Register(newRollCommand(b.adapter, deps.Dice))
	}
	if cfg.Features.Tags {
		if deps.Tags == nil {
			return fmt.Errorf("tags feature needs a tag book")
		}
		b.router.Register(newTagCommand(b.adapter, deps.Tags))
	}
	if cfg.Features.Warnings {
		if deps.Moderation == nil {
			return fmt.Errorf("warnings feature needs the moderation service")
		}
		b.router.Register(newWarnCommand(b.adapter, b.adapter, deps.Moderation))
	}
	if cfg.Features.Roles {
		b.router.Register(newRoleCommand(b.adapter, b.adapter, cfg.RoleWhitelist))
	}
	if cfg.Features.Airlock {
		if cfg.AirlockChannelID == "" || cfg.AirlockRoleID == "" {
			return fmt.Errorf("airlock feature needs a channel and a role")
		}
		b.airlock = newAirlockHandler(b.adapter, b.adapter, b.adapter,
			cfg.AirlockChannelID, cfg.AirlockRoleID, cfg.AirlockSweepDelay)
		b.router.Register(b.airlock.command())
	}
	if cfg.Features.CookieHunt {
		if deps.Hunt == nil {
			return fmt.Errorf("cookie hunt feature needs the hunt service")
		}
		if len(cfg.CookieChannelIDs) == 0 {
			return fmt.Errorf("cookie hunt feature needs at least one channel")
		}
		b.cookies = newCookieHandler(b.adapter, b.adapter, deps.Hunt,
			cfg.Prefix, cfg.CookieWinnerRoleID)
		b.router.Register(b.cookies.gimmeCommand())
		b.router.Register(b.cookies.sugarCommand())
		b.router.Register(b.cookies.forceDropCommand())
	}
	if cfg.Features.SketchPrompt {
		if deps.Prompts == nil {
			return fmt.Errorf("sketch prompt feature needs the prompt fetcher")
		}
		if cfg.PromptChannelID == "" {
			return fmt.Errorf("sketch prompt feature needs a channel")
		}
	}

	b.router.Register(newHelpCommand(b.adapter, b.router, cfg.HelpPageSize))
	return nil
}

// Run opens the gateway connection, starts the background loops, and blocks
// until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	defer func() {
		if err := b.session.Close(); err != nil {
			log.Printf("close discord session: %v", err)
		}
	}()
	log.Printf("gateway connected with prefix %q", b.cfg.Prefix)

	if b.cfg.Features.CookieHunt {
		go b.deps.Hunt.Run(ctx, b.cfg.CookieDropInterval, func(kind cookiehunt.Kind) error {
			return b.cookies.announce(b.pickCookieChannel(), kind)
		})
	}
	if b.cfg.Features.SketchPrompt {
		go b.deps.Prompts.Run(ctx, b.cfg.PromptPollInterval, b.announcePrompt)
	}

	<-ctx.Done()
	log.Print("gateway shutting down")
	return nil
}

func (b *Bot) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	req := &Request{
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		MessageID: m.ID,
		AuthorID:  m.Author.ID,
	}
	if m.Member != nil {
		req.AuthorRoleIDs = m.Member.Roles
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	b.router.HandleMessage(ctx, req, m.Content)

	// Everything but a valid accept gets swept out of the airlock.
	if b.airlock != nil && !isAcceptCommand(m.Content, b.cfg.Prefix) {
		b.airlock.sweep(m.ChannelID, m.ID)
	}
}

func isAcceptCommand(content, prefix string) bool {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, prefix) {
		return false
	}
	fields := strings.Fields(content[len(prefix):])
	return len(fields) > 0 && strings.EqualFold(fields[0], "accept")
}

func (b *Bot) pickCookieChannel() string {
	channels := b.cfg.CookieChannelIDs
	return channels[b.rng.Intn(len(channels))]
}

func (b *Bot) announcePrompt(p sketchprompt.Prompt) error {
	return b.adapter.ReplyEmbed(b.cfg.PromptChannelID, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Today's drawing prompt: %s", p.Theme),
		Description: fmt.Sprintf("From r/SketchDaily for %s.", p.Date),
		URL:         p.URL,
		Color:       promptEmbedColor,
	})
}
