// Package manageable parses bot flags and starts the gateway runtime.
package manageable

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/manageable/internal/bot"
	"github.com/louisbranch/manageable/internal/core/dice"
	entrypoint "github.com/louisbranch/manageable/internal/platform/cmd"
	"github.com/louisbranch/manageable/internal/services/cookiehunt"
	cookiesqlite "github.com/louisbranch/manageable/internal/services/cookiehunt/storage/sqlite"
	"github.com/louisbranch/manageable/internal/services/moderation"
	modsqlite "github.com/louisbranch/manageable/internal/services/moderation/storage/sqlite"
	"github.com/louisbranch/manageable/internal/services/sketchprompt"
	"github.com/louisbranch/manageable/internal/services/tags"
)

// Config holds manageable command configuration.
type Config struct {
	Token   string `env:"MANAGEABLE_TOKEN"`
	Prefix  string `env:"MANAGEABLE_PREFIX" envDefault:"!"`
	DataDir string `env:"MANAGEABLE_DATA_DIR" envDefault:"data"`

	TagsFile    string `env:"MANAGEABLE_TAGS_FILE"`
	CookiesFile string `env:"MANAGEABLE_COOKIES_FILE"`

	ModRoleIDs    []string `env:"MANAGEABLE_MOD_ROLE_IDS" envSeparator:","`
	RoleWhitelist []string `env:"MANAGEABLE_ROLE_WHITELIST" envSeparator:","`

	WarnExpiryDays int `env:"MANAGEABLE_WARN_EXPIRY_DAYS" envDefault:"0"`

	AirlockChannelID string `env:"MANAGEABLE_AIRLOCK_CHANNEL_ID"`
	AirlockRoleID    string `env:"MANAGEABLE_AIRLOCK_ROLE_ID"`

	CookieChannelIDs    []string `env:"MANAGEABLE_COOKIE_CHANNEL_IDS" envSeparator:","`
	CookieWinnerRoleID  string   `env:"MANAGEABLE_COOKIE_WINNER_ROLE_ID"`
	CookieGoal          int      `env:"MANAGEABLE_COOKIE_GOAL" envDefault:"20"`
	CookieMinDelayHours int      `env:"MANAGEABLE_COOKIE_MIN_DELAY_HOURS" envDefault:"1"`
	CookieMaxDelayHours int      `env:"MANAGEABLE_COOKIE_MAX_DELAY_HOURS" envDefault:"4"`

	PromptChannelID string `env:"MANAGEABLE_PROMPT_CHANNEL_ID"`

	HelpPageSize int `env:"MANAGEABLE_HELP_PAGE_SIZE" envDefault:"6"`

	EnableRoll         bool `env:"MANAGEABLE_ENABLE_ROLL" envDefault:"true"`
	EnableTags         bool `env:"MANAGEABLE_ENABLE_TAGS" envDefault:"false"`
	EnableWarnings     bool `env:"MANAGEABLE_ENABLE_WARNINGS" envDefault:"false"`
	EnableRoles        bool `env:"MANAGEABLE_ENABLE_ROLES" envDefault:"false"`
	EnableAirlock      bool `env:"MANAGEABLE_ENABLE_AIRLOCK" envDefault:"false"`
	EnableCookieHunt   bool `env:"MANAGEABLE_ENABLE_COOKIE_HUNT" envDefault:"false"`
	EnableSketchPrompt bool `env:"MANAGEABLE_ENABLE_SKETCH_PROMPT" envDefault:"false"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Token, "token", cfg.Token, "The Discord bot token")
	fs.StringVar(&cfg.Prefix, "prefix", cfg.Prefix, "The command prefix")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "The directory for SQLite databases")
	fs.StringVar(&cfg.TagsFile, "tags-file", cfg.TagsFile, "The tags JSON content file")
	fs.StringVar(&cfg.CookiesFile, "cookies-file", cfg.CookiesFile, "The cookie kinds JSON content file")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run wires the enabled services and starts the gateway.
func Run(ctx context.Context, cfg Config) error {
	if strings.TrimSpace(cfg.Token) == "" {
		return fmt.Errorf("discord token is required")
	}

	deps := bot.Deps{}

	if cfg.EnableRoll {
		deps.Dice = dice.NewRandSource(time.Now().UnixNano())
	}

	if cfg.EnableTags {
		book, err := tags.Load(cfg.TagsFile)
		if err != nil {
			return fmt.Errorf("load tags: %w", err)
		}
		deps.Tags = book
	}

	if cfg.EnableWarnings || cfg.EnableCookieHunt {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	if cfg.EnableWarnings {
		store, err := modsqlite.Open(filepath.Join(cfg.DataDir, "moderation.db"))
		if err != nil {
			return fmt.Errorf("open moderation store: %w", err)
		}
		defer store.Close()
		deps.Moderation = moderation.New(store, cfg.WarnExpiryDays)
	}

	if cfg.EnableCookieHunt {
		store, err := cookiesqlite.Open(filepath.Join(cfg.DataDir, "cookies.db"))
		if err != nil {
			return fmt.Errorf("open cookie store: %w", err)
		}
		defer store.Close()

		kinds, err := cookiehunt.LoadKinds(cfg.CookiesFile)
		if err != nil {
			return fmt.Errorf("load cookie kinds: %w", err)
		}
		hunt, err := cookiehunt.New(store, cookiehunt.Config{
			Kinds:         kinds,
			Goal:          cfg.CookieGoal,
			MinDelayHours: cfg.CookieMinDelayHours,
			MaxDelayHours: cfg.CookieMaxDelayHours,
		}, time.Now().UnixNano())
		if err != nil {
			return fmt.Errorf("start cookie hunt: %w", err)
		}
		deps.Hunt = hunt
	}

	if cfg.EnableSketchPrompt {
		deps.Prompts = sketchprompt.NewFetcher()
	}

	b, err := bot.New(bot.Config{
		Token:              cfg.Token,
		Prefix:             cfg.Prefix,
		ModRoleIDs:         cfg.ModRoleIDs,
		RoleWhitelist:      cfg.RoleWhitelist,
		AirlockChannelID:   cfg.AirlockChannelID,
		AirlockRoleID:      cfg.AirlockRoleID,
		CookieChannelIDs:   cfg.CookieChannelIDs,
		CookieWinnerRoleID: cfg.CookieWinnerRoleID,
		PromptChannelID:    cfg.PromptChannelID,
		HelpPageSize:       cfg.HelpPageSize,
		Features: bot.Features{
			Roll:         cfg.EnableRoll,
			Tags:         cfg.EnableTags,
			Warnings:     cfg.EnableWarnings,
			Roles:        cfg.EnableRoles,
			Airlock:      cfg.EnableAirlock,
			CookieHunt:   cfg.EnableCookieHunt,
			SketchPrompt: cfg.EnableSketchPrompt,
		},
	}, deps)
	if err != nil {
		return fmt.Errorf("build gateway: %w", err)
	}
	return b.Run(ctx)
}
