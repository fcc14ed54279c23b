package conf

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config represents application configuration
type Config struct {
	// BotList bot account used for operator notifications
	Telegram TelegramConfig

	// Userbot account used to probe listed bots
	UserBot UserBotConfig

	// Checker configuration
	Checker CheckerConfig

	// Debug mode
	Debug bool
}

// TelegramConfig contains the Bot API configuration
type TelegramConfig struct {
	BotToken            string
	NotificationsChatID int64 // Channel receiving sweep reports and state flips
	ModerationChatID    int64 // Moderators group receiving repair requests
}

// UserBotConfig contains the MTProto account configuration
type UserBotConfig struct {
	APIID       int
	APIHash     string
	PhoneNumber string
	SessionFile string
}

// CheckerConfig contains checker configuration
type CheckerConfig struct {
	DBPath        string
	ListsPath     string // YAML file with probe messages, patterns etc.
	PhotoDir      string
	Concurrency   int
	SweepInterval time.Duration
	StartupDelay  time.Duration
	ProbeTimeout  time.Duration
	OfflineGrace  time.Duration // No response for this long counts as offline
	DisableAfter  time.Duration // Offline for this long gets the bot disabled

	DownloadProfilePhotos       bool
	NotifyNewProfilePhoto       bool
	DeleteConversationAfterPing bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		homeDir, _ := os.UserHomeDir()
		dbPath = filepath.Join(homeDir, ".botlistd", "botlist.db")
	}

	sessionFile := os.Getenv("SESSION_FILE")
	if sessionFile == "" {
		sessionFile = filepath.Join(filepath.Dir(dbPath), "userbot.session")
	}

	photoDir := os.Getenv("PHOTO_DIR")
	if photoDir == "" {
		photoDir = filepath.Join(filepath.Dir(dbPath), "thumbnails")
	}

	return &Config{
		Telegram: TelegramConfig{
			BotToken:            os.Getenv("BOT_TOKEN"),
			NotificationsChatID: envInt64("NOTIFICATIONS_CHAT_ID", 0),
			ModerationChatID:    envInt64("MODERATION_CHAT_ID", 0),
		},
		UserBot: UserBotConfig{
			APIID:       envInt("API_ID", 0),
			APIHash:     os.Getenv("API_HASH"),
			PhoneNumber: os.Getenv("PHONE_NUMBER"),
			SessionFile: sessionFile,
		},
		Checker: CheckerConfig{
			DBPath:        dbPath,
			ListsPath:     os.Getenv("CHECKER_CONFIG_PATH"),
			PhotoDir:      photoDir,
			Concurrency:   envInt("CHECKER_CONCURRENCY", 5),
			SweepInterval: time.Duration(envInt("SWEEP_INTERVAL_MINUTES", 180)) * time.Minute,
			StartupDelay:  time.Duration(envInt("STARTUP_DELAY_SECONDS", 30)) * time.Second,
			ProbeTimeout:  time.Duration(envInt("PROBE_TIMEOUT_SECONDS", 30)) * time.Second,
			OfflineGrace:  time.Duration(envInt("OFFLINE_GRACE_HOURS", 24)) * time.Hour,
			DisableAfter:  time.Duration(envInt("DISABLE_AFTER_DAYS", 14)) * 24 * time.Hour,

			DownloadProfilePhotos:       envBool("DOWNLOAD_PROFILE_PHOTOS", true),
			NotifyNewProfilePhoto:       envBool("NOTIFY_NEW_PROFILE_PICTURE", false),
			DeleteConversationAfterPing: envBool("DELETE_CONVERSATION_AFTER_PING", true),
		},
		Debug: os.Getenv("DEBUG") == "true",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return &ConfigError{Field: "BOT_TOKEN", Message: "required"}
	}
	if c.Telegram.NotificationsChatID == 0 {
		return &ConfigError{Field: "NOTIFICATIONS_CHAT_ID", Message: "required"}
	}
	if c.Checker.Concurrency < 1 {
		return &ConfigError{Field: "CHECKER_CONCURRENCY", Message: "must be at least 1"}
	}
	return nil
}

// UserBotConfigured reports whether the MTProto credentials are set.
// Without them the checker runs in limited mode.
func (c *Config) UserBotConfigured() bool {
	return c.UserBot.APIID != 0 && c.UserBot.APIHash != ""
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

func envInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	switch os.Getenv(key) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return fallback
}
