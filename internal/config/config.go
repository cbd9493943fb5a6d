// Package config loads server settings from defaults, an optional config file,
// .env and KREX_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/spf13/viper"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

const (
	DefaultListenAddr     = ":8080"
	DefaultDBPath         = "krexdll.db"
	DefaultLanyardURL     = "wss://api.lanyard.rest/socket"
	DefaultLanyardOrigin  = "https://krex38.xyz"
	DefaultDiscordUserID  = "644313519147319297"
	DefaultFallbackBanner = "https://cdn.discordapp.com/banners/644313519147319297/a_4fea9364c30e3de38040ac73e0298c6c.gif?size=512"
	DefaultGitHubAPI      = "https://api.github.com"
	DefaultGitHubHandle   = "Krex381"
	DefaultFallbackRepos  = 17
	DefaultReposRefresh   = 30 * time.Minute
	DefaultReconnectDelay = 3 * time.Second
	DefaultRetention      = 365 * 24 * time.Hour
	DefaultSMTPHost       = "smtp.gmail.com"
	DefaultSMTPPort       = "587"
	DefaultContactTo      = "krexdll@proton.me"
)

type Config struct {
	ListenAddr  string
	MetricsAddr string
	DBPath      string

	// TrustedProxies lists the peers (IPs or CIDRs) whose forwarding
	// headers name the client. Empty trusts no one.
	TrustedProxies []string

	LanyardURL     string
	LanyardOrigin  string
	DiscordUserID  string
	FallbackBanner string
	ReconnectDelay time.Duration

	GitHubAPI     string
	GitHubHandle  string
	FallbackRepos int
	ReposRefresh  time.Duration

	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
	ContactTo string

	AdminUsername string
	AdminPassword string

	VisitorRetention time.Duration

	LogLevel  string
	LogFormat string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen_addr", DefaultListenAddr)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("db_path", DefaultDBPath)
	v.SetDefault("trusted_proxies", []string{})
	v.SetDefault("lanyard_url", DefaultLanyardURL)
	v.SetDefault("lanyard_origin", DefaultLanyardOrigin)
	v.SetDefault("discord_user_id", DefaultDiscordUserID)
	v.SetDefault("fallback_banner", DefaultFallbackBanner)
	v.SetDefault("reconnect_delay", DefaultReconnectDelay)
	v.SetDefault("github_api", DefaultGitHubAPI)
	v.SetDefault("github_handle", DefaultGitHubHandle)
	v.SetDefault("fallback_repos", DefaultFallbackRepos)
	v.SetDefault("repos_refresh", DefaultReposRefresh)
	v.SetDefault("smtp_host", DefaultSMTPHost)
	v.SetDefault("smtp_port", DefaultSMTPPort)
	v.SetDefault("smtp_user", "")
	v.SetDefault("smtp_pass", "")
	v.SetDefault("contact_to", DefaultContactTo)
	v.SetDefault("admin_username", "admin")
	v.SetDefault("admin_password", "")
	v.SetDefault("visitor_retention", DefaultRetention)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// Load reads the configuration. path may be empty, in which case only
// defaults and the environment are used.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("KREX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{
		ListenAddr:       v.GetString("listen_addr"),
		MetricsAddr:      v.GetString("metrics_addr"),
		DBPath:           v.GetString("db_path"),
		TrustedProxies:   splitList(v.GetStringSlice("trusted_proxies")),
		LanyardURL:       v.GetString("lanyard_url"),
		LanyardOrigin:    v.GetString("lanyard_origin"),
		DiscordUserID:    v.GetString("discord_user_id"),
		FallbackBanner:   v.GetString("fallback_banner"),
		ReconnectDelay:   v.GetDuration("reconnect_delay"),
		GitHubAPI:        v.GetString("github_api"),
		GitHubHandle:     v.GetString("github_handle"),
		FallbackRepos:    v.GetInt("fallback_repos"),
		ReposRefresh:     v.GetDuration("repos_refresh"),
		SMTPHost:         v.GetString("smtp_host"),
		SMTPPort:         v.GetString("smtp_port"),
		SMTPUser:         v.GetString("smtp_user"),
		SMTPPass:         v.GetString("smtp_pass"),
		ContactTo:        v.GetString("contact_to"),
		AdminUsername:    v.GetString("admin_username"),
		AdminPassword:    v.GetString("admin_password"),
		VisitorRetention: v.GetDuration("visitor_retention"),
		LogLevel:         v.GetString("log_level"),
		LogFormat:        v.GetString("log_format"),
	}

	// Hosting platforms hand out the port through PORT.
	if port := os.Getenv("PORT"); port != "" {
		cfg.ListenAddr = withPort(cfg.ListenAddr, port)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitList accepts both list values from a config file and a comma
// separated environment variable.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func withPort(addr, port string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = ""
	}
	return net.JoinHostPort(host, port)
}

func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.DiscordUserID) == "":
		return fmt.Errorf("%w: discord_user_id is empty", ErrInvalid)
	case strings.TrimSpace(c.GitHubHandle) == "":
		return fmt.Errorf("%w: github_handle is empty", ErrInvalid)
	case c.FallbackRepos < 0:
		return fmt.Errorf("%w: fallback_repos must not be negative", ErrInvalid)
	case c.ReconnectDelay <= 0:
		return fmt.Errorf("%w: reconnect_delay must be positive", ErrInvalid)
	case c.ReposRefresh <= 0:
		return fmt.Errorf("%w: repos_refresh must be positive", ErrInvalid)
	case c.LanyardURL == "":
		return fmt.Errorf("%w: lanyard_url is empty", ErrInvalid)
	case c.ListenAddr == "":
		return fmt.Errorf("%w: listen_addr is empty", ErrInvalid)
	}
	return nil
}

// SMTPConfigured reports whether contact mail can be sent.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPUser != "" && c.SMTPPass != ""
}

// AdminEnabled reports whether the admin area accepts logins.
func (c *Config) AdminEnabled() bool {
	return c.AdminUsername != "" && c.AdminPassword != ""
}
