package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"DepthScan/internal/model"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Paths    PathsConfig    `mapstructure:"paths"`
	Files    FilesConfig    `mapstructure:"files"`
	Scan     ScanConfig     `mapstructure:"scan"`
	Log      LogConfig      `mapstructure:"log"`
	Recorder RecorderConfig `mapstructure:"recorder"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
}

type PathsConfig struct {
	InputDir  string `mapstructure:"input_dir"`
	OutputDir string `mapstructure:"output_dir"`
	// InputURL, when set, fetches the snapshot files over HTTP instead of
	// reading InputDir.
	InputURL string `mapstructure:"input_url"`
	APIKey   string `mapstructure:"api_key"`
	Proxy    string `mapstructure:"proxy"`
}

// FilesConfig names the snapshot exports inside InputDir.
type FilesConfig struct {
	Prices        string `mapstructure:"prices"`
	PriceHistory  string `mapstructure:"price_history"`
	BidDepth      string `mapstructure:"bid_depth"`
	AskDepth      string `mapstructure:"ask_depth"`
	BestBuyer     string `mapstructure:"best_buyer"`
	ActiveTrades  string `mapstructure:"active_trades"`
	PendingOrders string `mapstructure:"pending_orders"`
}

// Map returns the file names keyed by table kind.
func (f FilesConfig) Map() map[model.TableKind]string {
	return map[model.TableKind]string{
		model.TablePrices:        f.Prices,
		model.TablePriceHistory:  f.PriceHistory,
		model.TableBidDepth:      f.BidDepth,
		model.TableAskDepth:      f.AskDepth,
		model.TableBestBuyer:     f.BestBuyer,
		model.TableActiveTrades:  f.ActiveTrades,
		model.TablePendingOrders: f.PendingOrders,
	}
}

// ScanConfig holds the analysis knobs.
type ScanConfig struct {
	DepthLevels    int      `mapstructure:"depth_levels"`
	WallMultiplier float64  `mapstructure:"wall_multiplier"`
	Institutions   []string `mapstructure:"institutions"`
	// Analyses restricts the run to the named analyses; empty runs all.
	Analyses []string `mapstructure:"analyses"`
	Manifest bool     `mapstructure:"manifest"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputFile string `mapstructure:"output_file"`
}

type RecorderConfig struct {
	Driver     string         `mapstructure:"driver"`
	SQLitePath string         `mapstructure:"sqlite_path"`
	Postgres   PostgresConfig `mapstructure:"postgres"`
}

// PostgresConfig defines the connection to the run-history database.
type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	DBName         string `mapstructure:"dbname"`
	SSLMode        string `mapstructure:"sslmode"`
	TimeZone       string `mapstructure:"timezone"`
	CreateDatabase bool   `mapstructure:"create_database"`
}

// DSN builds a libpq connection string for dbname.
func (cfg PostgresConfig) DSN(dbname string) string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, dbname, cfg.SSLMode,
	)
	if cfg.TimeZone != "" {
		dsn += fmt.Sprintf(" TimeZone=%s", cfg.TimeZone)
	}
	return dsn
}

type TelegramConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	BotToken   string `mapstructure:"bot_token"`
	ChatID     string `mapstructure:"chat_id"`
	TopK       int    `mapstructure:"top_k"`
	MaxRetries int    `mapstructure:"max_retries"`
}

type ScheduleConfig struct {
	Cron       string `mapstructure:"cron"`
	RunOnStart bool   `mapstructure:"run_on_start"`
}

// DefaultInstitutions are the broker name fragments treated as institutional buyers.
var DefaultInstitutions = []string{
	"BANK OF AMERICA", "CITIBANK", "DEUTSCHE", "HSBC", "YAPI KREDI", "IS YATIRIM", "TEB",
}

// Load reads config from a YAML file, then applies DEPTHSCAN_* environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DEPTHSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("paths.input_dir", "data")
	v.SetDefault("paths.output_dir", "reports")
	v.SetDefault("paths.input_url", "")
	v.SetDefault("paths.api_key", "")
	v.SetDefault("paths.proxy", "")

	v.SetDefault("files.prices", "ACILISLAR-1.csv")
	v.SetDefault("files.price_history", "ACILISLAR-2.csv")
	v.SetDefault("files.bid_depth", "DERINLIK_ALIS-1.csv")
	v.SetDefault("files.ask_depth", "DERINLIK_SATIS-1.csv")
	v.SetDefault("files.best_buyer", "MALIYET_ALICI-1.csv")
	v.SetDefault("files.active_trades", "KADEME_ANALIZI.csv")
	v.SetDefault("files.pending_orders", "BEKLEYEN_EMIRLER.csv")

	v.SetDefault("scan.depth_levels", 14)
	v.SetDefault("scan.wall_multiplier", 4.0)
	v.SetDefault("scan.institutions", DefaultInstitutions)
	v.SetDefault("scan.analyses", []string{})
	v.SetDefault("scan.manifest", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output_file", "")

	v.SetDefault("recorder.driver", "sqlite")
	v.SetDefault("recorder.sqlite_path", "data/depthscan.db")
	v.SetDefault("recorder.postgres.host", "localhost")
	v.SetDefault("recorder.postgres.port", 5432)
	v.SetDefault("recorder.postgres.user", "postgres")
	v.SetDefault("recorder.postgres.password", "")
	v.SetDefault("recorder.postgres.dbname", "depthscan")
	v.SetDefault("recorder.postgres.sslmode", "disable")
	v.SetDefault("recorder.postgres.timezone", "Europe/Istanbul")
	v.SetDefault("recorder.postgres.create_database", false)

	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.top_k", 10)
	v.SetDefault("telegram.max_retries", 3)

	// 18:30 on weekdays, after the Borsa Istanbul close.
	v.SetDefault("schedule.cron", "0 30 18 * * 1-5")
	v.SetDefault("schedule.run_on_start", false)
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Paths.InputDir == "" && c.Paths.InputURL == "" {
		return fmt.Errorf("paths.input_dir or paths.input_url is required")
	}
	if c.Paths.OutputDir == "" {
		return fmt.Errorf("paths.output_dir is required")
	}
	for kind, name := range c.Files.Map() {
		if name == "" {
			return fmt.Errorf("files.%s is required", kind)
		}
	}
	if c.Scan.DepthLevels < 1 {
		return fmt.Errorf("scan.depth_levels must be at least 1")
	}
	if c.Scan.WallMultiplier <= 1 {
		return fmt.Errorf("scan.wall_multiplier must be greater than 1")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[c.Log.Format] {
		return fmt.Errorf("log.format must be one of: json, console")
	}

	switch c.Recorder.Driver {
	case "none":
	case "sqlite":
		if c.Recorder.SQLitePath == "" {
			return fmt.Errorf("recorder.sqlite_path is required for the sqlite driver")
		}
	case "postgres":
		if c.Recorder.Postgres.Host == "" || c.Recorder.Postgres.DBName == "" {
			return fmt.Errorf("recorder.postgres.host and recorder.postgres.dbname are required for the postgres driver")
		}
	default:
		return fmt.Errorf("recorder.driver must be one of: none, sqlite, postgres")
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}
	return nil
}
