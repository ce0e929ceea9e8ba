package devops

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

type ConsoleConfig struct {
	Addr     string `yaml:"addr"`
	Timezone string `yaml:"timezone"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type SessionConfig struct {
	// Dir stores one yaml file per session; empty keeps sessions in memory.
	Dir string `yaml:"dir"`
}

type ExportConfig struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

type SlackConfig struct {
	BotToken       string `yaml:"bot_token"`
	InfoChannelID  string `yaml:"info_channel"`
	ErrorChannelID string `yaml:"error_channel"`
}

// DatabaseConfig is read by the development backend only.
type DatabaseConfig struct {
	Addr           string `yaml:"addr"`
	DSN            string `yaml:"dsn"`
	MaxConnections int    `yaml:"max_connections"`
	LogLevel       string `yaml:"log_level"`
	JWTSecret      string `yaml:"jwt_secret"`
}

type Config struct {
	Console  ConsoleConfig  `yaml:"console"`
	API      APIConfig      `yaml:"api"`
	Session  SessionConfig  `yaml:"session"`
	Export   ExportConfig   `yaml:"export"`
	Slack    SlackConfig    `yaml:"slack"`
	Database DatabaseConfig `yaml:"database"`
}

func Defaults() Config {
	return Config{
		Console:  ConsoleConfig{Addr: ":8080", Timezone: "Africa/Kigali"},
		API:      APIConfig{BaseURL: "http://localhost:8000/api", Timeout: 30 * time.Second},
		Export:   ExportConfig{Prefix: "attendance"},
		Database: DatabaseConfig{Addr: ":8000", MaxConnections: 10, LogLevel: "warn"},
	}
}

// Load builds the configuration from the defaults, the yaml file at path
// (a missing file is fine), the SSM parameter named by CONSOLE_SSM_PARAMETER
// and finally the environment.
func Load(ctx context.Context, path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("unmarshal yaml: %w", err)
			}
		}
	}

	if name := os.Getenv("CONSOLE_SSM_PARAMETER"); name != "" {
		if err := LoadParameter(ctx, name, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (cfg *Config) applyEnv(getenv func(string) string) error {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.Console.Addr, "CONSOLE_ADDR")
	set(&cfg.Console.Timezone, "CONSOLE_TIMEZONE")
	set(&cfg.API.BaseURL, "API_BASE_URL")
	set(&cfg.Session.Dir, "SESSION_DIR")
	set(&cfg.Export.Bucket, "EXPORT_BUCKET")
	set(&cfg.Slack.BotToken, "SLACK_BOT_TOKEN")
	set(&cfg.Slack.InfoChannelID, "SLACK_INFO_CHANNEL")
	set(&cfg.Slack.ErrorChannelID, "SLACK_ERROR_CHANNEL")
	set(&cfg.Database.Addr, "MOCKAPI_ADDR")
	set(&cfg.Database.DSN, "DSN")
	set(&cfg.Database.JWTSecret, "JWT_SECRET")

	if v := getenv("API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("API_TIMEOUT: %w", err)
		}
		cfg.API.Timeout = d
	}
	if v := getenv("DB_MAX_CONNECTIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DB_MAX_CONNECTIONS: %w", err)
		}
		cfg.Database.MaxConnections = n
	}
	return nil
}

// LoadParameter decodes the yaml value of an SSM parameter into out.
func LoadParameter(ctx context.Context, name string, out any) error {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	client := ssm.NewFromConfig(awsCfg)

	resp, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("get parameter: %w", err)
	}

	if err := yaml.Unmarshal([]byte(aws.ToString(resp.Parameter.Value)), out); err != nil {
		return fmt.Errorf("unmarshal yaml: %w", err)
	}
	return nil
}
