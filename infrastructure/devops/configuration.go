package devops

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

type SlackConfig struct {
	Token          string `yaml:"token"`
	HRChannelID    string `yaml:"hrChannelId"`
	ErrorChannelID string `yaml:"errorChannelId"`
}

type EmailConfig struct {
	From string   `yaml:"from"`
	To   []string `yaml:"to"`
}

type ReportConfig struct {
	Bucket        string `yaml:"bucket"`
	PublicBaseURL string `yaml:"publicBaseUrl"`
}

// Config is the single explicit configuration object. The resolver and ledger
// never see it; collaborators get the sub-config they need at construction.
type Config struct {
	DSN                 string       `yaml:"dsn"`
	MaxConnections      int          `yaml:"maxConnections"`
	ListenAddr          string       `yaml:"listenAddr"`
	Timezone            string       `yaml:"timezone"`
	WorkingDaysPerMonth int          `yaml:"workingDaysPerMonth"`
	LiveLink            string       `yaml:"liveLink"`
	MorningNotifyAt     string       `yaml:"morningNotifyAt"` // HH:MM
	EveningReportAt     string       `yaml:"eveningReportAt"` // HH:MM
	SigningSecret       string       `yaml:"signingSecret"`   // base64
	Slack               SlackConfig  `yaml:"slack"`
	Email               EmailConfig  `yaml:"email"`
	Report              ReportConfig `yaml:"report"`
}

func defaults() Config {
	return Config{
		MaxConnections:      10,
		ListenAddr:          "0.0.0.0:8090",
		Timezone:            "Asia/Kolkata",
		WorkingDaysPerMonth: 22,
		MorningNotifyAt:     "09:30",
		EveningReportAt:     "19:00",
	}
}

var (
	once    sync.Once
	loaded  Config
	loadErr error
)

// Load reads the configuration exactly once: from the yaml file named by
// MARKTIME_CONFIG, or from the SSM parameter named by MARKTIME_CONFIG_PARAM,
// with environment overrides for the secrets either way.
func Load(ctx context.Context) (Config, error) {
	once.Do(func() {
		cfg := defaults()

		if path := os.Getenv("MARKTIME_CONFIG"); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				loadErr = fmt.Errorf("read config file: %w", err)
				return
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				loadErr = fmt.Errorf("unmarshal yaml: %w", err)
				return
			}
		} else if param := os.Getenv("MARKTIME_CONFIG_PARAM"); param != "" {
			raw, err := fetchParameter(ctx, param)
			if err != nil {
				loadErr = err
				return
			}
			if err := yaml.Unmarshal([]byte(raw), &cfg); err != nil {
				loadErr = fmt.Errorf("unmarshal yaml: %w", err)
				return
			}
		}

		applyEnvOverrides(&cfg)
		loaded = cfg
	})

	return loaded, loadErr
}

func fetchParameter(ctx context.Context, name string) (string, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("load aws config: %w", err)
	}

	client := ssm.NewFromConfig(cfg)

	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("get parameter: %w", err)
	}

	return *out.Parameter.Value, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DSN"); v != "" {
		cfg.DSN = v
	}
	if v := os.Getenv("MARKTIME_SIGNING_SECRET"); v != "" {
		cfg.SigningSecret = v
	}
	if v := os.Getenv("SLACK_BOT_TOKEN"); v != "" {
		cfg.Slack.Token = v
	}
}
