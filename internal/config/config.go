package config

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"marketbrief/internal/model"
	"marketbrief/pkg/llm"
	"marketbrief/pkg/news"
)

// DefaultProviders is the provider call order, which is also the order
// items appear in the analysis prompt.
var DefaultProviders = []model.Source{
	model.SourceAlphaVantage,
	model.SourceFMP,
	model.SourceSEC,
	model.SourceSimfin,
	model.SourceFinnhub,
	model.SourcePolygon,
}

var providerKeyEnv = map[model.Source]string{
	model.SourceAlphaVantage: "ALPHA_VANTAGE_KEY",
	model.SourceFMP:          "FMP_KEY",
	model.SourceSEC:          "SEC_API_KEY",
	model.SourceSimfin:       "SIMFIN_KEY",
	model.SourceFinnhub:      "FINHUB_KEY",
	model.SourcePolygon:      "POLYGON_KEY",
}

type Config struct {
	ProviderKeys map[model.Source]string
	Providers    []model.Source

	LLMProvider  llm.Provider
	LLMModel     string
	GoogleKey    string
	OpenAIKey    string
	AnthropicKey string

	DefaultTicker string
	SECCIK        string
	SECUserAgent  string
	NewsTopic     string
	NewsLimit     int
	PolygonDate   time.Time
	HTTPTimeout   time.Duration

	HTTPAddr    string
	FrontendURL string
	DatabaseURL string
	RedisURL    string

	ScheduleCron     string
	ScheduleTZ       string
	SentimentEnabled bool

	TelegramToken  string
	TelegramChatID int64

	LogFormat string
	LogLevel  string
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	godotenv.Load()
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LLM_PROVIDER", string(llm.ProviderGemini))
	v.SetDefault("DEFAULT_TICKER", "AAPL")
	v.SetDefault("SEC_CIK", "0000320193")
	v.SetDefault("NEWS_TOPIC", "financial_markets")
	v.SetDefault("NEWS_LIMIT", 50)
	v.SetDefault("HTTP_TIMEOUT", "30s")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("SCHEDULE_CRON", "0 9 * * *")
	v.SetDefault("SCHEDULE_TZ", "Local")
	v.SetDefault("SENTIMENT_ENABLED", false)
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_LEVEL", "info")
}

func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		ProviderKeys: make(map[model.Source]string, len(providerKeyEnv)),

		LLMProvider:  llm.Provider(strings.ToLower(v.GetString("LLM_PROVIDER"))),
		LLMModel:     v.GetString("LLM_MODEL"),
		GoogleKey:    v.GetString("GOOGLE_API_KEY"),
		OpenAIKey:    v.GetString("OPENAI_API_KEY"),
		AnthropicKey: v.GetString("ANTHROPIC_API_KEY"),

		DefaultTicker: strings.ToUpper(v.GetString("DEFAULT_TICKER")),
		SECCIK:        v.GetString("SEC_CIK"),
		SECUserAgent:  v.GetString("SEC_USER_AGENT"),
		NewsTopic:     v.GetString("NEWS_TOPIC"),
		NewsLimit:     v.GetInt("NEWS_LIMIT"),

		HTTPAddr:    v.GetString("HTTP_ADDR"),
		FrontendURL: v.GetString("FRONTEND_URL"),
		DatabaseURL: v.GetString("DATABASE_URL"),
		RedisURL:    v.GetString("REDIS_URL"),

		ScheduleCron:     v.GetString("SCHEDULE_CRON"),
		ScheduleTZ:       v.GetString("SCHEDULE_TZ"),
		SentimentEnabled: v.GetBool("SENTIMENT_ENABLED"),

		TelegramToken:  v.GetString("TELEGRAM_BOT_TOKEN"),
		TelegramChatID: v.GetInt64("TELEGRAM_CHAT_ID"),

		LogFormat: v.GetString("LOG_FORMAT"),
		LogLevel:  v.GetString("LOG_LEVEL"),
	}

	for source, env := range providerKeyEnv {
		cfg.ProviderKeys[source] = strings.TrimSpace(v.GetString(env))
	}

	providers, err := parseProviders(v.GetString("PROVIDERS"))
	if err != nil {
		return nil, err
	}
	cfg.Providers = providers

	if raw := strings.TrimSpace(v.GetString("POLYGON_DATE")); raw != "" {
		date, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return nil, fmt.Errorf("config POLYGON_DATE: %w", err)
		}
		cfg.PolygonDate = date
	}

	timeout, err := parseTimeout(v.GetString("HTTP_TIMEOUT"))
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	return cfg, nil
}

const minHTTPTimeout = time.Second

// parseTimeout accepts a Go duration or a bare number of seconds.
func parseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 30 * time.Second, nil
	}

	var d time.Duration
	if secs, err := strconv.Atoi(raw); err == nil {
		d = time.Duration(secs) * time.Second
	} else {
		d, err = time.ParseDuration(raw)
		if err != nil {
			return 0, fmt.Errorf("config HTTP_TIMEOUT: %w", err)
		}
	}
	if d < minHTTPTimeout {
		return 0, fmt.Errorf("config HTTP_TIMEOUT: %s is below %s", d, minHTTPTimeout)
	}
	return d, nil
}

// parseProviders reads a comma separated list. An empty list means every
// provider that has credentials, in the default order.
func parseProviders(raw string) ([]model.Source, error) {
	var sources []model.Source
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		source := model.Source(part)
		if !source.Valid() {
			return nil, fmt.Errorf("config PROVIDERS: %w: %q", news.ErrUnknownProvider, part)
		}
		sources = append(sources, source)
	}
	return sources, nil
}

// ProviderSpecs lists the providers to call, in call order. Without an
// explicit list, a provider is enabled when its key is set. SEC needs no key.
func (c *Config) ProviderSpecs() []news.Spec {
	sources := c.Providers
	explicit := len(sources) > 0
	if !explicit {
		sources = DefaultProviders
	}

	httpClient := &http.Client{Timeout: c.HTTPTimeout}

	specs := make([]news.Spec, 0, len(sources))
	for _, source := range sources {
		key := c.ProviderKeys[source]
		if !explicit && key == "" && source != model.SourceSEC {
			continue
		}
		s := news.Spec{Source: source, Settings: news.Settings{APIKey: key, HTTPClient: httpClient}}
		if source == model.SourceSEC {
			s.UserAgent = c.SECUserAgent
		}
		specs = append(specs, s)
	}
	return specs
}

func (c *Config) Query(ticker string) news.Query {
	if ticker = strings.ToUpper(strings.TrimSpace(ticker)); ticker == "" {
		ticker = c.DefaultTicker
	}
	return news.Query{
		Ticker: ticker,
		CIK:    c.SECCIK,
		Topic:  c.NewsTopic,
		Date:   c.PolygonDate,
		Limit:  c.NewsLimit,
	}
}

func (c *Config) LLMKey() string {
	switch c.LLMProvider {
	case llm.ProviderOpenAI:
		return c.OpenAIKey
	case llm.ProviderAnthropic:
		return c.AnthropicKey
	default:
		return c.GoogleKey
	}
}

func (c *Config) Location() (*time.Location, error) {
	if c.ScheduleTZ == "" || c.ScheduleTZ == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.ScheduleTZ)
	if err != nil {
		return nil, fmt.Errorf("config SCHEDULE_TZ: %w", err)
	}
	return loc, nil
}
