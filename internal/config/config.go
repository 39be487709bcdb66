package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv          = "ENDODIGEST_CONFIG"
	openAIAPIKeyEnv        = "OPENAI_API_KEY"
	twitterAPIKeyEnv       = "TWITTER_API_KEY"
	twitterAPISecretEnv    = "TWITTER_API_SECRET"
	twitterAccessTokenEnv  = "TWITTER_ACCESS_TOKEN"
	twitterAccessSecretEnv = "TWITTER_ACCESS_TOKEN_SECRET"
	dryRunEnv              = "DRY_RUN"
	maxPostsEnv            = "MAX_POSTS"
	lookbackDaysEnv        = "LOOKBACK_DAYS"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Theme    ThemeConfig    `yaml:"theme"`
	Ranking  RankingConfig  `yaml:"ranking"`
	History  HistoryConfig  `yaml:"history"`
	PubMed   PubMedConfig   `yaml:"pubmed"`
	Feed     FeedConfig     `yaml:"feed"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Twitter  TwitterConfig  `yaml:"twitter"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// PipelineConfig tunes one publishing cycle.
type PipelineConfig struct {
	DryRun          bool     `yaml:"dryRun"`
	MaxPosts        int      `yaml:"maxPosts"`
	PoolMultiplier  int      `yaml:"poolMultiplier"`
	DailyQuota      int      `yaml:"dailyQuota"`
	SelectionPolicy string   `yaml:"selectionPolicy"`
	Layout          string   `yaml:"layout"`
	Sources         []string `yaml:"sources"`
	ThreadPrefix    string   `yaml:"threadPrefix"`
	ThreadPrefixDay string   `yaml:"threadPrefixDay"`
}

// ThemeConfig binds the weekday rotation to a time zone.
type ThemeConfig struct {
	Timezone string `yaml:"timezone"`
}

// RankingConfig locates the journal-ranking dataset and the admission terms.
type RankingConfig struct {
	CSVPath       string `yaml:"csvPath"`
	DomainTerm    string `yaml:"domainTerm"`
	PriorityVenue string `yaml:"priorityVenue"`
}

// HistoryConfig locates the published-article store.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// PubMedConfig describes the E-utilities search backend.
type PubMedConfig struct {
	BaseURL      string `yaml:"baseUrl"`
	LookbackDays int    `yaml:"lookbackDays"`
}

// FeedConfig describes the curated venue feed. Entries carry this fixed
// journal name and quartile and skip the ranking-table lookup.
type FeedConfig struct {
	URL      string `yaml:"url"`
	Journal  string `yaml:"journal"`
	Quartile string `yaml:"quartile"`
}

// OpenAIConfig defines how to contact the summarization model.
type OpenAIConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

// TwitterConfig wires the user-context OAuth1 credentials.
type TwitterConfig struct {
	ConsumerKey    string `yaml:"consumerKey"`
	ConsumerSecret string `yaml:"consumerSecret"`
	AccessToken    string `yaml:"accessToken"`
	AccessSecret   string `yaml:"accessSecret"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			cfg = defaultConfig()
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv(twitterAPIKeyEnv); v != "" {
		c.Twitter.ConsumerKey = v
	}
	if v := os.Getenv(twitterAPISecretEnv); v != "" {
		c.Twitter.ConsumerSecret = v
	}
	if v := os.Getenv(twitterAccessTokenEnv); v != "" {
		c.Twitter.AccessToken = v
	}
	if v := os.Getenv(twitterAccessSecretEnv); v != "" {
		c.Twitter.AccessSecret = v
	}
	if v := os.Getenv(dryRunEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Pipeline.DryRun = n != 0
		}
	}
	if v := os.Getenv(maxPostsEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Pipeline.MaxPosts = n
		}
	}
	if v := os.Getenv(lookbackDaysEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.PubMed.LookbackDays = n
		}
	}
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Pipeline: PipelineConfig{
			DryRun:          true,
			MaxPosts:        1,
			PoolMultiplier:  5,
			DailyQuota:      0,
			SelectionPolicy: "prefix",
			Layout:          "single",
			Sources:         []string{"pubmed"},
			ThreadPrefix:    "",
			ThreadPrefixDay: "Monday",
		},
		Theme:   ThemeConfig{Timezone: "Europe/Istanbul"},
		Ranking: RankingConfig{CSVPath: "scimago.csv", DomainTerm: "Endocrinology", PriorityVenue: "endocrinology research and practice"},
		History: HistoryConfig{Path: "history.db"},
		PubMed:  PubMedConfig{BaseURL: "https://eutils.ncbi.nlm.nih.gov/entrez/eutils", LookbackDays: 30},
		Feed: FeedConfig{
			URL:      "",
			Journal:  "Endocrinology Research and Practice",
			Quartile: "Q4",
		},
		OpenAI:  OpenAIConfig{Model: "gpt-4o-mini"},
		Twitter: TwitterConfig{},
	}
}
