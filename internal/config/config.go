package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	BatchData  BatchDataConfig  `yaml:"batchdata" mapstructure:"batchdata"`
	Twilio     TwilioConfig     `yaml:"twilio" mapstructure:"twilio"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Search     SearchConfig     `yaml:"search" mapstructure:"search"`
	Enrich     EnrichConfig     `yaml:"enrich" mapstructure:"enrich"`
	Region     RegionConfig     `yaml:"region" mapstructure:"region"`
	Verify     VerifyConfig     `yaml:"verify" mapstructure:"verify"`
	Pipeline   PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the destination database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// BatchDataConfig holds property-search provider credentials.
type BatchDataConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// TwilioConfig holds carrier-lookup credentials. Both fields empty means
// the verification stage runs as a no-op passthrough.
type TwilioConfig struct {
	AccountSID string `yaml:"account_sid" mapstructure:"account_sid"`
	AuthToken  string `yaml:"auth_token" mapstructure:"auth_token"`
}

// SalesforceConfig holds Salesforce JWT auth settings for the optional
// lead push.
type SalesforceConfig struct {
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
	Username string `yaml:"username" mapstructure:"username"`
	KeyPath  string `yaml:"key_path" mapstructure:"key_path"`
	LoginURL string `yaml:"login_url" mapstructure:"login_url"`
}

// SearchConfig configures the property-search stage.
type SearchConfig struct {
	PageSize       int     `yaml:"page_size" mapstructure:"page_size"`
	RequestDelayMS int     `yaml:"request_delay_ms" mapstructure:"request_delay_ms"`
	CreditPerQuery float64 `yaml:"credit_per_query" mapstructure:"credit_per_query"`
}

// EnrichConfig configures the skip-trace stage.
type EnrichConfig struct {
	BatchSize      int     `yaml:"batch_size" mapstructure:"batch_size"`
	RequestDelayMS int     `yaml:"request_delay_ms" mapstructure:"request_delay_ms"`
	CreditPerHit   float64 `yaml:"credit_per_hit" mapstructure:"credit_per_hit"`
}

// RegionConfig configures the phone region filter.
type RegionConfig struct {
	AreaCodes []string `yaml:"area_codes" mapstructure:"area_codes"`
}

// VerifyConfig configures the phone verification stage.
type VerifyConfig struct {
	BatchSize    int `yaml:"batch_size" mapstructure:"batch_size"`
	BatchDelayMS int `yaml:"batch_delay_ms" mapstructure:"batch_delay_ms"`
}

// PipelineConfig configures the orchestrator.
type PipelineConfig struct {
	WorkspaceID        string `yaml:"workspace_id" mapstructure:"workspace_id"`
	AssignedTo         string `yaml:"assigned_to" mapstructure:"assigned_to"`
	SourceTag          string `yaml:"source_tag" mapstructure:"source_tag"`
	CheckpointPath     string `yaml:"checkpoint_path" mapstructure:"checkpoint_path"`
	CheckpointInterval int    `yaml:"checkpoint_interval" mapstructure:"checkpoint_interval"`
	ExportDir          string `yaml:"export_dir" mapstructure:"export_dir"`
}

// ServerConfig configures the status server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "leadgen.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("batchdata.base_url", "https://api.batchdata.com/api/v1")
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("search.page_size", 100)
	v.SetDefault("search.request_delay_ms", 500)
	v.SetDefault("search.credit_per_query", 0.10)
	v.SetDefault("enrich.batch_size", 50)
	v.SetDefault("enrich.request_delay_ms", 500)
	v.SetDefault("enrich.credit_per_hit", 0.12)
	v.SetDefault("region.area_codes", []string{"602", "480", "623", "520", "928"})
	v.SetDefault("verify.batch_size", 10)
	v.SetDefault("verify.batch_delay_ms", 1000)
	v.SetDefault("pipeline.workspace_id", "")
	v.SetDefault("pipeline.source_tag", "batchdata_import")
	v.SetDefault("pipeline.checkpoint_path", "progress.json")
	v.SetDefault("pipeline.checkpoint_interval", 50)
	v.SetDefault("pipeline.export_dir", ".")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
