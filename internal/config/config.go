package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppConf struct {
	Env            string `mapstructure:"env"`
	Port           int    `mapstructure:"port"`
	ShutdownSecond int    `mapstructure:"shutdown_seconds"`
	Origin         string `mapstructure:"origin"` // public origin for links in emails
}

type MongoConf struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type JWTConf struct {
	Secret   string `mapstructure:"secret"`
	TTLHours int    `mapstructure:"ttl_hours"`
}

type MailConf struct {
	APIKey    string `mapstructure:"api_key"`
	FromEmail string `mapstructure:"from_email"`
	FromName  string `mapstructure:"from_name"`
}

type StripeConf struct {
	SecretKey      string `mapstructure:"secret_key"`
	EndpointSecret string `mapstructure:"endpoint_secret"`
	PriceID        string `mapstructure:"price_id"`
}

type StorageConf struct {
	Backend   string `mapstructure:"backend"` // local | gridfs | s3
	LocalPath string `mapstructure:"local_path"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
}

type SchedulerConf struct {
	RetentionDays int `mapstructure:"retention_days"`
}

type Config struct {
	App       AppConf       `mapstructure:"app"`
	Mongo     MongoConf     `mapstructure:"mongodb"`
	JWT       JWTConf       `mapstructure:"jwt"`
	Mail      MailConf      `mapstructure:"mail"`
	Stripe    StripeConf    `mapstructure:"stripe"`
	Storage   StorageConf   `mapstructure:"storage"`
	Scheduler SchedulerConf `mapstructure:"scheduler"`

	// derived
	ShutdownTimeout time.Duration
	TokenTTL        time.Duration
}

// Load reads the YAML config file and applies environment overrides.
// A .env file, when present, is loaded into the environment first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()

	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 4000)
	v.SetDefault("app.origin", "http://localhost:3000/")
	v.SetDefault("mongodb.database", "consensus_check")
	v.SetDefault("jwt.ttl_hours", 24)
	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.local_path", "./uploads")
	v.SetDefault("scheduler.retention_days", 30)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// explicit env overrides for deploy platforms that only inject flat vars
	for env, apply := range map[string]func(string){
		"MONGO_URI":              func(s string) { cfg.Mongo.URI = s },
		"JWT_SECRET":             func(s string) { cfg.JWT.Secret = s },
		"MAIL_API_KEY":           func(s string) { cfg.Mail.APIKey = s },
		"STRIPE_SECRET_KEY":      func(s string) { cfg.Stripe.SecretKey = s },
		"STRIPE_ENDPOINT_SECRET": func(s string) { cfg.Stripe.EndpointSecret = s },
	} {
		if val := v.GetString(env); val != "" {
			apply(val)
		}
	}

	if cfg.Mongo.URI == "" {
		return nil, errors.New("mongodb.uri is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("jwt.secret is required")
	}

	if cfg.App.ShutdownSecond == 0 {
		cfg.App.ShutdownSecond = 15
	}
	cfg.ShutdownTimeout = time.Duration(cfg.App.ShutdownSecond) * time.Second
	cfg.TokenTTL = time.Duration(cfg.JWT.TTLHours) * time.Hour
	return &cfg, nil
}
