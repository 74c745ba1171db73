package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// App selects which service binary the configuration is for.
type App string

const (
	AppSurvey App = "survey"
	AppTask   App = "task"
)

// ConfigPathEnvVar overrides the YAML config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are probed in order when no explicit path is given.
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

// ErrMissingTokenSecret is returned when no signing secret is configured.
var ErrMissingTokenSecret = errors.New("ACCESS_TOKEN_SECRET is required")

// Config holds runtime configuration shared across the application.
type Config struct {
	App     App           `koanf:"app"`
	Server  ServerConfig  `koanf:"server"`
	Mongo   MongoConfig   `koanf:"mongo"`
	Auth    AuthConfig    `koanf:"auth"`
	Payment PaymentConfig `koanf:"payment"`
	Log     LogConfig     `koanf:"log"`
}

type ServerConfig struct {
	Port              int           `koanf:"port"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	AllowedOrigins    []string      `koanf:"allowed_origins"`
}

// Addr は ListenAndServe に渡すアドレスを返す。
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type MongoConfig struct {
	URI             string        `koanf:"uri"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Host            string        `koanf:"host"`
	Database        string        `koanf:"database"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`
	UseTransactions bool          `koanf:"use_transactions"`
	Collections     Collections   `koanf:"collections"`
}

// Collections names every collection either service touches.
type Collections struct {
	Users      string `koanf:"users"`
	Surveys    string `koanf:"surveys"`
	Votes      string `koanf:"votes"`
	Payments   string `koanf:"payments"`
	Reports    string `koanf:"reports"`
	Comments   string `koanf:"comments"`
	Tasks      string `koanf:"tasks"`
	Activities string `koanf:"activities"`
}

type AuthConfig struct {
	TokenSecret string        `koanf:"token_secret"`
	TokenTTL    time.Duration `koanf:"token_ttl"`
}

type PaymentConfig struct {
	StripeSecretKey    string        `koanf:"stripe_secret_key"`
	Currency           string        `koanf:"currency"`
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Defaults returns the baseline configuration for app before file and env overrides.
func Defaults(app App) Config {
	cfg := Config{
		App: app,
		Server: ServerConfig{
			Port:              5000,
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			AllowedOrigins:    []string{"http://localhost:5173"},
		},
		Mongo: MongoConfig{
			Host:           "cluster0.mongodb.net",
			Database:       "surveyDB",
			ConnectTimeout: 10 * time.Second,
			Collections: Collections{
				Users:      "users",
				Surveys:    "surveys",
				Votes:      "votes",
				Payments:   "payments",
				Reports:    "reports",
				Comments:   "comments",
				Tasks:      "tasks",
				Activities: "activities",
			},
		},
		Auth: AuthConfig{TokenTTL: time.Hour},
		Payment: PaymentConfig{
			Currency:           "usd",
			BreakerMaxFailures: 5,
			BreakerTimeout:     30 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
	if app == AppTask {
		cfg.Mongo.Database = "taskDB"
	}
	return cfg
}

// Load は .env, YAML, 環境変数の順に重ね合わせた Config を返す。
// path が空の場合は CONFIG_PATH と DefaultConfigPaths を探索する。
func Load(app App, path string) (Config, error) {
	cfg, err := LoadStoreOnly(app, path)
	if err != nil {
		return Config{}, err
	}
	if cfg.Auth.TokenSecret == "" {
		return Config{}, ErrMissingTokenSecret
	}
	return cfg, nil
}

// LoadStoreOnly is Load without the token secret requirement, for tools that
// only talk to MongoDB.
func LoadStoreOnly(app App, path string) (Config, error) {
	// .env は任意。存在しなければ無視する。
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Defaults(app), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if configPath := findConfigFile(path); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envTransform), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}
	if err := splitList(k, "server.allowed_origins"); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.App = app
	if err := cfg.finalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) finalize() error {
	c.Auth.TokenSecret = strings.TrimSpace(c.Auth.TokenSecret)
	if strings.TrimSpace(c.Mongo.URI) == "" {
		c.Mongo.URI = c.Mongo.BuildURI()
	}
	if c.Mongo.URI == "" {
		return errors.New("MONGO_URI or DB_USER/DB_PASS is required")
	}
	return nil
}

// BuildURI は DB_USER / DB_PASS と host から Atlas 形式の接続文字列を組み立てる。
func (m MongoConfig) BuildURI() string {
	user := strings.TrimSpace(m.User)
	host := strings.TrimSpace(m.Host)
	if user == "" || host == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(user, m.Password),
		Host:     host,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority",
	}
	return u.String()
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, candidate := range DefaultConfigPaths {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// splitList turns a comma separated env value into a slice. YAML lists pass through.
func splitList(k *koanf.Koanf, path string) error {
	raw, ok := k.Get(path).(string)
	if !ok {
		return nil
	}
	items := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	if err := k.Set(path, items); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

var envKeys = map[string]string{
	"port":                   "server.port",
	"read_header_timeout":    "server.read_header_timeout",
	"shutdown_timeout":       "server.shutdown_timeout",
	"api_allowed_origins":    "server.allowed_origins",
	"mongo_uri":              "mongo.uri",
	"db_user":                "mongo.user",
	"db_pass":                "mongo.password",
	"mongo_host":             "mongo.host",
	"mongo_db":               "mongo.database",
	"mongo_connect_timeout":  "mongo.connect_timeout",
	"mongo_use_transactions": "mongo.use_transactions",
	"access_token_secret":    "auth.token_secret",
	"access_token_ttl":       "auth.token_ttl",
	"stripe_secret_key":      "payment.stripe_secret_key",
	"stripe_currency":        "payment.currency",
	"stripe_breaker_max":     "payment.breaker_max_failures",
	"stripe_breaker_timeout": "payment.breaker_timeout",
	"log_level":              "log.level",
	"log_format":             "log.format",
}

// envTransform maps known variables onto config paths. Unknown and empty
// variables are dropped so they never mask file or default values.
func envTransform(key, value string) (string, any) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return envKeys[strings.ToLower(key)], value
}
