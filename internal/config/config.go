// Package config はゲートウェイの設定を読み込む。
//
// 設定はデフォルト値、YAMLファイル（CONFIG_FILE）、環境変数の順に上書きされる。
// mainで一度だけ読み込み、各コンストラクタに明示的に渡す。
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ストアのドライバ名。
const (
	// DriverMongo はMongoDBを使う。
	DriverMongo = "mongo"
	// DriverSQLite は組み込みSQLiteを使う。
	DriverSQLite = "sqlite"
)

// 検証エラー。
var (
	ErrMissingAPIKey     = errors.New("API_KEY is required")
	ErrUnknownDriver     = errors.New("unknown STORE_DRIVER")
	ErrMissingMongoURI   = errors.New("MONGO_URI is required when STORE_DRIVER=mongo")
	ErrMissingSQLitePath = errors.New("SQLITE_PATH is required when STORE_DRIVER=sqlite")
	ErrInvalidTimeout    = errors.New("timeout must be positive")
)

// Upstream は上流APIの接続設定。
type Upstream struct {
	// BaseURL は上流のベースURL。
	BaseURL string `yaml:"base_url"`
	// APIKey は上流の認証情報。Scryfallでは使わない。
	APIKey string `yaml:"api_key"`
	// Timeout はリクエスト全体のタイムアウト。
	Timeout time.Duration `yaml:"timeout"`
}

// Store はドキュメントストアの接続設定。
type Store struct {
	// Driver は "mongo" または "sqlite"。
	Driver string `yaml:"driver"`
	// MongoURI はMongoDBの接続URI。
	MongoURI string `yaml:"mongo_uri"`
	// MongoDatabase はMongoDBのデータベース名。
	MongoDatabase string `yaml:"mongo_database"`
	// SQLitePath はSQLiteのファイルパス。
	SQLitePath string `yaml:"sqlite_path"`
}

// Config はゲートウェイの設定。
type Config struct {
	// Port は待ち受けポート。
	Port string `yaml:"port"`
	// APIKey はクライアントが提示する共有シークレット。
	APIKey string `yaml:"api_key"`
	// APITCG は外部カードAPIの設定。
	APITCG Upstream `yaml:"apitcg"`
	// Scryfall はMagic用アダプタの設定。
	Scryfall Upstream `yaml:"scryfall"`
	// Store はドキュメントストアの設定。
	Store Store `yaml:"store"`
	// AllowedOrigins はCORSで許可するオリジン。
	AllowedOrigins []string `yaml:"allowed_origins"`
	// LogLevel はログレベル。
	LogLevel string `yaml:"log_level"`
}

// Default はデフォルト値の設定を返す。
func Default() Config {
	return Config{
		Port: "8080",
		APITCG: Upstream{
			BaseURL: "https://apitcg.com/api",
			Timeout: 10 * time.Second,
		},
		Scryfall: Upstream{
			BaseURL: "https://api.scryfall.com",
			Timeout: 10 * time.Second,
		},
		Store: Store{
			Driver:        DriverMongo,
			MongoDatabase: "cards",
			SQLitePath:    "/data/cards.db",
		},
		AllowedOrigins: []string{"*"},
		LogLevel:       "info",
	}
}

// Load はプロセスの環境変数から設定を読み込んで検証する。
func Load() (Config, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom はlookupで引ける環境変数から設定を読み込んで検証する。
func LoadFrom(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if path, ok := lookup("CONFIG_FILE"); ok && path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.mergeEnv(lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("設定ファイルのパースに失敗: %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sの値が不正です: %q: %w", key, v, err)
		}
		*dst = d
		return nil
	}

	str("PORT", &c.Port)
	str("API_KEY", &c.APIKey)
	str("APITCG_API_KEY", &c.APITCG.APIKey)
	str("APITCG_BASE_URL", &c.APITCG.BaseURL)
	str("SCRYFALL_BASE_URL", &c.Scryfall.BaseURL)
	str("STORE_DRIVER", &c.Store.Driver)
	str("MONGO_URI", &c.Store.MongoURI)
	str("MONGO_DATABASE", &c.Store.MongoDatabase)
	str("SQLITE_PATH", &c.Store.SQLitePath)
	str("LOG_LEVEL", &c.LogLevel)

	if v, ok := lookup("ALLOWED_ORIGINS"); ok && v != "" {
		c.AllowedOrigins = splitList(v)
	}
	if err := dur("APITCG_TIMEOUT", &c.APITCG.Timeout); err != nil {
		return err
	}
	return dur("SCRYFALL_TIMEOUT", &c.Scryfall.Timeout)
}

// Validate は必須設定と値の整合性を検証する。
func (c Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	switch c.Store.Driver {
	case DriverMongo:
		if c.Store.MongoURI == "" {
			return ErrMissingMongoURI
		}
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return ErrMissingSQLitePath
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Store.Driver)
	}
	if c.APITCG.Timeout <= 0 {
		return fmt.Errorf("%w: APITCG_TIMEOUT=%s", ErrInvalidTimeout, c.APITCG.Timeout)
	}
	if c.Scryfall.Timeout <= 0 {
		return fmt.Errorf("%w: SCRYFALL_TIMEOUT=%s", ErrInvalidTimeout, c.Scryfall.Timeout)
	}
	return nil
}

// Addr はhttp.Serverに渡す待ち受けアドレスを返す。
func (c Config) Addr() string {
	return ":" + c.Port
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
