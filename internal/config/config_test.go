package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// env はテスト用の環境変数テーブルからlookup関数を作る。
func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestLoadFrom(t *testing.T) {
	t.Parallel()

	t.Run("デフォルト値", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadFrom(env(map[string]string{
			"API_KEY":   "secret",
			"MONGO_URI": "mongodb://localhost:27017",
		}))
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, ":8080", cfg.Addr())
		assert.Equal(t, "secret", cfg.APIKey)
		assert.Equal(t, "", cfg.APITCG.APIKey)
		assert.Equal(t, "https://apitcg.com/api", cfg.APITCG.BaseURL)
		assert.Equal(t, 10*time.Second, cfg.APITCG.Timeout)
		assert.Equal(t, "https://api.scryfall.com", cfg.Scryfall.BaseURL)
		assert.Equal(t, DriverMongo, cfg.Store.Driver)
		assert.Equal(t, "cards", cfg.Store.MongoDatabase)
		assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("環境変数で上書きできる", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadFrom(env(map[string]string{
			"PORT":             "9090",
			"API_KEY":          "secret",
			"APITCG_API_KEY":   "upstream",
			"APITCG_TIMEOUT":   "3s",
			"SCRYFALL_TIMEOUT": "1500ms",
			"STORE_DRIVER":     "sqlite",
			"SQLITE_PATH":      "/tmp/cards.db",
			"ALLOWED_ORIGINS":  "https://a.example, https://b.example,,",
			"LOG_LEVEL":        "debug",
		}))
		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, "upstream", cfg.APITCG.APIKey)
		assert.Equal(t, 3*time.Second, cfg.APITCG.Timeout)
		assert.Equal(t, 1500*time.Millisecond, cfg.Scryfall.Timeout)
		assert.Equal(t, DriverSQLite, cfg.Store.Driver)
		assert.Equal(t, "/tmp/cards.db", cfg.Store.SQLitePath)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("YAMLファイルより環境変数が優先される", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
port: "7000"
api_key: from-file
apitcg:
  api_key: file-upstream
  timeout: 5s
store:
  driver: sqlite
  sqlite_path: /var/lib/cards.db
allowed_origins:
  - https://file.example
`), 0o600))

		cfg, err := LoadFrom(env(map[string]string{
			"CONFIG_FILE": path,
			"API_KEY":     "from-env",
		}))
		require.NoError(t, err)
		assert.Equal(t, "7000", cfg.Port)
		assert.Equal(t, "from-env", cfg.APIKey)
		assert.Equal(t, "file-upstream", cfg.APITCG.APIKey)
		assert.Equal(t, 5*time.Second, cfg.APITCG.Timeout)
		assert.Equal(t, "https://apitcg.com/api", cfg.APITCG.BaseURL)
		assert.Equal(t, "/var/lib/cards.db", cfg.Store.SQLitePath)
		assert.Equal(t, []string{"https://file.example"}, cfg.AllowedOrigins)
	})

	t.Run("存在しない設定ファイルはエラー", func(t *testing.T) {
		t.Parallel()

		_, err := LoadFrom(env(map[string]string{
			"CONFIG_FILE": filepath.Join(t.TempDir(), "missing.yaml"),
			"API_KEY":     "secret",
		}))
		assert.Error(t, err)
	})

	t.Run("不正なタイムアウトはエラー", func(t *testing.T) {
		t.Parallel()

		_, err := LoadFrom(env(map[string]string{
			"API_KEY":        "secret",
			"MONGO_URI":      "mongodb://localhost",
			"APITCG_TIMEOUT": "soon",
		}))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		cfg := Default()
		cfg.APIKey = "secret"
		cfg.Store.MongoURI = "mongodb://localhost"
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{name: "有効な設定", mutate: func(*Config) {}, want: nil},
		{name: "API_KEYが空", mutate: func(c *Config) { c.APIKey = "" }, want: ErrMissingAPIKey},
		{name: "未知のドライバ", mutate: func(c *Config) { c.Store.Driver = "postgres" }, want: ErrUnknownDriver},
		{name: "MongoのURIが空", mutate: func(c *Config) { c.Store.MongoURI = "" }, want: ErrMissingMongoURI},
		{
			name:   "SQLiteのパスが空",
			mutate: func(c *Config) { c.Store.Driver = DriverSQLite; c.Store.SQLitePath = "" },
			want:   ErrMissingSQLitePath,
		},
		{name: "タイムアウトが0", mutate: func(c *Config) { c.APITCG.Timeout = 0 }, want: ErrInvalidTimeout},
		{name: "タイムアウトが負", mutate: func(c *Config) { c.Scryfall.Timeout = -time.Second }, want: ErrInvalidTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
