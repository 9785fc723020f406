package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nao1215/cardhub/internal/game"
	"github.com/nao1215/cardhub/internal/magic"
	"github.com/nao1215/cardhub/internal/pagination"
	"github.com/nao1215/cardhub/internal/store"
	"github.com/nao1215/cardhub/pkg/middleware"
)

// ServiceName はメタデータとヘルスチェックで返すサービス名。
const ServiceName = "cardhub"

// Proxy は外部カードAPIへのプロキシ。
type Proxy interface {
	// Fetch はゲームのカード一覧を上流から取得し、JSONボディをそのまま返す。
	Fetch(ctx context.Context, game, rawQuery string) (json.RawMessage, error)
}

// MagicSearcher はMagic専用アダプタ。
type MagicSearcher interface {
	// Search は条件に一致するカードをページ封筒で返す。
	Search(ctx context.Context, q magic.Query) (pagination.Page[json.RawMessage], error)
}

// Options はServerの依存と設定。
type Options struct {
	// APIKey はクライアントが提示する共有シークレット。
	APIKey string
	// AllowedOrigins はCORSで許可するオリジン。
	AllowedOrigins []string
	// Version はメタデータが無い場合に返すバージョン。
	Version string
	// Registry はゲームの定義。nilの場合は全ゲームの定義を使う。
	Registry *game.Registry
	// Store はドキュメントストア。
	Store store.Store
	// Proxy は外部カードAPIのクライアント。
	Proxy Proxy
	// Magic はMagic専用アダプタ。
	Magic MagicSearcher
	// Logger は構造化ロガー。nilの場合は出力しない。
	Logger *zap.Logger
}

// 依存の不足。
var (
	ErrNoStore = errors.New("ドキュメントストアが指定されていません")
	ErrNoProxy = errors.New("外部カードAPIのクライアントが指定されていません")
	ErrNoMagic = errors.New("Magic専用アダプタが指定されていません")
)

// Server はゲートウェイのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// logger は構造化ロガー。
	logger *zap.Logger
	// registry はゲームの定義。
	registry *game.Registry
	// store はドキュメントストア。
	store store.Store
	// proxy は外部カードAPIのクライアント。
	proxy Proxy
	// magic はMagic専用アダプタ。
	magic MagicSearcher
	// apiKey はAPIリクエストの認証に使う共有シークレット。
	apiKey string
	// version はメタデータが無い場合に返すバージョン。
	version string
}

// NewServer は新しいゲートウェイサーバーを生成する。
func NewServer(opts Options) (*Server, error) {
	switch {
	case opts.Store == nil:
		return nil, ErrNoStore
	case opts.Proxy == nil:
		return nil, ErrNoProxy
	case opts.Magic == nil:
		return nil, ErrNoMagic
	}
	if opts.Registry == nil {
		opts.Registry = game.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}

	router := gin.New()
	router.Use(middleware.Recovery(opts.Logger))
	router.Use(middleware.CacheControl(middleware.DefaultCacheControl))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(opts.Logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(opts.AllowedOrigins))

	s := &Server{
		router:   router,
		logger:   opts.Logger,
		registry: opts.Registry,
		store:    opts.Store,
		proxy:    opts.Proxy,
		magic:    opts.Magic,
		apiKey:   opts.APIKey,
		version:  opts.Version,
	}
	s.setupRoutes()

	return s, nil
}

// Handler はサーバーのhttp.Handlerを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	// 運用エンドポイント（認証不要）
	s.router.GET("/health", s.handleHealth())
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 認証必須のエンドポイント
	authed := s.router.Group("/")
	authed.Use(middleware.APIKeyAuth(s.apiKey))
	{
		authed.GET("/", s.handleMeta())

		// lookupとrandomは:card_idと同じ位置のため、handleCardで振り分ける
		authed.GET("/api/:game/cards", s.handleList())
		authed.POST("/api/:game/cards/bulk", s.handleBulk())
		authed.GET("/api/:game/cards/:card_id", s.handleCard())
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "not found"})
	})
}
