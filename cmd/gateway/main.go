// カードデータゲートウェイのエントリポイント。
// 外部カードAPI、Magic専用アダプタ、ドキュメントストアを1つのREST APIとして公開する。
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nao1215/cardhub/internal/apitcg"
	"github.com/nao1215/cardhub/internal/config"
	"github.com/nao1215/cardhub/internal/gateway"
	"github.com/nao1215/cardhub/internal/magic"
	"github.com/nao1215/cardhub/internal/store"
	"github.com/nao1215/cardhub/internal/store/mongodb"
	"github.com/nao1215/cardhub/internal/store/sqlite"
	"github.com/nao1215/cardhub/pkg/logging"
)

// version はビルド時に -ldflags で上書きする。
var version = "1.0.0"

// shutdownTimeout は終了シグナル受信後に処理中のリクエストを待つ時間。
const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("ロガーの初期化に失敗: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Gatewayサービスが異常終了しました", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			logger.Warn("ストアのクローズに失敗", zap.Error(err))
		}
	}()

	proxy := apitcg.New(cfg.APITCG.BaseURL, cfg.APITCG.APIKey, cfg.APITCG.Timeout)
	if !proxy.Configured() {
		logger.Warn("APITCG_API_KEYが未設定のため、外部カードAPIのゲームは502を返します")
	}

	server, err := gateway.NewServer(gateway.Options{
		APIKey:         cfg.APIKey,
		AllowedOrigins: cfg.AllowedOrigins,
		Version:        version,
		Store:          store.Instrument(st),
		Proxy:          proxy,
		Magic:          magic.New(cfg.Scryfall.BaseURL, cfg.Scryfall.Timeout),
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("Gatewayサーバーの初期化に失敗: %w", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Gatewayサービスを起動します",
			zap.String("addr", httpServer.Addr),
			zap.String("store", cfg.Store.Driver),
			zap.String("version", version),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("Gatewayサービスの起動に失敗: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("終了シグナルを受信しました。処理中のリクエストを待機します")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("Gatewayサービスの停止に失敗: %w", err)
	}
	logger.Info("Gatewayサービスを停止しました")
	return nil
}

// openStore は設定されたドライバのドキュメントストアを開く。
func openStore(ctx context.Context, cfg config.Store, logger *zap.Logger) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		st, err := sqlite.Open(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, fmt.Errorf("SQLiteストアのオープンに失敗: %w", err)
		}
		return st, nil
	case config.DriverMongo:
		st, err := mongodb.Open(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			return nil, fmt.Errorf("MongoDBストアのオープンに失敗: %w", err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.Driver)
	}
}
