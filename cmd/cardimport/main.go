// カードドキュメントをSQLiteのドキュメントストアへ取り込むコマンド。
//
// 使い方:
//
//	cardimport -db /data/cards.db -collection sorcery -file sorcery.json
//	cardimport -db /data/cards.db -meta meta.json
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/nao1215/cardhub/internal/game"
	"github.com/nao1215/cardhub/internal/importer"
	"github.com/nao1215/cardhub/internal/store"
	"github.com/nao1215/cardhub/internal/store/sqlite"
	"github.com/nao1215/cardhub/pkg/logging"
)

func main() {
	var (
		dbPath     = flag.String("db", "/data/cards.db", "SQLiteデータベースのパス")
		collection = flag.String("collection", "", "取り込み先のゲーム識別子（例: sorcery）")
		file       = flag.String("file", "", "カードドキュメントのファイル（JSON配列またはNDJSON）")
		metaFile   = flag.String("meta", "", "サービスメタデータのJSONファイル")
		batch      = flag.Int("batch", importer.DefaultBatchSize, "1トランザクションで登録する件数")
		logLevel   = flag.String("log-level", "info", "ログレベル")
	)
	flag.Parse()

	logger, err := logging.New(*logLevel)
	if err != nil {
		log.Fatalf("ロガーの初期化に失敗: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(context.Background(), logger, *dbPath, *collection, *file, *metaFile, *batch); err != nil {
		logger.Fatal("取り込みに失敗しました", zap.Error(err))
	}
}

func run(ctx context.Context, logger *zap.Logger, dbPath, collection, file, metaFile string, batch int) error {
	if file == "" && metaFile == "" {
		return errors.New("-file または -meta を指定してください")
	}

	st, err := sqlite.Open(ctx, dbPath, logger)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close(ctx) }()

	if file != "" {
		d, ok := game.Default().Resolve(collection)
		if !ok || !d.Stored() {
			return fmt.Errorf("ドキュメントストアのゲームではありません: %q", collection)
		}
		docs, err := readDocuments(file)
		if err != nil {
			return err
		}
		n, err := importer.Load(ctx, st, d.Collection, docs, batch)
		if err != nil {
			return err
		}
		logger.Info("カードを取り込みました", zap.String("collection", d.Collection), zap.Int("count", n))
	}

	if metaFile != "" {
		raw, err := os.ReadFile(metaFile)
		if err != nil {
			return fmt.Errorf("メタデータファイルの読み込みに失敗: %w", err)
		}
		var meta store.Document
		if err := json.Unmarshal(raw, &meta); err != nil {
			return fmt.Errorf("メタデータのデコードに失敗: %w", err)
		}
		if err := st.SetMeta(ctx, meta); err != nil {
			return err
		}
		logger.Info("メタデータを保存しました")
	}
	return nil
}

func readDocuments(path string) ([]store.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ファイルのオープンに失敗: %w", err)
	}
	defer f.Close()
	return importer.Decode(f)
}
