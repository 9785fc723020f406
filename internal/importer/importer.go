// Package importer はカードドキュメントをファイルからドキュメントストアへ取り込む。
//
// 入力はJSON配列、または1行1ドキュメントのNDJSONを受け付ける。
package importer

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/nao1215/cardhub/internal/store"
)

// DefaultBatchSize は1トランザクションで登録する件数。
const DefaultBatchSize = 500

// Writer はドキュメントを登録できるストア。
type Writer interface {
	// PutMany は複数のドキュメントをまとめて登録する。
	PutMany(ctx context.Context, collection string, docs []store.Document) error
}

// Decode は入力からドキュメントを読み込む。数値はjson.Numberのまま保持する。
func Decode(r io.Reader) ([]store.Document, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if errors.Is(err, io.EOF) {
		return []store.Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("入力の読み込みに失敗: %w", err)
	}

	dec := json.NewDecoder(br)
	dec.UseNumber()

	if first == '[' {
		var docs []store.Document
		if err := dec.Decode(&docs); err != nil {
			return nil, fmt.Errorf("JSON配列のデコードに失敗: %w", err)
		}
		return docs, nil
	}

	docs := []store.Document{}
	for line := 1; ; line++ {
		var doc store.Document
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%d件目のデコードに失敗: %w", line, err)
		}
		docs = append(docs, doc)
	}
}

// Load はドキュメントをbatch件ずつcollectionに登録し、登録件数を返す。
func Load(ctx context.Context, w Writer, collection string, docs []store.Document, batch int) (int, error) {
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	n := 0
	for start := 0; start < len(docs); start += batch {
		end := min(start+batch, len(docs))
		if err := w.PutMany(ctx, collection, docs[start:end]); err != nil {
			return n, fmt.Errorf("%d件目から%d件目の登録に失敗: %w", start+1, end, err)
		}
		n = end
	}
	return n, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}
