package store

import (
	"context"

	"github.com/nao1215/cardhub/pkg/metrics"
)

// Instrument はクエリ結果をPrometheusに記録するStoreを返す。
func Instrument(s Store) Store {
	return &instrumented{next: s}
}

type instrumented struct {
	next Store
}

func (i *instrumented) Count(ctx context.Context, collection string, filter Filter) (int64, error) {
	n, err := i.next.Count(ctx, collection, filter)
	metrics.ObserveStore("count", err)
	return n, err
}

func (i *instrumented) Find(ctx context.Context, collection string, filter Filter, page, limit int) ([]Document, error) {
	docs, err := i.next.Find(ctx, collection, filter, page, limit)
	metrics.ObserveStore("find", err)
	return docs, err
}

func (i *instrumented) FindByID(ctx context.Context, collection, id string) (Document, error) {
	doc, err := i.next.FindByID(ctx, collection, id)
	metrics.ObserveStore("find_by_id", err)
	return doc, err
}

func (i *instrumented) FindByName(ctx context.Context, collection, name string) (Document, error) {
	doc, err := i.next.FindByName(ctx, collection, name)
	metrics.ObserveStore("find_by_name", err)
	return doc, err
}

func (i *instrumented) FindRandom(ctx context.Context, collection string) (Document, error) {
	doc, err := i.next.FindRandom(ctx, collection)
	metrics.ObserveStore("find_random", err)
	return doc, err
}

func (i *instrumented) Meta(ctx context.Context) (Document, error) {
	doc, err := i.next.Meta(ctx)
	metrics.ObserveStore("meta", err)
	return doc, err
}

func (i *instrumented) Ping(ctx context.Context) error {
	return i.next.Ping(ctx)
}

func (i *instrumented) Close(ctx context.Context) error {
	return i.next.Close(ctx)
}
