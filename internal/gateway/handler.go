package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/cardhub/internal/filter"
	"github.com/nao1215/cardhub/internal/game"
	"github.com/nao1215/cardhub/internal/magic"
	"github.com/nao1215/cardhub/internal/pagination"
	"github.com/nao1215/cardhub/internal/store"
	"github.com/nao1215/cardhub/pkg/apierror"
	"github.com/nao1215/cardhub/pkg/middleware"
)

// 予約済みのカードID。:card_idの位置で別の操作に振り分ける。
const (
	cardLookup = "lookup"
	cardRandom = "random"
)

// bulkConcurrency はbulkで同時に発行するストア検索の上限。
const bulkConcurrency = 8

// maxBulkBody はbulkのリクエストボディの上限（バイト）。
const maxBulkBody = 1 << 20

// handleHealth はストアへの疎通を確認するハンドラを返す。
func (s *Server) handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.store.Ping(c.Request.Context()); err != nil {
			s.logger.Warn("ストアへの疎通確認に失敗", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "service": ServiceName})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": ServiceName})
	}
}

// handleMeta はサービスメタデータを返すハンドラを返す。
// ストアにメタデータが無い場合はサービス名、バージョン、ゲーム一覧を返す。
func (s *Server) handleMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		meta, err := s.store.Meta(c.Request.Context())
		if err != nil {
			s.fail(c, apierror.Backend(err))
			return
		}
		if meta == nil {
			meta = store.Document{
				"name":    ServiceName,
				"version": s.version,
				"games":   s.registry.IDs(),
			}
		}
		c.JSON(http.StatusOK, meta)
	}
}

// handleList はゲームのカード一覧を返すハンドラを返す。
// 外部APIのゲームはクエリ文字列をそのまま上流に転送し、レスポンスを加工せずに返す。
func (s *Server) handleList() gin.HandlerFunc {
	return func(c *gin.Context) {
		d, ok := s.registry.Resolve(c.Param("game"))
		if !ok {
			s.fail(c, errGameNotFound)
			return
		}

		if d.Backend == game.External {
			body, err := s.proxy.Fetch(c.Request.Context(), d.ID, c.Request.URL.RawQuery)
			if err != nil {
				s.fail(c, err)
				return
			}
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			return
		}

		params := c.Request.URL.Query()
		p, err := pagination.Parse(params)
		if err != nil {
			s.fail(c, err)
			return
		}

		if d.Backend == game.Magic {
			page, err := s.magic.Search(c.Request.Context(), magic.ParseQuery(params, p))
			if err != nil {
				s.fail(c, err)
				return
			}
			c.JSON(http.StatusOK, page)
			return
		}

		f, err := d.Translator.Translate(params)
		if err != nil {
			var paramErr *filter.ParamError
			if errors.As(err, &paramErr) {
				err = apierror.Wrap(apierror.BadRequest, paramErr.Error(), err)
			}
			s.fail(c, err)
			return
		}

		var (
			total int64
			docs  []store.Document
		)
		g, ctx := errgroup.WithContext(c.Request.Context())
		g.Go(func() error {
			n, err := s.store.Count(ctx, d.Collection, f)
			total = n
			return err
		})
		g.Go(func() error {
			found, err := s.store.Find(ctx, d.Collection, f, p.Page, p.Limit)
			docs = found
			return err
		})
		if err := g.Wait(); err != nil {
			s.fail(c, apierror.Backend(err))
			return
		}

		c.JSON(http.StatusOK, pagination.Assemble(docs, p.Page, p.Limit, total))
	}
}

// handleCard は1件のカードを返すハンドラを返す。
// card_idが "lookup" または "random" の場合はそれぞれの操作に振り分ける。
func (s *Server) handleCard() gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := s.stored(c.Param("game"))
		if err != nil {
			s.fail(c, err)
			return
		}

		switch id := c.Param("card_id"); id {
		case cardLookup:
			s.lookup(c, d)
		case cardRandom:
			s.random(c, d)
		default:
			s.byID(c, d, id)
		}
	}
}

// byID はidフィールドが一致するカードを返す。
func (s *Server) byID(c *gin.Context, d game.Descriptor, id string) {
	doc, err := s.store.FindByID(c.Request.Context(), d.Collection, id)
	if err != nil {
		s.fail(c, apierror.Backend(err))
		return
	}
	if doc == nil {
		s.fail(c, errCardNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": doc})
}

// lookup はqをIDとして検索し、見つからなければ名前として検索する。
func (s *Server) lookup(c *gin.Context, d game.Descriptor) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		s.fail(c, apierror.New(apierror.BadRequest, "query parameter 'q' is required"))
		return
	}

	ctx := c.Request.Context()
	doc, err := s.store.FindByID(ctx, d.Collection, q)
	if err == nil && doc == nil {
		doc, err = s.store.FindByName(ctx, d.Collection, q)
	}
	if err != nil {
		s.fail(c, apierror.Backend(err))
		return
	}
	if doc == nil {
		s.fail(c, errCardNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": doc})
}

// random はコレクションから任意の1件を返す。コレクションが空の場合dataはnull。
func (s *Server) random(c *gin.Context, d game.Descriptor) {
	doc, err := s.store.FindRandom(c.Request.Context(), d.Collection)
	if err != nil {
		s.fail(c, apierror.Backend(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": doc})
}

// bulkRequest はbulkのリクエストボディ。
type bulkRequest struct {
	// IDs は取得するカードID。文字列以外の要素は見つからないものとして扱う。
	IDs []any `json:"ids"`
}

// handleBulk は複数のカードをIDでまとめて取得するハンドラを返す。
// 見つからないIDは結果から除き、結果はリクエストのIDの順に並べる。
func (s *Server) handleBulk() gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := s.stored(c.Param("game"))
		if err != nil {
			s.fail(c, err)
			return
		}

		var req bulkRequest
		if err := json.NewDecoder(http.MaxBytesReader(c.Writer, c.Request.Body, maxBulkBody)).Decode(&req); err != nil {
			s.fail(c, apierror.Wrap(apierror.BadRequest, errBulkBody.Detail, err))
			return
		}
		if req.IDs == nil {
			s.fail(c, errBulkBody)
			return
		}

		found := make([]store.Document, len(req.IDs))
		g, ctx := errgroup.WithContext(c.Request.Context())
		g.SetLimit(bulkConcurrency)
		for i, v := range req.IDs {
			id, ok := v.(string)
			if !ok {
				continue
			}
			g.Go(func() error {
				doc, err := s.store.FindByID(ctx, d.Collection, id)
				found[i] = doc
				return err
			})
		}
		if err := g.Wait(); err != nil {
			s.fail(c, apierror.Backend(err))
			return
		}

		data := make([]store.Document, 0, len(found))
		for _, doc := range found {
			if doc != nil {
				data = append(data, doc)
			}
		}
		c.JSON(http.StatusOK, gin.H{"count": len(data), "data": data})
	}
}

// stored はドキュメントストアから提供されるゲームの定義を返す。
func (s *Server) stored(id string) (game.Descriptor, error) {
	d, ok := s.registry.Resolve(id)
	if !ok {
		return game.Descriptor{}, errGameNotFound
	}
	if !d.Stored() {
		return game.Descriptor{}, errGameNotHandled
	}
	return d, nil
}

// fail はエラーレスポンスを返す。上流とストアの失敗は原因をwarnで記録する。
func (s *Server) fail(c *gin.Context, err error) {
	if apierror.Is(err, apierror.BackendUnavailable) {
		s.logger.Warn("バックエンドの呼び出しに失敗",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("game", c.Param("game")),
			zap.Error(err),
		)
	}
	middleware.AbortWithError(c, err)
}
