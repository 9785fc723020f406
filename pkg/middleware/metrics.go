package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/cardhub/pkg/metrics"
)

// unmatchedRoute はどのルートにも一致しなかったリクエストのラベル。
const unmatchedRoute = "unmatched"

// Metrics はリクエスト数と処理時間をPrometheusに記録するGinミドルウェアを返す。
// ラベルには実パスではなくルートパターンを使い、カーディナリティを抑える。
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metrics.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), start)
	}
}
