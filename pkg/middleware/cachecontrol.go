package middleware

import "github.com/gin-gonic/gin"

// DefaultCacheControl は共有キャッシュ向けのCache-Control値。
const DefaultCacheControl = "s-maxage=300, stale-while-revalidate=600"

// CacheControl は全レスポンスにCache-Controlヘッダーを付与するGinミドルウェアを返す。
// エラーレスポンスにも付与する。
func CacheControl(value string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}
