package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/cardhub/pkg/apierror"
)

// bearerPrefix はAuthorizationヘッダーのスキーム部分。
const bearerPrefix = "Bearer "

// APIKeyAuth は "Authorization: Bearer <token>" を設定済みの共有シークレットと照合するGinミドルウェアを返す。
//
// ヘッダーが無い、またはBearer形式でない場合は401、トークンが一致しない場合は403を返す。
// シークレットが空の場合は全リクエストを500で拒否する。空トークンとの一致で認証が通ることはない。
func APIKeyAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			AbortWithError(c, apierror.New(apierror.ConfigurationFatal, "API key is not configured"))
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			AbortWithError(c, apierror.New(apierror.Unauthenticated, "missing Authorization header"))
			return
		}

		token, found := strings.CutPrefix(authHeader, bearerPrefix)
		if !found {
			AbortWithError(c, apierror.New(apierror.Unauthenticated, "invalid Authorization header format"))
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			AbortWithError(c, apierror.New(apierror.Forbidden, "invalid API key"))
			return
		}

		c.Next()
	}
}
