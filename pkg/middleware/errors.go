package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/nao1215/cardhub/pkg/apierror"
)

// AbortWithError はエラーを分類してJSONボディ {"detail": ...} を返し、処理を中断する。
// 原因エラーはc.Errorsに積み、アクセスログに出力させる。
func AbortWithError(c *gin.Context, err error) {
	apiErr := apierror.From(err)
	_ = c.Error(apiErr)
	c.AbortWithStatusJSON(apiErr.Status(), gin.H{"detail": apiErr.Detail})
}
