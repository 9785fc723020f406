// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// APIキー認証、リクエストID、アクセスログ、Prometheusメトリクス、
// パニックリカバリ、CORS、Cache-Controlを含む。
// エラーレスポンスはすべてAbortWithErrorを通して {"detail": ...} の形で返す。
package middleware
