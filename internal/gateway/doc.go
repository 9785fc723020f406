// Package gateway はカードデータゲートウェイのHTTPサーバーを提供する。
//
// ゲームごとに異なるバックエンド（外部カードAPIへのプロキシ、Magic専用アダプタ、
// ドキュメントストア）を、1つの一貫したREST APIとして公開する。
// すべてのAPIリクエストは共有シークレットによる認証を通過した後、
// ゲームの定義に従ってバックエンドに振り分けられる。
package gateway
