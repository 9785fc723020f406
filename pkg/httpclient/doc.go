// Package httpclient は上流のカードAPIを呼び出すHTTPクライアントを提供する。
//
// 外部カードAPI（apitcg）へのプロキシ、Scryfallでの検索など、
// 上流との通信パターンを統一する。認証ヘッダーの付与、タイムアウト、
// レート制限、2xx以外のステータスのエラー化を共通で扱う。
package httpclient
