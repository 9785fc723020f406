// Package apierror はゲートウェイが返すエラーの分類を提供する。
//
// すべてのハンドラはエラーをKindに分類し、KindごとのHTTPステータスと
// 人間が読めるdetailメッセージを持つJSONボディとしてクライアントに返す。
// スタックトレースや内部エラーの詳細はレスポンスに含めない。
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind はエラーの分類。
type Kind int

const (
	// Internal は分類できない内部エラー。
	Internal Kind = iota
	// Unauthenticated はAuthorizationヘッダーが無い、または形式が不正な場合のエラー。
	Unauthenticated
	// Forbidden はトークンが設定値と一致しない場合のエラー。
	Forbidden
	// GameNotFound は未知のゲーム識別子が指定された場合のエラー。
	GameNotFound
	// GameNotHandled は既知だがその操作をドキュメントストアで提供しないゲームのエラー。
	GameNotHandled
	// CardNotFound はカードが存在しない場合のエラー。
	CardNotFound
	// BadRequest はリクエストボディやパラメータが不正な場合のエラー。
	BadRequest
	// BackendUnavailable は上流APIやドキュメントストアとの通信に失敗した場合のエラー。
	BackendUnavailable
	// ConfigurationFatal は必須設定が欠けている場合のエラー。
	ConfigurationFatal
)

// String はKindの名前を返す。
func (k Kind) String() string {
	switch k {
	case Unauthenticated:
		return "Unauthenticated"
	case Forbidden:
		return "Forbidden"
	case GameNotFound:
		return "GameNotFound"
	case GameNotHandled:
		return "GameNotHandled"
	case CardNotFound:
		return "CardNotFound"
	case BadRequest:
		return "BadRequest"
	case BackendUnavailable:
		return "BackendUnavailable"
	case ConfigurationFatal:
		return "ConfigurationFatal"
	default:
		return "Internal"
	}
}

// Status はKindに対応するHTTPステータスコードを返す。
func (k Kind) Status() int {
	switch k {
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case GameNotFound, GameNotHandled, CardNotFound:
		return http.StatusNotFound
	case BadRequest:
		return http.StatusBadRequest
	case BackendUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error はKindとクライアント向けメッセージを持つエラー。
type Error struct {
	// Kind はエラーの分類。
	Kind Kind
	// Detail はレスポンスのdetailフィールドに入るメッセージ。
	Detail string
	// Err は原因となったエラー。ログにのみ出力する。
	Err error
}

// Error はerrorインターフェースを実装する。
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Unwrap は原因となったエラーを返す。
func (e *Error) Unwrap() error {
	return e.Err
}

// Status はHTTPステータスコードを返す。
func (e *Error) Status() int {
	return e.Kind.Status()
}

// New は新しいErrorを生成する。
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// Wrap は原因エラーを保持したErrorを生成する。
func Wrap(kind Kind, detail string, err error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

// Backend は上流の失敗をBackendUnavailableに変換する。
// 上流のエラーメッセージは診断用にdetailへ残す。
func Backend(err error) *Error {
	return &Error{Kind: BackendUnavailable, Detail: err.Error(), Err: err}
}

// From は任意のエラーを*Errorに変換する。
// 分類済みでないエラーはInternalとして扱う。
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &Error{Kind: Internal, Detail: "internal server error", Err: err}
}

// Is はerrがkindに分類されるかを返す。
func Is(err error, kind Kind) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}
