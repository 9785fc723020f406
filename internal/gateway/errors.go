package gateway

import "github.com/nao1215/cardhub/pkg/apierror"

// ハンドラが返す定型のエラー。
var (
	errGameNotFound   = apierror.New(apierror.GameNotFound, "game not found")
	errGameNotHandled = apierror.New(apierror.GameNotHandled, "game not enabled for this operation")
	errCardNotFound   = apierror.New(apierror.CardNotFound, "card not found")
	errBulkBody       = apierror.New(apierror.BadRequest, "send a JSON body with an 'ids' list")
)
