package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/qrpay/internal/qrpay/service"
	"github.com/aussiebroadwan/qrpay/pkg/httpx"
	"github.com/aussiebroadwan/qrpay/pkg/qrsdk"
	"github.com/aussiebroadwan/qrpay/pkg/slogx"
)

type GenerateHandler struct {
	QRTokenService *service.QRTokenService
}

// ServeHTTP godoc
//
//	@Summary		Generate QR Code Endpoint
//	@Description	Mint a one-time payment code for a loan. The code is valid for 15 minutes and can be redeemed once.
//	@Tags			QR Codes
//	@Accept			json
//	@Produce		json
//	@Param			request	body		qrsdk.GenerateRequest	true	"Generate request"
//	@Success		200		{object}	qrsdk.GenerateResponse	"success, code, expiresAt"
//	@Failure		400		{object}	httpx.ErrorResponse		"success, error"
//	@Failure		429		{object}	httpx.ErrorResponse		"success, error"
//	@Failure		500		{object}	httpx.ErrorResponse		"success, error"
//	@Router			/generate [post].
func (h *GenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req qrsdk.GenerateRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		qrsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	res, err := h.QRTokenService.Generate(ctx, service.GenerateRequest{
		LoanID: req.LoanID,
		Amount: req.Amount,
		UserID: req.UserID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			qrsdk.ErrInvalidRequest.WriteError(w)
		default:
			log.Error("failed to generate qr code", "err", err)
			qrsdk.ErrInternal.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, qrsdk.GenerateResponse{
		Success:   true,
		Code:      res.Code,
		ExpiresAt: res.ExpiresAt,
	})
}
