package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/qrpay/internal/qrpay/service"
	"github.com/aussiebroadwan/qrpay/pkg/httpx"
	"github.com/aussiebroadwan/qrpay/pkg/qrsdk"
	"github.com/aussiebroadwan/qrpay/pkg/slogx"
)

const verifiedMessage = "Payment processed successfully"

type VerifyHandler struct {
	QRTokenService *service.QRTokenService
}

// ServeHTTP godoc
//
//	@Summary		Verify QR Code Endpoint
//	@Description	Redeem a QR code. On success the token is consumed, a payment is recorded and progress is broadcast.
//	@Description	Unknown and already used codes share one error message.
//	@Tags			QR Codes
//	@Accept			json
//	@Produce		json
//	@Param			request	body		qrsdk.VerifyRequest		true	"Verify request"
//	@Success		200		{object}	qrsdk.VerifyResponse	"success, message, paymentId"
//	@Failure		400		{object}	httpx.ErrorResponse		"success, error"
//	@Failure		429		{object}	httpx.ErrorResponse		"success, error"
//	@Failure		500		{object}	httpx.ErrorResponse		"success, error"
//	@Router			/verify [post].
func (h *VerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req qrsdk.VerifyRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		qrsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	res, err := h.QRTokenService.Verify(ctx, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExpiredCode):
			qrsdk.ErrExpiredCode.WriteError(w)
		case errors.Is(err, service.ErrInvalidPayload):
			qrsdk.ErrInvalidPayload.WriteError(w)
		case errors.Is(err, service.ErrInvalidOrExpiredCode):
			// ErrAlreadyUsed lands here too
			qrsdk.ErrInvalidOrExpiredCode.WriteError(w)
		default:
			log.Error("failed to verify qr code", "err", err)
			qrsdk.ErrInternal.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, qrsdk.VerifyResponse{
		Success:   true,
		Message:   verifiedMessage,
		PaymentID: res.PaymentID,
	})
}
