package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/qrpay/internal/qrpay/domain"
	"github.com/aussiebroadwan/qrpay/internal/qrpay/events"
	"github.com/aussiebroadwan/qrpay/internal/qrpay/store"
	"github.com/aussiebroadwan/qrpay/pkg/cryptox"
	"github.com/aussiebroadwan/qrpay/pkg/idx"
	"github.com/aussiebroadwan/qrpay/pkg/slogx"
	"github.com/google/uuid"
)

const (
	// DefaultTokenTTL is how long a freshly minted code stays redeemable.
	DefaultTokenTTL = 15 * time.Minute
	// DefaultTopic is where progress events go after a successful Verify.
	DefaultTopic = "payment-updates"

	publishTimeout = 5 * time.Second
)

var (
	ErrInvalidRequest       = errors.New("invalid_request")
	ErrStorage              = errors.New("storage_error")
	ErrInvalidOrExpiredCode = errors.New("invalid_or_expired_code")
	ErrExpiredCode          = errors.New("expired_code")
	ErrInvalidPayload       = errors.New("invalid_payload")

	// ErrAlreadyUsed is returned when a concurrent Verify consumed the token
	// first. It matches ErrInvalidOrExpiredCode so callers cannot tell the
	// two apart.
	ErrAlreadyUsed = fmt.Errorf("%w: already used", ErrInvalidOrExpiredCode)
)

type QRTokenConfig struct {
	// Passphrase seals every token payload. Required.
	Passphrase string
	TokenTTL   time.Duration
	// Topic receives the progress event after each successful Verify.
	Topic string
	// BurnOnInvalidPayload marks a token used when its payload fails to
	// decrypt or validate, so a tampered code cannot be probed again.
	BurnOnInvalidPayload bool
}

// QRTokenService mints and consumes one-time QR payment tokens.
type QRTokenService struct {
	Store     store.Store
	Publisher events.Publisher
	Config    QRTokenConfig

	// Now defaults to time.Now; tests pin it.
	Now func() time.Time
}

func NewQRTokenService(cfg QRTokenConfig, st store.Store, pub events.Publisher) (*QRTokenService, error) {
	if cfg.Passphrase == "" {
		return nil, errors.New("qr token service: passphrase is required")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}
	if pub == nil {
		pub = events.Nop{}
	}
	return &QRTokenService{
		Store:     st,
		Publisher: pub,
		Config:    cfg,
		Now:       time.Now,
	}, nil
}

type GenerateRequest struct {
	LoanID string
	Amount float64
	UserID string
}

type GenerateResult struct {
	Code      string
	ExpiresAt time.Time
}

type VerifyResult struct {
	PaymentID string
	Payment   domain.Payment
	Progress  domain.PaymentProgress
}

func (s *QRTokenService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// Generate seals {loanId, amount, userId, timestamp} and stores a new unused
// token that expires after the configured TTL.
func (s *QRTokenService) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	l := slogx.FromContext(ctx)

	req.LoanID = strings.TrimSpace(req.LoanID)
	req.UserID = strings.TrimSpace(req.UserID)
	if req.LoanID == "" || req.UserID == "" || !validAmount(req.Amount) {
		return GenerateResult{}, ErrInvalidRequest
	}

	now := s.now()
	plaintext, err := marshalPayload(Payload{
		LoanID:    req.LoanID,
		Amount:    req.Amount,
		UserID:    req.UserID,
		Timestamp: now.Format(time.RFC3339Nano),
	})
	if err != nil {
		return GenerateResult{}, fmt.Errorf("marshal payload: %w", err)
	}

	sealed, err := cryptox.EncryptString(plaintext, s.Config.Passphrase)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("encrypt payload: %w", err)
	}

	ttl := s.Config.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	token := domain.QRToken{
		Code:          uuid.NewString(),
		EncryptedData: sealed,
		UserID:        req.UserID,
		LoanID:        req.LoanID,
		Amount:        req.Amount,
		ExpiresAt:     now.Add(ttl),
		CreatedAt:     now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.QRTokens().CreateToken(ctx, token); err != nil {
			return fmt.Errorf("create token: %w", err)
		}
		return tx.AuditLogs().CreateAuditLog(ctx, newAudit(domain.AuditQRGenerated, token, now, map[string]any{
			"loanId":    token.LoanID,
			"amount":    token.Amount,
			"expiresAt": token.ExpiresAt,
		}))
	})
	if err != nil {
		l.Error("qr token generation failed", "loan_id", token.LoanID, "error", err)
		return GenerateResult{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	l.Info("qr token generated",
		"code_fp", cryptox.ShortFingerprint(token.Code),
		"loan_id", token.LoanID,
		"user_id", token.UserID,
		"expires_at", token.ExpiresAt,
	)

	return GenerateResult{Code: token.Code, ExpiresAt: token.ExpiresAt}, nil
}

// Verify consumes the token identified by code exactly once and records the
// payment it carries. The progress broadcast happens after commit and its
// failure never fails the call.
func (s *QRTokenService) Verify(ctx context.Context, code string) (VerifyResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return VerifyResult{}, ErrInvalidOrExpiredCode
	}

	l := slogx.FromContext(ctx).With("code_fp", cryptox.ShortFingerprint(code))

	token, err := s.Store.QRTokens().GetUnusedByCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("qr token not found or already used")
			return VerifyResult{}, ErrInvalidOrExpiredCode
		}
		return VerifyResult{}, fmt.Errorf("%w: get token: %w", ErrStorage, err)
	}

	now := s.now()
	if token.Expired(now) {
		l.Info("qr token expired", "expires_at", token.ExpiresAt)
		return VerifyResult{}, ErrExpiredCode
	}

	payload, err := s.open(token)
	if err != nil {
		s.rejectPayload(ctx, l, token, now, err)
		return VerifyResult{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	payment := domain.Payment{
		ID:        idx.NewAt(idx.PrefixPayment, now).String(),
		LoanID:    payload.LoanID,
		UserID:    payload.UserID,
		Amount:    payload.Amount,
		Method:    domain.PaymentMethodQRCode,
		Reference: token.Code,
		CreatedAt: now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.QRTokens().ConsumeToken(ctx, token.Code, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrAlreadyUsed
			}
			return fmt.Errorf("%w: consume token: %w", ErrStorage, err)
		}
		if err := tx.Payments().CreatePayment(ctx, payment); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrAlreadyUsed
			}
			return fmt.Errorf("%w: create payment: %w", ErrStorage, err)
		}
		err := tx.AuditLogs().CreateAuditLog(ctx, newAudit(domain.AuditQRVerified, token, now, map[string]any{
			"paymentId": payment.ID,
			"amount":    payment.Amount,
		}))
		if err != nil {
			return fmt.Errorf("%w: create audit log: %w", ErrStorage, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyUsed) {
			l.Info("qr token consumed concurrently")
			return VerifyResult{}, ErrAlreadyUsed
		}
		if !errors.Is(err, ErrStorage) {
			err = fmt.Errorf("%w: %w", ErrStorage, err)
		}
		l.Error("qr token verification failed", "error", err)
		return VerifyResult{}, err
	}

	l.Info("qr token verified", "payment_id", payment.ID, "loan_id", payment.LoanID)

	progress := s.broadcast(ctx, l, payment, now)

	return VerifyResult{
		PaymentID: payment.ID,
		Payment:   payment,
		Progress:  progress,
	}, nil
}

// open decrypts the token payload and checks it against the row it was
// stored with.
func (s *QRTokenService) open(t domain.QRToken) (Payload, error) {
	plaintext, err := cryptox.DecryptString(t.EncryptedData, s.Config.Passphrase)
	if err != nil {
		return Payload{}, err
	}
	p, err := parsePayload(plaintext)
	if err != nil {
		return Payload{}, err
	}
	if !p.matches(t) {
		return Payload{}, errors.New("payload does not match token")
	}
	return p, nil
}

// rejectPayload records a payload failure. Recording errors are logged only;
// the caller always reports ErrInvalidPayload.
func (s *QRTokenService) rejectPayload(ctx context.Context, l *slog.Logger, t domain.QRToken, now time.Time, cause error) {
	l.Warn("qr token payload rejected",
		"loan_id", t.LoanID,
		"burn", s.Config.BurnOnInvalidPayload,
		"reason", cause.Error(),
	)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if s.Config.BurnOnInvalidPayload {
			if err := tx.QRTokens().ConsumeToken(ctx, t.Code, now); err != nil && !errors.Is(err, store.ErrNotFound) {
				return err
			}
		}
		return tx.AuditLogs().CreateAuditLog(ctx, newAudit(domain.AuditQRInvalidPayload, t, now, map[string]any{
			"reason": cause.Error(),
			"burned": s.Config.BurnOnInvalidPayload,
		}))
	})
	if err != nil {
		l.Error("failed to record rejected qr payload", "error", err)
	}
}

// broadcast publishes the progress snapshot. It runs on a context detached
// from the request so a client disconnect after commit does not drop it.
func (s *QRTokenService) broadcast(ctx context.Context, l *slog.Logger, p domain.Payment, usedAt time.Time) domain.PaymentProgress {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	progress, err := s.Snapshot(ctx, p.LoanID, p.UserID, domain.SecurityData{
		QRCode: p.Reference,
		Method: p.Method,
		UsedAt: usedAt,
	})
	if err != nil {
		l.Error("failed to build payment progress", "loan_id", p.LoanID, "error", err)
		return domain.PaymentProgress{}
	}

	if s.Publisher == nil {
		return progress
	}

	topic := s.Config.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	ev := events.Event{Type: events.TypePaymentProgress, Data: progress}
	if err := s.Publisher.Publish(ctx, topic, ev); err != nil {
		l.Error("payment progress broadcast failed", "topic", topic, "loan_id", p.LoanID, "error", err)
	}
	return progress
}

func newAudit(action string, t domain.QRToken, now time.Time, details map[string]any) domain.AuditLog {
	raw, err := json.Marshal(details)
	if err != nil {
		raw = []byte("{}")
	}
	return domain.AuditLog{
		ID:         idx.NewAt(idx.PrefixAudit, now).String(),
		Action:     action,
		EntityType: domain.EntityQRToken,
		EntityID:   t.Code,
		UserID:     t.UserID,
		Details:    string(raw),
		CreatedAt:  now,
	}
}
