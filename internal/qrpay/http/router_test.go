package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/qrpay/internal/qrpay/domain"
	"github.com/aussiebroadwan/qrpay/internal/qrpay/events"
	"github.com/aussiebroadwan/qrpay/internal/qrpay/service"
	"github.com/aussiebroadwan/qrpay/internal/qrpay/store"
	"github.com/aussiebroadwan/qrpay/internal/qrpay/store/drivers/sqlite"
	"github.com/aussiebroadwan/qrpay/pkg/httpx"
	"github.com/aussiebroadwan/qrpay/pkg/qrsdk"
	"github.com/aussiebroadwan/qrpay/pkg/slogx"
)

const testPassphrase = "correct horse battery staple"

type testEnv struct {
	URL    string
	Client *qrsdk.Client
	Store  store.Store
	Hub    *events.Hub
	Svc    *service.QRTokenService

	mu  sync.Mutex
	now time.Time
}

func (e *testEnv) Now() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now
}

func (e *testEnv) Advance(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = e.now.Add(d)
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return context.DeadlineExceeded }

func newTestEnv(t *testing.T, opts ...func(*Router)) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	logger := slogx.Discard()
	hub := events.NewHub(logger)
	t.Cleanup(hub.Close)

	svc, err := service.NewQRTokenService(service.QRTokenConfig{Passphrase: testPassphrase}, st, hub)
	require.NoError(t, err)

	env := &testEnv{Store: st, Hub: hub, Svc: svc, now: time.Now().UTC()}
	svc.Now = env.Now

	r := NewRouter("test", st, httpx.DefaultCORS, logger)
	r.QRTokenService = svc
	r.Hub = hub
	// Tests hammer a single client IP
	r.GenerateLimit = httpx.PublicLimit
	r.VerifyLimit = httpx.PublicLimit
	for _, opt := range opts {
		opt(r)
	}
	r.ApplyRoutes()

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	env.URL = srv.URL
	env.Client = qrsdk.NewClient(srv.URL)
	return env
}

func TestGenerateAndVerify(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	gen, err := env.Client.Generate(ctx, qrsdk.GenerateRequest{LoanID: "L1", Amount: 5000, UserID: "U1"})
	require.NoError(t, err)
	require.True(t, gen.Success)
	require.NotEmpty(t, gen.Code)
	require.WithinDuration(t, env.Now().Add(15*time.Minute), gen.ExpiresAt, time.Second)

	res, err := env.Client.Verify(ctx, gen.Code)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.NotEmpty(t, res.Message)
	require.NotEmpty(t, res.PaymentID)

	p, err := env.Store.Payments().GetPaymentByReference(ctx, gen.Code)
	require.NoError(t, err)
	require.Equal(t, res.PaymentID, p.ID)
	require.Equal(t, "L1", p.LoanID)
	require.Equal(t, "U1", p.UserID)
	require.Equal(t, 5000.0, p.Amount)
	require.Equal(t, domain.PaymentMethodQRCode, p.Method)

	_, err = env.Client.Verify(ctx, gen.Code)
	require.ErrorIs(t, err, qrsdk.ErrInvalidOrExpiredCode)
}

func TestVerifyUnknownCodeMatchesUsedCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Client.Verify(ctx, "does-not-exist")
	require.ErrorIs(t, err, qrsdk.ErrInvalidOrExpiredCode)

	_, err = env.Client.Verify(ctx, "")
	require.ErrorIs(t, err, qrsdk.ErrInvalidOrExpiredCode)
}

func TestVerifyOnDefaultRoute(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	gen, err := env.Client.Generate(ctx, qrsdk.GenerateRequest{LoanID: "L1", Amount: 10, UserID: "U1"})
	require.NoError(t, err)

	resp, err := http.Post(env.URL+"/", "application/json", strings.NewReader(`{"code":"`+gen.Code+`"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, err = env.Client.Verify(ctx, gen.Code)
	require.ErrorIs(t, err, qrsdk.ErrInvalidOrExpiredCode)
}

func TestVerifyExpiredCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	gen, err := env.Client.Generate(ctx, qrsdk.GenerateRequest{LoanID: "L1", Amount: 10, UserID: "U1"})
	require.NoError(t, err)

	env.Advance(15*time.Minute + time.Second)

	_, err = env.Client.Verify(ctx, gen.Code)
	require.ErrorIs(t, err, qrsdk.ErrExpiredCode)

	tok, err := env.Store.QRTokens().GetByCode(ctx, gen.Code)
	require.NoError(t, err)
	require.False(t, tok.Used)
}

func TestVerifyUndecryptablePayload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Mint with a different key so the stored ciphertext fails authentication
	other, err := service.NewQRTokenService(service.QRTokenConfig{Passphrase: "another passphrase"}, env.Store, nil)
	require.NoError(t, err)
	gen, err := other.Generate(ctx, service.GenerateRequest{LoanID: "L1", Amount: 10, UserID: "U1"})
	require.NoError(t, err)

	_, err = env.Client.Verify(ctx, gen.Code)
	require.ErrorIs(t, err, qrsdk.ErrInvalidPayload)

	_, err = env.Store.Payments().GetPaymentByReference(ctx, gen.Code)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestGenerateInvalidRequests(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"loanId":`},
		{"amount as string", `{"loanId":"L1","amount":"5000","userId":"U1"}`},
		{"missing loan", `{"amount":5000,"userId":"U1"}`},
		{"missing user", `{"loanId":"L1","amount":5000}`},
		{"zero amount", `{"loanId":"L1","amount":0,"userId":"U1"}`},
		{"negative amount", `{"loanId":"L1","amount":-1,"userId":"U1"}`},
		{"trailing data", `{"loanId":"L1","amount":1,"userId":"U1"}{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(env.URL+"/generate", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var body httpx.ErrorResponse
			require.NoError(t, decodeBody(resp, &body))
			require.False(t, body.Success)
			require.Equal(t, qrsdk.MessageInvalidRequest, body.Error)
		})
	}
}

func TestVerifyMalformedBody(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Post(env.URL+"/verify", "application/json", strings.NewReader(`not json`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body httpx.ErrorResponse
	require.NoError(t, decodeBody(resp, &body))
	require.Equal(t, qrsdk.MessageInvalidRequest, body.Error)
}

func TestPreflight(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/generate", "/verify", "/"} {
		req, err := http.NewRequest(http.MethodOptions, env.URL+path, nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "https://scanner.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()

		require.Equal(t, http.StatusNoContent, resp.StatusCode, path)
		require.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"), path)
		require.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPost, path)
	}
}

func TestConcurrentVerifySingleWinner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	gen, err := env.Client.Generate(ctx, qrsdk.GenerateRequest{LoanID: "L1", Amount: 10, UserID: "U1"})
	require.NoError(t, err)

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = env.Client.Verify(ctx, gen.Code)
		}()
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		require.ErrorIs(t, err, qrsdk.ErrInvalidOrExpiredCode)
	}
	require.Equal(t, 1, wins)
	payments, err := env.Store.Payments().ListPaymentsByLoan(ctx, "L1")
	require.NoError(t, err)
	require.Len(t, payments, 1)
}

func TestEventsReceiveProgress(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.Store.Loans().CreateLoan(ctx, domain.Loan{
		ID: "L1", UserID: "U1", SFDID: "SFD1", Amount: 10000, CreatedAt: env.Now(),
	}))

	sub, err := env.Client.Subscribe(ctx, "")
	require.NoError(t, err)
	defer sub.Close()

	require.Eventually(t, func() bool {
		return env.Hub.Subscribers(service.DefaultTopic) == 1
	}, 2*time.Second, 10*time.Millisecond)

	gen, err := env.Client.Generate(ctx, qrsdk.GenerateRequest{LoanID: "L1", Amount: 5000, UserID: "U1"})
	require.NoError(t, err)
	_, err = env.Client.Verify(ctx, gen.Code)
	require.NoError(t, err)

	ev, err := sub.Next()
	require.NoError(t, err)
	require.Equal(t, events.TypePaymentProgress, ev.Type)
	require.Equal(t, "L1", ev.Data.LoanID)
	require.Equal(t, 5000.0, ev.Data.PaidAmount)
	require.Equal(t, 5000.0, ev.Data.RemainingAmount)
	require.Equal(t, 50.0, ev.Data.Progress)
	require.Equal(t, gen.Code, ev.Data.SecurityData.QRCode)
	require.Equal(t, domain.PaymentMethodQRCode, ev.Data.SecurityData.Method)
	require.Len(t, ev.Data.PaymentHistory, 1)
}

func TestEventsCheckOrigin(t *testing.T) {
	h := &EventsHandler{Origins: []string{"https://pay.example.com"}}
	req := httptest.NewRequest(http.MethodGet, "/events", nil)

	req.Header.Set("Origin", "https://evil.example.com")
	require.False(t, h.checkOrigin(req))

	req.Header.Set("Origin", "https://pay.example.com")
	require.True(t, h.checkOrigin(req))

	req.Header.Del("Origin")
	require.True(t, h.checkOrigin(req))

	h.Origins = []string{"*"}
	req.Header.Set("Origin", "https://evil.example.com")
	require.True(t, h.checkOrigin(req))
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	live, err := env.Client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)
	require.Nil(t, live.Checks)

	ready, err := env.Client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, "ok", ready.Checks.Database)
	require.Empty(t, ready.Checks.Broker)
}

func TestReadyzBrokerDownStaysReady(t *testing.T) {
	env := newTestEnv(t, func(r *Router) {
		r.Broker = failingPinger{}
	})

	ready, err := env.Client.GetReadiness(context.Background())
	require.NoError(t, err)
	require.Equal(t, "degraded", ready.Status)
	require.Equal(t, "ok", ready.Checks.Database)
	require.Equal(t, "error", ready.Checks.Broker)
	require.NotContains(t, ready.Checks.Broker, context.DeadlineExceeded.Error())
}

func TestReadyzDatabaseDown(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.Store.Close())

	_, err := env.Client.GetReadiness(context.Background())
	var apiErr *qrsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)

	resp, err := http.Get(env.URL + "/readyz")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body qrsdk.HealthResponse
	require.NoError(t, decodeBody(resp, &body))
	require.Equal(t, "degraded", body.Status)
	require.Equal(t, "error", body.Checks.Database)
}
