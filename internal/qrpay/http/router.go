package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/aussiebroadwan/qrpay/internal/qrpay/events"
	"github.com/aussiebroadwan/qrpay/internal/qrpay/service"
	"github.com/aussiebroadwan/qrpay/internal/qrpay/store"
	"github.com/aussiebroadwan/qrpay/pkg/httpx"
	"github.com/aussiebroadwan/qrpay/pkg/slogx"

	_ "github.com/aussiebroadwan/qrpay/api/qrpay" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Pinger is an optional dependency checked by /readyz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	cors         httpx.CORSConfig

	store          store.Store
	QRTokenService *service.QRTokenService
	Hub            *events.Hub
	Broker         Pinger // Optional: only set when AMQP is configured

	// DefaultTopic is used by /events when no topic is given.
	DefaultTopic  string
	GenerateLimit httpx.RateLimitConfig
	VerifyLimit   httpx.RateLimitConfig
	// TrustedProxies may set X-Forwarded-For; everyone else is keyed by peer address.
	TrustedProxies []netip.Prefix
}

func NewRouter(
	buildVersion string,
	st store.Store,
	cors httpx.CORSConfig,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		store:         st,
		logger:        logger,
		cors:          cors,
		DefaultTopic:  service.DefaultTopic,
		GenerateLimit: httpx.GenerateLimit,
		VerifyLimit:   httpx.VerifyLimit,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(),
		httpx.CORS(r.cors),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerQRCodes()
	r.registerEvents()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			QR Payment Token Service API
//	@version		0.1.0
//	@description	Mints one-time encrypted QR codes for loan repayments and redeems them exactly once.
//	@description
//	@description	A successful verification records a payment and broadcasts the loan's payment progress on the events websocket.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/qrpay
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerQRCodes() {
	generateHandler := &GenerateHandler{QRTokenService: r.QRTokenService}
	verifyHandler := &VerifyHandler{QRTokenService: r.QRTokenService}

	r.Mux.Handle("POST /generate",
		httpx.Chain(generateHandler,
			httpx.RateLimitByIP(r.GenerateLimit, r.TrustedProxies...),
		),
	)

	// Verify is reachable on / as well, for scanners configured with the bare function URL
	verify := httpx.Chain(verifyHandler,
		httpx.RateLimitByIP(r.VerifyLimit, r.TrustedProxies...),
	)
	r.Mux.Handle("POST /verify", verify)
	r.Mux.Handle("POST /{$}", verify)
}

func (r *Router) registerEvents() {
	h := &EventsHandler{
		Hub:          r.Hub,
		DefaultTopic: r.DefaultTopic,
		Origins:      r.cors.AllowedOrigins,
	}

	r.Mux.Handle("GET /events",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.PublicLimit, r.TrustedProxies...),
		),
	)
}

func (r *Router) registerSystem() {
	// Monitoring systems may poll frequently
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit, r.TrustedProxies...),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.Broker),
			httpx.RateLimitByIP(httpx.PublicLimit, r.TrustedProxies...),
		),
	)
}
