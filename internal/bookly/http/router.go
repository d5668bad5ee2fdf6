package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/bookly/internal/bookly/service"
	"github.com/aussiebroadwan/bookly/internal/bookly/store"
	"github.com/aussiebroadwan/bookly/pkg/httpx"
	"github.com/aussiebroadwan/bookly/pkg/jwtx"
	"github.com/aussiebroadwan/bookly/pkg/slogx"

	_ "github.com/aussiebroadwan/bookly/api/bookly" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Limits are the rate limit profiles applied per route class.
type Limits struct {
	Strict   httpx.RateLimitConfig
	Moderate httpx.RateLimitConfig
	Lenient  httpx.RateLimitConfig
	Public   httpx.RateLimitConfig
}

// DefaultLimits returns the httpx profiles.
func DefaultLimits() Limits {
	return Limits{
		Strict:   httpx.StrictLimit,
		Moderate: httpx.ModerateLimit,
		Lenient:  httpx.LenientLimit,
		Public:   httpx.PublicLimit,
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	// Limits and Proxies must be set before ApplyRoutes.
	Limits  Limits
	Proxies httpx.ProxyTrust

	gate         *httpx.Gate
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	revocations Pinger

	AuthService   *service.AuthService
	UserService   *service.UserService
	BookService   *service.BookService
	ReviewService *service.ReviewService
	TagService    *service.TagService
}

func NewRouter(
	gate *httpx.Gate,
	buildVersion string,
	st store.Store,
	revocations Pinger,
	logger *slog.Logger,
	allowedOrigins, allowedHosts []string,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		Limits:       DefaultLimits(),
		gate:         gate,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		revocations:  revocations,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORS(allowedOrigins),
		httpx.TrustedHosts(allowedHosts),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerBooks()
	r.registerReviews()
	r.registerTags()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Bookly API
//	@version		0.1.0
//	@description	Book review service. Users sign up, verify their email and review books.
//	@description
//	@description				Session tokens are HMAC signed JWTs. Logout revokes the presented token only.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/bookly
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access or refresh token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// protected wraps h with the access gate, identity resolution and the role
// policy, then a per user rate limit.
func (r *Router) protected(h http.Handler, limit httpx.RateLimitConfig, roles ...string) http.Handler {
	return httpx.Chain(h,
		r.gate.Middleware(httpx.AccessToken),
		httpx.ResolveIdentity(r.identity()),
		httpx.RequireRoles(roles...),
		httpx.RateLimitByUser(limit, r.Proxies.ClientIP),
	)
}

// identity adapts the user service to the principal the policy checks.
func (r *Router) identity() httpx.IdentityResolver {
	return httpx.IdentityResolverFunc(func(ctx context.Context, claims jwtx.SessionClaims) (httpx.Principal, error) {
		user, err := r.UserService.ResolveIdentity(ctx, claims)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				return httpx.Principal{}, httpx.ErrUnknownIdentity
			}
			return httpx.Principal{}, err
		}
		return httpx.Principal{
			ID:       user.ID,
			Email:    user.Email,
			Role:     user.Role.String(),
			Verified: user.IsVerified,
		}, nil
	})
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService, UserService: r.UserService}

	// Credential and account endpoints - strict rate limit (brute force prevention)
	r.Mux.Handle("POST /api/v1/auth/signup",
		httpx.Chain(http.HandlerFunc(h.HandleSignup),
			httpx.RateLimitByIP(r.Limits.Strict, r.Proxies.ClientIP),
		),
	)
	r.Mux.Handle("POST /api/v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(r.Limits.Strict, r.Proxies.ClientIP, "email"),
		),
	)
	r.Mux.Handle("POST /api/v1/auth/resend-verification",
		httpx.Chain(http.HandlerFunc(h.HandleResendVerification),
			httpx.RateLimitByIPAndJSONField(r.Limits.Strict, r.Proxies.ClientIP, "email"),
		),
	)
	r.Mux.Handle("POST /api/v1/auth/password-reset-request",
		httpx.Chain(http.HandlerFunc(h.HandlePasswordResetRequest),
			httpx.RateLimitByIPAndJSONField(r.Limits.Strict, r.Proxies.ClientIP, "email"),
		),
	)
	r.Mux.Handle("POST /api/v1/auth/password-reset-confirm/{token}",
		httpx.Chain(http.HandlerFunc(h.HandlePasswordResetConfirm),
			httpx.RateLimitByIP(r.Limits.Strict, r.Proxies.ClientIP),
		),
	)

	// Email links are opened from mail clients - lenient
	r.Mux.Handle("GET /api/v1/auth/verify/{token}",
		httpx.Chain(http.HandlerFunc(h.HandleVerifyEmail),
			httpx.RateLimitByIP(r.Limits.Lenient, r.Proxies.ClientIP),
		),
	)

	// Token endpoints only need a valid token, not a verified account
	r.Mux.Handle("GET /api/v1/auth/refresh_token",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			r.gate.Middleware(httpx.RefreshToken),
			httpx.RateLimitByUser(r.Limits.Moderate, r.Proxies.ClientIP),
		),
	)
	r.Mux.Handle("POST /api/v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			r.gate.Middleware(httpx.AccessToken),
			httpx.RateLimitByUser(r.Limits.Moderate, r.Proxies.ClientIP),
		),
	)

	r.Mux.Handle("GET /api/v1/auth/me",
		r.protected(http.HandlerFunc(h.HandleMe), r.Limits.Lenient, "admin", "user"),
	)
	r.Mux.Handle("POST /api/v1/auth/send_mail",
		r.protected(http.HandlerFunc(h.HandleSendMail), r.Limits.Moderate, "admin"),
	)
}

func (r *Router) registerBooks() {
	h := &BooksHandler{BookService: r.BookService}

	r.Mux.Handle("GET /api/v1/books",
		r.protected(http.HandlerFunc(h.HandleList), r.Limits.Lenient, "admin", "user"))
	r.Mux.Handle("POST /api/v1/books",
		r.protected(http.HandlerFunc(h.HandleCreate), r.Limits.Moderate, "admin", "user"))
	r.Mux.Handle("GET /api/v1/books/user/{user_uid}",
		r.protected(http.HandlerFunc(h.HandleListByUser), r.Limits.Lenient, "admin", "user"))
	r.Mux.Handle("GET /api/v1/books/{book_uid}",
		r.protected(http.HandlerFunc(h.HandleGet), r.Limits.Lenient, "admin", "user"))
	r.Mux.Handle("PATCH /api/v1/books/{book_uid}",
		r.protected(http.HandlerFunc(h.HandleUpdate), r.Limits.Moderate, "admin", "user"))
	r.Mux.Handle("DELETE /api/v1/books/{book_uid}",
		r.protected(http.HandlerFunc(h.HandleDelete), r.Limits.Moderate, "admin", "user"))
}

func (r *Router) registerReviews() {
	h := &ReviewsHandler{ReviewService: r.ReviewService}

	r.Mux.Handle("GET /api/v1/reviews",
		r.protected(http.HandlerFunc(h.HandleList), r.Limits.Lenient, "admin", "user"))
	r.Mux.Handle("GET /api/v1/reviews/{review_uid}",
		r.protected(http.HandlerFunc(h.HandleGet), r.Limits.Lenient, "admin", "user"))
	r.Mux.Handle("POST /api/v1/reviews/book/{book_uid}",
		r.protected(http.HandlerFunc(h.HandleCreate), r.Limits.Moderate, "admin", "user"))
	r.Mux.Handle("DELETE /api/v1/reviews/{review_uid}",
		r.protected(http.HandlerFunc(h.HandleDelete), r.Limits.Moderate, "admin", "user"))
}

func (r *Router) registerTags() {
	h := &TagsHandler{TagService: r.TagService}

	r.Mux.Handle("GET /api/v1/tags",
		r.protected(http.HandlerFunc(h.HandleList), r.Limits.Lenient, "admin", "user"))
	r.Mux.Handle("POST /api/v1/tags",
		r.protected(http.HandlerFunc(h.HandleCreate), r.Limits.Moderate, "admin", "user"))
	r.Mux.Handle("POST /api/v1/tags/book/{book_uid}/tags",
		r.protected(http.HandlerFunc(h.HandleAddToBook), r.Limits.Moderate, "admin", "user"))
	r.Mux.Handle("PUT /api/v1/tags/{tag_uid}",
		r.protected(http.HandlerFunc(h.HandleRename), r.Limits.Moderate, "admin", "user"))
	r.Mux.Handle("DELETE /api/v1/tags/{tag_uid}",
		r.protected(http.HandlerFunc(h.HandleDelete), r.Limits.Moderate, "admin", "user"))
}

func (r *Router) registerSystem() {
	// Health check endpoints - public rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.Limits.Public, r.Proxies.ClientIP),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.revocations),
			httpx.RateLimitByIP(r.Limits.Public, r.Proxies.ClientIP),
		),
	)
}
