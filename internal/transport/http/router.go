package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/staHong/user-auth-account-system/internal/application/account"
	fileapp "github.com/staHong/user-auth-account-system/internal/application/file"
	"github.com/staHong/user-auth-account-system/internal/application/identity"
	"github.com/staHong/user-auth-account-system/internal/application/inquiry"
	"github.com/staHong/user-auth-account-system/internal/application/subaccount"
	"github.com/staHong/user-auth-account-system/internal/application/trend"
	"github.com/staHong/user-auth-account-system/internal/application/verification"
	"github.com/staHong/user-auth-account-system/internal/config"
	"github.com/staHong/user-auth-account-system/internal/domain"
	"github.com/staHong/user-auth-account-system/internal/infrastructure/dynamo"
	jwtinfra "github.com/staHong/user-auth-account-system/internal/infrastructure/jwt"
	redisinfra "github.com/staHong/user-auth-account-system/internal/infrastructure/redis"
	s3infra "github.com/staHong/user-auth-account-system/internal/infrastructure/s3"
	"github.com/staHong/user-auth-account-system/internal/infrastructure/smtp"
	"github.com/staHong/user-auth-account-system/internal/transport/http/handler"
	appmiddleware "github.com/staHong/user-auth-account-system/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	AccountRepo    *dynamo.AccountRepo
	SubAccountRepo *dynamo.SubAccountRepo
	TrendRepo      *dynamo.TrendRepo
	InquiryRepo    *dynamo.InquiryRepo
	FileRepo       *dynamo.FileRepo
	S3Store        *s3infra.Store
	CodeCache      *redisinfra.CodeCache
	Mailer         smtp.Mailer
	JWTProvider    *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.JWTProvider)

	// 5 requests/second with a burst of 10 on sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	resolver := identity.NewResolver(identity.ResolverDeps{
		AccountRepo:    deps.AccountRepo,
		SubAccountRepo: deps.SubAccountRepo,
	})
	accountSvc := account.NewService(account.ServiceDeps{
		AccountRepo:    deps.AccountRepo,
		SubAccountRepo: deps.SubAccountRepo,
		Resolver:       resolver,
		JWTProvider:    deps.JWTProvider,
		Mailer:         deps.Mailer,
		ObjectStore:    deps.S3Store,
		FindIDSubject:  cfg.FindIDSubject,
	})
	subAccountSvc := subaccount.NewService(subaccount.ServiceDeps{
		SubAccountRepo: deps.SubAccountRepo,
		Resolver:       resolver,
	})
	verificationSvc := verification.NewService(verification.ServiceDeps{
		CodeCache: deps.CodeCache,
		Resolver:  resolver,
		Mailer:    deps.Mailer,
		Config:    cfg,
	})
	fileSvc := fileapp.NewService(fileapp.ServiceDeps{
		FileRepo:    deps.FileRepo,
		ObjectStore: deps.S3Store,
	})
	trendSvc := trend.NewService(trend.ServiceDeps{
		TrendRepo:   deps.TrendRepo,
		Attachments: fileSvc,
	})
	inquirySvc := inquiry.NewService(inquiry.ServiceDeps{
		InquiryRepo: deps.InquiryRepo,
	})

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(accountSvc, verificationSvc)
	accountH := handler.NewAccountHandler(accountSvc, resolver)
	subAccountH := handler.NewSubAccountHandler(subAccountSvc)
	verificationH := handler.NewVerificationHandler(verificationSvc)
	trendH := handler.NewTrendHandler(trendSvc)
	inquiryH := handler.NewInquiryHandler(inquirySvc)
	fileH := handler.NewFileHandler(fileSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check", healthH.Ping)

		r.With(sensitiveRL.Limit).Post("/auth/login", authH.Login)
		r.With(sensitiveRL.Limit).Post("/auth/find-id", authH.FindID)
		r.With(sensitiveRL.Limit).Post("/auth/recovery-code", authH.RequestRecoveryCode)
		r.With(sensitiveRL.Limit).Post("/auth/reset-password", authH.ResetPassword)
		r.With(sensitiveRL.Limit).Post("/verification/send", verificationH.SendCode)
		r.With(sensitiveRL.Limit).Post("/verification/verify", verificationH.VerifyCode)
		r.With(sensitiveRL.Limit).Post("/accounts", accountH.Register)
		r.Get("/accounts/check-id", accountH.CheckID)
		r.Get("/accounts/check-email", accountH.CheckEmail)

		r.Get("/trends", trendH.List)
		r.Get("/trends/{id}", trendH.Get)
		r.Get("/files/{id}", fileH.Download)
		r.Get("/boards/{boardID}/files", fileH.ListByBoard)

		r.Post("/inquiries", inquiryH.Create)
		r.Get("/inquiries", inquiryH.ListPublic)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/accounts/me", accountH.Me)
			r.Get("/inquiries/all", inquiryH.ListAll)
			r.Get("/inquiries/{id}", inquiryH.Get)

			// Primary accounts only: my-page changes, sub-account management
			// and board administration are off-limits to delegated logins.
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireKind(domain.KindPrimary))

				r.Put("/accounts/me", accountH.Update)
				r.Delete("/accounts/me", accountH.Withdraw)

				r.Post("/sub-accounts", subAccountH.Add)
				r.Get("/sub-accounts", subAccountH.List)
				r.Delete("/sub-accounts/{id}", subAccountH.Delete)

				r.Post("/trends", trendH.Create)
				r.Delete("/trends/{id}", trendH.Delete)
				r.Post("/inquiries/{id}/answer", inquiryH.Answer)
			})
		})
	})

	return r
}
