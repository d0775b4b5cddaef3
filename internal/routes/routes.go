package routes

import (
	"time"

	"github.com/casetrackapp/backend/internal/auth"
	"github.com/casetrackapp/backend/internal/config"
	"github.com/casetrackapp/backend/internal/handlers"
	"github.com/casetrackapp/backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	validator *auth.Validator,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	featureHandler *handlers.FeatureHandler,
	caseHandler *handlers.CaseHandler,
	commentHandler *handlers.CommentHandler,
	approvalHandler *handlers.ApprovalHandler,
	attachmentHandler *handlers.AttachmentHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter limit. Throttling lives here at the
	// transport boundary; the auth core itself does none.
	authGroup := api.Group("/auth")
	authGroup.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/logout", authHandler.Logout)

	// Everything below requires a valid access token: the jwtware gate
	// checks signature and expiry, CurrentUser resolves the user and
	// enforces the tokens_valid_from cutoff.
	protected := api.Group("", middleware.JWTProtected(cfg), middleware.CurrentUser(validator))

	protected.Get("/me", authHandler.Me)

	protected.Post("/features", featureHandler.CreateFeature)
	protected.Get("/features", featureHandler.ListFeatures)
	protected.Get("/features/:id", featureHandler.GetFeature)
	protected.Put("/features/:id", featureHandler.UpdateFeature)
	protected.Delete("/features/:id", featureHandler.DeleteFeature)

	protected.Post("/features/:id/plans", featureHandler.CreatePlan)
	protected.Get("/features/:id/plans", featureHandler.ListPlans)
	protected.Get("/plans/:id", featureHandler.GetPlan)
	protected.Delete("/plans/:id", featureHandler.DeletePlan)

	protected.Post("/plans/:id/cases", caseHandler.CreateCase)
	protected.Get("/cases/:id", caseHandler.GetCase)
	protected.Put("/cases/:id", caseHandler.UpdateCase)
	protected.Patch("/cases/:id/status", caseHandler.UpdateStatus)
	protected.Delete("/cases/:id", caseHandler.DeleteCase)

	protected.Post("/cases/:id/tags", caseHandler.TagCase)
	protected.Delete("/cases/:id/tags/:tagID", caseHandler.UntagCase)
	protected.Get("/tags", caseHandler.ListTags)
	protected.Get("/tags/:id/cases", caseHandler.ListCasesByTag)

	protected.Post("/cases/:id/comments", commentHandler.CreateComment)
	protected.Get("/cases/:id/comments", commentHandler.ListComments)
	protected.Delete("/comments/:id", commentHandler.DeleteComment)

	protected.Post("/plans/:id/approvals", approvalHandler.Review)
	protected.Get("/plans/:id/approvals", approvalHandler.ListApprovals)

	protected.Post("/cases/:id/attachments", attachmentHandler.Upload)
	protected.Get("/cases/:id/attachments", attachmentHandler.List)
	protected.Get("/attachments/:id", attachmentHandler.Download)
	protected.Delete("/attachments/:id", attachmentHandler.Delete)
}
