package router

import (
	"time"

	"csss-site/internal/auth"
	"csss-site/internal/config"
	"csss-site/internal/elections"
	"csss-site/internal/handler"
	"csss-site/internal/middleware"
	"csss-site/internal/perms"
	"csss-site/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// SetupRouter wires the Gin engine, middleware and all API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB, log zerolog.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(log), gin.Recovery())

	sessions := session.NewStore(db, time.Duration(cfg.Session.TTLHours)*time.Hour)
	evaluator := perms.NewEvaluator(db)
	casClient := auth.NewCASClient(cfg.CAS.ServerURL)
	electionSvc := elections.NewService(db, log)

	secureCookie := cfg.Server.Mode == "release"

	authHandler := handler.NewAuthHandler(db, sessions, casClient, evaluator, log,
		cfg.CAS.ServiceURL, secureCookie)
	electionHandler := handler.NewElectionHandler(electionSvc, evaluator)
	registrationHandler := handler.NewRegistrationHandler(electionSvc, evaluator)
	nomineeHandler := handler.NewNomineeHandler(db)
	officerHandler := handler.NewOfficerHandler(db, evaluator, log)
	blogHandler := handler.NewBlogHandler(db)
	examHandler := handler.NewExamHandler(db, cfg.ExamBank)

	api := r.Group("/api")

	// auth
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/logout", authHandler.Logout)
	api.GET("/auth/me", middleware.AuthRequired(sessions, db), authHandler.Me)

	// public reads; admins get extra fields, so the session is
	// resolved when present
	public := api.Group("", middleware.AuthOptional(sessions, db))
	public.GET("/elections/list", electionHandler.List)
	public.GET("/elections/:slug", electionHandler.Get)
	public.GET("/elections/:slug/registrations", registrationHandler.List)
	public.GET("/officers", officerHandler.List)
	public.GET("/blog", blogHandler.List)
	public.GET("/blog/:slug", blogHandler.Get)

	// any authenticated user
	authed := api.Group("", middleware.AuthRequired(sessions, db))
	authed.GET("/nominee-info", nomineeHandler.Get)
	authed.PUT("/nominee-info", nomineeHandler.Put)
	authed.GET("/elections/:slug/registrations/mine", registrationHandler.Mine)
	authed.POST("/elections/:slug/registrations", registrationHandler.Create)
	authed.PATCH("/elections/:slug/registrations/:position", registrationHandler.Update)
	authed.DELETE("/elections/:slug/registrations/:position", registrationHandler.Delete)
	authed.GET("/exams", examHandler.List)
	authed.POST("/exams/:id/token", examHandler.IssueToken)

	// token-gated file serving, no session required
	api.GET("/exams/download", examHandler.Download)

	// election administration
	electionAdmin := api.Group("",
		middleware.AuthRequired(sessions, db),
		middleware.RequireElectionAdmin(evaluator),
	)
	electionAdmin.POST("/elections", electionHandler.Create)
	electionAdmin.PATCH("/elections/:slug", electionHandler.Update)
	electionAdmin.DELETE("/elections/:slug", electionHandler.Delete)
	electionAdmin.GET("/elections/:slug/registrations/export", registrationHandler.Export)

	// site administration
	siteAdmin := api.Group("",
		middleware.AuthRequired(sessions, db),
		middleware.RequireSiteAdmin(evaluator),
	)
	siteAdmin.POST("/officers", officerHandler.Create)
	siteAdmin.PATCH("/officers/:id", officerHandler.Update)
	siteAdmin.DELETE("/officers/:id", officerHandler.Delete)
	siteAdmin.GET("/officers/export", officerHandler.Export)
	siteAdmin.POST("/blog", blogHandler.Create)
	siteAdmin.PATCH("/blog/:slug", blogHandler.Update)
	siteAdmin.DELETE("/blog/:slug", blogHandler.Delete)

	return r
}
