package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/geocoder89/recipehub/internal/config"
	"github.com/geocoder89/recipehub/internal/http/handlers"
	"github.com/geocoder89/recipehub/internal/http/middlewares"
	"github.com/geocoder89/recipehub/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps is everything the router needs from main.
type Deps struct {
	Config   config.Config
	Accounts interface {
		handlers.AccountService
		handlers.ProfileService
	}
	Recipes  handlers.RecipeService
	Comments handlers.CommentService
	Images   handlers.ImageStore // nil disables uploads
	Tokens   middlewares.TokenVerifier
	Ping     func(ctx context.Context) error // nil when there is no database
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
}

func NewRouter(log *slog.Logger, d Deps) *gin.Engine {
	cfg := d.Config

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware
	r.Use(middlewares.RequestID())
	r.Use(middlewares.Recovery(log))
	if cfg.OTelEnabled {
		r.Use(otelgin.Middleware("recipehub"))
	}
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.SecurityHeaders(cfg.Env == "prod"))

	// health
	var ping func() error
	if d.Ping != nil {
		ping = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
			defer cancel()

			return d.Ping(ctx)
		}
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/", h.Welcome)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	authMw := middlewares.NewAuthMiddleware(d.Tokens, d.Prom)
	requireAuth := authMw.RequireAuth()
	maxBody := middlewares.MaxBodyBytes(cfg.MaxBodyBytes)
	requireJSON := middlewares.RequireJSON()

	authH := handlers.NewAuthHandler(d.Accounts, cfg.RequestTimeout)
	recipesH := handlers.NewRecipesHandler(d.Recipes, cfg.RequestTimeout)
	commentsH := handlers.NewCommentsHandler(d.Comments, cfg.RequestTimeout)
	usersH := handlers.NewUsersHandler(d.Accounts, cfg.RequestTimeout)
	imagesH := handlers.NewImagesHandler(d.Images, cfg.MaxUploadBytes, cfg.RequestTimeout, d.Prom)

	api := r.Group("/api")

	authRoutes := api.Group("/auth", maxBody, requireJSON)
	{
		authRoutes.POST("/register", authH.Register)
		authRoutes.POST("/login", authH.Login)
	}

	recipes := api.Group("/recipes")
	{
		recipes.GET("/all", recipesH.ListRecipes)
		recipes.GET("/recipe/:id", recipesH.GetRecipeByID)
		recipes.GET("/user/:userId", recipesH.ListUserRecipes)

		recipes.GET("/my-recipes", requireAuth, recipesH.MyRecipes)
		recipes.POST("/create", requireAuth, maxBody, requireJSON, recipesH.CreateRecipe)
		recipes.PUT("/edit/:id", requireAuth, maxBody, requireJSON, recipesH.UpdateRecipe)
		recipes.DELETE("/delete/:id", requireAuth, recipesH.DeleteRecipe)
		recipes.PUT("/like/:id", requireAuth, recipesH.LikeRecipe)
		recipes.PUT("/unlike/:id", requireAuth, recipesH.UnlikeRecipe)

		// multipart overhead rides on top of the image limit
		recipes.POST("/upload-image",
			requireAuth,
			middlewares.MaxBodyBytes(cfg.MaxUploadBytes+1<<20),
			imagesH.UploadImage,
		)
	}

	comments := api.Group("/comments")
	{
		comments.GET("/:recipeId", commentsH.ListComments)
		comments.POST("", requireAuth, maxBody, requireJSON, commentsH.CreateComment)
		comments.DELETE("/:id", requireAuth, commentsH.DeleteComment)
	}

	users := api.Group("/users", requireAuth)
	{
		users.GET("/profile", usersH.GetProfile)
		users.PUT("/update-profile", maxBody, requireJSON, usersH.UpdateProfile)
	}

	return r
}
