package http

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/adapters/signal"
	"github.com/dkeye/Classroom/internal/app/session"
	"github.com/dkeye/Classroom/internal/config"
)

const (
	sessionCookie  = "ClassroomSessions"
	clientTokenKey = "client_token"
)

func genClientToken() string {
	return uuid.NewString()
}

// ClientTokenMiddleware keeps a per-browser token in the cookie session and
// exposes it as "client_token" on the gin context.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		token, _ := sess.Get(clientTokenKey).(string)
		if token == "" {
			token = genClientToken()
			sess.Set(clientTokenKey, token)
			if err := sess.Save(); err != nil {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("save client session")
			}
		}
		c.Set(clientTokenKey, token)
		c.Next()
	}
}

// API is what the routes drive.
type API struct {
	Sessions *session.Manager
	Stream   *signal.StreamController
	Limiter  *signal.IntentLimiter
}

func SetupRouter(ctx context.Context, cfg *config.Config, api *API) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 24 * 7, HttpOnly: true})
	r.Use(sessions.Sessions(sessionCookie, store))
	r.Use(ClientTokenMiddleware())

	if cfg.StaticPath != "" {
		r.Static("/static", cfg.StaticPath)
		r.GET("/", func(c *gin.Context) {
			c.File(cfg.StaticPath + "/index.html")
		})
	}

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	g := r.Group("/api")

	g.POST("/session", api.initSession)
	g.GET("/session", api.currentSession)
	g.DELETE("/session", api.destroySession)

	class := g.Group("/class")
	class.POST("/enter", api.enterClass)
	class.GET("", api.classSnapshot)
	class.POST("/sync", api.syncClass)

	intents := g.Group("/intents", api.throttle())
	intents.POST("/media", api.toggleMedia)
	intents.POST("/share/start", api.startShare)
	intents.POST("/share/stop", api.stopShare)
	intents.POST("/grant", api.grant)
	intents.POST("/class/start", api.startClass)
	intents.POST("/class/finish", api.finishClass)
	intents.POST("/hand", api.raiseHand)
	intents.POST("/stage", api.stage)
	intents.POST("/playback", api.playback)

	g.GET("/ws/events", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("client", c.GetString(clientTokenKey)).Msg("ws events endpoint hit")
		api.Stream.HandleStream(ctx, c)
	})

	return r
}
