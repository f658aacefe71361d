package main

import (
	"log"
	"strings"
	"time"

	"legacykeeper/auth"
	"legacykeeper/config"
	"legacykeeper/db"
	"legacykeeper/events"
	"legacykeeper/handlers"
	"legacykeeper/models"
	"legacykeeper/push"
	"legacykeeper/storage"
	"legacykeeper/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookieName     = "token"
	sessionExpirationTime = 365 * 86400 // 1 year
)

func main() {
	db.Init()
	models.Init()
	storage.Init()
	events.RegisterSinks()
	push.StartDigest()

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.FRONTEND_URL},
		AllowMethods:     []string{"GET", "PUT", "POST", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))

	cookieStore := gormsessions.NewStore(db.Instance, true, []byte(config.SESSION_KEY))
	cookieStore.Options(sessions.Options{MaxAge: sessionExpirationTime})
	router.Use(sessions.Sessions(sessionCookieName, cookieStore))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{`.*/file$`})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that

	authRouter := &auth.Router{Base: router}

	// Account handlers
	router.POST("/user/register", handlers.UserRegister)
	router.GET("/user/verify", handlers.UserVerify)
	router.POST("/user/login", handlers.UserLogin)
	router.POST("/user/request-reset", handlers.UserRequestPasswordReset)
	router.POST("/user/reset-password", handlers.UserResetPassword)
	authRouter.POST("/user/logout", handlers.UserLogout)
	authRouter.GET("/user/status", handlers.UserStatus)

	// Vault handlers
	authRouter.GET("/vaults", handlers.VaultList)
	authRouter.POST("/vaults", handlers.VaultCreate)
	authRouter.PATCH("/vaults/:id", handlers.VaultSave)
	authRouter.DELETE("/vaults/:id", handlers.VaultDelete)
	authRouter.POST("/vaults/:id/leave", handlers.VaultLeave)
	authRouter.POST("/vaults/:id/transfer-ownership", handlers.VaultTransferOwnership)

	// Members and invites
	authRouter.GET("/vaults/:id/members", handlers.MemberList)
	authRouter.PATCH("/vaults/:id/members/:mid", handlers.MemberSave)
	authRouter.DELETE("/vaults/:id/members/:mid", handlers.MemberDelete)
	authRouter.POST("/vaults/:id/invite", handlers.InviteCreate)
	authRouter.GET("/vaults/:id/shareable-links", handlers.ShareableLinkList)
	authRouter.POST("/vaults/:id/shareable-links", handlers.ShareableLinkCreate)
	authRouter.POST("/vaults/:id/shareable-links/:iid/revoke", handlers.ShareableLinkRevoke)
	authRouter.DELETE("/vaults/:id/shareable-links/:iid", handlers.ShareableLinkDelete)

	// Join flows
	router.GET("/join/preview", handlers.JoinPreview)
	router.POST("/join/accept", handlers.JoinAccept)
	authRouter.POST("/join/", handlers.JoinProcess)

	// Media handlers
	authRouter.GET("/vaults/:id/media", handlers.MediaList)
	authRouter.POST("/vaults/:id/media", handlers.MediaUpload)
	authRouter.GET("/vaults/:id/media/:mid", handlers.MediaGet)
	authRouter.GET("/vaults/:id/media/:mid/file", handlers.MediaFetch)
	authRouter.PATCH("/vaults/:id/media/:mid", handlers.MediaSave)
	authRouter.DELETE("/vaults/:id/media/:mid", handlers.MediaDelete)
	authRouter.POST("/vaults/:id/media/:mid/attachments", handlers.MediaAttachmentAdd)
	authRouter.POST("/vaults/:id/media/:mid/favorite", handlers.MediaFavorite)
	authRouter.DELETE("/vaults/:id/media/:mid/favorite", handlers.MediaUnfavorite)

	// Vault health
	authRouter.GET("/vaults/:id/health-analysis", handlers.HealthAnalysis)
	authRouter.POST("/vaults/:id/cleanup-redundant", handlers.CleanupRedundant)

	// Genealogy
	authRouter.GET("/vaults/:id/persons", handlers.PersonList)
	authRouter.POST("/vaults/:id/persons", handlers.PersonCreate)
	authRouter.POST("/vaults/:id/relationships", handlers.RelationshipCreate)
	authRouter.POST("/vaults/:id/tags", handlers.MediaTagCreate)
	authRouter.DELETE("/vaults/:id/tags/:tid", handlers.MediaTagDelete)

	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	log.Fatalf("Server stopped: %v", err)
}
