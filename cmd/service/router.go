package service

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/kchat-ai/kchat/app/core"
	"github.com/kchat-ai/kchat/app/core/srv"
	"github.com/kchat-ai/kchat/app/response"
	"github.com/kchat-ai/kchat/cmd/service/handler"
	"github.com/kchat-ai/kchat/cmd/service/middleware"
)

func serve(core *core.Core) {
	httpSrv := &handler.HttpSrv{
		Core:   core,
		Engine: core.HttpEngine(),
	}
	setupHttpRouter(httpSrv)

	core.HttpEngine().Run(core.Cfg().Addr)
}

func ipLimit(operation string, limit rate.Limit, burst int) gin.HandlerFunc {
	return middleware.UseLimit(operation, func(c *gin.Context) string {
		return c.ClientIP()
	}, limit, burst)
}

func userLimit(operation string, limit rate.Limit, burst int) gin.HandlerFunc {
	return middleware.UseLimit(operation, func(c *gin.Context) string {
		return c.GetString("user")
	}, limit, burst)
}

func setupHttpRouter(s *handler.HttpSrv) {
	s.Engine.Use(gin.Recovery())
	s.Engine.Use(middleware.I18n(), response.NewResponse())
	s.Engine.Use(middleware.Cors)

	s.Engine.GET("/metrics", s.Core.Metrics().Handler())

	apiV1 := s.Engine.Group("/api/v1")
	{
		apiV1.POST("/login", ipLimit("login", rate.Limit(1), 5), s.Login)

		authed := apiV1.Group("")
		authed.Use(middleware.Authorization(s.Core))

		authed.GET("/user/profile", s.Profile)

		chat := authed.Group("/chat")
		chat.Use(middleware.RequirePermission(s.Core, srv.PermissionChat))
		{
			chat.POST("/message", userLimit("chat", rate.Limit(1), 3), s.SendMessage)
			chat.GET("/list", s.ListChats)
			chat.GET("/:chatid/messages", s.ListChatMessages)
			chat.PUT("/:chatid/title", s.RenameChat)
			chat.PUT("/:chatid/archive", s.ArchiveChat)
			chat.DELETE("/:chatid", s.DeleteChat)
			chat.POST("/message/:messageid/feedback", s.MessageFeedback)
		}

		manage := authed.Group("/manage")
		manage.Use(middleware.RequirePermission(s.Core, srv.PermissionManage))
		{
			folder := manage.Group("/folder")
			{
				folder.POST("", s.CreateFolder)
				folder.GET("/list", s.ListFolders)
				folder.GET("/:folderid", s.GetFolder)
				folder.PUT("/:folderid", s.UpdateFolder)
				folder.DELETE("/:folderid", s.DeleteFolder)
			}

			document := manage.Group("/document")
			{
				document.POST("", s.RegisterDocument)
				document.GET("/list", s.ListDocuments)
				document.GET("/:documentid", s.GetDocument)
				document.DELETE("/:documentid", s.DeleteDocument)
				document.POST("/:documentid/reindex", s.ReindexDocument)
			}

			user := manage.Group("/user")
			{
				user.POST("", s.CreateUser)
				user.GET("/list", s.ListUsers)
				user.GET("/:userid", s.GetUser)
				user.PUT("/:userid", s.UpdateUser)
				user.DELETE("/:userid", s.DeleteUser)
				user.POST("/:userid/folder/:folderid", s.AssignUserFolder)
				user.DELETE("/:userid/folder/:folderid", s.UnassignUserFolder)
				user.POST("/:userid/group/:groupid", s.AssignUserGroup)
				user.DELETE("/:userid/group/:groupid", s.UnassignUserGroup)
			}

			group := manage.Group("/group")
			{
				group.POST("", s.CreateGroup)
				group.GET("/list", s.ListGroups)
				group.PUT("/:groupid", s.UpdateGroup)
				group.DELETE("/:groupid", s.DeleteGroup)
				group.POST("/:groupid/folder/:folderid", s.AssignGroupFolder)
				group.DELETE("/:groupid/folder/:folderid", s.UnassignGroupFolder)
			}

			prompt := manage.Group("/prompt")
			{
				prompt.POST("", s.CreatePrompt)
				prompt.GET("/list", s.ListPrompts)
				prompt.PUT("/:promptid", s.UpdatePrompt)
				prompt.POST("/:promptid/activate", s.ActivatePrompt)
			}

			manage.GET("/audit/list", s.ListAuditLogs)
		}

		admin := authed.Group("/admin")
		admin.Use(middleware.RequirePermission(s.Core, srv.PermissionAdmin))
		{
			admin.GET("/settings", s.GetSettings)
			admin.PUT("/settings", s.UpdateSettings)

			admin.POST("/chat/preview", s.PreviewChat)

			analytics := admin.Group("/analytics")
			{
				analytics.GET("/overview", s.AnalyticsOverview)
				analytics.GET("/usage", s.AnalyticsUsage)
				analytics.GET("/top-users", s.AnalyticsTopUsers)
				analytics.GET("/top-folders", s.AnalyticsTopFolders)
				analytics.GET("/unanswered", s.AnalyticsUnanswered)
			}
		}
	}
}
