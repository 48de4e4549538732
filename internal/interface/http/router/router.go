// Package router 注册HTTP路由
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/libraryhub/internal/interface/http/handler"
	"github.com/xiebiao/libraryhub/internal/interface/http/middleware"
)

// Handlers 所有HTTP处理器
type Handlers struct {
	User         *handler.UserHandler
	Library      *handler.LibraryHandler
	Book         *handler.BookHandler
	Reader       *handler.ReaderHandler
	Circulation  *handler.CirculationHandler
	Import       *handler.ImportHandler
	Subscription *handler.SubscriptionHandler
	Kiosk        *handler.KioskHandler
}

// New 创建Gin引擎并注册路由
//
// 路由分三类：
//   - /api/v1/users、/api/v1/kiosk/login 公开
//   - /api/v1/libraries 馆员令牌，/:libraryID 下还要求是该馆管理员
//   - /api/v1/mobile 读者令牌，图书馆取自令牌
func New(mode string, h Handlers, auth *middleware.AuthMiddleware, access *middleware.LibraryAccess) *gin.Engine {
	if mode == gin.ReleaseMode || mode == gin.TestMode {
		gin.SetMode(mode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(), middleware.Metrics())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")

	users := v1.Group("/users")
	{
		users.POST("/register", h.User.Register)
		users.POST("/login", h.User.Login)
		users.POST("/refresh", h.User.Refresh)
		users.POST("/logout", auth.RequireLibrarian(), h.User.Logout)
	}

	v1.POST("/kiosk/login", h.Kiosk.Login)

	libraries := v1.Group("/libraries", auth.RequireLibrarian())
	{
		libraries.POST("", h.Library.Create)
		libraries.GET("", h.Library.ListMine)
	}

	lib := libraries.Group("/:libraryID", access.RequireAdministrator())
	{
		lib.GET("", h.Library.Get)
		lib.PUT("", h.Library.Update)
		lib.DELETE("", h.Library.Delete)

		lib.GET("/administrators", h.Library.ListAdministrators)
		lib.POST("/administrators", h.Library.AddAdministrator)
		lib.DELETE("/administrators/:userID", h.Library.RemoveAdministrator)

		lib.POST("/kiosks", h.Library.CreateKiosk)
		lib.GET("/kiosks", h.Library.ListKiosks)
		lib.PUT("/kiosks/:kioskID/enabled", h.Library.SetKioskEnabled)
		lib.POST("/kiosk/checkout", h.Kiosk.KioskCheckout)
		lib.POST("/kiosk/return", h.Kiosk.KioskReturn)

		lib.GET("/audit-logs", h.Library.AuditLogs)
		lib.GET("/reader-actions", h.Library.ReaderActions)

		lib.GET("/books", h.Book.ListBooks)
		lib.POST("/books", h.Book.AddBook)
		lib.POST("/books/semantic-search", h.Book.SemanticSearch)
		lib.GET("/books/:bookID", h.Book.GetBook)
		lib.PUT("/books/:bookID", h.Book.UpdateBook)
		lib.DELETE("/books/:bookID", h.Book.DeleteBook)
		lib.POST("/books/:bookID/instances", h.Book.AddInstance)
		lib.PUT("/instances/:instanceID/status", h.Book.SetInstanceStatus)

		lib.POST("/readers", h.Reader.Register)
		lib.GET("/readers", h.Reader.List)
		lib.GET("/readers/:readerID", h.Reader.Get)
		lib.PUT("/readers/:readerID", h.Reader.Update)
		lib.POST("/readers/:readerID/membership", h.Reader.Attach)
		lib.DELETE("/readers/:readerID/membership", h.Reader.Detach)

		lib.POST("/checkouts", h.Circulation.Checkout)
		lib.POST("/returns", h.Circulation.Return)

		lib.POST("/imports", h.Import.Upload)
		lib.GET("/imports", h.Import.List)
		lib.GET("/imports/:importID", h.Import.Get)

		lib.GET("/subscription", h.Subscription.Usage)
		lib.PUT("/subscription/tier", h.Subscription.ChangeTier)
		lib.POST("/subscription/checkout", h.Subscription.Checkout)
	}

	mobile := v1.Group("/mobile", auth.RequireReader())
	{
		mobile.GET("/books", h.Kiosk.Books)
		mobile.POST("/checkouts", h.Kiosk.Checkout)
		mobile.POST("/return-requests", h.Kiosk.RequestReturn)
		mobile.GET("/loans", h.Kiosk.Loans)
	}

	return r
}
