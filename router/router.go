package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yeremiapane/sepatu-storefront/controllers"
	"github.com/yeremiapane/sepatu-storefront/middlewares"
	"github.com/yeremiapane/sepatu-storefront/realtime"
	"github.com/yeremiapane/sepatu-storefront/tracking"
	"github.com/yeremiapane/sepatu-storefront/utils"
	"gorm.io/gorm"
)

// Dependencies dirakit di main lalu diteruskan ke controller.
type Dependencies struct {
	DB                *gorm.DB
	Hub               *realtime.Hub
	JWT               *utils.JWTManager
	Tracking          *tracking.Service
	Mailer            utils.Mailer
	Pepper            string
	CORSOrigin        string
	MidtransServerKey string
}

func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()

	r.Use(middlewares.JSONRecovery())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(deps.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(deps.DB, deps.JWT)
	authCtrl := controllers.NewAuthController(deps.DB, deps.Pepper, deps.Mailer)
	orderCtrl := controllers.NewOrderController(deps.DB)
	checkoutCtrl := controllers.NewCheckoutController(deps.DB)
	trackingCtrl := controllers.NewTrackingController(deps.DB, deps.Tracking)
	returnCtrl := controllers.NewReturnController(deps.DB)
	cartCtrl := controllers.NewCartController(deps.DB)
	invoiceCtrl := controllers.NewInvoiceController(deps.DB)
	productCtrl := controllers.NewProductController(deps.DB)
	paymentCtrl := controllers.NewPaymentController(deps.DB, deps.MidtransServerKey)
	realtimeCtrl := controllers.NewRealtimeController(deps.DB, deps.Hub, deps.CORSOrigin)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	// katalog bisa dilihat tanpa login
	api.GET("/products", productCtrl.GetAllProducts)
	api.GET("/products/:produk_id", productCtrl.GetProductByID)

	// login/register/reset dibatasi 5 request per menit per IP
	authGroup := api.Group("/auth")
	authGroup.Use(middlewares.NewStrictRateLimiter().Handler())
	{
		authGroup.POST("/register", userCtrl.Register)
		authGroup.POST("/login", userCtrl.Login)
		authGroup.POST("/forgot-password", authCtrl.ForgotPassword)
		authGroup.POST("/verify-reset-code", authCtrl.VerifyResetCode)
		authGroup.POST("/reset-password", authCtrl.ResetPassword)
	}

	// notifikasi server-to-server dari Midtrans, diverifikasi lewat signature_key
	api.POST("/payments/midtrans/notification", paymentCtrl.MidtransNotification)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := api.Group("")
	auth.Use(middlewares.AuthMiddleware(deps.JWT))

	auth.GET("/profile", userCtrl.GetProfile)

	// ORDERS
	auth.GET("/orders", orderCtrl.GetMyOrders)
	auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	auth.GET("/orders/:order_id/status", orderCtrl.GetOrderStatus)
	auth.GET("/orders/:order_id/tracking", trackingCtrl.TrackOrder)
	auth.GET("/orders/:order_id/invoice", invoiceCtrl.GetInvoice)

	// CHECKOUT
	auth.GET("/checkout/:submission_id", checkoutCtrl.GetCheckout)

	// TRACKING
	auth.POST("/tracking/biteship", trackingCtrl.TrackBiteship)

	// RETURNS
	auth.GET("/returns", returnCtrl.GetMyReturns)
	auth.POST("/returns", returnCtrl.CreateReturn)
	auth.POST("/returns/:return_id/waybill", returnCtrl.SubmitReturnWaybill)

	// CART & FAVORITES
	auth.GET("/cart", cartCtrl.GetCart)
	auth.DELETE("/cart/:item_id", cartCtrl.RemoveCartItem)
	auth.GET("/favorites", cartCtrl.GetFavorites)
	auth.POST("/favorites/:produk_id/toggle", cartCtrl.ToggleFavorite)

	// WebSocket, token lewat ?token= karena browser tidak bisa set header
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.AuthMiddleware(deps.JWT))
	{
		wsGroup.GET("/orders/:order_id", realtimeCtrl.OrderStream)
		wsGroup.GET("/cart", realtimeCtrl.CartStream)
	}

	return r
}
