package main

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handlers"
	"backend/internal/logger"
	"backend/internal/middleware"
	"backend/internal/payment"
	"backend/internal/ws"
)

func main() {
	config.Load()
	logger.Init(config.AppEnv.AppEnv)
	defer logger.Sync()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		logger.L().Fatal("mongodb connection failed", zap.Error(err))
	}

	db := client.Database(config.AppEnv.DBName)
	logger.L().Info("mongodb connected", zap.String("database", db.Name()))

	if err := database.EnsureUserIndexes(db); err != nil {
		logger.L().Warn("user index warning", zap.Error(err))
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		logger.L().Warn("order index warning", zap.Error(err))
	}

	hub := ws.NewHub(config.AppEnv.JWTSecret)
	gateway := payment.NewStripeGateway(config.AppEnv.StripeSecretKey)

	if config.AppEnv.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.String(200, "API Working")
	})

	r.GET("/ws", hub.Handle())

	userAuth := middleware.UserAuth(config.AppEnv.JWTSecret)
	adminAuth := middleware.AdminAuth(config.AppEnv.JWTSecret)
	authLimit := middleware.AuthRateLimit()

	user := r.Group("/api/user")
	{
		user.POST("/register", authLimit, handlers.Register(db, config.AppEnv.JWTSecret, config.AppEnv.UserTokenTTL))
		user.POST("/login", authLimit, handlers.Login(db, config.AppEnv.JWTSecret, config.AppEnv.UserTokenTTL))
		user.POST("/admin/login", authLimit, handlers.AdminLogin(config.AppEnv.JWTSecret, config.AppEnv.AdminTokenTTL))

		user.GET("/profile", userAuth, handlers.GetProfile(db))

		user.GET("/addresses", userAuth, handlers.GetAddresses(db))
		user.POST("/addresses", userAuth, handlers.AddAddress(db))
		user.PUT("/addresses/:addressId", userAuth, handlers.UpdateAddress(db))
		user.DELETE("/addresses/:addressId", userAuth, handlers.DeleteAddress(db))
	}

	cart := r.Group("/api/cart")
	cart.Use(userAuth)
	{
		cart.POST("/add", handlers.AddToCart(db))
		cart.POST("/update", handlers.UpdateCart(db))
		cart.GET("/get", handlers.GetCart(db))
	}

	order := r.Group("/api/order")
	{
		order.POST("/place", userAuth, handlers.PlaceOrder(db, hub))
		order.POST("/stripe", userAuth, handlers.PlaceOrderStripe(db, hub, gateway))
		order.GET("/verify", userAuth, handlers.VerifyPayment(db, hub))
		order.POST("/userorders", userAuth, handlers.UserOrders(db))

		order.GET("/all", adminAuth, handlers.AllOrders(db))
		order.PUT("/update", adminAuth, handlers.UpdateStatus(db, hub))
	}

	logger.L().Info("server starting", zap.String("port", config.AppEnv.Port))
	if err := r.Run(":" + config.AppEnv.Port); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
