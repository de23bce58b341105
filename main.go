package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Shorno/organic-food-store/internal/cart"
	"github.com/Shorno/organic-food-store/internal/config"
	"github.com/Shorno/organic-food-store/internal/database"
	"github.com/Shorno/organic-food-store/internal/gateway"
	"github.com/Shorno/organic-food-store/internal/handlers"
	"github.com/Shorno/organic-food-store/internal/mailer"
	"github.com/Shorno/organic-food-store/internal/middleware"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)
	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Println("user index warning:", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Println("order index warning:", err)
	}
	if err := database.EnsurePaymentIndexes(db); err != nil {
		log.Println("payment index warning:", err)
	}
	if err := database.EnsureProductIndexes(db); err != nil {
		log.Println("product index warning:", err)
	}
	if err := database.EnsureCategoryIndexes(db); err != nil {
		log.Println("category index warning:", err)
	}

	redisClient, err := database.ConnectRedis(config.AppEnv.RedisAddr, config.AppEnv.RedisPassword)
	if err != nil {
		log.Fatal(err)
	}
	log.Println("Redis connected to:", config.AppEnv.RedisAddr)

	shippingAmount, err := decimal.NewFromString(config.AppEnv.ShippingAmount)
	if err != nil {
		log.Fatal("invalid SHIPPING_AMOUNT:", err)
	}

	gw := gateway.NewClient(
		config.AppEnv.GatewayStoreID,
		config.AppEnv.GatewayStorePassword,
		config.AppEnv.GatewayLive,
		config.AppEnv.GatewayTimeout,
	)
	mail := mailer.New(
		config.AppEnv.SMTPHost,
		config.AppEnv.SMTPPort,
		config.AppEnv.SMTPUsername,
		config.AppEnv.SMTPPassword,
		config.AppEnv.MailFrom,
	)
	cartStore := cart.NewRedisStore(redisClient, config.AppEnv.CartTTL)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.AppEnv.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Cart-Session"},
		ExposeHeaders:    []string{"X-Cart-Session"},
		AllowCredentials: true,
	}))

	r.GET("/health", handlers.Health(db))

	r.POST("/auth/register", handlers.Register(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL, config.AppEnv.RefreshTokenTTL))
	r.POST("/auth/login", handlers.Login(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL, config.AppEnv.RefreshTokenTTL))
	r.POST("/auth/refresh", handlers.Refresh(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL, config.AppEnv.RefreshTokenTTL))
	r.POST("/auth/logout", handlers.Logout(db))
	r.GET("/auth/me", middleware.UserAuth(config.AppEnv.JWTSecret), handlers.GetMe(db))

	r.GET("/products", handlers.GetProducts(db))
	r.GET("/products/:slug", handlers.GetProductBySlug(db))
	r.GET("/categories", handlers.GetCategories(db))

	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.CartSession(config.AppEnv.JWTSecret))
	{
		cartGroup.GET("", handlers.GetCart(cartStore))
		cartGroup.POST("/items", handlers.AddToCart(cartStore))
		cartGroup.POST("/items/:productId/increment", handlers.UpdateCartItem(cartStore, "increment"))
		cartGroup.POST("/items/:productId/decrement", handlers.UpdateCartItem(cartStore, "decrement"))
		cartGroup.DELETE("/items/:productId", handlers.UpdateCartItem(cartStore, "remove"))
		cartGroup.DELETE("", handlers.ClearCart(cartStore))
	}

	user := r.Group("/")
	user.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		user.POST("/orders", handlers.CreateOrder(db, shippingAmount, config.AppEnv.Currency))
		user.GET("/orders", handlers.GetMyOrders(db))
		user.GET("/orders/:id", handlers.GetOrder(db))

		user.POST("/checkout/payment/initiate", handlers.InitiatePayment(db, gw, config.AppEnv))
		user.POST("/checkout/payment/validate", handlers.ValidatePayment(db, gw, mail))

		user.GET("/user/addresses", handlers.GetUserAddresses(db))
		user.POST("/user/addresses", handlers.CreateUserAddress(db))
		user.PUT("/user/addresses/:id", handlers.UpdateUserAddress(db))
		user.DELETE("/user/addresses/:id", handlers.DeleteUserAddress(db))
	}

	// The gateway posts here server-to-server and via browser redirect; these
	// routes carry no session, so they stay outside the auth groups.
	payment := r.Group("/api/payment")
	{
		payment.POST("/success", handlers.PaymentSuccess(config.AppEnv.FrontendURL))
		payment.POST("/fail", handlers.PaymentFail(config.AppEnv.FrontendURL))
		payment.POST("/cancel", handlers.PaymentCancel(config.AppEnv.FrontendURL))
		payment.POST("/ipn", handlers.PaymentIPN(db, mail))
	}

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.GET("/me", func(c *gin.Context) {
			c.JSON(200, gin.H{"ok": true})
		})

		admin.GET("/orders", handlers.GetAllOrders(db))
		admin.PUT("/orders/:id/status", handlers.UpdateOrderStatus(db))
		admin.DELETE("/orders/:id", handlers.DeleteOrder(db))

		admin.POST("/products", handlers.CreateProduct(db))
		admin.PUT("/products/:id", handlers.UpdateProduct(db))
		admin.DELETE("/products/:id", handlers.DeleteProduct(db))

		admin.POST("/categories", handlers.CreateCategory(db))
		admin.PUT("/categories/:id", handlers.UpdateCategory(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
