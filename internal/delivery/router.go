package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Sezy0/NeoMart-Backend/internal/domain"
	"github.com/Sezy0/NeoMart-Backend/internal/middleware"
	"github.com/Sezy0/NeoMart-Backend/pkg/auth"
)

type Handlers struct {
	Auth    *AuthHandler
	User    *UserHandler
	Store   *StoreHandler
	Product *ProductHandler
	Cart    *CartHandler
	Coupon  *CouponHandler
	Order   *OrderHandler
	Review  *ReviewHandler
	Upload  *UploadHandler
}

// NewRouter wires the full HTTP surface. Public routes sit next to their
// authenticated siblings so the whole API reads top to bottom.
func NewRouter(h Handlers, jwtManager *auth.JWTManager, log *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authd := middleware.Authenticate(jwtManager, log)
	sellerOrAdmin := middleware.RequireRole(log, domain.RoleSeller, domain.RoleAdmin)
	adminOnly := middleware.RequireRole(log, domain.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", h.Auth.Register)
			authGroup.POST("/login", h.Auth.Login)
			authGroup.POST("/refresh", h.Auth.Refresh)
			authGroup.POST("/logout", h.Auth.Logout)
			authGroup.GET("/google", h.Auth.GoogleRedirect)
			authGroup.GET("/google/callback", h.Auth.GoogleCallback)
			authGroup.POST("/otp/request", authd, h.Auth.RequestOTP)
			authGroup.POST("/otp/verify", authd, h.Auth.VerifyOTP)
		}

		users := v1.Group("/users", authd)
		{
			users.GET("/me", h.User.GetMe)
			users.PATCH("/me", h.User.UpdateMe)
		}

		stores := v1.Group("/stores")
		{
			stores.GET("", h.Store.ListStores)
			stores.GET("/:id", h.Store.GetStore)
			stores.POST("", authd, h.Store.CreateStore)
			stores.PATCH("/:id", authd, h.Store.UpdateStore)
			stores.DELETE("/:id", authd, h.Store.DeleteStore)
			stores.GET("/:id/orders", authd, h.Order.ListStoreOrders)
		}

		products := v1.Group("/products")
		{
			products.GET("", h.Product.ListProducts)
			products.GET("/:id", h.Product.GetProduct)
			products.GET("/:id/reviews", h.Review.ListReviews)
			products.POST("", authd, sellerOrAdmin, h.Product.CreateProduct)
			products.PATCH("/:id", authd, sellerOrAdmin, h.Product.UpdateProduct)
			products.DELETE("/:id", authd, sellerOrAdmin, h.Product.DeleteProduct)
			products.POST("/:id/reviews", authd, h.Review.CreateReview)
		}

		reviews := v1.Group("/reviews", authd)
		{
			reviews.PATCH("/:id", h.Review.UpdateReview)
			reviews.DELETE("/:id", h.Review.DeleteReview)
		}

		cart := v1.Group("/cart", authd)
		{
			cart.GET("", h.Cart.GetCart)
			cart.PUT("/items", h.Cart.PutItem)
			cart.DELETE("/items/:productID", h.Cart.RemoveItem)
			cart.DELETE("", h.Cart.ClearCart)
		}

		coupons := v1.Group("/coupons", authd)
		{
			coupons.POST("/preview", h.Coupon.PreviewCoupon)
			coupons.POST("", adminOnly, h.Coupon.CreateCoupon)
			coupons.GET("", adminOnly, h.Coupon.ListCoupons)
			coupons.GET("/:code", adminOnly, h.Coupon.GetCoupon)
			coupons.PATCH("/:code", adminOnly, h.Coupon.UpdateCoupon)
			coupons.DELETE("/:code", adminOnly, h.Coupon.DeleteCoupon)
		}

		orders := v1.Group("/orders", authd)
		{
			orders.POST("", h.Order.CreateOrder)
			orders.GET("", h.Order.ListMyOrders)
			orders.GET("/:id", h.Order.GetOrder)
			orders.PATCH("/:id/status", h.Order.UpdateStatus)
			orders.POST("/:id/cancel", h.Order.CancelOrder)
		}

		v1.POST("/uploads", authd, sellerOrAdmin, h.Upload.UploadImages)
	}

	return router
}
