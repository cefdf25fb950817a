package httpserver

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"waves-backend/internal/domain"
	"waves-backend/internal/metrics"
	"waves-backend/internal/service/account"
	"waves-backend/internal/service/catalog"
	"waves-backend/internal/service/checkout"
	"waves-backend/internal/storage/images"
)

type catalogService interface {
	Shop(ctx context.Context, in catalog.ShopInput) ([]domain.Product, error)
	Articles(ctx context.Context, sortBy, order string, limit int64) ([]domain.Product, error)
	ByIDs(ctx context.Context, idParam string) ([]domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type cartService interface {
	AddItem(ctx context.Context, userID, productID string) ([]domain.CartLine, error)
	RemoveOneItem(ctx context.Context, userID, productID string) ([]domain.CartLine, error)
	RemoveItem(ctx context.Context, userID, productID string) ([]domain.CartLine, []domain.Product, error)
	GetCart(ctx context.Context, userID string) ([]domain.CartLine, error)
}

type checkoutService interface {
	CompletePurchase(ctx context.Context, userID string, cartDetail []checkout.LineItem, paymentData map[string]interface{}) (*checkout.Result, error)
}

type accountService interface {
	Register(ctx context.Context, in account.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Logout(ctx context.Context, userID string) error
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
	UpdateProfile(ctx context.Context, userID string, fields map[string]interface{}) error
}

type paymentRepo interface {
	List(ctx context.Context, limit int64) ([]domain.Payment, error)
	GetIntent(ctx context.Context, id string) (*domain.CheckoutIntent, error)
}

type shippingRepo interface {
	Create(ctx context.Context, s domain.Shipping) (*domain.Shipping, error)
	List(ctx context.Context) ([]domain.Shipping, error)
}

type siteRepo interface {
	Get(ctx context.Context) (*domain.Site, error)
	SetInfo(ctx context.Context, info map[string]interface{}) (*domain.Site, error)
}

// Deps carries the collaborators the handlers need.
type Deps struct {
	CatalogSvc   catalogService
	CartSvc      cartService
	CheckoutSvc  checkoutService
	AccountSvc   accountService
	PaymentRepo  paymentRepo
	ShippingRepo shippingRepo
	SiteRepo     siteRepo
	// Images is nil when no object store is configured; the image endpoints
	// then answer 503.
	Images  *images.Store
	Metrics *metrics.ServerMetrics
	// UploadDir is where admin file uploads land; UploadPrefix prefixes the
	// stored file names.
	UploadDir    string
	UploadPrefix string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *mongo.Database, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())
	if deps.Metrics != nil {
		router.Use(metricsMiddleware(deps.Metrics))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	h := &handlers{deps: deps, logger: logger}
	authed := authRequired(deps.AccountSvc)
	admin := adminRequired()

	api := router.Group("/api")

	product := api.Group("/product")
	product.POST("/shop", h.shop)
	product.GET("/articles", h.articles)
	product.GET("/articles_by_id", h.articlesByID)
	product.POST("/article", authed, admin, h.createProduct)
	product.DELETE("/delete_product/:id", authed, admin, h.deleteProduct)

	users := api.Group("/users")
	users.POST("/register", h.register)
	users.POST("/login", h.login)
	users.GET("/logout", authed, h.logout)
	users.GET("/auth", authed, h.authProfile)
	users.POST("/reset_user", h.resetUser)
	users.POST("/reset_password", h.resetPassword)
	users.POST("/update_profile", authed, h.updateProfile)

	users.POST("/addToCart", authed, h.addToCart)
	users.POST("/subtractFromCart", authed, h.subtractFromCart)
	users.GET("/removeFromCart", authed, h.removeFromCart)
	users.POST("/successBuy", authed, h.successBuy)

	users.POST("/uploadfile", authed, admin, h.uploadFile)
	users.GET("/admin_files", authed, admin, h.adminFiles)
	users.GET("/download/:id", authed, admin, h.downloadFile)
	users.POST("/uploadimage", authed, admin, h.uploadImage)
	users.GET("/removeimage", authed, admin, h.removeImage)

	payments := api.Group("/payments")
	payments.GET("/payments_data", authed, admin, h.listPayments)
	payments.GET("/intent_data/:id", authed, admin, h.getCheckoutIntent)

	site := api.Group("/site")
	site.GET("/site_data", h.siteData)
	site.POST("/site_data", authed, admin, h.setSiteData)

	shipping := api.Group("/shipping")
	shipping.POST("/shipping_data", authed, admin, h.createShipping)
	shipping.GET("/shippings_data", h.listShippings)

	return router, nil
}

type handlers struct {
	deps   Deps
	logger *log.Logger
}
