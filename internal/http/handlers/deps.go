package handlers

import (
	"github.com/jmoiron/sqlx"

	"github.com/samukelok/harvviie-backend/internal/config"
	"github.com/samukelok/harvviie-backend/internal/repos"
	"github.com/samukelok/harvviie-backend/internal/services"
)

type Deps struct {
	Auth *services.AuthService

	AuthHandler       *AuthHandler
	CartHandler       *CartHandler
	ProductHandler    *ProductHandler
	CollectionHandler *CollectionHandler
	OrderHandler      *OrderHandler
	BannerHandler     *BannerHandler
	AboutHandler      *AboutHandler
	MessageHandler    *MessageHandler
	DashboardHandler  *DashboardHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	userRepo := repos.NewUserRepo(db)
	prodRepo := repos.NewProductRepo(db)
	colRepo := repos.NewCollectionRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	bannerRepo := repos.NewBannerRepo(db)
	aboutRepo := repos.NewAboutRepo(db)
	msgRepo := repos.NewMessageRepo(db)

	authSvc := services.NewAuthService(userRepo, cfg.TokenTTLHours)
	catalogSvc := services.NewCatalogService(prodRepo, colRepo)
	cartSvc := services.NewCartService(cartRepo, cfg.TaxRate, cfg.MaxItemQty)
	orderSvc := services.NewOrderService(cartRepo, orderRepo, cfg.TaxRate)
	contentSvc := services.NewContentService(bannerRepo, aboutRepo, msgRepo)
	dashSvc := services.NewDashboardService(db, orderRepo)

	return &Deps{
		Auth:              authSvc,
		AuthHandler:       &AuthHandler{Auth: authSvc, Cart: cartSvc},
		CartHandler:       &CartHandler{Cart: cartSvc},
		ProductHandler:    &ProductHandler{Catalog: catalogSvc},
		CollectionHandler: &CollectionHandler{Catalog: catalogSvc},
		OrderHandler:      &OrderHandler{Orders: orderSvc},
		BannerHandler:     &BannerHandler{Content: contentSvc},
		AboutHandler:      &AboutHandler{Content: contentSvc},
		MessageHandler:    &MessageHandler{Content: contentSvc},
		DashboardHandler:  &DashboardHandler{Dash: dashSvc},
	}
}
