package api

import (
	"database/sql"
	"log"
	stdhttp "net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	intconfig "github.com/ronitparmar24/metro-ticket-booking-system/internal/config"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain/models"
	h "github.com/ronitparmar24/metro-ticket-booking-system/internal/http/handlers"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/http/middleware"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/repositories"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/services"
)

// NewRouter wires repositories, services and handlers onto a gin engine.
func NewRouter(env intconfig.Env, db *sql.DB) *gin.Engine {
	accounts := repositories.AccountRepository{DB: db}
	tickets := repositories.TicketRepository{DB: db}
	cards := repositories.CardRepository{DB: db}
	stations := repositories.StationRepository{DB: db}
	outbox := repositories.OutboxRepository{DB: db}
	history := repositories.HistoryRepository{DB: db}
	notifications := repositories.NotificationRepository{DB: db}

	fareSvc := services.FareService{Stations: stations}
	bookingSvc := services.BookingService{
		Accounts: accounts,
		Tickets:  tickets,
		Outbox:   outbox,
		History:  history,
		Fare:     fareSvc,
		DB:       db,
	}
	cancelSvc := services.CancellationService{
		Accounts: accounts,
		Tickets:  tickets,
		History:  history,
		DB:       db,
	}
	walletSvc := services.WalletService{
		Accounts:      accounts,
		History:       history,
		Notifications: notifications,
		DB:            db,
	}
	cardSvc := services.CardService{
		Accounts: accounts,
		Cards:    cards,
		History:  history,
		DB:       db,
	}
	docsSvc := services.DocsService{Tickets: tickets, Accounts: accounts}

	authH := h.AuthHandler{Accounts: accounts, JWTSecret: []byte(env.JWTSecret)}
	fareH := h.FareHandler{Fare: fareSvc}
	ticketH := h.TicketHandler{Booking: bookingSvc, Cancellation: cancelSvc, Docs: docsSvc, Tickets: tickets}
	walletH := h.WalletHandler{Wallet: walletSvc}
	cardH := h.CardHandler{Cards: cardSvc}
	stationH := h.StationHandler{Stations: stations}
	notifH := h.NotificationHandler{Notifications: notifications}
	systemH := h.SystemHandler{DB: db}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"}
	corsConfig.MaxAge = 24 * time.Hour
	r.Use(cors.New(corsConfig))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	secret := []byte(env.JWTSecret)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", systemH.Health)
		apiGroup.GET("/db-check", systemH.DBCheck)

		auth := apiGroup.Group("/auth")
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)
		auth.POST("/change-password", middleware.RequireAuth(secret), authH.ChangePassword)

		apiGroup.GET("/stations", stationH.List)
		apiGroup.GET("/fares/quote", fareH.Quote)

		user := apiGroup.Group("")
		user.Use(middleware.RequireAuth(secret))
		{
			user.POST("/tickets", ticketH.Book)
			user.GET("/tickets", ticketH.List)
			user.POST("/tickets/:id/cancel", ticketH.Cancel)
			user.GET("/tickets/:id/pdf", ticketH.PDF)

			user.GET("/wallet", walletH.Balance)
			user.POST("/wallet/recharge", walletH.Recharge)
			user.GET("/wallet/transactions", walletH.Transactions)
			user.POST("/wallet/redeem-points", walletH.RedeemPoints)

			user.GET("/card", cardH.Get)
			user.POST("/card/recharge", cardH.Recharge)
			user.POST("/card/debit", cardH.Debit)
			user.PUT("/card/auto-recharge", cardH.SetAutoRecharge)

			user.GET("/notifications", notifH.Latest)
		}

		admin := apiGroup.Group("/admin")
		admin.Use(middleware.RequireAuth(secret), middleware.RequireRole(models.RoleAdmin))
		{
			admin.PUT("/stations", stationH.Upsert)
		}
	}

	return r
}
