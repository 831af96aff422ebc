package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"ravintola/internal/config"
	"ravintola/internal/database"
	"ravintola/internal/geocode"
	"ravintola/internal/middleware"
	"ravintola/internal/modules/auth"
	"ravintola/internal/modules/contact"
	"ravintola/internal/modules/delivery"
	"ravintola/internal/modules/loyalty"
	"ravintola/internal/modules/menu"
	"ravintola/internal/modules/reservation"
	"ravintola/internal/notify"
	jwtsvc "ravintola/internal/pkg/jwt"
	"ravintola/internal/repository"
	"ravintola/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	sessions := session.NewRedisStore(redisClient, cfg.SessionTTL)

	userRepo := repository.NewUserRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	promotionRepo := repository.NewPromotionRepository(db)
	feePolicyRepo := repository.NewFeePolicyRepository(db)
	contactRepo := repository.NewContactRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	var notifier notify.Notifier = notify.Noop{}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		notifier = notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
	}
	geocoder := geocode.NewClient(cfg.NominatimBaseURL, cfg.NominatimUserAgent, cfg.NominatimCountries)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	menuService := menu.NewService(menuRepo)
	menuHandler := menu.NewHandler(menuService)

	reservationService := reservation.NewService(reservationRepo, menuRepo, notifier)
	reservationHandler := reservation.NewHandler(reservationService)

	loyaltyService := loyalty.NewService(orderRepo, couponRepo, cfg.LoyaltyTargetOrders, cfg.LoyaltyRewardPercent)
	loyaltyHandler := loyalty.NewHandler(loyaltyService)

	statusHub := delivery.NewStatusHub()
	defer statusHub.Close()

	deliveryService := delivery.NewService(
		orderRepo,
		couponRepo,
		promotionRepo,
		feePolicyRepo,
		menuRepo,
		sessions,
		geocoder,
		notifier,
		loyaltyService,
		statusHub,
		delivery.Origin{
			Lat:         cfg.RestaurantLat,
			Lng:         cfg.RestaurantLng,
			MaxRadiusKm: cfg.DeliveryMaxRadiusKm,
		},
	)
	deliveryHandler := delivery.NewHandler(deliveryService, statusHub)

	contactService := contact.NewService(contactRepo, notifier)
	contactHandler := contact.NewHandler(contactService)

	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.CORS(), middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public storefront: anonymous sessions, optional identity
		public := v1.Group("/")
		public.Use(
			middleware.Session(int(cfg.SessionTTL.Seconds()), cfg.AppEnv == "prod"),
			middleware.OptionalJWTAuth(j),
		)
		{
			authHandler.RegisterRoutes(public)
			menuHandler.RegisterRoutes(public)
			reservationHandler.RegisterRoutes(public)
			deliveryHandler.RegisterRoutes(public)
			contactHandler.RegisterRoutes(public)
		}

		// authenticated customers
		authed := v1.Group("/")
		authed.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterAuthedRoutes(authed)
			loyaltyHandler.RegisterRoutes(authed)
		}

		// staff board
		staff := v1.Group("/staff")
		staff.Use(middleware.JWTAuth(j), middleware.StaffOnly())
		{
			reservationHandler.RegisterStaffRoutes(staff)
			deliveryHandler.RegisterStaffRoutes(staff)
		}
	}

	log.Printf("listening on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
