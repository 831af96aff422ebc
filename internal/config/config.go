package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHTTPAddr        = ":8080"
	defaultJWTAccessTTL    = "24h"
	defaultSessionTTL      = "72h"
	defaultRedisAddr       = "localhost:6379"
	defaultRestaurantLat   = "60.2934"
	defaultRestaurantLng   = "25.0378"
	defaultMaxRadiusKm     = "13.0"
	defaultLoyaltyTarget   = "10"
	defaultLoyaltyPercent  = "30"
	defaultNominatimUA     = "Ravintola/1.0 (contact: info@ravintola.example)"
	defaultCountryCodes    = "fi"
)

type Config struct {
	AppEnv   string
	HTTPAddr string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	JWTSecret    string
	JWTAccessTTL time.Duration

	RestaurantLat       float64
	RestaurantLng       float64
	DeliveryMaxRadiusKm float64

	LoyaltyTargetOrders  int
	LoyaltyRewardPercent int

	TelegramBotToken string
	TelegramChatID   string

	NominatimBaseURL   string
	NominatimUserAgent string
	NominatimCountries string
}

func Load() (*Config, error) {
	cfg := &Config{}

	cfg.AppEnv = strings.ToLower(getEnv("APP_ENV", "dev"))
	cfg.HTTPAddr = getEnv("HTTP_ADDR", defaultHTTPAddr)

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	cfg.RedisAddr = getEnv("REDIS_ADDR", defaultRedisAddr)
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	var err error
	if cfg.RedisDB, err = parseIntEnv("REDIS_DB", "0"); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = parseDurationEnv("SESSION_TTL", defaultSessionTTL); err != nil {
		return nil, err
	}

	cfg.JWTSecret = strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}
	if cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL); err != nil {
		return nil, err
	}

	if cfg.RestaurantLat, err = parseFloatEnv("RESTAURANT_LAT", defaultRestaurantLat); err != nil {
		return nil, err
	}
	if cfg.RestaurantLng, err = parseFloatEnv("RESTAURANT_LNG", defaultRestaurantLng); err != nil {
		return nil, err
	}
	if cfg.DeliveryMaxRadiusKm, err = parseFloatEnv("DELIVERY_MAX_RADIUS_KM", defaultMaxRadiusKm); err != nil {
		return nil, err
	}

	if cfg.LoyaltyTargetOrders, err = parseIntEnv("LOYALTY_TARGET_ORDERS", defaultLoyaltyTarget); err != nil {
		return nil, err
	}
	if cfg.LoyaltyRewardPercent, err = parseIntEnv("LOYALTY_REWARD_PERCENT", defaultLoyaltyPercent); err != nil {
		return nil, err
	}

	cfg.TelegramBotToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	cfg.TelegramChatID = strings.TrimSpace(os.Getenv("TELEGRAM_GROUP_CHAT_ID"))

	cfg.NominatimBaseURL = getEnv("NOMINATIM_BASE_URL", "")
	cfg.NominatimUserAgent = getEnv("NOMINATIM_USER_AGENT", defaultNominatimUA)
	cfg.NominatimCountries = getEnv("NOMINATIM_COUNTRY_CODES", defaultCountryCodes)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.LoyaltyTargetOrders <= 0 {
		return fmt.Errorf("LOYALTY_TARGET_ORDERS must be > 0")
	}
	if cfg.LoyaltyRewardPercent <= 0 || cfg.LoyaltyRewardPercent > 100 {
		return fmt.Errorf("LOYALTY_REWARD_PERCENT must be in (0, 100]")
	}
	if cfg.DeliveryMaxRadiusKm <= 0 {
		return fmt.Errorf("DELIVERY_MAX_RADIUS_KM must be > 0")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, raw)
	}
	return d, nil
}

func parseIntEnv(key, def string) (int, error) {
	raw := getEnv(key, def)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, raw)
	}
	return n, nil
}

func parseFloatEnv(key, def string) (float64, error) {
	raw := getEnv(key, def)
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", key, raw)
	}
	return f, nil
}
