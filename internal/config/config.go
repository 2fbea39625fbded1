package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Port          string
	DBDSN         string
	LogFile       string
	TaxRate       float64
	MaxItemQty    int
	TokenTTLHours int
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "harvviie.db"
	} // sqlite file in project root
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./harvviie.log"
	}

	// 15% VAT unless overridden
	taxRate := 0.15
	if v := os.Getenv("TAX_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f < 1 {
			taxRate = f
		}
	}

	maxQty := 50
	if v := os.Getenv("MAX_ITEM_QTY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxQty = n
		}
	}

	// 30 days unless overridden
	tokenTTL := 720
	if v := os.Getenv("TOKEN_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			tokenTTL = n
		}
	}

	cfg := Config{Port: port, DBDSN: dsn, LogFile: logFile, TaxRate: taxRate,
		MaxItemQty: maxQty, TokenTTLHours: tokenTTL}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s TAX_RATE=%.2f MAX_ITEM_QTY=%d TOKEN_TTL_HOURS=%d",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.TaxRate, cfg.MaxItemQty, cfg.TokenTTLHours)
	return cfg
}
