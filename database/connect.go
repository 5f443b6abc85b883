package database

import (
	"context"
	"fmt"
	"time"

	"bus_ticketing/config"
	"bus_ticketing/logger"
	"bus_ticketing/model"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB(cfg *config.AppConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Postgres.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	logger.Log.Info("Connection Opened to Database")

	err = db.AutoMigrate(
		&model.User{},
		&model.Bus{},
		&model.Schedule{},
		&model.Ticket{},
		&model.QRTicket{},
		&model.Station{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	logger.Log.Info("Database Migrated")

	SeedData(db, cfg.Admin)
	DB = db
	return db, nil
}

// NewRedisClient connects to redis. It returns nil when redis is not
// reachable; pub/sub and webhook locking are then disabled.
func NewRedisClient(cfg config.Redis) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Warn("redis unavailable, live queue feed and order locks disabled", "addr", cfg.Addr, "error", err)
		rdb.Close()
		return nil
	}
	logger.Log.Info("Connected to redis", "addr", cfg.Addr)
	return rdb
}
