package main

import (
	"context"
	"log"
	"time"

	"ordersync/internal/api"
	"ordersync/internal/bootstrap"
	"ordersync/internal/config"
	"ordersync/internal/database"
	"ordersync/internal/journal"
	"ordersync/internal/logger"
	"ordersync/internal/reconcile"
	"ordersync/internal/services/shopify"
	"ordersync/internal/tenant"

	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Tenant credentials
	resolver, err := tenant.Parse(cfg.Tenants, cfg.RelatedShops)
	if err != nil {
		logger.Fatal("Failed to parse tenant configuration: %v", err)
	}

	// Optional registration store
	var gormDB *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err := database.New(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()
		gormDB = db.DB
	}

	clientFor := func(t tenant.Tenant) *shopify.Client {
		return shopify.NewClient(t.Domain, t.AccessToken, cfg.ShopifyAPIVersion, logger)
	}

	// One-time webhook subscription registration
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	bootstrap.EnsureWebhooks(ctx, logger, gormDB, func(t tenant.Tenant) bootstrap.SubscriptionAPI {
		return clientFor(t)
	}, resolver.All(), cfg.PublicBaseURL)
	cancel()

	// Optional outcome journal
	var recorder reconcile.OutcomeRecorder
	if cfg.KafkaBrokers != "" {
		w := journal.New(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer w.Close()
		recorder = w
	}

	dispatcher := reconcile.NewDispatcher(logger, func(t tenant.Tenant) reconcile.ShopifyAPI {
		return clientFor(t)
	}, recorder)

	// Initialize API server
	server := api.New(cfg, logger, resolver, dispatcher)

	// Start server
	logger.Info("Starting API server on port " + cfg.APIPort)
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
