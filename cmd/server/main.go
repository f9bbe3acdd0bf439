package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/commercekit/category-merchandising/internal/accounts"
	"github.com/commercekit/category-merchandising/internal/config"
	"github.com/commercekit/category-merchandising/internal/domain"
	"github.com/commercekit/category-merchandising/internal/events"
	"github.com/commercekit/category-merchandising/internal/facet"
	"github.com/commercekit/category-merchandising/internal/handler"
	"github.com/commercekit/category-merchandising/internal/listing"
	"github.com/commercekit/category-merchandising/internal/merchandise"
	"github.com/commercekit/category-merchandising/internal/ranking"
	"github.com/commercekit/category-merchandising/internal/repository"
	"github.com/commercekit/category-merchandising/internal/router"
	"github.com/commercekit/category-merchandising/seeds"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config %v", err)
	}

	ctx := context.Background()

	// ------------ PostgreSQL ---------------
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to parse database config %v", err)
	}
	poolConfig.MaxConns = int32(cfg.DBPoolSize)
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatalf("failed to connect to database %v", err)
	}
	defer pool.Close()

	if err := waitForDB(ctx, pool); err != nil {
		log.Fatalf("database not ready: %v", err)
	}
	log.Println("connected to PostgreSQL")

	// ------------ Run Migrations ---------------
	// for migrate-down using CLI command
	if len(os.Args) > 1 && os.Args[1] == "migrate-down" {
		if err := migrateDown(ctx, pool); err != nil {
			log.Fatalf("failed to migrate down %v", err)
		}
		log.Println("migrations dropped")
		return
	}

	if err := migrateUp(ctx, pool); err != nil {
		log.Fatalf("failed to migrate up %v", err)
	}

	// ------------ Setup Seed Data ---------------
	if err := checkSeed(ctx, pool); err != nil {
		log.Fatalf("failed to check seed %v", err)
	}

	// ------------ Redis ---------------
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to parse redis config %v", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	accountsClient := accounts.NewClient(redisClient, cfg.DefaultMaxLimit)
	if err := accountsClient.Ping(ctx); err != nil {
		log.Fatalf("redis not ready: %v", err)
	}
	log.Println("connected to Redis")

	repo := repository.New(pool)

	if err := checkAccountConfig(ctx, repo, accountsClient); err != nil {
		log.Fatalf("failed to check account config %v", err)
	}

	// ------------ RabbitMQ ---------------
	var publisher listing.ResultPublisher
	rabbit, err := events.NewRabbitPublisher(cfg.RabbitURL)
	if err != nil {
		// Event emission is fire-and-forget; the listing works without it.
		log.Printf("rabbitmq unavailable, result events disabled: %v", err)
	} else {
		defer rabbit.Close()
		publisher = rabbit
		log.Println("connected to RabbitMQ")
	}

	// ------------ Merchandising pipeline ---------------
	rankingClient := ranking.NewClient(cfg.RankingAPIURL, cfg.RankingAPITimeout)
	normalizer := facet.NewNormalizer(repo)
	assembler := merchandise.NewAssembler(accountsClient, rankingClient, repo, cfg.CustomerCookie, cfg.PreviewCookie)
	pipeline := listing.NewPipeline(accountsClient, normalizer, assembler, rankingClient, publisher)

	// ---------------- Server --------------------
	h := handler.NewHandler(repo, pipeline)
	r := router.Setup(h)

	log.Printf("Server running on %s", cfg.Addr())
	log.Fatal(http.ListenAndServe(cfg.Addr(), r))
}

func waitForDB(ctx context.Context, pool *pgxpool.Pool) error {
	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			return nil
		}
		log.Printf("waiting for database... (%d/30)", i+1)
		time.Sleep(1 * time.Second)
	}
	return fmt.Errorf("database connection timeout after 30s")
}

func migrateDown(ctx context.Context, pool *pgxpool.Pool) error {
	sql, err := os.ReadFile("migrations/create_tables.down.sql")
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	log.Println("migrations dropped successfully")
	return nil
}

func migrateUp(ctx context.Context, pool *pgxpool.Pool) error {
	sql, err := os.ReadFile("migrations/create_tables.up.sql")
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	log.Println("migrations applied successfully")
	return nil
}

func checkSeed(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM stores").Scan(&count); err != nil {
		return fmt.Errorf("check stores count: %w", err)
	}
	if count > 0 {
		log.Printf("database already seeded (%d stores), skipping", count)
		return nil
	}
	return seeds.Setup(ctx, pool)
}

// checkAccountConfig writes a demo ranking account for the default store when
// none is configured yet.
func checkAccountConfig(ctx context.Context, repo *repository.Repository, client *accounts.Client) error {
	store, err := repo.GetStoreByCode(ctx, "default")
	if err != nil {
		return fmt.Errorf("load default store: %w", err)
	}

	account, err := client.FindAccount(ctx, store)
	if err != nil {
		return err
	}
	if account != nil {
		log.Printf("account %q already configured for store %q", account.MerchantID, store.Code)
		return nil
	}

	if err := client.SaveAccount(ctx, store, &domain.Account{
		MerchantID: "demo-merchant",
		APIToken:   "demo-token",
		Features:   []string{domain.FeatureRankingAPI},
	}); err != nil {
		return err
	}
	return client.SaveSettings(ctx, store, &domain.StoreSettings{
		BrandAttribute:   "manufacturer",
		MaxProductLimit:  100,
		PersonalizedSort: true,
	})
}
