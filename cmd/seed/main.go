package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/config"
	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/dafibh/spendwise/spendwise-backend/internal/repository/postgres"
	"github.com/dafibh/spendwise/spendwise-backend/internal/seed"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	email := flag.String("email", "", "email of an existing user to fill with demo data")
	months := flag.Int("months", 6, "number of financial months to cover, ending with the current one")
	perMonth := flag.Int("per-month", 25, "transactions to create per month")
	fakerSeed := flag.Int64("seed", time.Now().UnixNano(), "faker seed, fixed for reproducible data")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *email == "" {
		log.Fatal().Msg("-email is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)

	user, err := userRepo.GetByEmail(*email)
	if err != nil {
		log.Fatal().Err(err).Str("email", *email).Msg("User not found, sign up first")
	}

	categories, err := categoryRepo.GetActive(user.ID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load categories")
	}
	if len(categories) == 0 {
		categories, err = categoryRepo.CreateMany(user.ID, domain.DefaultCategories)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create default categories")
		}
	}

	generated := seed.NewGenerator(*fakerSeed).Transactions(user, categories, *months, *perMonth)
	for _, tx := range generated {
		if _, err := transactionRepo.Create(tx); err != nil {
			log.Fatal().Err(err).Msg("Failed to insert transaction")
		}
	}

	log.Info().
		Str("user_id", user.ID.String()).
		Int("transactions", len(generated)).
		Int64("seed", *fakerSeed).
		Msg("Demo data created")
}
