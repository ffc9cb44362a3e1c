package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/supermercado/api-supermercado/internal/articulo/repository"
	"github.com/supermercado/api-supermercado/internal/articulo/service"
	"github.com/supermercado/api-supermercado/internal/config"
	"github.com/supermercado/api-supermercado/internal/database"
	"github.com/supermercado/api-supermercado/internal/seed"
	"github.com/supermercado/api-supermercado/internal/storage"
	"github.com/supermercado/api-supermercado/pkg/logger"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:  "seed",
		Usage: "Load the article catalog into MongoDB",
		Description: `Reads a JSON array of articles from a local file or from an object in the
MinIO bucket and inserts every element into the articles collection.

Examples:
  seed --file data/articulos.json
  seed --object catalog/articulos.json --drop`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Path to a local JSON catalog (overrides SEED_FILE)",
			},
			&cli.StringFlag{
				Name:    "object",
				Aliases: []string{"o"},
				Usage:   "Object key in MINIO_BUCKET (overrides SEED_OBJECT)",
			},
			&cli.BoolFlag{
				Name:  "drop",
				Usage: "Delete every existing article before importing (overrides SEED_DROP)",
			},
		},
		Action: run,
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.IsSet("file") {
		cfg.Seed.File = cmd.String("file")
	}
	if cmd.IsSet("object") {
		cfg.Seed.Object = cmd.String("object")
	}
	if cmd.IsSet("drop") {
		cfg.Seed.Drop = cmd.Bool("drop")
	}
	if cfg.MongoDB.URI == "" {
		return fmt.Errorf("MONGODB_URI is required to seed")
	}

	var objects seed.ObjectSource
	if cfg.Seed.File == "" && cfg.MinIO.Endpoint != "" {
		st, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			return err
		}
		objects = st
	}

	client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, cfg.MongoDB.MaxPoolSize, 3)
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	repo := repository.NewMongoRepo(client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection))
	if err := repo.EnsureIndexes(ctx); err != nil {
		logger.Warnf("seed: could not ensure indexes: %v", err)
	}
	// bulk inserts of a large catalog need more than one request's budget
	svc := service.New(repo, 4*cfg.MongoDB.Timeout)

	n, err := seed.Run(ctx, svc, cfg.Seed, objects)
	if err != nil {
		return err
	}
	logger.Infof("seed: imported %d articles into %s.%s", n, cfg.MongoDB.Database, cfg.MongoDB.Collection)
	return nil
}
