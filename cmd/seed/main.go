// Command seed inserts a food group or food item into the catalog
// database from interactive prompts. It shares the configuration and
// persistence layers with the API server, so it works against whichever
// database the server is pointed at.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tastebook/v1/internal/domain/catalog"
	"github.com/tastebook/v1/internal/infrastructure/config"
	"github.com/tastebook/v1/internal/infrastructure/persistence/database"
	gormrepo "github.com/tastebook/v1/internal/infrastructure/persistence/gorm"
	"github.com/tastebook/v1/internal/ports/outbound"
	"github.com/tastebook/v1/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		Development: cfg.App.Debug,
	})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	db, err := database.Connect(cfg, log)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	repo := gormrepo.NewCatalogRepository(db)
	in := bufio.NewScanner(os.Stdin)
	ctx := context.Background()

	switch kind := strings.ToLower(prompt(in, "Add a \"group\" or an \"item\"?")); kind {
	case "group":
		return addGroup(ctx, in, repo, log)
	case "item":
		return addItem(ctx, in, repo, log)
	default:
		return fmt.Errorf("unknown entry kind %q", kind)
	}
}

func addGroup(ctx context.Context, in *bufio.Scanner, repo outbound.CatalogRepository, log *zap.Logger) error {
	name := prompt(in, "What is the name of this food group?")

	group, err := catalog.NewFoodGroup(name)
	if err != nil {
		return err
	}
	if err := repo.CreateFoodGroup(ctx, group); err != nil {
		return err
	}

	log.Info("food group added", zap.Uint("id", group.ID), zap.String("name", group.Name))
	fmt.Printf("%s added to food groups!\n", group.Name)
	return nil
}

func addItem(ctx context.Context, in *bufio.Scanner, repo outbound.CatalogRepository, log *zap.Logger) error {
	name := prompt(in, "What is the name of this food?")

	levels := make([]string, 0, len(catalog.Difficulties()))
	for _, d := range catalog.Difficulties() {
		levels = append(levels, string(d))
	}
	difficulty, err := catalog.ParseDifficulty(prompt(in, fmt.Sprintf("What is this food's difficulty? (%s)", strings.Join(levels, " | "))))
	if err != nil {
		return err
	}

	description := prompt(in, "What is this food's description?")
	recipe := prompt(in, "What is this food's recipe?")

	groupID, err := strconv.ParseUint(prompt(in, "What is this food's food group id?"), 10, 64)
	if err != nil {
		return fmt.Errorf("food group id must be a number: %w", err)
	}
	// Fail early with a clear message instead of a foreign key error.
	group, err := repo.GetFoodGroup(ctx, uint(groupID))
	if err != nil {
		return err
	}

	item, err := catalog.NewFoodItem(name, difficulty, description, recipe, group.ID, "")
	if err != nil {
		return err
	}
	if err := repo.CreateFoodItem(ctx, item); err != nil {
		return err
	}

	log.Info("food item added",
		zap.Uint("id", item.ID),
		zap.String("name", item.Name),
		zap.String("group", group.Name),
	)
	fmt.Printf("%s added to food items!\n", item.Name)
	return nil
}

func prompt(in *bufio.Scanner, question string) string {
	fmt.Printf("\n%s\n:", question)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}
