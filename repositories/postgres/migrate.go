package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/upb/coffee-shop/migrations"
	"github.com/upb/coffee-shop/models"
	"github.com/upb/coffee-shop/repositories"
	"go.uber.org/zap"
)

// seams for testing goose without a live database
var (
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.UpContext(ctx, db, dir, opts...)
	}
	gooseResetContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.ResetContext(ctx, db, dir, opts...)
	}
)

// sampleDrinks are inserted after a schema reset
var sampleDrinks = []struct {
	title  string
	recipe []models.Ingredient
}{
	{title: "water", recipe: []models.Ingredient{{Name: "water", Color: "blue", Parts: 1}}},
}

// gooseLogger routes goose output through zap
type gooseLogger struct {
	sugar *zap.SugaredLogger
}

func (l *gooseLogger) Printf(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

func (l *gooseLogger) Fatalf(format string, v ...interface{}) {
	l.sugar.Fatalf(format, v...)
}

// Migrate applies the embedded schema migrations. When reset is set every
// migration is rolled back first, all data is lost, and the sample drinks are seeded.
func Migrate(ctx context.Context, db *DB, reset bool, logger *zap.Logger) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(&gooseLogger{sugar: logger.Sugar()})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if reset {
		logger.Warn("resetting database schema, all drinks will be dropped")
		if err := gooseResetContext(ctx, db.DB, "."); err != nil {
			return fmt.Errorf("failed to reset schema: %w", err)
		}
	}

	if err := gooseUpContext(ctx, db.DB, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("database migrations applied")

	if reset {
		return seed(ctx, NewDrinkRepository(db, logger))
	}
	return nil
}

func seed(ctx context.Context, repo repositories.DrinkRepository) error {
	for _, sample := range sampleDrinks {
		drink, err := models.NewDrink(sample.title, sample.recipe)
		if err != nil {
			return err
		}
		if err := repo.Create(ctx, drink); err != nil {
			return fmt.Errorf("failed to seed drink %q: %w", sample.title, err)
		}
	}
	return nil
}
