package services

import (
	"context"
	"errors"

	"github.com/upb/coffee-shop/internal/observability"
	"github.com/upb/coffee-shop/models"
	"github.com/upb/coffee-shop/repositories"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DrinkService implements the drink menu operations on top of the repositories
type DrinkService struct {
	drinks repositories.DrinkRepository
	txMgr  repositories.TransactionManager
	logger observability.Logger
	tracer trace.Tracer
}

// NewDrinkService creates a new DrinkService
func NewDrinkService(drinks repositories.DrinkRepository, txMgr repositories.TransactionManager, logger *zap.Logger) *DrinkService {
	return &DrinkService{
		drinks: drinks,
		txMgr:  txMgr,
		logger: observability.NewContextLogger(logger),
		tracer: observability.Tracer(),
	}
}

// ListShort returns the public projection of every drink
func (s *DrinkService) ListShort(ctx context.Context) (result []models.DrinkShort, err error) {
	ctx, span := s.tracer.Start(ctx, "DrinkService.ListShort")
	defer func() { endSpan(span, err) }()

	drinks, err := s.drinks.List(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to list drinks", zap.Error(err))
		return nil, FromRepositoryError(err)
	}

	result = make([]models.DrinkShort, 0, len(drinks))
	for _, d := range drinks {
		short, err := d.Short()
		if err != nil {
			s.logger.Error(ctx, "stored recipe is unreadable", zap.Int64("drink_id", d.ID), zap.Error(err))
			return nil, FromRepositoryError(err)
		}
		result = append(result, short)
	}

	span.SetAttributes(attribute.Int("drinks.count", len(result)))
	return result, nil
}

// ListLong returns the detailed projection of every drink
func (s *DrinkService) ListLong(ctx context.Context) (result []models.DrinkLong, err error) {
	ctx, span := s.tracer.Start(ctx, "DrinkService.ListLong")
	defer func() { endSpan(span, err) }()

	drinks, err := s.drinks.List(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to list drinks", zap.Error(err))
		return nil, FromRepositoryError(err)
	}

	result = make([]models.DrinkLong, 0, len(drinks))
	for _, d := range drinks {
		long, err := d.Long()
		if err != nil {
			s.logger.Error(ctx, "stored recipe is unreadable", zap.Int64("drink_id", d.ID), zap.Error(err))
			return nil, FromRepositoryError(err)
		}
		result = append(result, long)
	}

	span.SetAttributes(attribute.Int("drinks.count", len(result)))
	return result, nil
}

// Create inserts a new drink and returns its detailed projection
func (s *DrinkService) Create(ctx context.Context, title string, recipe []models.Ingredient) (result models.DrinkLong, err error) {
	ctx, span := s.tracer.Start(ctx, "DrinkService.Create")
	defer func() { endSpan(span, err) }()

	drink, err := models.NewDrink(title, recipe)
	if err != nil {
		return models.DrinkLong{}, FromRepositoryError(err)
	}

	err = WithTransaction(ctx, s.txMgr, func(ctx context.Context, tx repositories.Transaction) error {
		return s.drinks.Create(ctx, drink)
	})
	if err != nil {
		s.logger.Error(ctx, "failed to create drink", zap.String("title", title), zap.Error(err))
		return models.DrinkLong{}, FromRepositoryError(err)
	}

	span.SetAttributes(attribute.Int64("drink.id", drink.ID))
	s.logger.Info(ctx, "drink created", zap.Int64("drink_id", drink.ID), zap.String("title", drink.Title))

	return project(drink)
}

// Update applies a partial update to an existing drink and returns its detailed projection
func (s *DrinkService) Update(ctx context.Context, id int64, patch DrinkPatch) (result models.DrinkLong, err error) {
	ctx, span := s.tracer.Start(ctx, "DrinkService.Update", trace.WithAttributes(attribute.Int64("drink.id", id)))
	defer func() { endSpan(span, err) }()

	if patch.IsEmpty() {
		s.logger.Warn(ctx, "empty drink update", zap.Int64("drink_id", id))
		return models.DrinkLong{}, ErrEmptyBody
	}

	drink, err := WithTransactionResult(ctx, s.txMgr, func(ctx context.Context, tx repositories.Transaction) (*models.Drink, error) {
		drink, err := s.drinks.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if err := patch.apply(drink); err != nil {
			return nil, err
		}

		if err := s.drinks.Update(ctx, drink); err != nil {
			return nil, err
		}
		return drink, nil
	})
	if err != nil {
		err = FromRepositoryError(err)
		if isInputError(err) {
			s.logger.Warn(ctx, "drink update rejected", zap.Int64("drink_id", id), zap.Error(err))
		} else {
			s.logger.Error(ctx, "failed to update drink", zap.Int64("drink_id", id), zap.Error(err))
		}
		return models.DrinkLong{}, err
	}

	s.logger.Info(ctx, "drink updated", zap.Int64("drink_id", id))
	return project(drink)
}

// Delete removes a drink
func (s *DrinkService) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := s.tracer.Start(ctx, "DrinkService.Delete", trace.WithAttributes(attribute.Int64("drink.id", id)))
	defer func() { endSpan(span, err) }()

	err = WithTransaction(ctx, s.txMgr, func(ctx context.Context, tx repositories.Transaction) error {
		return s.drinks.Delete(ctx, id)
	})
	if err != nil {
		err = FromRepositoryError(err)
		if IsNotFoundError(err) {
			s.logger.Warn(ctx, "drink not found", zap.Int64("drink_id", id))
		} else {
			s.logger.Error(ctx, "failed to delete drink", zap.Int64("drink_id", id), zap.Error(err))
		}
		return err
	}

	s.logger.Info(ctx, "drink deleted", zap.Int64("drink_id", id))
	return nil
}

// isInputError reports whether err was caused by the request rather than the database
func isInputError(err error) bool {
	return IsNotFoundError(err) ||
		IsUnprocessableError(err) ||
		errors.Is(err, ErrMalformedBody) ||
		GetErrorKind(err) == KindInvalidRecipe
}

func project(drink *models.Drink) (models.DrinkLong, error) {
	long, err := drink.Long()
	if err != nil {
		return models.DrinkLong{}, FromRepositoryError(err)
	}
	return long, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
