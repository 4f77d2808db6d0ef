// Package inventory reconciles the number of copies of each book held at
// each location.
//
// Every quantity change runs in one transaction: the stock record is read
// (and locked where the database supports row locks), missing records are
// created on demand once both parents are known to exist, and a change that
// would leave fewer than zero copies is rejected without writing anything.
// Committed changes are then reported to the registered observers.
//
// # Usage
//
//	svc := inventory.NewService(repos, tx, inventory.WithObservers(metrics, auditor))
//	quantity, err := svc.UpdateQuantity(ctx, locationID, bookID, -2)
//	var insufficient *entities.InsufficientCopiesError
//	if errors.As(err, &insufficient) { ... }
package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/logging"
	"github.com/mrlokans/library/internal/paging"
)

const tracerName = "github.com/mrlokans/library/internal/inventory"

type Service struct {
	repos     Repositories
	tx        Transactor
	observers []Observer
	logger    logrus.FieldLogger
}

type Option func(*Service)

func WithObservers(observers ...Observer) Option {
	return func(s *Service) {
		s.observers = append(s.observers, observers...)
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService builds a service reading through repos and writing through tx.
func NewService(repos Repositories, tx Transactor, opts ...Option) *Service {
	s := &Service{
		repos:  repos,
		tx:     tx,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpdateQuantity adds delta (which may be negative or zero) to the copies of
// bookID held at locationID and returns the resulting quantity.
//
// A missing stock record is created when both the location and the book
// exist; the location is checked first. The call fails with
// *entities.InsufficientCopiesError when the result would be negative and
// with *entities.QuantityOutOfRangeError when it cannot be represented.
func (s *Service) UpdateQuantity(ctx context.Context, locationID, bookID uint, delta int) (int, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "inventory.UpdateQuantity")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("library.location_id", int64(locationID)),
		attribute.Int64("library.book_id", int64(bookID)),
		attribute.Int("library.delta", delta),
	)

	key := entities.BookCopyKey{BookID: bookID, LocationID: locationID}
	var change StockChange

	err := s.tx.InTx(ctx, func(repos Repositories) error {
		current, err := s.resolve(ctx, repos, key)
		if err != nil {
			return err
		}

		previous := current.quantity()
		if outOfRange(previous, delta) {
			return &entities.QuantityOutOfRangeError{
				LocationID: locationID,
				BookID:     bookID,
				Available:  previous,
				Delta:      delta,
			}
		}
		next := previous + delta
		if next < 0 {
			return &entities.InsufficientCopiesError{
				LocationID: locationID,
				BookID:     bookID,
				Available:  previous,
				Requested:  -delta,
			}
		}

		change = StockChange{
			LocationID: locationID,
			BookID:     bookID,
			Delta:      delta,
			Previous:   previous,
			Quantity:   next,
			Created:    !current.found,
		}

		if !current.found {
			stored, err := repos.Copies.Insert(ctx, &entities.BookCopy{
				BookID:     bookID,
				LocationID: locationID,
				Quantity:   delta,
			})
			if err != nil {
				return fmt.Errorf("failed to insert book copy: %w", err)
			}
			// A concurrent first insert may have been merged into ours.
			change.Quantity = stored
			change.Previous = stored - delta
			return nil
		}

		if delta == 0 {
			return nil
		}
		return s.applyDelta(ctx, repos, key, delta)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if !errors.Is(err, entities.ErrNotFound) && !errors.Is(err, entities.ErrConflict) &&
			!errors.Is(err, entities.ErrInvalidArgument) {
			logging.LogError(s.logger, "inventory", "UpdateQuantity", key, err)
		}
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"location_id": locationID,
		"book_id":     bookID,
		"delta":       delta,
		"quantity":    change.Quantity,
	}).Debug("Book copies updated")

	if delta != 0 {
		s.notify(ctx, change)
	}
	return change.Quantity, nil
}

// outOfRange reports whether previous+delta overflows an int, or whether
// -delta does.
func outOfRange(previous, delta int) bool {
	return delta == math.MinInt || (delta > 0 && previous > math.MaxInt-delta)
}

// resolve reads the stock record, checking that both parents exist when
// there is none yet.
func (s *Service) resolve(ctx context.Context, repos Repositories, key entities.BookCopyKey) (lookup, error) {
	record, err := repos.Copies.FindForUpdate(ctx, key)
	switch {
	case err == nil:
		return found(record), nil
	case !errors.Is(err, entities.ErrNotFound):
		return lookup{}, fmt.Errorf("failed to read book copy: %w", err)
	}

	if err := requireLocation(ctx, repos.Locations, key.LocationID); err != nil {
		return lookup{}, err
	}
	if err := requireBook(ctx, repos.Books, key.BookID); err != nil {
		return lookup{}, err
	}
	return notFound(), nil
}

// applyDelta writes a change to an existing record. The guarded update can
// still miss when another writer drained the stock after our read; the
// fresh quantity is reported in that case.
func (s *Service) applyDelta(ctx context.Context, repos Repositories, key entities.BookCopyKey, delta int) error {
	rows, err := repos.Copies.ApplyDelta(ctx, key, delta)
	if err != nil {
		return fmt.Errorf("failed to update book copy: %w", err)
	}
	if rows > 0 {
		return nil
	}

	available, err := repos.Copies.FindQuantity(ctx, key.LocationID, key.BookID)
	if err != nil {
		return fmt.Errorf("book copy changed during update: %w", err)
	}
	return &entities.InsufficientCopiesError{
		LocationID: key.LocationID,
		BookID:     key.BookID,
		Available:  available,
		Requested:  -delta,
	}
}

// GetQuantity returns the copies of bookID held at locationID. Existing
// parents without a stock record report zero.
func (s *Service) GetQuantity(ctx context.Context, locationID, bookID uint) (int, error) {
	if err := requireLocation(ctx, s.repos.Locations, locationID); err != nil {
		return 0, err
	}
	if err := requireBook(ctx, s.repos.Books, bookID); err != nil {
		return 0, err
	}

	quantity, err := s.repos.Copies.FindQuantity(ctx, locationID, bookID)
	if errors.Is(err, entities.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read book copy: %w", err)
	}
	return quantity, nil
}

// GetBooksAtLocation lists the stock held at a location.
func (s *Service) GetBooksAtLocation(ctx context.Context, locationID uint, req paging.Request) (paging.Page[entities.BookWithQuantity], error) {
	if err := requireLocation(ctx, s.repos.Locations, locationID); err != nil {
		return paging.Page[entities.BookWithQuantity]{}, err
	}
	return s.repos.Copies.FindAllAtLocation(ctx, locationID, req)
}

func (s *Service) notify(ctx context.Context, change StockChange) {
	for _, observer := range s.observers {
		s.notifyOne(ctx, observer, change)
	}
}

func (s *Service) notifyOne(ctx context.Context, observer Observer, change StockChange) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("panic", r).Error("Stock observer panicked")
		}
	}()
	observer.StockChanged(ctx, change)
}

func requireLocation(ctx context.Context, locations LocationStore, id uint) error {
	exists, err := locations.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check location %d: %w", id, err)
	}
	if !exists {
		return &entities.LocationNotFoundError{ID: id}
	}
	return nil
}

func requireBook(ctx context.Context, books BookStore, id uint) error {
	exists, err := books.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check book %d: %w", id, err)
	}
	if !exists {
		return &entities.BookNotFoundError{ID: id}
	}
	return nil
}
