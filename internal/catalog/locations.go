package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrlokans/library/internal/database/locations"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/paging"
)

const entityLocation = "location"

func (s *Service) GetLocation(ctx context.Context, id uint) (*entities.Location, error) {
	location, err := s.locations.FindByID(ctx, id)
	if errors.Is(err, entities.ErrNotFound) {
		return nil, &entities.LocationNotFoundError{ID: id}
	}
	return location, err
}

func (s *Service) ListLocations(ctx context.Context, filter locations.Filter, req paging.Request) (paging.Page[entities.Location], error) {
	return s.locations.FindAll(ctx, filter, req)
}

func (s *Service) CreateLocation(ctx context.Context, location *entities.Location) (*entities.Location, error) {
	if err := s.ensureNameFree(ctx, location.Name, 0); err != nil {
		return nil, err
	}

	location.ID = 0
	if err := s.locations.Create(ctx, location); err != nil {
		if errors.Is(err, entities.ErrDuplicateKey) {
			return nil, &entities.LocationAlreadyExistsError{Name: location.Name}
		}
		return nil, fmt.Errorf("failed to create location: %w", err)
	}

	s.logger.WithField("location_id", location.ID).Info("Location created")
	s.audit.LogCreate(entityLocation, location.ID, location.Name)
	return location, nil
}

func (s *Service) UpdateLocation(ctx context.Context, id uint, input *entities.Location) (*entities.Location, error) {
	location, err := s.GetLocation(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != location.Name {
		if err := s.ensureNameFree(ctx, input.Name, id); err != nil {
			return nil, err
		}
	}

	location.Name = input.Name
	location.Address = input.Address

	if err := s.locations.Save(ctx, location); err != nil {
		if errors.Is(err, entities.ErrDuplicateKey) {
			return nil, &entities.LocationAlreadyExistsError{Name: location.Name}
		}
		return nil, fmt.Errorf("failed to update location %d: %w", id, err)
	}

	s.audit.LogUpdate(entityLocation, location.ID, location.Name)
	return location, nil
}

// DeleteLocation removes the location and the stock it holds.
func (s *Service) DeleteLocation(ctx context.Context, id uint) error {
	location, err := s.GetLocation(ctx, id)
	if err != nil {
		return err
	}

	if err := s.locations.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return &entities.LocationNotFoundError{ID: id}
		}
		return fmt.Errorf("failed to delete location %d: %w", id, err)
	}

	s.logger.WithField("location_id", id).Info("Location deleted")
	s.audit.LogDelete(entityLocation, id, location.Name)
	return nil
}

func (s *Service) ensureNameFree(ctx context.Context, name string, exceptID uint) error {
	existing, err := s.locations.FindByName(ctx, name)
	switch {
	case errors.Is(err, entities.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to look up location %q: %w", name, err)
	case existing.ID != exceptID:
		return &entities.LocationAlreadyExistsError{Name: name}
	}
	return nil
}
