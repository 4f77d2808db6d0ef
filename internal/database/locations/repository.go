// Package locations provides database operations for library branches.
package locations

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/database/dbutil"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/paging"
)

var SortColumns = map[string]string{
	"id":      "id",
	"name":    "name",
	"address": "address",
}

var defaultSort = paging.Order{Field: "name", Direction: paging.Asc}

// Filter narrows FindAll with case-insensitive substring matches.
type Filter struct {
	Name    string
	Address string
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, location *entities.Location) error {
	return dbutil.Translate(r.db.WithContext(ctx).Create(location).Error)
}

func (r *Repository) Save(ctx context.Context, location *entities.Location) error {
	return dbutil.Translate(r.db.WithContext(ctx).Save(location).Error)
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*entities.Location, error) {
	var location entities.Location
	if err := r.db.WithContext(ctx).First(&location, id).Error; err != nil {
		return nil, dbutil.Translate(err)
	}
	return &location, nil
}

func (r *Repository) FindByName(ctx context.Context, name string) (*entities.Location, error) {
	var location entities.Location
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&location).Error; err != nil {
		return nil, dbutil.Translate(err)
	}
	return &location, nil
}

func (r *Repository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Location{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// DeleteByID removes the location together with its stock records.
func (r *Repository) DeleteByID(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("location_id = ?", id).Delete(&entities.BookCopy{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Location{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("location %d: %w", id, entities.ErrNotFound)
		}
		return nil
	})
}

func (r *Repository) FindAll(ctx context.Context, filter Filter, req paging.Request) (paging.Page[entities.Location], error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entities.Location{}).Scopes(filter.scope).Count(&total).Error
	if err != nil {
		return paging.Page[entities.Location]{}, err
	}

	query, err := req.Apply(r.db.WithContext(ctx).Scopes(filter.scope), SortColumns, defaultSort)
	if err != nil {
		return paging.Page[entities.Location]{}, err
	}

	var locations []entities.Location
	if err := query.Order("id").Find(&locations).Error; err != nil {
		return paging.Page[entities.Location]{}, err
	}
	return paging.New(locations, req, total), nil
}

func (f Filter) scope(db *gorm.DB) *gorm.DB {
	if f.Name != "" {
		db = db.Where("LOWER(name) LIKE LOWER(?)", "%"+f.Name+"%")
	}
	if f.Address != "" {
		db = db.Where("LOWER(address) LIKE LOWER(?)", "%"+f.Address+"%")
	}
	return db
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Location{}).Count(&count).Error
	return count, err
}
