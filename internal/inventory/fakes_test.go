package inventory

import (
	"context"
	"sort"
	"sync"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/paging"
)

type idSet struct {
	ids map[uint]bool
	err error
}

func newIDSet(ids ...uint) *idSet {
	s := &idSet{ids: map[uint]bool{}}
	for _, id := range ids {
		s.ids[id] = true
	}
	return s
}

func (s *idSet) ExistsByID(_ context.Context, id uint) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.ids[id], nil
}

// memoryCopies is an in-memory CopyStore keyed by BookCopyKey.
type memoryCopies struct {
	mu     sync.Mutex
	stock  map[entities.BookCopyKey]int
	titles map[uint]string

	inserts int
	updates int
	// beforeApply runs ahead of every ApplyDelta, simulating a concurrent writer.
	beforeApply func(stock map[entities.BookCopyKey]int)
}

func newMemoryCopies() *memoryCopies {
	return &memoryCopies{
		stock:  map[entities.BookCopyKey]int{},
		titles: map[uint]string{},
	}
}

func (m *memoryCopies) FindForUpdate(_ context.Context, key entities.BookCopyKey) (*entities.BookCopy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.stock[key]
	if !ok {
		return nil, entities.ErrNotFound
	}
	return &entities.BookCopy{BookID: key.BookID, LocationID: key.LocationID, Quantity: q}, nil
}

func (m *memoryCopies) FindQuantity(_ context.Context, locationID, bookID uint) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.stock[entities.BookCopyKey{BookID: bookID, LocationID: locationID}]
	if !ok {
		return 0, entities.ErrNotFound
	}
	return q, nil
}

func (m *memoryCopies) FindAllAtLocation(_ context.Context, locationID uint, req paging.Request) (paging.Page[entities.BookWithQuantity], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var rows []entities.BookWithQuantity
	for key, q := range m.stock {
		if key.LocationID == locationID {
			rows = append(rows, entities.BookWithQuantity{BookID: key.BookID, Title: m.titles[key.BookID], Quantity: q})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Title != rows[j].Title {
			return rows[i].Title < rows[j].Title
		}
		return rows[i].BookID < rows[j].BookID
	})

	total := int64(len(rows))
	start := min(req.Offset(), len(rows))
	end := min(start+req.Size, len(rows))
	return paging.New(rows[start:end], req, total), nil
}

func (m *memoryCopies) Insert(_ context.Context, record *entities.BookCopy) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserts++
	key := record.Key()
	m.stock[key] += record.Quantity
	record.Quantity = m.stock[key]
	return record.Quantity, nil
}

func (m *memoryCopies) ApplyDelta(_ context.Context, key entities.BookCopyKey, delta int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.beforeApply != nil {
		m.beforeApply(m.stock)
	}
	q, ok := m.stock[key]
	if !ok || q+delta < 0 {
		return 0, nil
	}
	m.updates++
	m.stock[key] = q + delta
	return 1, nil
}

func (m *memoryCopies) quantity(locationID, bookID uint) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.stock[entities.BookCopyKey{BookID: bookID, LocationID: locationID}]
	return q, ok
}

// directTx runs the unit of work without a real transaction; the service
// never writes before its last check, so failed calls leave the fakes as-is.
type directTx struct {
	repos Repositories
	calls int
}

func (d *directTx) InTx(_ context.Context, fn func(Repositories) error) error {
	d.calls++
	return fn(d.repos)
}

type recorder struct {
	mu      sync.Mutex
	changes []StockChange
}

func (r *recorder) StockChanged(_ context.Context, change StockChange) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, change)
}

func (r *recorder) all() []StockChange {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]StockChange(nil), r.changes...)
}
