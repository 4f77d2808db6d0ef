package inventory

import "context"

// StockChange describes one committed quantity update.
type StockChange struct {
	LocationID uint
	BookID     uint
	Delta      int
	Previous   int
	Quantity   int
	// Created is set when the update materialised a new stock record.
	Created bool
}

// Observer is notified after a non-zero quantity change has been committed.
type Observer interface {
	StockChanged(ctx context.Context, change StockChange)
}

type ObserverFunc func(ctx context.Context, change StockChange)

func (f ObserverFunc) StockChanged(ctx context.Context, change StockChange) {
	f(ctx, change)
}
