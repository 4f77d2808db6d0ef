package inventory

import "github.com/mrlokans/library/internal/entities"

// lookup is the outcome of resolving a stock record: either found, holding
// the stored record, or not found.
type lookup struct {
	record *entities.BookCopy
	found  bool
}

func found(record *entities.BookCopy) lookup {
	return lookup{record: record, found: true}
}

func notFound() lookup {
	return lookup{}
}

// quantity of the record, zero when nothing is stored yet.
func (l lookup) quantity() int {
	if !l.found {
		return 0
	}
	return l.record.Quantity
}
