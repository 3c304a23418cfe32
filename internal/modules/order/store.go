package order

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/foodiespos/terminal/internal/modules/catalog"
)

var (
	ErrInvalidDiscount = errors.New("order: discount must be non-negative")
	ErrInvalidType     = errors.New("order: unknown discount type")
	ErrInvalidQuantity = errors.New("order: quantity must be at least 1")
	ErrInvalidPrice    = errors.New("order: price must be non-negative")
	ErrInvalidGuests   = errors.New("order: guests must be non-negative")
)

// Store owns the single active order. Mutations rebuild the order
// copy-on-write, recompute the derived totals and swap the snapshot
// atomically under the lock; readers always see a complete order.
// Mutations that target a selection are silent no-ops when nothing is
// selected — the UI is expected to disable the triggering control.
type Store struct {
	mu    sync.RWMutex
	order Order
}

// NewStore creates a store holding an empty order for one guest.
func NewStore() *Store {
	return &Store{order: emptyOrder()}
}

func emptyOrder() Order {
	return Order{Items: []Line{}, Guests: 1, DiscountType: DiscountPercentage}
}

// Snapshot returns a deep copy of the current order.
func (s *Store) Snapshot() Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyOrder(s.order)
}

// AddItem adds one unit of a catalog item. An existing non-customized
// line for the same item absorbs the unit; otherwise a new line is
// appended. Customized lines never merge.
func (s *Store) AddItem(item catalog.Item) Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := copyLines(s.order.Items)
	merged := false
	for i := range items {
		if items[i].ItemID == item.ID && !items[i].Customized {
			items[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, Line{
			ID:     uuid.New(),
			ItemID: item.ID,
			Details: LineDetails{
				Name:     item.Name,
				Price:    item.Price,
				Category: categoryName(item),
			},
			Quantity: 1,
		})
	}

	return s.replaceItems(items)
}

// AddCustomizedItem appends a distinct customized line; it never
// merges, even when the same catalog item is already on the order.
func (s *Store) AddCustomizedItem(item catalog.Item, added []Customization) Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := copyLines(s.order.Items)
	items = append(items, Line{
		ID:     uuid.New(),
		ItemID: item.ID,
		Details: LineDetails{
			Name:     item.Name + customizedSuffix,
			Price:    item.Price,
			Category: categoryName(item),
		},
		Quantity:   1,
		Customized: true,
		Added:      copyCustomizations(added),
	})

	return s.replaceItems(items)
}

// RemoveSelected drops every selected line. With nothing selected the
// order is recomputed but unchanged.
func (s *Store) RemoveSelected() Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]Line, 0, len(s.order.Items))
	for _, line := range s.order.Items {
		if !line.Selected {
			items = append(items, copyLine(line))
		}
	}

	return s.replaceItems(items)
}

// SetDiscount updates the discount amount and type; the total is
// recomputed against the current subtotal.
func (s *Store) SetDiscount(amount float64, dt DiscountType) (Order, error) {
	if amount < 0 {
		return s.Snapshot(), ErrInvalidDiscount
	}
	if !dt.Valid() {
		return s.Snapshot(), ErrInvalidType
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := copyOrder(s.order)
	next.Discount = amount
	next.DiscountType = dt
	recompute(&next)
	s.order = next
	return copyOrder(next), nil
}

// ToggleSelection enforces single-selection: every line is deselected,
// then the target is selected unless it already was (click-to-deselect).
// An unknown line id just clears the selection.
func (s *Store) ToggleSelection(lineID uuid.UUID) Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := copyLines(s.order.Items)
	for i := range items {
		wasSelected := items[i].Selected
		items[i].Selected = items[i].ID == lineID && !wasSelected
	}

	return s.replaceItems(items)
}

// SetSelectedPrice overwrites the unit price on the selected line.
func (s *Store) SetSelectedPrice(price float64) (Order, error) {
	if price < 0 {
		return s.Snapshot(), ErrInvalidPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := copyLines(s.order.Items)
	for i := range items {
		if items[i].Selected {
			items[i].Details.Price = price
		}
	}

	return s.replaceItems(items), nil
}

// SetSelectedQuantity overwrites the quantity on the selected line.
// Quantities below 1 are rejected; removing a line goes through
// RemoveSelected instead.
func (s *Store) SetSelectedQuantity(quantity int) (Order, error) {
	if quantity < 1 {
		return s.Snapshot(), ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := copyLines(s.order.Items)
	for i := range items {
		if items[i].Selected {
			items[i].Quantity = quantity
		}
	}

	return s.replaceItems(items), nil
}

// SetOrderID attaches the remote-assigned identifier. No totals are
// affected.
func (s *Store) SetOrderID(id int64) Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := copyOrder(s.order)
	next.ID = &id
	s.order = next
	return copyOrder(next)
}

// SetGuests updates the guest count for the sitting.
func (s *Store) SetGuests(guests int) (Order, error) {
	if guests < 0 {
		return s.Snapshot(), ErrInvalidGuests
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := copyOrder(s.order)
	next.Guests = guests
	s.order = next
	return copyOrder(next), nil
}

// MarkAllPrinted flags every line as sent to the printer.
func (s *Store) MarkAllPrinted() Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := copyLines(s.order.Items)
	for i := range items {
		items[i].Printed = true
	}

	next := copyOrder(s.order)
	next.Items = items
	s.order = next
	return copyOrder(next)
}

// Reset returns the order to its empty initial state.
func (s *Store) Reset() Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = emptyOrder()
	return copyOrder(s.order)
}

// replaceItems swaps in a new line slice and recomputes the derived
// totals. Callers must hold the write lock.
func (s *Store) replaceItems(items []Line) Order {
	next := s.order
	next.Items = items
	recompute(&next)
	s.order = next
	return copyOrder(next)
}

// recompute refreshes SubTotal and Total from the lines; the discount
// is always resolved against the freshly computed subtotal.
func recompute(o *Order) {
	o.SubTotal = Subtotal(o.Items)
	o.Total = o.SubTotal - EffectiveDiscount(o.DiscountType, o.Discount, o.SubTotal)
}

func categoryName(item catalog.Item) string {
	if item.Category == nil {
		return ""
	}
	return item.Category.Name
}

func copyOrder(o Order) Order {
	out := o
	if o.ID != nil {
		id := *o.ID
		out.ID = &id
	}
	out.Items = copyLines(o.Items)
	return out
}

func copyLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	for i, line := range lines {
		out[i] = copyLine(line)
	}
	return out
}

func copyLine(line Line) Line {
	out := line
	out.Added = copyCustomizations(line.Added)
	return out
}

func copyCustomizations(added []Customization) []Customization {
	if added == nil {
		return nil
	}
	out := make([]Customization, len(added))
	copy(out, added)
	return out
}
