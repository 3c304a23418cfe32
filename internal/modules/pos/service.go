package pos

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/foodiespos/terminal/internal/modules/auth"
	"github.com/foodiespos/terminal/internal/modules/catalog"
	"github.com/foodiespos/terminal/internal/modules/order"
	"github.com/foodiespos/terminal/internal/modules/seating"
	"github.com/foodiespos/terminal/internal/remote"
)

var (
	ErrNotSignedIn       = errors.New("pos: no operator signed in")
	ErrEmptyOrder        = errors.New("pos: order has no items")
	ErrNoTableSelected   = errors.New("pos: a table must be selected for an at-the-table order")
	ErrOrderNotPersisted = errors.New("pos: order has not been submitted yet")
	ErrNoPayments        = errors.New("pos: at least one payment split is required")
	ErrUnknownOrderType  = errors.New("pos: unknown order type")
	ErrUnknownMethod     = errors.New("pos: unknown payment method")
	ErrUnknownAction     = errors.New("pos: unknown keypad action")

	// ErrPrintFailed marks a submission or payment whose remote call
	// succeeded but whose print request did not; the identity/state
	// changes are kept.
	ErrPrintFailed = errors.New("pos: print request failed")
)

// RemoteAPI is the slice of the remote client the session needs.
type RemoteAPI interface {
	CreateOrder(ctx context.Context, payload remote.OrderPayload) (int64, error)
	SetGuests(ctx context.Context, orderID int64, guests int) error
	SubmitPayments(ctx context.Context, payments []remote.Payment) error
	PrintOrder(ctx context.Context, orderID int64) error
	PrintReceipt(ctx context.Context, orderID int64) error
	PushTables(ctx context.Context, tables []seating.Table) error
}

// Service orchestrates the two stores, the catalog and the remote API
// for the whole sitting: order submission, payments, printing, table
// detachment and layout sync. It owns no money arithmetic of its own —
// all totals come from the order store's snapshot.
type Service struct {
	orders  *order.Store
	seating *seating.Store
	catalog catalog.Service
	session *auth.Session
	api     RemoteAPI

	mu            sync.RWMutex
	lastOrderType OrderType
}

func NewService(orders *order.Store, seatingStore *seating.Store, catalogService catalog.Service, session *auth.Session, api RemoteAPI) *Service {
	return &Service{
		orders:  orders,
		seating: seatingStore,
		catalog: catalogService,
		session: session,
		api:     api,
	}
}

// SubmitOrder flattens the current order and creates it remotely. The
// assigned id is attached to the local order, the kitchen ticket is
// printed and the lines are flagged printed. A failed print keeps the
// assigned id and reports ErrPrintFailed.
func (s *Service) SubmitOrder(ctx context.Context, orderType OrderType) (int64, error) {
	if !orderType.Valid() {
		return 0, ErrUnknownOrderType
	}
	user, ok := s.session.User()
	if !ok {
		return 0, ErrNotSignedIn
	}

	snap := s.orders.Snapshot()
	if len(snap.Items) == 0 {
		return 0, ErrEmptyOrder
	}

	payload := remote.OrderPayload{
		Items:        order.Flatten(snap.Items),
		Discount:     snap.Discount,
		DiscountType: snap.DiscountType,
		OrderType:    string(orderType),
		Guests:       snap.Guests,
		User:         user.ID,
	}
	if orderType == OrderAtTheTable {
		tableID, selected := s.seating.SelectedTableID()
		if !selected {
			return 0, ErrNoTableSelected
		}
		payload.DiningTable = &tableID
	}
	if agent := s.catalog.ChosenAgent(); agent != nil {
		rate := agent.TVARate
		payload.TVARate = &rate
	}

	id, err := s.api.CreateOrder(ctx, payload)
	if err != nil {
		return 0, fmt.Errorf("pos: create order: %w", err)
	}

	s.orders.SetOrderID(id)
	s.mu.Lock()
	s.lastOrderType = orderType
	s.mu.Unlock()

	log.Info().Int64("order_id", id).Str("order_type", string(orderType)).Msg("order submitted")

	if err := s.api.PrintOrder(ctx, id); err != nil {
		log.Warn().Err(err).Int64("order_id", id).Msg("kitchen ticket print failed")
		return id, fmt.Errorf("%w: %v", ErrPrintFailed, err)
	}
	s.orders.MarkAllPrinted()
	return id, nil
}

// Pay submits the payment splits for the persisted order and requests
// the receipt print. The local order state is untouched; settlement is
// the remote's concern.
func (s *Service) Pay(ctx context.Context, splits []PaymentSplit) (PaymentSummary, error) {
	snap := s.orders.Snapshot()
	if snap.ID == nil {
		return PaymentSummary{}, ErrOrderNotPersisted
	}
	if len(splits) == 0 {
		return PaymentSummary{}, ErrNoPayments
	}

	payments := make([]remote.Payment, 0, len(splits))
	for _, split := range splits {
		if !split.Method.Valid() {
			return PaymentSummary{}, ErrUnknownMethod
		}
		payments = append(payments, remote.Payment{
			OrderID:     *snap.ID,
			Amount:      split.Amount,
			PaymentType: string(split.Method),
		})
	}

	if err := s.api.SubmitPayments(ctx, payments); err != nil {
		return PaymentSummary{}, fmt.Errorf("pos: submit payments: %w", err)
	}

	summary := Summarize(snap.Total, splits)
	log.Info().Int64("order_id", *snap.ID).Float64("paid", summary.Paid).Msg("payments recorded")

	if err := s.api.PrintReceipt(ctx, *snap.ID); err != nil {
		log.Warn().Err(err).Int64("order_id", *snap.ID).Msg("receipt print failed")
		return summary, fmt.Errorf("%w: %v", ErrPrintFailed, err)
	}
	return summary, nil
}

// Preview computes the live payment arithmetic for a draft split list
// without touching any state.
func (s *Service) Preview(splits []PaymentSplit) PaymentSummary {
	return Summarize(s.orders.Snapshot().Total, splits)
}

// PrintBill requests a receipt print for the persisted order and flags
// the lines printed.
func (s *Service) PrintBill(ctx context.Context) error {
	snap := s.orders.Snapshot()
	if snap.ID == nil {
		return ErrOrderNotPersisted
	}
	if err := s.api.PrintReceipt(ctx, *snap.ID); err != nil {
		return fmt.Errorf("pos: print bill: %w", err)
	}
	s.orders.MarkAllPrinted()
	return nil
}

// SetGuests updates the local guest count and, once the order is
// persisted, pushes the new count to the remote. A failed remote call
// keeps the local count.
func (s *Service) SetGuests(ctx context.Context, guests int) error {
	snap, err := s.orders.SetGuests(guests)
	if err != nil {
		return err
	}
	if snap.ID == nil {
		return nil
	}
	if err := s.api.SetGuests(ctx, *snap.ID, guests); err != nil {
		return fmt.Errorf("pos: update remote guest count: %w", err)
	}
	return nil
}

// DetachTable ends the sitting: table selection and tax agent are
// cleared and the order returns to its empty state.
func (s *Service) DetachTable() {
	s.seating.ClearTableSelection()
	s.catalog.ClearAgent()
	s.orders.Reset()

	s.mu.Lock()
	s.lastOrderType = ""
	s.mu.Unlock()
}

// SyncTables pushes every modified table to the remote and clears the
// dirty markers on success. With nothing modified it is a no-op.
func (s *Service) SyncTables(ctx context.Context) error {
	modified := s.seating.ModifiedTables()
	if len(modified) == 0 {
		return nil
	}
	if err := s.api.PushTables(ctx, modified); err != nil {
		return fmt.Errorf("pos: push tables: %w", err)
	}
	s.seating.ResetModified()
	log.Info().Int("tables", len(modified)).Msg("table layout synced")
	return nil
}

// Transferable reports whether the current order can be moved to
// another table: either it is a persisted at-the-table order or a
// table is currently selected.
func (s *Service) Transferable() bool {
	s.mu.RLock()
	lastType := s.lastOrderType
	s.mu.RUnlock()

	snap := s.orders.Snapshot()
	if snap.ID != nil && lastType == OrderAtTheTable {
		return true
	}
	_, selected := s.seating.SelectedTableID()
	return selected
}

// ApplyKeypad routes a numeric entry to the mutation the active keypad
// mode targets.
func (s *Service) ApplyKeypad(action KeypadAction, value float64) error {
	switch action {
	case ActionQuantity:
		_, err := s.orders.SetSelectedQuantity(int(value))
		return err
	case ActionDiscount:
		snap := s.orders.Snapshot()
		_, err := s.orders.SetDiscount(value, snap.DiscountType)
		return err
	case ActionPrice:
		_, err := s.orders.SetSelectedPrice(value)
		return err
	default:
		return ErrUnknownAction
	}
}
