package pos_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/foodiespos/terminal/internal/modules/auth"
	"github.com/foodiespos/terminal/internal/modules/catalog"
	"github.com/foodiespos/terminal/internal/modules/order"
	"github.com/foodiespos/terminal/internal/modules/pos"
	"github.com/foodiespos/terminal/internal/modules/seating"
	"github.com/foodiespos/terminal/internal/remote"
)

type MockRemoteAPI struct {
	mock.Mock
}

func (m *MockRemoteAPI) CreateOrder(ctx context.Context, payload remote.OrderPayload) (int64, error) {
	args := m.Called(ctx, payload)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRemoteAPI) SetGuests(ctx context.Context, orderID int64, guests int) error {
	args := m.Called(ctx, orderID, guests)
	return args.Error(0)
}

func (m *MockRemoteAPI) SubmitPayments(ctx context.Context, payments []remote.Payment) error {
	args := m.Called(ctx, payments)
	return args.Error(0)
}

func (m *MockRemoteAPI) PrintOrder(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockRemoteAPI) PrintReceipt(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockRemoteAPI) PushTables(ctx context.Context, tables []seating.Table) error {
	args := m.Called(ctx, tables)
	return args.Error(0)
}

type stubAuthenticator struct {
	result remote.SignInResult
}

func (s stubAuthenticator) SignIn(ctx context.Context, username, password string) (remote.SignInResult, error) {
	return s.result, nil
}

type stubFeed struct {
	agents []catalog.Agent
}

func (f stubFeed) Categories(ctx context.Context) ([]catalog.Category, error) { return nil, nil }
func (f stubFeed) Items(ctx context.Context) ([]catalog.Item, error)          { return nil, nil }
func (f stubFeed) Agents(ctx context.Context) ([]catalog.Agent, error)        { return f.agents, nil }

type fixture struct {
	orders  *order.Store
	seating *seating.Store
	catalog catalog.Service
	session *auth.Session
	api     *MockRemoteAPI
	service *pos.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	session := auth.NewSession()
	authService := auth.NewService(session, stubAuthenticator{
		result: remote.SignInResult{Token: "tok", ID: 9, Username: "alice", Role: "WAITER"},
	}, "")
	_, err := authService.SignIn(context.Background(), "alice", "pw")
	require.NoError(t, err)

	catalogService := catalog.NewService(stubFeed{})
	require.NoError(t, catalogService.Load(context.Background()))

	f := &fixture{
		orders:  order.NewStore(),
		seating: seating.NewStore(testLayout()),
		catalog: catalogService,
		session: session,
		api:     new(MockRemoteAPI),
	}
	f.service = pos.NewService(f.orders, f.seating, f.catalog, f.session, f.api)
	return f
}

func testLayout() []seating.Floor {
	return []seating.Floor{
		{
			ID:   1,
			Name: "Ground Floor",
			Areas: []seating.Area{
				{
					ID:   10,
					Name: "Main",
					Tables: []seating.Table{
						{ID: 100, Number: 1, Chairs: 4, Status: seating.StatusFree},
					},
				},
			},
		},
	}
}

func burger() catalog.Item {
	return catalog.Item{ID: 1, Name: "Burger", Price: 50}
}

func TestService_SubmitOrder(t *testing.T) {
	f := newFixture(t)
	f.orders.AddItem(burger())
	f.orders.AddItem(burger())
	f.seating.SelectTable(100)
	f.catalog.ChooseCustomRate(20)

	f.api.On("CreateOrder", mock.Anything, mock.MatchedBy(func(p remote.OrderPayload) bool {
		return len(p.Items) == 2 &&
			p.OrderType == "AT_THE_TABLE" &&
			p.DiningTable != nil && *p.DiningTable == 100 &&
			p.TVARate != nil && *p.TVARate == 20 &&
			p.Guests == 1 &&
			p.User == 9
	})).Return(int64(42), nil).Once()
	f.api.On("PrintOrder", mock.Anything, int64(42)).Return(nil).Once()

	id, err := f.service.SubmitOrder(context.Background(), pos.OrderAtTheTable)

	require.NoError(t, err)
	require.Equal(t, int64(42), id)

	snap := f.orders.Snapshot()
	require.NotNil(t, snap.ID)
	require.Equal(t, int64(42), *snap.ID)
	require.True(t, snap.Items[0].Printed)

	f.api.AssertExpectations(t)
}

func TestService_SubmitOrderTakeawayNeedsNoTable(t *testing.T) {
	f := newFixture(t)
	f.orders.AddItem(burger())

	f.api.On("CreateOrder", mock.Anything, mock.MatchedBy(func(p remote.OrderPayload) bool {
		return p.OrderType == "TAKEAWAY" && p.DiningTable == nil && p.TVARate == nil
	})).Return(int64(7), nil).Once()
	f.api.On("PrintOrder", mock.Anything, int64(7)).Return(nil).Once()

	_, err := f.service.SubmitOrder(context.Background(), pos.OrderTakeaway)

	require.NoError(t, err)
	f.api.AssertExpectations(t)
}

func TestService_SubmitOrderPreconditions(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.SubmitOrder(context.Background(), pos.OrderType("BOGUS"))
	require.ErrorIs(t, err, pos.ErrUnknownOrderType)

	_, err = f.service.SubmitOrder(context.Background(), pos.OrderTakeaway)
	require.ErrorIs(t, err, pos.ErrEmptyOrder)

	f.orders.AddItem(burger())
	_, err = f.service.SubmitOrder(context.Background(), pos.OrderAtTheTable)
	require.ErrorIs(t, err, pos.ErrNoTableSelected)
}

func TestService_SubmitOrderPrintFailureKeepsID(t *testing.T) {
	f := newFixture(t)
	f.orders.AddItem(burger())

	f.api.On("CreateOrder", mock.Anything, mock.Anything).Return(int64(42), nil).Once()
	f.api.On("PrintOrder", mock.Anything, int64(42)).Return(errors.New("printer offline")).Once()

	id, err := f.service.SubmitOrder(context.Background(), pos.OrderTakeaway)

	require.ErrorIs(t, err, pos.ErrPrintFailed)
	require.Equal(t, int64(42), id)

	snap := f.orders.Snapshot()
	require.Equal(t, int64(42), *snap.ID)
	require.False(t, snap.Items[0].Printed)
}

func TestService_Pay(t *testing.T) {
	f := newFixture(t)
	f.orders.AddItem(burger())
	f.orders.AddItem(burger()) // total 100
	f.orders.SetOrderID(42)

	f.api.On("SubmitPayments", mock.Anything, []remote.Payment{
		{OrderID: 42, Amount: 60, PaymentType: "TPE"},
		{OrderID: 42, Amount: 50, PaymentType: "CASH"},
	}).Return(nil).Once()
	f.api.On("PrintReceipt", mock.Anything, int64(42)).Return(nil).Once()

	summary, err := f.service.Pay(context.Background(), []pos.PaymentSplit{
		{Method: pos.PaymentTPE, Amount: 60},
		{Method: pos.PaymentCash, Amount: 50},
	})

	require.NoError(t, err)
	require.Equal(t, float64(110), summary.Paid)
	require.Equal(t, float64(10), summary.ToGiveBack)
	require.Zero(t, summary.Remaining)

	f.api.AssertExpectations(t)
}

func TestService_PayPreconditions(t *testing.T) {
	f := newFixture(t)
	f.orders.AddItem(burger())

	_, err := f.service.Pay(context.Background(), []pos.PaymentSplit{{Method: pos.PaymentCash, Amount: 50}})
	require.ErrorIs(t, err, pos.ErrOrderNotPersisted)

	f.orders.SetOrderID(42)
	_, err = f.service.Pay(context.Background(), nil)
	require.ErrorIs(t, err, pos.ErrNoPayments)

	_, err = f.service.Pay(context.Background(), []pos.PaymentSplit{{Method: "CHEQUE", Amount: 50}})
	require.ErrorIs(t, err, pos.ErrUnknownMethod)
}

func TestService_SetGuests(t *testing.T) {
	f := newFixture(t)

	// Remote untouched while the order is local-only.
	require.NoError(t, f.service.SetGuests(context.Background(), 4))
	require.Equal(t, 4, f.orders.Snapshot().Guests)

	f.orders.SetOrderID(42)
	f.api.On("SetGuests", mock.Anything, int64(42), 6).Return(nil).Once()

	require.NoError(t, f.service.SetGuests(context.Background(), 6))
	require.Equal(t, 6, f.orders.Snapshot().Guests)

	f.api.AssertExpectations(t)
}

func TestService_DetachTable(t *testing.T) {
	f := newFixture(t)
	f.orders.AddItem(burger())
	f.seating.SelectTable(100)
	f.catalog.ChooseCustomRate(20)

	f.service.DetachTable()

	_, selected := f.seating.SelectedTableID()
	require.False(t, selected)
	require.Nil(t, f.catalog.ChosenAgent())
	require.Empty(t, f.orders.Snapshot().Items)
}

func TestService_SyncTables(t *testing.T) {
	f := newFixture(t)

	// Nothing modified, no remote call.
	require.NoError(t, f.service.SyncTables(context.Background()))

	f.seating.SelectFloor(1)
	f.seating.SelectArea(10)
	f.seating.UpdateTableStatus(100, seating.StatusOccupied)

	f.api.On("PushTables", mock.Anything, mock.MatchedBy(func(tables []seating.Table) bool {
		return len(tables) == 1 && tables[0].ID == 100
	})).Return(nil).Once()

	require.NoError(t, f.service.SyncTables(context.Background()))
	require.Empty(t, f.seating.ModifiedTables())

	f.api.AssertExpectations(t)
}

func TestService_SyncTablesFailureKeepsMarkers(t *testing.T) {
	f := newFixture(t)
	f.seating.SelectFloor(1)
	f.seating.SelectArea(10)
	f.seating.UpdateTableStatus(100, seating.StatusOccupied)

	f.api.On("PushTables", mock.Anything, mock.Anything).Return(errors.New("remote down")).Once()

	require.Error(t, f.service.SyncTables(context.Background()))
	require.Len(t, f.seating.ModifiedTables(), 1)
}

func TestService_Transferable(t *testing.T) {
	f := newFixture(t)
	require.False(t, f.service.Transferable())

	f.seating.SelectTable(100)
	require.True(t, f.service.Transferable())
	f.seating.ClearTableSelection()

	f.orders.AddItem(burger())
	f.seating.SelectTable(100)
	f.api.On("CreateOrder", mock.Anything, mock.Anything).Return(int64(42), nil).Once()
	f.api.On("PrintOrder", mock.Anything, int64(42)).Return(nil).Once()
	_, err := f.service.SubmitOrder(context.Background(), pos.OrderAtTheTable)
	require.NoError(t, err)

	f.seating.ClearTableSelection()
	require.True(t, f.service.Transferable())
}

func TestService_ApplyKeypad(t *testing.T) {
	f := newFixture(t)
	o := f.orders.AddItem(burger())
	f.orders.ToggleSelection(o.Items[0].ID)

	require.NoError(t, f.service.ApplyKeypad(pos.ActionQuantity, 3))
	require.Equal(t, 3, f.orders.Snapshot().Items[0].Quantity)

	require.NoError(t, f.service.ApplyKeypad(pos.ActionPrice, 40))
	require.Equal(t, float64(40), f.orders.Snapshot().Items[0].Details.Price)

	require.NoError(t, f.service.ApplyKeypad(pos.ActionDiscount, 10))
	snap := f.orders.Snapshot()
	require.Equal(t, float64(120), snap.SubTotal)
	require.Equal(t, float64(108), snap.Total)

	require.ErrorIs(t, f.service.ApplyKeypad(pos.KeypadAction("BOGUS"), 1), pos.ErrUnknownAction)
	require.ErrorIs(t, f.service.ApplyKeypad(pos.ActionQuantity, 0), order.ErrInvalidQuantity)
}
