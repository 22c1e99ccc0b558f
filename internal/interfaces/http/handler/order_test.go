package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	orderapp "github.com/erp/fulfillment/internal/application/order"
	"github.com/erp/fulfillment/internal/domain/order"
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/erp/fulfillment/internal/domain/shared/valueobject"
	"github.com/erp/fulfillment/internal/infrastructure/auth"
	"github.com/erp/fulfillment/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockOrderRepository implements order.Repository for testing
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orgID uuid.UUID, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, orgID, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, orgID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	args := m.Called(ctx, orgID, id)
	return args.Error(0)
}

func (m *MockOrderRepository) ExistsByOrderNumber(ctx context.Context, orgID uuid.UUID, orderNumber string) (bool, error) {
	args := m.Called(ctx, orgID, orderNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) GenerateOrderNumber(ctx context.Context, orgID uuid.UUID, kind order.Kind) (string, error) {
	args := m.Called(ctx, orgID, kind)
	return args.String(0), args.Error(1)
}

// MockApprovalRecordRepository implements order.ApprovalRecordRepository
type MockApprovalRecordRepository struct {
	mock.Mock
}

func (m *MockApprovalRecordRepository) Append(ctx context.Context, record *order.ApprovalRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockApprovalRecordRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]order.ApprovalRecord, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.ApprovalRecord), args.Error(1)
}

// MockAuthorizer implements orderapp.Authorizer
type MockAuthorizer struct {
	mock.Mock
}

func (m *MockAuthorizer) CanApprove(ctx context.Context, orgID, actorID uuid.UUID) (bool, error) {
	args := m.Called(ctx, orgID, actorID)
	return args.Bool(0), args.Error(1)
}

// MockTaxRateProvider implements orderapp.TaxRateProvider
type MockTaxRateProvider struct {
	mock.Mock
}

func (m *MockTaxRateProvider) TaxRate(ctx context.Context, orgID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type handlerFixture struct {
	orderRepo    *MockOrderRepository
	approvalRepo *MockApprovalRecordRepository
	authorizer   *MockAuthorizer
	taxRates     *MockTaxRateProvider
	router       *gin.Engine
	orgID        uuid.UUID
	actorID      uuid.UUID
}

// newHandlerFixture wires a real application service over mocked
// repositories behind a router that injects the acting identity, the way
// the JWT middleware does in production.
func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	f := &handlerFixture{
		orderRepo:    new(MockOrderRepository),
		approvalRepo: new(MockApprovalRecordRepository),
		authorizer:   new(MockAuthorizer),
		taxRates:     new(MockTaxRateProvider),
		orgID:        uuid.New(),
		actorID:      uuid.New(),
	}

	service := orderapp.NewService(f.orderRepo, f.approvalRepo, f.taxRates, f.authorizer)
	h := NewOrderHandler(service)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		claims := &auth.Claims{
			OrganizationID: f.orgID.String(),
			ActorID:        f.actorID.String(),
		}
		c.Set(middleware.ClaimsKey, claims)
		c.Request = c.Request.WithContext(auth.WithClaims(c.Request.Context(), claims))
		c.Next()
	})

	orders := router.Group("/orders")
	orders.POST("", h.Create)
	orders.GET("/:id", h.GetByID)
	orders.POST("/:id/submit", h.Submit)
	orders.POST("/:id/decision", h.Decide)
	orders.POST("/:id/fulfillments", h.RecordFulfillment)
	orders.POST("/:id/cancel", h.Cancel)
	f.router = router
	return f
}

func (f *handlerFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *handlerFixture) draftOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewPurchaseOrder(f.orgID, "PO-2026-00001", uuid.New(), "Acme Traders",
		valueobject.INR, decimal.NewFromFloat(0.18), f.actorID)
	require.NoError(t, err)
	return o
}

func TestOrderHandlerCreate(t *testing.T) {
	t.Run("creates a purchase order", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.taxRates.On("TaxRate", mock.Anything, f.orgID).Return(decimal.NewFromFloat(0.18), nil)
		f.orderRepo.On("GenerateOrderNumber", mock.Anything, f.orgID, order.KindPurchase).Return("PO-2026-00001", nil)
		f.orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)

		w := f.do(t, http.MethodPost, "/orders", gin.H{
			"kind":          "PURCHASE",
			"supplier_id":   uuid.New().String(),
			"supplier_name": "Acme Traders",
			"lines": []gin.H{{
				"item_id":    uuid.New().String(),
				"item_name":  "Cement Bag",
				"item_code":  "CEM-001",
				"unit":       "bag",
				"quantity":   "100",
				"unit_price": "50",
			}},
		})

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var resp struct {
			Success bool `json:"success"`
			Data    struct {
				OrderNumber string `json:"order_number"`
				Status      string `json:"status"`
				GrandTotal  string `json:"grand_total"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "PO-2026-00001", resp.Data.OrderNumber)
		assert.Equal(t, "DRAFT", resp.Data.Status)
		assert.Equal(t, "5900", resp.Data.GrandTotal)
	})

	t.Run("rejects unknown kind at binding", func(t *testing.T) {
		f := newHandlerFixture(t)
		w := f.do(t, http.MethodPost, "/orders", gin.H{"kind": "TRANSFER"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestOrderHandlerGetByID(t *testing.T) {
	t.Run("returns the order", func(t *testing.T) {
		f := newHandlerFixture(t)
		o := f.draftOrder(t)
		f.orderRepo.On("FindByID", mock.Anything, f.orgID, o.ID).Return(o, nil)

		w := f.do(t, http.MethodGet, "/orders/"+o.ID.String(), nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("maps missing order to 404", func(t *testing.T) {
		f := newHandlerFixture(t)
		id := uuid.New()
		f.orderRepo.On("FindByID", mock.Anything, f.orgID, id).Return(nil, shared.ErrNotFound)

		w := f.do(t, http.MethodGet, "/orders/"+id.String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rejects a malformed ID", func(t *testing.T) {
		f := newHandlerFixture(t)
		w := f.do(t, http.MethodGet, "/orders/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandlerSubmit(t *testing.T) {
	t.Run("submitting an empty draft is rejected", func(t *testing.T) {
		f := newHandlerFixture(t)
		o := f.draftOrder(t)
		f.orderRepo.On("FindByID", mock.Anything, f.orgID, o.ID).Return(o, nil)

		w := f.do(t, http.MethodPost, "/orders/"+o.ID.String()+"/submit", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		f.orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("submitting an already submitted order maps to 422", func(t *testing.T) {
		f := newHandlerFixture(t)
		o := f.draftOrder(t)
		_, err := o.AddLine(uuid.New(), "Cement Bag", "CEM-001", "bag",
			decimal.NewFromInt(10), decimal.NewFromInt(50), decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, o.Submit(f.actorID))
		f.orderRepo.On("FindByID", mock.Anything, f.orgID, o.ID).Return(o, nil)

		w := f.do(t, http.MethodPost, "/orders/"+o.ID.String()+"/submit", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestOrderHandlerDecide(t *testing.T) {
	t.Run("unauthorized approver maps to 403", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.authorizer.On("CanApprove", mock.Anything, f.orgID, f.actorID).Return(false, nil)

		w := f.do(t, http.MethodPost, "/orders/"+uuid.New().String()+"/decision", gin.H{
			"decision": "APPROVED",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("rejection without reason is a binding-level pass but domain 400", func(t *testing.T) {
		f := newHandlerFixture(t)
		o := f.draftOrder(t)
		f.authorizer.On("CanApprove", mock.Anything, f.orgID, f.actorID).Return(true, nil)
		f.orderRepo.On("FindByID", mock.Anything, f.orgID, o.ID).Return(o, nil)

		w := f.do(t, http.MethodPost, "/orders/"+o.ID.String()+"/decision", gin.H{
			"decision": "REJECTED",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandlerConcurrency(t *testing.T) {
	t.Run("optimistic lock conflict maps to 409", func(t *testing.T) {
		f := newHandlerFixture(t)
		o := f.draftOrder(t)
		_, err := o.AddLine(uuid.New(), "Cement Bag", "CEM-001", "bag",
			decimal.NewFromInt(10), decimal.NewFromInt(50), decimal.Zero)
		require.NoError(t, err)
		f.orderRepo.On("FindByID", mock.Anything, f.orgID, o.ID).Return(o, nil)
		f.orderRepo.On("SaveWithLock", mock.Anything, o).Return(shared.ErrConcurrentModified)

		w := f.do(t, http.MethodPost, "/orders/"+o.ID.String()+"/cancel", gin.H{
			"reason": "duplicate entry",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestOrderHandlerFulfillment(t *testing.T) {
	t.Run("over-fulfillment maps to 422", func(t *testing.T) {
		f := newHandlerFixture(t)
		o := f.draftOrder(t)
		_, err := o.AddLine(uuid.New(), "Cement Bag", "CEM-001", "bag",
			decimal.NewFromInt(100), decimal.NewFromInt(50), decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, o.Submit(f.actorID))
		require.NoError(t, o.Approve(uuid.New()))
		require.NoError(t, o.Dispatch(f.actorID))
		lineID := o.Lines[0].ID
		f.orderRepo.On("FindByID", mock.Anything, f.orgID, o.ID).Return(o, nil)

		w := f.do(t, http.MethodPost, "/orders/"+o.ID.String()+"/fulfillments", gin.H{
			"line_id":  lineID.String(),
			"quantity": "150",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		f.orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}
