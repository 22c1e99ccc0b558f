package order

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers

var testTaxRate = decimal.NewFromFloat(0.18)

func createTestPurchaseOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewPurchaseOrder(uuid.New(), "PO-2026-00001", uuid.New(), "Acme Cement Supplies", "INR", testTaxRate, uuid.New())
	require.NoError(t, err)
	return o
}

func createTestProductionOrder(t *testing.T, target float64) *Order {
	t.Helper()
	o, err := NewProductionOrder(uuid.New(), "MO-2026-00001", uuid.New(), uuid.New(), decimal.NewFromFloat(target), PriorityNormal, "INR", testTaxRate, uuid.New())
	require.NoError(t, err)
	return o
}

func addTestLine(t *testing.T, o *Order, quantity, unitPrice, discount float64) *Line {
	t.Helper()
	line, err := o.AddLine(uuid.New(), "OPC 53 Grade", "MAT-001", "MT",
		decimal.NewFromFloat(quantity), decimal.NewFromFloat(unitPrice), decimal.NewFromFloat(discount))
	require.NoError(t, err)
	return line
}

// submitAndDispatch drives a draft order to IN_PROGRESS
func submitAndDispatch(t *testing.T, o *Order) {
	t.Helper()
	actor := uuid.New()
	require.NoError(t, o.Submit(actor))
	require.NoError(t, o.Approve(actor))
	require.NoError(t, o.Dispatch(actor))
}

// ============================================
// Construction
// ============================================

func TestNewPurchaseOrder(t *testing.T) {
	t.Run("creates draft order", func(t *testing.T) {
		o := createTestPurchaseOrder(t)
		assert.Equal(t, StatusDraft, o.Status)
		assert.Equal(t, KindPurchase, o.Kind)
		assert.Equal(t, 1, o.Version)
		assert.True(t, o.GrandTotal.IsZero())
		assert.Len(t, o.GetDomainEvents(), 1)
	})

	t.Run("rejects empty supplier", func(t *testing.T) {
		_, err := NewPurchaseOrder(uuid.New(), "PO-1", uuid.Nil, "", "INR", testTaxRate, uuid.New())
		assert.Error(t, err)
	})

	t.Run("rejects empty order number", func(t *testing.T) {
		_, err := NewPurchaseOrder(uuid.New(), "", uuid.New(), "Acme", "INR", testTaxRate, uuid.New())
		assert.Error(t, err)
	})

	t.Run("rejects negative tax rate", func(t *testing.T) {
		_, err := NewPurchaseOrder(uuid.New(), "PO-1", uuid.New(), "Acme", "INR", decimal.NewFromFloat(-0.1), uuid.New())
		assert.Error(t, err)
	})
}

func TestNewProductionOrder(t *testing.T) {
	t.Run("creates draft order with normal priority default", func(t *testing.T) {
		o, err := NewProductionOrder(uuid.New(), "MO-1", uuid.New(), uuid.New(), decimal.NewFromInt(150), "", "INR", testTaxRate, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, KindProduction, o.Kind)
		assert.Equal(t, PriorityNormal, o.Priority)
		assert.Equal(t, "pending", o.StatusLabel())
	})

	t.Run("rejects non-positive target quantity", func(t *testing.T) {
		_, err := NewProductionOrder(uuid.New(), "MO-1", uuid.New(), uuid.New(), decimal.Zero, PriorityNormal, "INR", testTaxRate, uuid.New())
		assert.Error(t, err)
	})
}

// ============================================
// Financial roll-up
// ============================================

func TestOrder_FinancialTotals(t *testing.T) {
	t.Run("worked example: two lines at 18 percent tax", func(t *testing.T) {
		o := createTestPurchaseOrder(t)
		// Line A: 100 x 50.00, no discount. Line B: 10 x 200.00 - 50.00.
		addTestLine(t, o, 100, 50.00, 0)
		line, err := o.AddLine(uuid.New(), "PPC Cement", "MAT-002", "MT",
			decimal.NewFromInt(10), decimal.NewFromFloat(200.00), decimal.NewFromFloat(50.00))
		require.NoError(t, err)
		assert.Equal(t, "1950", line.Total().String())

		assert.Equal(t, "6950", o.Subtotal.String())
		assert.Equal(t, "1251", o.TaxAmount.String())
		assert.Equal(t, "50", o.DiscountAmount.String())
		assert.Equal(t, "8201", o.GrandTotal.String())
	})

	t.Run("subtotal always equals sum of line totals", func(t *testing.T) {
		o := createTestPurchaseOrder(t)
		addTestLine(t, o, 3, 10, 0)
		l := addTestLine(t, o, 7, 20, 5)

		assert.True(t, o.Subtotal.Equal(Subtotal(o.Lines)))

		require.NoError(t, o.UpdateLine(l.ID, decimal.NewFromInt(8), decimal.NewFromInt(20), decimal.Zero))
		assert.True(t, o.Subtotal.Equal(Subtotal(o.Lines)))

		require.NoError(t, o.RemoveLine(l.ID))
		assert.True(t, o.Subtotal.Equal(Subtotal(o.Lines)))
		assert.True(t, o.GrandTotal.Equal(GrandTotal(o.Subtotal, o.TaxAmount, o.ShippingAmount)))
	})

	t.Run("shipping included in grand total", func(t *testing.T) {
		o := createTestPurchaseOrder(t)
		addTestLine(t, o, 10, 100, 0)
		require.NoError(t, o.SetShipping(decimal.NewFromInt(250)))
		// 1000 + 180 tax + 250 shipping
		assert.Equal(t, "1430", o.GrandTotal.String())
	})

	t.Run("discount above line amount rejected", func(t *testing.T) {
		o := createTestPurchaseOrder(t)
		_, err := o.AddLine(uuid.New(), "X", "MAT-003", "MT",
			decimal.NewFromInt(1), decimal.NewFromInt(10), decimal.NewFromInt(11))
		assert.Error(t, err)
	})
}

// ============================================
// Line editing rules
// ============================================

func TestOrder_LineEditing(t *testing.T) {
	t.Run("duplicate item rejected", func(t *testing.T) {
		o := createTestPurchaseOrder(t)
		itemID := uuid.New()
		_, err := o.AddLine(itemID, "A", "MAT-001", "MT", decimal.NewFromInt(1), decimal.NewFromInt(10), decimal.Zero)
		require.NoError(t, err)
		_, err = o.AddLine(itemID, "A", "MAT-001", "MT", decimal.NewFromInt(2), decimal.NewFromInt(10), decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("edits rejected outside draft", func(t *testing.T) {
		o := createTestPurchaseOrder(t)
		l := addTestLine(t, o, 5, 10, 0)
		require.NoError(t, o.Submit(uuid.New()))

		_, err := o.AddLine(uuid.New(), "B", "MAT-002", "MT", decimal.NewFromInt(1), decimal.NewFromInt(10), decimal.Zero)
		assert.Error(t, err)
		assert.Error(t, o.UpdateLine(l.ID, decimal.NewFromInt(6), decimal.NewFromInt(10), decimal.Zero))
		assert.Error(t, o.RemoveLine(l.ID))
	})

	t.Run("unknown line reported", func(t *testing.T) {
		o := createTestPurchaseOrder(t)
		assert.Error(t, o.UpdateLine(uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(1), decimal.Zero))
		assert.Error(t, o.RemoveLine(uuid.New()))
	})
}

// ============================================
// Lifecycle transitions
// ============================================

func TestOrder_Submit(t *testing.T) {
	t.Run("requires at least one line", func(t *testing.T) {
		o := createTestPurchaseOrder(t)
		err := o.Submit(uuid.New())
		assert.Error(t, err)
		assert.Equal(t, StatusDraft, o.Status)
	})

	t.Run("transitions to pending approval", func(t *testing.T) {
		o := createTestPurchaseOrder(t)
		addTestLine(t, o, 5, 10, 0)
		require.NoError(t, o.Submit(uuid.New()))
		assert.Equal(t, StatusPendingApproval, o.Status)
		assert.NotNil(t, o.SubmittedAt)
	})

	t.Run("double submit fails with transition error", func(t *testing.T) {
		o := createTestPurchaseOrder(t)
		addTestLine(t, o, 5, 10, 0)
		require.NoError(t, o.Submit(uuid.New()))

		err := o.Submit(uuid.New())
		var itErr *InvalidTransitionError
		require.ErrorAs(t, err, &itErr)
		assert.Equal(t, StatusPendingApproval, itErr.Current)
		assert.Equal(t, EventSubmit, itErr.Requested)
	})
}

func TestOrder_ApproveReject(t *testing.T) {
	t.Run("approve records actor and timestamp", func(t *testing.T) {
		o := createTestPurchaseOrder(t)
		addTestLine(t, o, 5, 10, 0)
		require.NoError(t, o.Submit(uuid.New()))

		approver := uuid.New()
		require.NoError(t, o.Approve(approver))
		assert.Equal(t, StatusApproved, o.Status)
		require.NotNil(t, o.ApprovedBy)
		assert.Equal(t, approver, *o.ApprovedBy)
		assert.NotNil(t, o.ApprovedAt)
	})

	t.Run("reject without reason fails", func(t *testing.T) {
		o := createTestPurchaseOrder(t)
		addTestLine(t, o, 5, 10, 0)
		require.NoError(t, o.Submit(uuid.New()))

		err := o.Reject(uuid.New(), "")
		assert.Error(t, err)
		assert.Equal(t, StatusPendingApproval, o.Status)
	})

	t.Run("reject returns to draft with lines untouched", func(t *testing.T) {
		o := createTestPurchaseOrder(t)
		addTestLine(t, o, 100, 50, 0)
		linesBefore := make([]Line, len(o.Lines))
		copy(linesBefore, o.Lines)

		require.NoError(t, o.Submit(uuid.New()))
		require.NoError(t, o.Reject(uuid.New(), "price too high"))

		assert.Equal(t, StatusDraft, o.Status)
		assert.Nil(t, o.SubmittedAt)
		assert.Equal(t, linesBefore, o.Lines)

		// resubmission after revision is always permitted
		require.NoError(t, o.Submit(uuid.New()))
		assert.Equal(t, StatusPendingApproval, o.Status)
	})

	t.Run("approve from draft fails", func(t *testing.T) {
		o := createTestPurchaseOrder(t)
		var itErr *InvalidTransitionError
		assert.ErrorAs(t, o.Approve(uuid.New()), &itErr)
	})
}

func TestOrder_Dispatch(t *testing.T) {
	o := createTestProductionOrder(t, 150)
	addTestLine(t, o, 150, 0, 0)
	actor := uuid.New()
	require.NoError(t, o.Submit(actor))
	require.NoError(t, o.Approve(actor))
	require.NoError(t, o.Dispatch(actor))

	assert.Equal(t, StatusInProgress, o.Status)
	assert.Equal(t, "in_production", o.StatusLabel())
	assert.NotNil(t, o.DispatchedAt)
}

// ============================================
// Fulfillment ledger
// ============================================

func TestOrder_RecordFulfillment(t *testing.T) {
	t.Run("conservation holds across partial fulfillments", func(t *testing.T) {
		o := createTestPurchaseOrder(t)
		l := addTestLine(t, o, 100, 50, 0)
		submitAndDispatch(t, o)

		require.NoError(t, o.RecordFulfillment(l.ID, decimal.NewFromInt(30), uuid.New()))
		line := o.GetLine(l.ID)
		assert.Equal(t, "30", line.FulfilledQuantity.String())
		assert.Equal(t, "70", line.PendingQuantity().String())
		assert.True(t, line.FulfilledQuantity.Add(line.PendingQuantity()).Equal(line.OrderedQuantity))
		assert.Equal(t, LineStatusPartiallyFulfilled, line.Status())
		assert.Equal(t, StatusPartialFulfilled, o.Status)

		require.NoError(t, o.RecordFulfillment(l.ID, decimal.NewFromInt(70), uuid.New()))
		line = o.GetLine(l.ID)
		assert.Equal(t, LineStatusFulfilled, line.Status())
		assert.Equal(t, StatusFulfilled, o.Status)
		assert.NotNil(t, o.CompletedAt)
	})

	t.Run("over-fulfillment rejected not clamped", func(t *testing.T) {
		o := createTestPurchaseOrder(t)
		l := addTestLine(t, o, 10, 5, 0)
		submitAndDispatch(t, o)

		err := o.RecordFulfillment(l.ID, decimal.NewFromInt(11), uuid.New())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds pending")

		// state unchanged
		line := o.GetLine(l.ID)
		assert.True(t, line.FulfilledQuantity.IsZero())
		assert.Equal(t, StatusInProgress, o.Status)
	})

	t.Run("zero or negative quantity rejected", func(t *testing.T) {
		o := createTestPurchaseOrder(t)
		l := addTestLine(t, o, 10, 5, 0)
		submitAndDispatch(t, o)

		assert.Error(t, o.RecordFulfillment(l.ID, decimal.Zero, uuid.New()))
		assert.Error(t, o.RecordFulfillment(l.ID, decimal.NewFromInt(-1), uuid.New()))
	})

	t.Run("order fulfilled only when all lines are", func(t *testing.T) {
		o := createTestPurchaseOrder(t)
		la := addTestLine(t, o, 10, 5, 0)
		lb := addTestLine(t, o, 20, 5, 0)
		submitAndDispatch(t, o)

		require.NoError(t, o.RecordFulfillment(la.ID, decimal.NewFromInt(10), uuid.New()))
		assert.Equal(t, StatusPartialFulfilled, o.Status)

		require.NoError(t, o.RecordFulfillment(lb.ID, decimal.NewFromInt(20), uuid.New()))
		assert.Equal(t, StatusFulfilled, o.Status)
	})

	t.Run("fulfillment before dispatch fails", func(t *testing.T) {
		o := createTestPurchaseOrder(t)
		l := addTestLine(t, o, 10, 5, 0)

		var itErr *InvalidTransitionError
		assert.ErrorAs(t, o.RecordFulfillment(l.ID, decimal.NewFromInt(1), uuid.New()), &itErr)
	})

	t.Run("fulfilled is monotonically non-decreasing", func(t *testing.T) {
		o := createTestPurchaseOrder(t)
		l := addTestLine(t, o, 100, 1, 0)
		submitAndDispatch(t, o)

		prev := decimal.Zero
		for _, q := range []int64{10, 5, 25, 60} {
			require.NoError(t, o.RecordFulfillment(l.ID, decimal.NewFromInt(q), uuid.New()))
			cur := o.GetLine(l.ID).FulfilledQuantity
			assert.True(t, cur.GreaterThanOrEqual(prev))
			prev = cur
		}
	})
}

func TestOrder_FulfillmentProgress(t *testing.T) {
	o := createTestPurchaseOrder(t)
	l := addTestLine(t, o, 100, 1, 0)
	submitAndDispatch(t, o)

	require.NoError(t, o.RecordFulfillment(l.ID, decimal.NewFromInt(33), uuid.New()))
	assert.Equal(t, "33", o.FulfillmentProgress().String())
}

// ============================================
// Cancellation
// ============================================

func TestOrder_Cancel(t *testing.T) {
	t.Run("cancel draft with reason", func(t *testing.T) {
		o := createTestPurchaseOrder(t)
		require.NoError(t, o.Cancel(uuid.New(), "duplicate entry", false))
		assert.Equal(t, StatusCancelled, o.Status)
		assert.Equal(t, "duplicate entry", o.CancelReason)
		assert.NotNil(t, o.CancelledAt)
	})

	t.Run("reason required", func(t *testing.T) {
		o := createTestPurchaseOrder(t)
		assert.Error(t, o.Cancel(uuid.New(), "", false))
		assert.Equal(t, StatusDraft, o.Status)
	})

	t.Run("cancel after partial fulfillment needs force", func(t *testing.T) {
		o := createTestPurchaseOrder(t)
		l := addTestLine(t, o, 10, 5, 0)
		submitAndDispatch(t, o)
		require.NoError(t, o.RecordFulfillment(l.ID, decimal.NewFromInt(3), uuid.New()))

		err := o.Cancel(uuid.New(), "supplier failed", false)
		assert.Error(t, err)
		assert.Equal(t, StatusPartialFulfilled, o.Status)

		require.NoError(t, o.Cancel(uuid.New(), "supplier failed", true))
		assert.Equal(t, StatusCancelled, o.Status)
	})

	t.Run("cancel terminal order fails", func(t *testing.T) {
		o := createTestPurchaseOrder(t)
		l := addTestLine(t, o, 1, 5, 0)
		submitAndDispatch(t, o)
		require.NoError(t, o.RecordFulfillment(l.ID, decimal.NewFromInt(1), uuid.New()))
		require.Equal(t, StatusFulfilled, o.Status)

		var itErr *InvalidTransitionError
		assert.ErrorAs(t, o.Cancel(uuid.New(), "too late", true), &itErr)
	})
}

// ============================================
// Production-specific behavior
// ============================================

func TestOrder_SetTargetQuantity(t *testing.T) {
	t.Run("draft production order only", func(t *testing.T) {
		o := createTestProductionOrder(t, 100)
		require.NoError(t, o.SetTargetQuantity(decimal.NewFromInt(150)))
		assert.Equal(t, "150", o.TargetQuantity.String())

		po := createTestPurchaseOrder(t)
		assert.Error(t, po.SetTargetQuantity(decimal.NewFromInt(10)))
	})

	t.Run("rejects non-positive", func(t *testing.T) {
		o := createTestProductionOrder(t, 100)
		assert.Error(t, o.SetTargetQuantity(decimal.Zero))
	})
}

// ============================================
// ApprovalRecord
// ============================================

func TestNewApprovalRecord(t *testing.T) {
	orderID := uuid.New()
	actor := uuid.New()

	t.Run("approval without reason is valid", func(t *testing.T) {
		rec, err := NewApprovalRecord(orderID, actor, DecisionApproved, "")
		require.NoError(t, err)
		assert.Equal(t, DecisionApproved, rec.Decision)
	})

	t.Run("rejection requires reason", func(t *testing.T) {
		_, err := NewApprovalRecord(orderID, actor, DecisionRejected, "")
		assert.Error(t, err)

		rec, err := NewApprovalRecord(orderID, actor, DecisionRejected, "quantity mismatch")
		require.NoError(t, err)
		assert.Equal(t, "quantity mismatch", rec.Reason)
	})

	t.Run("invalid decision rejected", func(t *testing.T) {
		_, err := NewApprovalRecord(orderID, actor, Decision("MAYBE"), "")
		assert.Error(t, err)
	})
}
