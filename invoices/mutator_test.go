package invoices

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/acme-invoices/models"
	"github.com/yourusername/acme-invoices/validation"
)

type insertCall struct {
	CustomerID  string
	AmountCents int64
	Status      models.InvoiceStatus
	Date        string
}

type updateCall struct {
	ID          string
	CustomerID  string
	AmountCents int64
	Status      models.InvoiceStatus
}

type MockGateway struct {
	Err     error
	Inserts []insertCall
	Updates []updateCall
	Deletes []string
}

func (m *MockGateway) Insert(_ context.Context, customerID string, amountCents int64, status models.InvoiceStatus, date string) (string, error) {
	m.Inserts = append(m.Inserts, insertCall{customerID, amountCents, status, date})
	if m.Err != nil {
		return "", m.Err
	}
	return "inv-1", nil
}

func (m *MockGateway) UpdateByID(_ context.Context, id, customerID string, amountCents int64, status models.InvoiceStatus) error {
	m.Updates = append(m.Updates, updateCall{id, customerID, amountCents, status})
	return m.Err
}

func (m *MockGateway) DeleteByID(_ context.Context, id string) error {
	m.Deletes = append(m.Deletes, id)
	return m.Err
}

func (m *MockGateway) calls() int {
	return len(m.Inserts) + len(m.Updates) + len(m.Deletes)
}

type recordingSignal struct {
	events []string
}

func (s *recordingSignal) Invalidate(path string) { s.events = append(s.events, "invalidate "+path) }
func (s *recordingSignal) NavigateTo(path string) { s.events = append(s.events, "navigate "+path) }

func newTestMutator(gw *MockGateway, now time.Time) *Mutator {
	m := NewMutator(gw, slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.now = func() time.Time { return now }
	return m
}

var fixedNow = time.Date(2026, 10, 15, 13, 45, 0, 0, time.UTC)

func TestCreate(t *testing.T) {
	t.Run("Valid Input", func(t *testing.T) {
		gw := &MockGateway{}
		m := newTestMutator(gw, fixedNow)

		success, err := m.Create(context.Background(), validation.Input{
			"customerId": "c1",
			"amount":     "19.99",
			"status":     "paid",
		})
		require.NoError(t, err)

		require.Len(t, gw.Inserts, 1)
		assert.Equal(t, insertCall{"c1", 1999, models.StatusPaid, "2026-10-15"}, gw.Inserts[0])

		sig := &recordingSignal{}
		success.Apply(sig)
		assert.Equal(t, []string{"invalidate /dashboard/invoices", "navigate /dashboard/invoices"}, sig.events)
	})

	t.Run("Uses Current Date", func(t *testing.T) {
		gw := &MockGateway{}
		m := NewMutator(gw, slog.New(slog.NewTextHandler(io.Discard, nil)))

		_, err := m.Create(context.Background(), validation.Input{"customerId": "c1", "amount": "5", "status": "pending"})
		require.NoError(t, err)
		require.Len(t, gw.Inserts, 1)
		assert.Equal(t, time.Now().Format("2006-01-02"), gw.Inserts[0].Date)
	})

	t.Run("All Fields Invalid", func(t *testing.T) {
		gw := &MockGateway{}
		m := newTestMutator(gw, fixedNow)

		_, err := m.Create(context.Background(), validation.Input{
			"customerId": "",
			"amount":     "0",
			"status":     "bad",
		})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "Missing Fields. Failed to Create Invoice.", verr.Message)
		assert.Equal(t, validation.Errors{
			"customerId": {"Please select a customer."},
			"amount":     {"Please enter an amount greater than $0."},
			"status":     {"Please select an invoice status."},
		}, verr.Errors)
		assert.Zero(t, gw.calls())
	})

	t.Run("Gateway Failure", func(t *testing.T) {
		gw := &MockGateway{Err: errors.New("connection refused")}
		m := newTestMutator(gw, fixedNow)

		success, err := m.Create(context.Background(), validation.Input{"customerId": "c1", "amount": "10", "status": "pending"})

		var perr *PersistenceError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "Database Error: Failed to Create Invoice.", perr.Message)
		assert.EqualError(t, errors.Unwrap(err), "connection refused")
		assert.Equal(t, Success{}, success)

		state := StateOf(err)
		assert.Equal(t, State{Message: "Database Error: Failed to Create Invoice."}, state)
	})
}

func TestCreateRejectsNonPositiveAmounts(t *testing.T) {
	for _, amount := range []string{"0", "-1", "-0.01", "0.00", "", "abc", "0.001", "0.004"} {
		t.Run(amount, func(t *testing.T) {
			gw := &MockGateway{}
			m := newTestMutator(gw, fixedNow)

			_, err := m.Create(context.Background(), validation.Input{"customerId": "c1", "amount": amount, "status": "paid"})

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Errors, "amount")
			assert.NotContains(t, verr.Errors, "customerId")
			assert.Zero(t, gw.calls())
		})
	}
}

func TestCreateRejectsAmountsTooLargeForCents(t *testing.T) {
	for _, amount := range []string{"1e17", "92233720368547758.08", "1e30"} {
		t.Run(amount, func(t *testing.T) {
			gw := &MockGateway{}
			m := newTestMutator(gw, fixedNow)

			_, err := m.Create(context.Background(), validation.Input{"customerId": "c1", "amount": amount, "status": "paid"})

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, validation.Errors{"amount": {"Please enter a smaller amount."}}, verr.Errors)
			assert.Zero(t, gw.calls())
		})
	}
}

func TestCreateAcceptsLargestAmount(t *testing.T) {
	gw := &MockGateway{}
	m := newTestMutator(gw, fixedNow)

	_, err := m.Create(context.Background(), validation.Input{"customerId": "c1", "amount": "92233720368547758.07", "status": "paid"})
	require.NoError(t, err)
	require.Len(t, gw.Inserts, 1)
	assert.Equal(t, int64(9223372036854775807), gw.Inserts[0].AmountCents)
}

func TestCreateRejectsUnknownStatus(t *testing.T) {
	for _, status := range []string{"", "PAID", "overdue", " paid"} {
		t.Run(status, func(t *testing.T) {
			gw := &MockGateway{}
			m := newTestMutator(gw, fixedNow)

			_, err := m.Create(context.Background(), validation.Input{"customerId": "c1", "amount": "1", "status": status})

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, []string{"status"}, verr.Errors.Fields())
			assert.Zero(t, gw.calls())
		})
	}
}

func TestCreateRejectsMissingCustomer(t *testing.T) {
	gw := &MockGateway{}
	m := newTestMutator(gw, fixedNow)

	_, err := m.Create(context.Background(), validation.Input{"amount": "1", "status": "paid"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"customerId"}, verr.Errors.Fields())
	assert.Zero(t, gw.calls())
}

func TestAmountConversion(t *testing.T) {
	tests := []struct {
		amount string
		cents  int64
	}{
		{"19.99", 1999},
		{"0.1", 10},
		{"1234.5", 123450},
		{"0.015", 2},
		{" 42 ", 4200},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			gw := &MockGateway{}
			m := newTestMutator(gw, fixedNow)

			_, err := m.Create(context.Background(), validation.Input{"customerId": "c1", "amount": tt.amount, "status": "pending"})
			require.NoError(t, err)
			require.Len(t, gw.Inserts, 1)
			assert.Equal(t, tt.cents, gw.Inserts[0].AmountCents)
		})
	}
}

func TestUpdate(t *testing.T) {
	t.Run("Valid Input", func(t *testing.T) {
		gw := &MockGateway{}
		m := newTestMutator(gw, fixedNow)

		success, err := m.Update(context.Background(), "inv-9", validation.Input{
			"customerId": "c2",
			"amount":     "250.5",
			"status":     "pending",
		})
		require.NoError(t, err)
		require.Len(t, gw.Updates, 1)
		assert.Equal(t, updateCall{"inv-9", "c2", 25050, models.StatusPending}, gw.Updates[0])
		assert.Empty(t, gw.Inserts)
		assert.Equal(t, Success{InvalidatePath: ListPath, NavigatePath: ListPath}, success)
	})

	t.Run("Amount Rounds To Zero Cents", func(t *testing.T) {
		gw := &MockGateway{}
		m := newTestMutator(gw, fixedNow)

		_, err := m.Update(context.Background(), "inv-9", validation.Input{"customerId": "c2", "amount": "0.004", "status": "paid"})

		state := StateOf(err)
		assert.Equal(t, []string{"Please enter an amount greater than $0."}, state.Errors["amount"])
		assert.Zero(t, gw.calls())
	})

	t.Run("Amount Overflows Cents", func(t *testing.T) {
		gw := &MockGateway{}
		m := newTestMutator(gw, fixedNow)

		_, err := m.Update(context.Background(), "inv-9", validation.Input{"customerId": "c2", "amount": "1e17", "status": "paid"})

		state := StateOf(err)
		assert.Equal(t, []string{"Please enter a smaller amount."}, state.Errors["amount"])
		assert.Zero(t, gw.calls())
	})

	t.Run("Invalid Input", func(t *testing.T) {
		gw := &MockGateway{}
		m := newTestMutator(gw, fixedNow)

		_, err := m.Update(context.Background(), "inv-9", validation.Input{"customerId": "c2", "amount": "-5", "status": "paid"})

		state := StateOf(err)
		assert.Equal(t, "Missing Fields. Failed to Create Invoice.", state.Message)
		assert.Equal(t, []string{"amount"}, state.Errors.Fields())
		assert.Zero(t, gw.calls())
	})

	t.Run("Gateway Failure", func(t *testing.T) {
		gw := &MockGateway{Err: errors.New("deadlock")}
		m := newTestMutator(gw, fixedNow)

		_, err := m.Update(context.Background(), "inv-9", validation.Input{"customerId": "c2", "amount": "1", "status": "paid"})

		var perr *PersistenceError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "Database Error: Failed to Update Invoice with UUID: inv-9, CustomerID: c2", perr.Message)
	})
}

func TestDelete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		gw := &MockGateway{}
		m := newTestMutator(gw, fixedNow)

		success, err := m.Delete(context.Background(), "inv-3")
		require.NoError(t, err)
		assert.Equal(t, []string{"inv-3"}, gw.Deletes)

		sig := &recordingSignal{}
		success.Apply(sig)
		assert.Equal(t, []string{"invalidate /dashboard/invoices"}, sig.events)
	})

	t.Run("Gateway Failure", func(t *testing.T) {
		gw := &MockGateway{Err: errors.New("boom")}
		m := newTestMutator(gw, fixedNow)

		_, err := m.Delete(context.Background(), "inv-3")
		assert.EqualError(t, err, "Database Error: Failed to Delete Invoice with UUID: inv-3")
	})
}

func TestStateOfUnknownError(t *testing.T) {
	assert.Equal(t, State{Message: "Something went wrong."}, StateOf(errors.New("x")))
}
