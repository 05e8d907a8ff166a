// Package invoices validates and persists invoice mutations.
//
// A mutation returns either an error (validation or persistence) or a
// Success describing the follow-up. The caller applies the Success to a
// Signal only after the mutation returned, so a navigation never runs
// inside the mutation's failure handling.
package invoices

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yourusername/acme-invoices/models"
	"github.com/yourusername/acme-invoices/validation"
)

// ListPath is the invoices list view.
const ListPath = "/dashboard/invoices"

const msgMissingFields = "Missing Fields. Failed to Create Invoice."

// Gateway persists invoice rows.
type Gateway interface {
	Insert(ctx context.Context, customerID string, amountCents int64, status models.InvoiceStatus, date string) (string, error)
	UpdateByID(ctx context.Context, id, customerID string, amountCents int64, status models.InvoiceStatus) error
	DeleteByID(ctx context.Context, id string) error
}

// Signal invalidates cached views and moves the client to another view.
// NavigateTo is terminal: the caller must not do anything after it.
type Signal interface {
	Invalidate(viewPath string)
	NavigateTo(path string)
}

// Success is the follow-up of a persisted mutation.
type Success struct {
	InvalidatePath string
	NavigatePath   string // empty when the client stays on its view
}

// Apply invalidates, then navigates when a destination is set.
func (s Success) Apply(sig Signal) {
	sig.Invalidate(s.InvalidatePath)
	if s.NavigatePath != "" {
		sig.NavigateTo(s.NavigatePath)
	}
}

type Mutator struct {
	gateway Gateway
	log     *slog.Logger
	now     func() time.Time
}

func NewMutator(gateway Gateway, log *slog.Logger) *Mutator {
	return &Mutator{
		gateway: gateway,
		log:     log,
		now:     time.Now,
	}
}

// Create validates in and inserts a new invoice dated today.
func (m *Mutator) Create(ctx context.Context, in validation.Input) (Success, error) {
	form, errs := ParseForm(in)
	if errs != nil {
		return Success{}, &ValidationError{Errors: errs, Message: msgMissingFields}
	}

	date := m.now().Format(time.DateOnly)

	id, err := m.gateway.Insert(ctx, form.CustomerID, form.AmountCents, form.Status, date)
	if err != nil {
		m.log.ErrorContext(ctx, "create invoice",
			slog.String("customer_id", form.CustomerID),
			slog.Any("error", err))
		return Success{}, &PersistenceError{Message: "Database Error: Failed to Create Invoice.", Err: err}
	}

	m.log.InfoContext(ctx, "invoice created", slog.String("invoice_id", id))
	return Success{InvalidatePath: ListPath, NavigatePath: ListPath}, nil
}

// Update validates in and overwrites customer, amount and status of the
// invoice with the given id. The id and date are left as they are.
func (m *Mutator) Update(ctx context.Context, id string, in validation.Input) (Success, error) {
	form, errs := ParseForm(in)
	if errs != nil {
		return Success{}, &ValidationError{Errors: errs, Message: msgMissingFields}
	}

	if err := m.gateway.UpdateByID(ctx, id, form.CustomerID, form.AmountCents, form.Status); err != nil {
		m.log.ErrorContext(ctx, "update invoice",
			slog.String("invoice_id", id),
			slog.Any("error", err))
		return Success{}, &PersistenceError{
			Message: fmt.Sprintf("Database Error: Failed to Update Invoice with UUID: %s, CustomerID: %s", id, form.CustomerID),
			Err:     err,
		}
	}

	m.log.InfoContext(ctx, "invoice updated", slog.String("invoice_id", id))
	return Success{InvalidatePath: ListPath, NavigatePath: ListPath}, nil
}

// Delete removes the invoice. The client stays where it is.
func (m *Mutator) Delete(ctx context.Context, id string) (Success, error) {
	if err := m.gateway.DeleteByID(ctx, id); err != nil {
		m.log.ErrorContext(ctx, "delete invoice",
			slog.String("invoice_id", id),
			slog.Any("error", err))
		return Success{}, &PersistenceError{
			Message: fmt.Sprintf("Database Error: Failed to Delete Invoice with UUID: %s", id),
			Err:     err,
		}
	}

	m.log.InfoContext(ctx, "invoice deleted", slog.String("invoice_id", id))
	return Success{InvalidatePath: ListPath}, nil
}
