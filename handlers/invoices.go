package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yourusername/acme-invoices/invoices"
	"github.com/yourusername/acme-invoices/store"
	"github.com/yourusername/acme-invoices/validation"
)

type InvoiceHandler struct {
	mutator *invoices.Mutator
	store   *store.Store
	views   *ViewCache
	log     *slog.Logger
}

func NewInvoiceHandler(mutator *invoices.Mutator, st *store.Store, views *ViewCache, log *slog.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		mutator: mutator,
		store:   st,
		views:   views,
		log:     log,
	}
}

type InvoicesView struct {
	Query       string             `json:"query"`
	CurrentPage int                `json:"current_page"`
	TotalPages  int                `json:"total_pages"`
	Invoices    []store.InvoiceRow `json:"invoices"`
}

// List serves the searchable, paginated invoices table.
func (h *InvoiceHandler) List(c *gin.Context) {
	if view, ok := h.views.Get(c.Request); ok {
		c.JSON(http.StatusOK, view)
		return
	}
	generation := h.views.Generation(c.Request)

	query := c.Query("query")
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}

	ctx := c.Request.Context()
	totalPages, err := h.store.FetchInvoicesPages(ctx, query)
	if err != nil {
		h.log.ErrorContext(ctx, "count invoices", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoices"})
		return
	}
	rows, err := h.store.FetchFilteredInvoices(ctx, query, page)
	if err != nil {
		h.log.ErrorContext(ctx, "fetch invoices", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoices"})
		return
	}

	view := InvoicesView{
		Query:       query,
		CurrentPage: page,
		TotalPages:  totalPages,
		Invoices:    rows,
	}
	h.views.Put(c.Request, generation, view)
	c.JSON(http.StatusOK, view)
}

// CreateForm serves the data for the new-invoice form.
func (h *InvoiceHandler) CreateForm(c *gin.Context) {
	customers, err := h.store.FetchCustomers(c.Request.Context())
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "fetch customers", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

// EditForm serves the invoice being edited with the customer choices.
func (h *InvoiceHandler) EditForm(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}

	ctx := c.Request.Context()
	invoice, err := h.store.FetchInvoiceByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}
	if err != nil {
		h.log.ErrorContext(ctx, "fetch invoice", slog.String("invoice_id", id), slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoice"})
		return
	}

	customers, err := h.store.FetchCustomers(ctx)
	if err != nil {
		h.log.ErrorContext(ctx, "fetch customers", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invoice":   invoice,
		"customers": customers,
	})
}

// Create validates the posted form and inserts a new invoice.
func (h *InvoiceHandler) Create(c *gin.Context) {
	success, err := h.mutator.Create(c.Request.Context(), invoiceInput(c))
	if err != nil {
		renderFailure(c, err)
		return
	}
	success.Apply(h.signal(c))
}

// Update overwrites customer, amount and status of the invoice in the path.
func (h *InvoiceHandler) Update(c *gin.Context) {
	success, err := h.mutator.Update(c.Request.Context(), c.Param("id"), invoiceInput(c))
	if err != nil {
		renderFailure(c, err)
		return
	}
	success.Apply(h.signal(c))
}

// Delete removes the invoice in the path and keeps the client where it is.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	success, err := h.mutator.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderFailure(c, err)
		return
	}
	success.Apply(h.signal(c))
	c.Status(http.StatusNoContent)
}

func (h *InvoiceHandler) signal(c *gin.Context) invoices.Signal {
	return requestSignal{c: c, views: h.views}
}

// invoiceInput collects the submitted invoice fields, leaving out the
// ones that were not posted at all.
func invoiceInput(c *gin.Context) validation.Input {
	in := validation.Input{}
	for _, field := range []string{invoices.FieldCustomerID, invoices.FieldAmount, invoices.FieldStatus} {
		if value, ok := c.GetPostForm(field); ok {
			in[field] = value
		}
	}
	return in
}

func renderFailure(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var verr *invoices.ValidationError
	if errors.As(err, &verr) {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, invoices.StateOf(err))
}
