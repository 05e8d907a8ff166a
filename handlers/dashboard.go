package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/acme-invoices/models"
	"github.com/yourusername/acme-invoices/store"
)

type DashboardHandler struct {
	store *store.Store
	log   *slog.Logger
}

func NewDashboardHandler(st *store.Store, log *slog.Logger) *DashboardHandler {
	return &DashboardHandler{store: st, log: log}
}

type OverviewView struct {
	Cards          *store.CardData       `json:"cards"`
	LatestInvoices []store.LatestInvoice `json:"latest_invoices"`
	Revenue        []models.Revenue      `json:"revenue"`
}

func (h *DashboardHandler) Overview(c *gin.Context) {
	ctx := c.Request.Context()

	cards, err := h.store.FetchCardData(ctx)
	if err != nil {
		h.fail(c, "fetch card data", err)
		return
	}
	latest, err := h.store.FetchLatestInvoices(ctx)
	if err != nil {
		h.fail(c, "fetch latest invoices", err)
		return
	}
	revenue, err := h.store.FetchRevenue(ctx)
	if err != nil {
		h.fail(c, "fetch revenue", err)
		return
	}

	c.JSON(http.StatusOK, OverviewView{
		Cards:          cards,
		LatestInvoices: latest,
		Revenue:        revenue,
	})
}

func (h *DashboardHandler) Customers(c *gin.Context) {
	query := c.Query("query")
	customers, err := h.store.FetchFilteredCustomers(c.Request.Context(), query)
	if err != nil {
		h.fail(c, "fetch customers", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"query":     query,
		"customers": customers,
	})
}

func (h *DashboardHandler) fail(c *gin.Context, op string, err error) {
	h.log.ErrorContext(c.Request.Context(), op, slog.Any("error", err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard data"})
}
