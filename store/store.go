// Package store reads and writes dashboard data through gorm.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yourusername/acme-invoices/models"
	"github.com/yourusername/acme-invoices/utils"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

const latestInvoicesLimit = 5

type Store struct {
	db           *gorm.DB
	itemsPerPage int
}

func New(db *gorm.DB, itemsPerPage int) *Store {
	if itemsPerPage < 1 {
		itemsPerPage = 6
	}
	return &Store{db: db, itemsPerPage: itemsPerPage}
}

// Insert creates an invoice and returns its new id.
func (s *Store) Insert(ctx context.Context, customerID string, amountCents int64, status models.InvoiceStatus, date string) (string, error) {
	invoice := models.Invoice{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Amount:     amountCents,
		Status:     status,
		Date:       date,
	}
	if err := s.db.WithContext(ctx).Create(&invoice).Error; err != nil {
		return "", fmt.Errorf("insert invoice: %w", err)
	}
	return invoice.ID, nil
}

// UpdateByID sets customer, amount and status. Updating a missing row is
// not an error.
func (s *Store) UpdateByID(ctx context.Context, id, customerID string, amountCents int64, status models.InvoiceStatus) error {
	err := s.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"customer_id": customerID,
			"amount":      amountCents,
			"status":      status,
		}).Error
	if err != nil {
		return fmt.Errorf("update invoice %s: %w", id, err)
	}
	return nil
}

func (s *Store) DeleteByID(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Invoice{}).Error; err != nil {
		return fmt.Errorf("delete invoice %s: %w", id, err)
	}
	return nil
}

// InvoiceRow is an invoice joined with its customer.
type InvoiceRow struct {
	ID       string               `json:"id"`
	Amount   int64                `json:"amount"`
	Date     string               `json:"date"`
	Status   models.InvoiceStatus `json:"status"`
	Name     string               `json:"name"`
	Email    string               `json:"email"`
	ImageURL string               `json:"image_url"`
}

func (s *Store) invoicesMatching(ctx context.Context, query string) *gorm.DB {
	pattern := likePattern(query)
	return s.db.WithContext(ctx).
		Table("invoices").
		Joins("JOIN customers ON invoices.customer_id = customers.id").
		Where(`LOWER(customers.name) LIKE ? OR LOWER(customers.email) LIKE ?
			OR CAST(invoices.amount AS TEXT) LIKE ? OR LOWER(invoices.date) LIKE ?
			OR LOWER(invoices.status) LIKE ?`,
			pattern, pattern, pattern, pattern, pattern)
}

// FetchFilteredInvoices returns one page of invoices matching query,
// newest first. Pages start at 1.
func (s *Store) FetchFilteredInvoices(ctx context.Context, query string, page int) ([]InvoiceRow, error) {
	if page < 1 {
		page = 1
	}
	var rows []InvoiceRow
	err := s.invoicesMatching(ctx, query).
		Select("invoices.id, invoices.amount, invoices.date, invoices.status, customers.name, customers.email, customers.image_url").
		Order("invoices.date DESC").
		Limit(s.itemsPerPage).
		Offset((page - 1) * s.itemsPerPage).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("fetch invoices: %w", err)
	}
	return rows, nil
}

// FetchInvoicesPages returns how many pages FetchFilteredInvoices has for query.
func (s *Store) FetchInvoicesPages(ctx context.Context, query string) (int, error) {
	var count int64
	if err := s.invoicesMatching(ctx, query).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	per := int64(s.itemsPerPage)
	return int((count + per - 1) / per), nil
}

// InvoiceForm is the edit-form view of an invoice, amount in dollars.
type InvoiceForm struct {
	ID         string               `json:"id"`
	CustomerID string               `json:"customer_id"`
	Amount     string               `json:"amount"`
	Status     models.InvoiceStatus `json:"status"`
}

func (s *Store) FetchInvoiceByID(ctx context.Context, id string) (*InvoiceForm, error) {
	var invoice models.Invoice
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch invoice %s: %w", id, err)
	}
	return &InvoiceForm{
		ID:         invoice.ID,
		CustomerID: invoice.CustomerID,
		Amount:     utils.FromCents(invoice.Amount).StringFixed(2),
		Status:     invoice.Status,
	}, nil
}

type CustomerField struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FetchCustomers lists customers for the invoice form's select.
func (s *Store) FetchCustomers(ctx context.Context) ([]CustomerField, error) {
	var customers []CustomerField
	err := s.db.WithContext(ctx).
		Model(&models.Customer{}).
		Select("id, name").
		Order("name ASC").
		Scan(&customers).Error
	if err != nil {
		return nil, fmt.Errorf("fetch customers: %w", err)
	}
	return customers, nil
}

type CustomerRow struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	ImageURL      string `json:"image_url"`
	TotalInvoices int64  `json:"total_invoices"`
	TotalPending  string `json:"total_pending"`
	TotalPaid     string `json:"total_paid"`
}

type customerTotals struct {
	ID            string
	Name          string
	Email         string
	ImageURL      string
	TotalInvoices int64
	TotalPending  int64
	TotalPaid     int64
}

// FetchFilteredCustomers returns customers whose name or email matches
// query, with their invoice totals.
func (s *Store) FetchFilteredCustomers(ctx context.Context, query string) ([]CustomerRow, error) {
	pattern := likePattern(query)
	var totals []customerTotals
	err := s.db.WithContext(ctx).
		Table("customers").
		Select(`customers.id, customers.name, customers.email, customers.image_url,
			COUNT(invoices.id) AS total_invoices,
			COALESCE(SUM(CASE WHEN invoices.status = ? THEN invoices.amount ELSE 0 END), 0) AS total_pending,
			COALESCE(SUM(CASE WHEN invoices.status = ? THEN invoices.amount ELSE 0 END), 0) AS total_paid`,
			models.StatusPending, models.StatusPaid).
		Joins("LEFT JOIN invoices ON customers.id = invoices.customer_id").
		Where("LOWER(customers.name) LIKE ? OR LOWER(customers.email) LIKE ?", pattern, pattern).
		Group("customers.id, customers.name, customers.email, customers.image_url").
		Order("customers.name ASC").
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("fetch customers: %w", err)
	}

	rows := make([]CustomerRow, 0, len(totals))
	for _, c := range totals {
		rows = append(rows, CustomerRow{
			ID:            c.ID,
			Name:          c.Name,
			Email:         c.Email,
			ImageURL:      c.ImageURL,
			TotalInvoices: c.TotalInvoices,
			TotalPending:  utils.FormatCurrency(c.TotalPending),
			TotalPaid:     utils.FormatCurrency(c.TotalPaid),
		})
	}
	return rows, nil
}

type CardData struct {
	NumberOfCustomers    int64  `json:"number_of_customers"`
	NumberOfInvoices     int64  `json:"number_of_invoices"`
	TotalPaidInvoices    string `json:"total_paid_invoices"`
	TotalPendingInvoices string `json:"total_pending_invoices"`
}

func (s *Store) FetchCardData(ctx context.Context) (*CardData, error) {
	db := s.db.WithContext(ctx)
	var data CardData

	if err := db.Model(&models.Invoice{}).Count(&data.NumberOfInvoices).Error; err != nil {
		return nil, fmt.Errorf("count invoices: %w", err)
	}
	if err := db.Model(&models.Customer{}).Count(&data.NumberOfCustomers).Error; err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}

	var totals invoiceTotals
	err := db.Model(&models.Invoice{}).
		Select(`COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) AS paid,
			COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) AS pending`,
			models.StatusPaid, models.StatusPending).
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("sum invoices: %w", err)
	}
	data.TotalPaidInvoices = utils.FormatCurrency(totals.Paid)
	data.TotalPendingInvoices = utils.FormatCurrency(totals.Pending)
	return &data, nil
}

type invoiceTotals struct {
	Paid    int64
	Pending int64
}

type LatestInvoice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url"`
	Amount   string `json:"amount"`
}

func (s *Store) FetchLatestInvoices(ctx context.Context) ([]LatestInvoice, error) {
	var rows []InvoiceRow
	err := s.db.WithContext(ctx).
		Table("invoices").
		Select("invoices.id, invoices.amount, customers.name, customers.email, customers.image_url").
		Joins("JOIN customers ON invoices.customer_id = customers.id").
		Order("invoices.date DESC").
		Limit(latestInvoicesLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("fetch latest invoices: %w", err)
	}

	latest := make([]LatestInvoice, 0, len(rows))
	for _, r := range rows {
		latest = append(latest, LatestInvoice{
			ID:       r.ID,
			Name:     r.Name,
			Email:    r.Email,
			ImageURL: r.ImageURL,
			Amount:   utils.FormatCurrency(r.Amount),
		})
	}
	return latest, nil
}

func (s *Store) FetchRevenue(ctx context.Context) ([]models.Revenue, error) {
	var revenue []models.Revenue
	if err := s.db.WithContext(ctx).Find(&revenue).Error; err != nil {
		return nil, fmt.Errorf("fetch revenue: %w", err)
	}
	return revenue, nil
}

// likePattern is lowercased to pair with LOWER() on the column side.
func likePattern(query string) string {
	return "%" + strings.ToLower(query) + "%"
}
