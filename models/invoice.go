package models

type InvoiceStatus string

const (
	StatusPending InvoiceStatus = "pending"
	StatusPaid    InvoiceStatus = "paid"
)

// Invoice is a billing record. Amount is stored in cents and Date as
// YYYY-MM-DD; both ID and Date are fixed at creation.
type Invoice struct {
	ID         string        `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID string        `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer   *Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Amount     int64         `gorm:"not null" json:"amount"`
	Status     InvoiceStatus `gorm:"size:20;not null" json:"status"` // pending, paid
	Date       string        `gorm:"size:10;not null;index" json:"date"`
}

// TableName overrides the table name
func (Invoice) TableName() string {
	return "invoices"
}
