package models

type Customer struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"size:255;not null" json:"email"`
	ImageURL string `gorm:"size:255" json:"image_url"`
}

// TableName overrides the table name
func (Customer) TableName() string {
	return "customers"
}

// Revenue is one month of the overview chart.
type Revenue struct {
	Month   string `gorm:"size:4;primaryKey" json:"month"`
	Revenue int64  `gorm:"not null" json:"revenue"`
}

// TableName overrides the table name
func (Revenue) TableName() string {
	return "revenue"
}
