package entity

import (
	"time"
)

// Product is a stock item referenced by project materials.
type Product struct {
	ID          string     `json:"id" gorm:"primaryKey;size:32"`
	Name        string     `json:"name" gorm:"size:200;not null"`
	Code        string     `json:"code" gorm:"size:50"`
	Description string     `json:"description" gorm:"type:text"`
	CategoryID  *string    `json:"category_id" gorm:"size:32"`
	Stock       int        `json:"stock" gorm:"not null;default:0"`
	MinStock    int        `json:"min_stock" gorm:"not null;default:5"`
	Unit        string     `json:"unit" gorm:"size:10;not null;default:un"`
	Notes       string     `json:"notes" gorm:"type:text"`
	Active      bool       `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

func (Product) TableName() string {
	return "products"
}

// BelowMinStock reports whether the stock level is under the threshold.
func (p *Product) BelowMinStock() bool {
	return p.Stock < p.MinStock
}
