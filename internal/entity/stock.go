package entity

import (
	"time"
)

// Stock is the master record for one listed company.
type Stock struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Symbol      string    `gorm:"type:varchar(10);unique;not null" json:"symbol"`
	CompanyName string    `gorm:"type:varchar(255);not null" json:"company_name"`
	Sector      string    `gorm:"type:varchar(100)" json:"sector"`
	IsLQ45      bool      `gorm:"index;default:false" json:"is_lq45"`
	Currency    string    `gorm:"type:varchar(3);default:'IDR'" json:"currency"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Stock) TableName() string {
	return "stocks"
}
