package entity

import (
	"time"
)

// FinancialStatement is one reporting-period snapshot of fundamentals.
// The latest row by period_end is used for current valuation.
type FinancialStatement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	StockID       uint      `gorm:"not null;uniqueIndex:uq_financial_statement" json:"stock_id"`
	StatementType string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_financial_statement" json:"statement_type"`
	PeriodEnd     time.Time `gorm:"not null;uniqueIndex:uq_financial_statement" json:"period_end"`
	FiscalYear    int       `gorm:"not null" json:"fiscal_year"`
	Revenue       float64   `json:"revenue"`
	NetIncome     float64   `json:"net_income"`
	TotalAssets   float64   `json:"total_assets"`
	TotalEquity   float64   `json:"total_equity"`
	EPS           float64   `gorm:"column:eps" json:"eps"`
	ROE           float64   `gorm:"column:roe" json:"roe"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FinancialStatement) TableName() string {
	return "financial_statements"
}
