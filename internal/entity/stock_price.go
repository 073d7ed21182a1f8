package entity

import (
	"time"
)

// StockPrice is one daily OHLCV row. Append-only: rows are never mutated once
// a trading day has closed, reruns upsert on (stock_id, trade_date).
type StockPrice struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StockID   uint      `gorm:"not null;uniqueIndex:uq_stock_price_date" json:"stock_id"`
	TradeDate time.Time `gorm:"not null;uniqueIndex:uq_stock_price_date" json:"trade_date"`
	Open      float64   `gorm:"column:open_price;not null" json:"open"`
	High      float64   `gorm:"column:high_price;not null" json:"high"`
	Low       float64   `gorm:"column:low_price;not null" json:"low"`
	Close     float64   `gorm:"column:close_price;not null" json:"close"`
	Volume    int64     `gorm:"not null" json:"volume"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (StockPrice) TableName() string {
	return "stock_prices"
}
