package entity

import (
	"time"
)

// NewsArticle is one ingested news item. Articles are created once by the
// scraper; sentiment processing stamps ProcessedAt but never rewrites content.
type NewsArticle struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	Title          string            `gorm:"type:text;not null" json:"title"`
	Content        string            `gorm:"type:text" json:"content"`
	URL            string            `gorm:"type:text;unique;not null" json:"url"`
	Source         string            `gorm:"type:varchar(100);not null" json:"source"`
	PublishedAt    *time.Time        `gorm:"index" json:"published_at,omitempty"`
	HashIdentifier string            `gorm:"type:text;unique;not null" json:"hash_identifier"`
	Language       string            `gorm:"type:varchar(5);default:'id'" json:"language"`
	ProcessedAt    *time.Time        `gorm:"index" json:"processed_at,omitempty"`
	CreatedAt      time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
	StockMentions  []NewsStockMention `gorm:"foreignKey:NewsArticleID" json:"stock_mentions"`
}

func (NewsArticle) TableName() string {
	return "news_articles"
}

// NewsStockMention links an article to a stock it mentions.
type NewsStockMention struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	NewsArticleID uint      `gorm:"not null;uniqueIndex:uq_news_stock_mention" json:"news_article_id"`
	StockID       uint      `gorm:"not null;uniqueIndex:uq_news_stock_mention" json:"stock_id"`
	MentionCount  int       `gorm:"default:1" json:"mention_count"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (NewsStockMention) TableName() string {
	return "news_stock_mentions"
}
