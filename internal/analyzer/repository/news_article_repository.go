package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Subakiz/ai-investment-manager/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewsArticleRepository defines the interface for ingested news articles.
type NewsArticleRepository interface {
	CreateIgnoreConflict(ctx context.Context, article *entity.NewsArticle) error
	FindUnprocessed(ctx context.Context, since time.Time, limit int) ([]entity.NewsArticle, error)
	MarkProcessed(ctx context.Context, articleID uint, processedAt time.Time) error
}

type newsArticleRepository struct {
	db *gorm.DB
}

// NewNewsArticleRepository creates a new instance of NewsArticleRepository.
func NewNewsArticleRepository(db *gorm.DB) NewsArticleRepository {
	return &newsArticleRepository{db: db}
}

// CreateIgnoreConflict inserts an article and its stock mentions, skipping
// articles whose hash identifier has already been ingested.
func (r *newsArticleRepository) CreateIgnoreConflict(ctx context.Context, article *entity.NewsArticle) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		mentions := article.StockMentions
		article.StockMentions = nil

		txInner := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "hash_identifier"}},
			DoNothing: true,
		}).Create(article)
		if txInner.Error != nil {
			return txInner.Error
		}
		if txInner.RowsAffected == 0 {
			return nil
		}

		for i := range mentions {
			mentions[i].NewsArticleID = article.ID
		}
		if len(mentions) == 0 {
			return nil
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&mentions).Error; err != nil {
			return fmt.Errorf("insert news_stock_mentions error: %w", err)
		}
		return nil
	})
}

func (r *newsArticleRepository) FindUnprocessed(ctx context.Context, since time.Time, limit int) ([]entity.NewsArticle, error) {
	var articles []entity.NewsArticle
	err := r.db.WithContext(ctx).
		Preload("StockMentions").
		Where("published_at >= ? AND processed_at IS NULL", since).
		Order("published_at DESC").
		Limit(limit).
		Find(&articles).Error
	return articles, err
}

func (r *newsArticleRepository) MarkProcessed(ctx context.Context, articleID uint, processedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.NewsArticle{}).
		Where("id = ?", articleID).
		Update("processed_at", processedAt).Error
}
