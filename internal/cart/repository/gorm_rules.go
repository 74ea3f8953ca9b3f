package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shopnow/storefront/internal/cart/domain"
)

// GormRuleRepository serves the discount rule table from PostgreSQL,
// letting operators add coupons without a redeploy
type GormRuleRepository struct {
	db *gorm.DB
}

// NewGormRuleRepository creates the repository, migrates the table and
// seeds the built-in rules when it is empty
func NewGormRuleRepository(db *gorm.DB) (*GormRuleRepository, error) {
	if err := db.AutoMigrate(&domain.DiscountRule{}); err != nil {
		return nil, fmt.Errorf("failed to migrate discount_rules: %w", err)
	}

	var count int64
	if err := db.Model(&domain.DiscountRule{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count discount rules: %w", err)
	}

	if count == 0 {
		if err := db.Create(domain.DefaultDiscountRules()).Error; err != nil {
			return nil, fmt.Errorf("failed to seed discount rules: %w", err)
		}
	}

	return &GormRuleRepository{db: db}, nil
}

// FindAll returns every rule, expired ones included; expiry is
// evaluated at lookup time
func (r *GormRuleRepository) FindAll(ctx context.Context) ([]domain.DiscountRule, error) {
	var rules []domain.DiscountRule
	if err := r.db.WithContext(ctx).Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("failed to load discount rules: %w", err)
	}
	return rules, nil
}

// StaticRuleRepository serves a fixed in-memory rule set
type StaticRuleRepository struct {
	rules []domain.DiscountRule
}

// NewStaticRuleRepository wraps a fixed rule list; nil means the defaults
func NewStaticRuleRepository(rules []domain.DiscountRule) *StaticRuleRepository {
	if rules == nil {
		rules = domain.DefaultDiscountRules()
	}
	return &StaticRuleRepository{rules: rules}
}

// FindAll returns the fixed rule list
func (r *StaticRuleRepository) FindAll(_ context.Context) ([]domain.DiscountRule, error) {
	return r.rules, nil
}
