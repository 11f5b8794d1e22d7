package models

// CategoryType buckets a budget category for the needs/wants/savings split.
type CategoryType string

const (
	CategoryTypeNeeds   CategoryType = "needs"
	CategoryTypeWants   CategoryType = "wants"
	CategoryTypeSavings CategoryType = "savings"
)

// BudgetCategory groups expenses under a monthly limit.
type BudgetCategory struct {
	Base
	UserID string       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name   string       `gorm:"not null" json:"name"`
	Type   CategoryType `gorm:"not null" json:"type"`
	Icon   string       `json:"icon"`
	Color  string       `json:"color"`

	// MonthlyLimit is in cents; zero means no limit.
	MonthlyLimit int64 `gorm:"type:bigint;default:0" json:"monthly_limit"`

	// Relationships
	Expenses []Expense `gorm:"foreignKey:CategoryID" json:"expenses,omitempty"`
}
