package models

// Recipe is a saved dish with free-text ingredients and instructions.
type Recipe struct {
	Base
	UserID       string `gorm:"type:uuid;not null;index" json:"user_id"`
	Name         string `gorm:"not null" json:"name"`
	Ingredients  string `gorm:"type:text" json:"ingredients"`
	Instructions string `gorm:"type:text" json:"instructions"`
	Servings     int    `json:"servings"`
	PrepMinutes  int    `json:"prep_minutes"`
	Tags         string `json:"tags"`
}
