package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"daybook/internal/models"
	"daybook/internal/recurrence"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Day builds a midnight-UTC date, the form schedules are keyed on.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestEvent creates a one-off timed event on the given day.
func CreateTestEvent(t *testing.T, db *gorm.DB, userID string, day time.Time) *models.Event {
	t.Helper()

	start := "09:00"
	end := "10:00"
	event := &models.Event{
		UserID:     userID,
		Title:      fmt.Sprintf("Test Event %d", nextID()),
		Day:        day,
		StartTime:  &start,
		EndTime:    &end,
		Recurrence: recurrence.None,
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("failed to create test event: %v", err)
	}
	return event
}

// CreateTestCategory creates a budget category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, categoryType models.CategoryType) *models.BudgetCategory {
	t.Helper()

	category := &models.BudgetCategory{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Type:   categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestExpense creates a one-off expense of the given amount (in cents).
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, categoryID string, amount int64, day time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     amount,
		Date:       day,
		Note:       fmt.Sprintf("Test Expense %d", nextID()),
		Frequency:  recurrence.None,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestRecurringExpense creates a recurring expense template
// anchored on the given day.
func CreateTestRecurringExpense(t *testing.T, db *gorm.DB, userID, categoryID string, amount int64, freq recurrence.Frequency, anchor time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      amount,
		Date:        anchor,
		Note:        fmt.Sprintf("Test Template %d", nextID()),
		IsRecurring: true,
		Frequency:   freq,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test recurring expense: %v", err)
	}
	return expense
}

// CreateTestHabit creates a habit with the given frequency and schedule start.
func CreateTestHabit(t *testing.T, db *gorm.DB, userID string, freq recurrence.Frequency, start time.Time) *models.Habit {
	t.Helper()

	habit := &models.Habit{
		UserID:        userID,
		Name:          fmt.Sprintf("Test Habit %d", nextID()),
		Frequency:     freq,
		ScheduleStart: start,
	}
	if err := db.Create(habit).Error; err != nil {
		t.Fatalf("failed to create test habit: %v", err)
	}
	return habit
}

// CreateTestCalendarAccount creates a signed-in account for a provider
// with sync enabled.
func CreateTestCalendarAccount(t *testing.T, db *gorm.DB, userID, provider string) *models.CalendarAccount {
	t.Helper()

	account := &models.CalendarAccount{
		UserID:      userID,
		Provider:    provider,
		State:       models.AuthStateSignedIn,
		SyncEnabled: true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test calendar account: %v", err)
	}
	return account
}
