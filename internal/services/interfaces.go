package services

import (
	"context"
	"time"

	"daybook/internal/calendar"
	"daybook/internal/calendar/google"
	"daybook/internal/models"
	"daybook/internal/pagination"
	"daybook/internal/recurrence"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
}

// EventInput carries the user-editable fields of an event.
type EventInput struct {
	Title           string
	Day             time.Time
	StartTime       *string
	EndTime         *string
	AllDay          bool
	Notes           string
	Recurrence      recurrence.Frequency
	RecurrenceUntil *time.Time
	ReminderMinutes *int
}

// EventFilter holds optional filter parameters for listing events.
type EventFilter struct {
	FromDay *time.Time
	ToDay   *time.Time
}

// EventServicer defines the contract for event-related business logic.
// Mutations trigger a fire-and-forget sync push once the local write has
// committed.
type EventServicer interface {
	CreateEvent(userID string, input EventInput) (*models.Event, error)
	GetUserEvents(userID string, page pagination.PageRequest, filter EventFilter) (*pagination.PageResponse[models.Event], error)
	GetEventByID(userID, eventID string) (*models.Event, error)
	UpdateEvent(userID, eventID string, input EventInput) (*models.Event, error)
	DeleteEvent(userID, eventID string) error
}

// CategoryServicer defines the contract for budget-category business logic.
type CategoryServicer interface {
	CreateCategory(userID, name string, categoryType models.CategoryType, icon, color string, monthlyLimit int64) (*models.BudgetCategory, error)
	GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetCategory], error)
	GetCategoryByID(userID, categoryID string) (*models.BudgetCategory, error)
	UpdateCategory(userID, categoryID, name, icon, color string, monthlyLimit *int64) (*models.BudgetCategory, error)
	DeleteCategory(userID, categoryID string) error
}

// ExpenseInput carries the user-editable fields of an expense.
type ExpenseInput struct {
	CategoryID    string
	Amount        int64
	Date          time.Time
	Note          string
	IsRecurring   bool
	Frequency     recurrence.Frequency
	ScheduleStart *time.Time
	ScheduleEnd   *time.Time
}

// ExpenseServicer defines the contract for expense business logic.
type ExpenseServicer interface {
	CreateExpense(userID string, input ExpenseInput) (*models.Expense, error)
	GetUserExpenses(userID string, page pagination.PageRequest, categoryID *string) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	UpdateExpense(userID, expenseID string, input ExpenseInput) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
}

// HabitServicer defines the contract for habit business logic.
type HabitServicer interface {
	CreateHabit(userID, name, icon, color string, frequency recurrence.Frequency, scheduleStart time.Time, scheduleEnd *time.Time) (*models.Habit, error)
	GetUserHabits(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Habit], error)
	GetHabitByID(userID, habitID string) (*models.Habit, error)
	DeleteHabit(userID, habitID string) error
	GetHabitEntries(userID, habitID string, page pagination.PageRequest) (*pagination.PageResponse[models.HabitEntry], error)
	CompleteEntry(userID, entryID string, note string) (*models.HabitEntry, error)
}

// JournalServicer defines the contract for journal business logic.
type JournalServicer interface {
	CreateEntry(userID string, day time.Time, title, body, mood string) (*models.JournalEntry, error)
	GetUserEntries(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.JournalEntry], error)
	GetEntryByID(userID, entryID string) (*models.JournalEntry, error)
	UpdateEntry(userID, entryID, title, body, mood string) (*models.JournalEntry, error)
	DeleteEntry(userID, entryID string) error
}

// RecipeServicer defines the contract for recipe business logic.
type RecipeServicer interface {
	CreateRecipe(userID, name, ingredients, instructions string, servings, prepMinutes int, tags string) (*models.Recipe, error)
	GetUserRecipes(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Recipe], error)
	GetRecipeByID(userID, recipeID string) (*models.Recipe, error)
	UpdateRecipe(userID, recipeID, name, ingredients, instructions string, servings, prepMinutes *int, tags *string) (*models.Recipe, error)
	DeleteRecipe(userID, recipeID string) error
}

// VaultItemDetails is a vault item joined with its secrets.
type VaultItemDetails struct {
	Item     *models.VaultItem `json:"item"`
	Password string            `json:"password"`
	Notes    string            `json:"notes"`
}

// VaultServicer defines the contract for the password vault.
type VaultServicer interface {
	CreateItem(userID, title, username, url, category, password, notes string) (*models.VaultItem, error)
	GetUserItems(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.VaultItem], error)
	GetItemDetails(userID, itemID string) (*VaultItemDetails, error)
	UpdateItem(userID, itemID, title, username, url, category string, password, notes *string) (*models.VaultItem, error)
	DeleteItem(userID, itemID string) error
}

// CalendarAccountServicer manages connected external calendars and their
// credential sets.
type CalendarAccountServicer interface {
	// AuthURL starts the OAuth2 flow for the remote provider and moves
	// the account to the authenticating state.
	AuthURL(userID, provider string) (string, error)
	// Connect finishes the flow: exchanges the code, stores the token
	// pair in the secret store, and marks the account signed in.
	Connect(ctx context.Context, userID, provider, code, email string) (*models.CalendarAccount, error)
	// ConnectLocal connects the on-disk ICS calendar, which needs no
	// credentials.
	ConnectLocal(userID string) (*models.CalendarAccount, error)
	GetUserAccounts(userID string) ([]models.CalendarAccount, error)
	GetAccount(userID, provider string) (*models.CalendarAccount, error)
	SetSyncEnabled(userID, provider string, enabled bool) (*models.CalendarAccount, error)
	// SignOut clears the whole credential set and detaches the account.
	SignOut(userID, provider string) error
}

// SyncFailure records one event that could not be pushed to one provider.
type SyncFailure struct {
	EventID  string `json:"event_id"`
	Provider string `json:"provider"`
	Err      error  `json:"-"`
	Message  string `json:"error"`
}

// SyncServicer drives create/update/delete of local events against the
// user's connected calendar providers.
type SyncServicer interface {
	// SyncEvent pushes one event to every connected provider. Disabled
	// accounts are skipped silently; failures are collected per
	// provider rather than aborting the rest.
	SyncEvent(ctx context.Context, event *models.Event) []SyncFailure
	// SyncEventTo pushes one event to a single provider.
	SyncEventTo(ctx context.Context, event *models.Event, provider string) error
	// DeleteEvent removes the event's remote counterparts and mappings.
	DeleteEvent(ctx context.Context, event *models.Event) []SyncFailure
	// SyncAll pushes every event of the user, collecting per-item
	// failures instead of aborting the batch.
	SyncAll(ctx context.Context, userID string) ([]SyncFailure, error)
	// RemoteAgenda reads the remote provider's expanded agenda.
	RemoteAgenda(ctx context.Context, userID string, from, to time.Time) ([]google.RemoteEvent, error)
}

// ProviderResolver builds the provider client for a connected account.
type ProviderResolver interface {
	Resolve(account *models.CalendarAccount) (calendar.Provider, error)
}

// ProviderResolverFunc adapts a function to the ProviderResolver interface.
type ProviderResolverFunc func(account *models.CalendarAccount) (calendar.Provider, error)

// Resolve implements ProviderResolver.
func (f ProviderResolverFunc) Resolve(account *models.CalendarAccount) (calendar.Provider, error) {
	return f(account)
}

// MaterializerServicer expands recurring templates into concrete dated
// instances up to a cutoff day.
type MaterializerServicer interface {
	MaterializeExpenses(userID string, asOf time.Time) ([]models.Expense, error)
	MaterializeHabits(userID string, asOf time.Time) ([]models.HabitEntry, error)
	// MaterializeAll runs both walks for every active user.
	MaterializeAll(asOf time.Time) error
}
