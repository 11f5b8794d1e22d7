package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"daybook/internal/calendar"
	"daybook/internal/config"
	"daybook/internal/handlers"
	"daybook/internal/logger"
	"daybook/internal/middleware"
	"daybook/internal/models"
	"daybook/internal/secretstore"
	"daybook/internal/services"
	"daybook/internal/validator"
)

const testStoreKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Provider *memProvider
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	if _, err := config.Load(); err != nil {
		panic(err)
	}
	validator.Register()
}

// memProvider is an in-memory calendar.Provider standing in for every
// connected account in integration tests.
type memProvider struct {
	mu     sync.Mutex
	events map[string]calendar.Event
	nextID int
}

func newMemProvider() *memProvider {
	return &memProvider{events: make(map[string]calendar.Event)}
}

func (p *memProvider) Name() string { return "ics" }

func (p *memProvider) BestEffortDelete() bool { return true }

func (p *memProvider) Exists(_ context.Context, remoteID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.events[remoteID]
	return ok, nil
}

func (p *memProvider) Create(_ context.Context, event calendar.Event) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	id := fmt.Sprintf("remote-%d", p.nextID)
	p.events[id] = event
	return id, nil
}

func (p *memProvider) Update(_ context.Context, remoteID string, event calendar.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.events[remoteID]; !ok {
		return calendar.ErrRemoteNotFound
	}
	p.events[remoteID] = event
	return nil
}

func (p *memProvider) Delete(_ context.Context, remoteID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.events[remoteID]; !ok {
		return calendar.ErrRemoteNotFound
	}
	delete(p.events, remoteID)
	return nil
}

func (p *memProvider) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Event{},
		&models.EventMapping{},
		&models.BudgetCategory{},
		&models.Expense{},
		&models.Habit{},
		&models.HabitEntry{},
		&models.JournalEntry{},
		&models.Recipe{},
		&models.VaultItem{},
		&models.CalendarAccount{},
		&secretstore.Secret{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite. Every calendar account resolves to one shared in-memory provider.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	vaultSecrets, err := secretstore.New(db, "vault", testStoreKey)
	if err != nil {
		t.Fatalf("failed to open vault secret store: %v", err)
	}
	calendarSecrets, err := secretstore.New(db, "calendar", testStoreKey)
	if err != nil {
		t.Fatalf("failed to open calendar secret store: %v", err)
	}

	provider := newMemProvider()
	resolver := services.ProviderResolverFunc(func(*models.CalendarAccount) (calendar.Provider, error) {
		return provider, nil
	})
	oauthConf := &oauth2.Config{ClientID: "test-client", ClientSecret: "test-secret"}

	// Services
	userService := services.NewUserService(db)
	syncService := services.NewSyncService(db, resolver)
	eventService := services.NewEventService(db, syncService)
	categoryService := services.NewCategoryService(db)
	expenseService := services.NewExpenseService(db)
	habitService := services.NewHabitService(db)
	journalService := services.NewJournalService(db)
	recipeService := services.NewRecipeService(db)
	vaultService := services.NewVaultService(db, vaultSecrets)
	accountService := services.NewCalendarAccountService(db, calendarSecrets, oauthConf)
	materializerService := services.NewMaterializerService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	eventHandler := handlers.NewEventHandler(eventService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	habitHandler := handlers.NewHabitHandler(habitService)
	journalHandler := handlers.NewJournalHandler(journalService)
	recipeHandler := handlers.NewRecipeHandler(recipeService)
	vaultHandler := handlers.NewVaultHandler(vaultService)
	calendarHandler := handlers.NewCalendarHandler(accountService, syncService)
	materializeHandler := handlers.NewMaterializeHandler(materializerService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	events := protected.Group("/events")
	events.POST("", eventHandler.CreateEvent)
	events.GET("", eventHandler.ListEvents)
	events.GET("/:id", eventHandler.GetEvent)
	events.PUT("/:id", eventHandler.UpdateEvent)
	events.DELETE("/:id", eventHandler.DeleteEvent)

	budget := protected.Group("/budget")
	budget.POST("/categories", categoryHandler.CreateCategory)
	budget.GET("/categories", categoryHandler.ListCategories)
	budget.GET("/categories/:id", categoryHandler.GetCategory)
	budget.PUT("/categories/:id", categoryHandler.UpdateCategory)
	budget.DELETE("/categories/:id", categoryHandler.DeleteCategory)
	budget.POST("/expenses", expenseHandler.CreateExpense)
	budget.GET("/expenses", expenseHandler.ListExpenses)
	budget.GET("/expenses/:id", expenseHandler.GetExpense)
	budget.PUT("/expenses/:id", expenseHandler.UpdateExpense)
	budget.DELETE("/expenses/:id", expenseHandler.DeleteExpense)

	habits := protected.Group("/habits")
	habits.POST("", habitHandler.CreateHabit)
	habits.GET("", habitHandler.ListHabits)
	habits.GET("/:id", habitHandler.GetHabit)
	habits.DELETE("/:id", habitHandler.DeleteHabit)
	habits.GET("/:id/entries", habitHandler.ListHabitEntries)
	habits.POST("/entries/:id/complete", habitHandler.CompleteEntry)

	journal := protected.Group("/journal")
	journal.POST("", journalHandler.CreateEntry)
	journal.GET("", journalHandler.ListEntries)
	journal.GET("/:id", journalHandler.GetEntry)
	journal.PUT("/:id", journalHandler.UpdateEntry)
	journal.DELETE("/:id", journalHandler.DeleteEntry)

	recipes := protected.Group("/recipes")
	recipes.POST("", recipeHandler.CreateRecipe)
	recipes.GET("", recipeHandler.ListRecipes)
	recipes.GET("/:id", recipeHandler.GetRecipe)
	recipes.PUT("/:id", recipeHandler.UpdateRecipe)
	recipes.DELETE("/:id", recipeHandler.DeleteRecipe)

	vault := protected.Group("/vault")
	vault.POST("", vaultHandler.CreateItem)
	vault.GET("", vaultHandler.ListItems)
	vault.GET("/:id", vaultHandler.GetItemDetails)
	vault.PUT("/:id", vaultHandler.UpdateItem)
	vault.DELETE("/:id", vaultHandler.DeleteItem)

	cal := protected.Group("/calendar")
	cal.GET("/accounts", calendarHandler.ListAccounts)
	cal.GET("/accounts/:provider/auth-url", calendarHandler.GetAuthURL)
	cal.POST("/accounts/:provider/connect", calendarHandler.Connect)
	cal.PUT("/accounts/:provider/sync-enabled", calendarHandler.SetSyncEnabled)
	cal.DELETE("/accounts/:provider", calendarHandler.SignOut)
	cal.POST("/sync", calendarHandler.SyncAll)
	cal.GET("/agenda", calendarHandler.RemoteAgenda)

	protected.POST("/materialize", materializeHandler.Materialize)

	return &testApp{DB: db, Router: router, Provider: provider}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the token and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (token, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(string)
}

// loginUser logs in and returns the token.
func (app *testApp) loginUser(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["token"].(string)
}
