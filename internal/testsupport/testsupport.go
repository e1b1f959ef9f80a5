package testsupport

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
	"github.com/karloscodes/cartridge/cache"
	ctestsupport "github.com/karloscodes/cartridge/testsupport"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"folio/internal"
	"folio/internal/auth"
	"folio/internal/catalog"
	"folio/internal/config"
	"folio/internal/events"
	"folio/internal/users"
)

// testDBCache caches test databases by test name to allow multiple calls
// within the same test to share the same database
var testDBCache = make(map[string]*gorm.DB)
var testDBCacheMu sync.Mutex

// TestDBManager wraps cartridge's TestDBManager with folio's interface
type TestDBManager struct {
	*ctestsupport.TestDBManager
}

// NewTestDBManager creates a TestDBManager that implements cartridge.DBManager
func NewTestDBManager(db *gorm.DB) *TestDBManager {
	return &TestDBManager{
		TestDBManager: ctestsupport.NewTestDBManager(db),
	}
}

// Ensure TestDBManager implements cartridge.DBManager
var _ cartridge.DBManager = (*TestDBManager)(nil)

// allModels returns all folio models for migration
func allModels() []any {
	return []any{
		&cache.CacheRecord{},
		&events.Event{},
		&users.User{},
		&catalog.Project{},
		&catalog.Skill{},
	}
}

// SetupTestDB creates a test database with all folio models migrated.
// Uses a named in-memory database with cache=shared to allow multiple
// connections to share the same database within a test. Caches the database
// by root test name so subtests share it with their parent.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testName := t.Name()

	rootName := testName
	if idx := strings.Index(testName, "/"); idx > 0 {
		rootName = testName[:idx]
	}

	testDBCacheMu.Lock()
	if db, exists := testDBCache[rootName]; exists {
		testDBCacheMu.Unlock()
		return db
	}
	testDBCacheMu.Unlock()

	sanitizedName := strings.ReplaceAll(rootName, "/", "_")
	dsn := fmt.Sprintf("file:test_%s_%d?mode=memory&cache=shared", sanitizedName, time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("testsupport: failed to open test database: %v", err)
	}

	db.Exec("PRAGMA foreign_keys = ON")
	db.Exec("PRAGMA journal_mode = WAL")

	if err := db.AutoMigrate(allModels()...); err != nil {
		t.Fatalf("testsupport: failed to migrate models: %v", err)
	}

	testDBCacheMu.Lock()
	testDBCache[rootName] = db
	testDBCacheMu.Unlock()

	t.Cleanup(func() {
		testDBCacheMu.Lock()
		delete(testDBCache, rootName)
		testDBCacheMu.Unlock()
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// SetupTestDBManager creates a test DB manager backed by SetupTestDB.
func SetupTestDBManager(t *testing.T) (*TestDBManager, *slog.Logger) {
	db := SetupTestDB(t)
	return NewTestDBManager(db), GetLogger()
}

// GetLogger returns a test logger
func GetLogger() *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})
	return slog.New(handler)
}

// CleanAllTables clears all non-system tables in the database
func CleanAllTables(db *gorm.DB) {
	var tableNames []string
	db.Raw("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'").Scan(&tableNames)

	var tables []string
	for _, name := range tableNames {
		if name != "migrations" && name != "schema_migrations" {
			tables = append(tables, name)
		}
	}

	if len(tables) == 0 {
		return
	}

	db.Exec("PRAGMA foreign_keys = OFF")
	defer db.Exec("PRAGMA foreign_keys = ON")

	db.Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			tx.Exec("DELETE FROM " + table)
			tx.Exec("DELETE FROM sqlite_sequence WHERE name=?", table)
		}
		return nil
	})
}

// CreateTestUser creates a test user with a raw (unhashed) password column.
func CreateTestUser(db *gorm.DB, email, password string, isAdmin bool) users.User {
	var user users.User
	if db.Where("email = ?", email).First(&user).Error == nil {
		return user
	}

	user = users.User{
		Email:             email,
		EncryptedPassword: password,
		IsAdmin:           isAdmin,
		CreatedAt:         time.Now().UTC(),
		UpdatedAt:         time.Now().UTC(),
	}
	db.Create(&user)
	return user
}

// CreateTestUserForAuth creates a user with a properly hashed password for
// login and token tests.
func CreateTestUserForAuth(t *testing.T, db *gorm.DB, email, password string, isAdmin bool) *users.User {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &users.User{
		Email:             email,
		EncryptedPassword: string(hashedPassword),
		IsAdmin:           isAdmin,
		CreatedAt:         time.Now().UTC(),
		UpdatedAt:         time.Now().UTC(),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// EventOption mutates an event fixture before insertion.
type EventOption func(*events.Event)

// WithCreatedAt backdates the event.
func WithCreatedAt(createdAt time.Time) EventOption {
	return func(e *events.Event) { e.CreatedAt = createdAt }
}

// WithCountry stamps the event's resolved country code.
func WithCountry(country string) EventOption {
	return func(e *events.Event) { e.Country = country }
}

// WithTimeSpent sets the time-spent reading.
func WithTimeSpent(seconds int) EventOption {
	return func(e *events.Event) { e.TimeSpent = seconds }
}

// WithProjectID marks the event as a view of the given project.
func WithProjectID(id uint) EventOption {
	return func(e *events.Event) { e.ProjectID = id }
}

// WithSkillID marks the event as a view of the given skill.
func WithSkillID(id uint) EventOption {
	return func(e *events.Event) { e.SkillID = id }
}

// WithPath overrides the event path.
func WithPath(path string) EventOption {
	return func(e *events.Event) { e.Path = path }
}

// WithAdmin marks the event as admin traffic.
func WithAdmin() EventOption {
	return func(e *events.Event) { e.IsAdmin = true }
}

// CreateTestEvent inserts an event row directly, bypassing the ingestion
// pipeline, for aggregation tests.
func CreateTestEvent(t *testing.T, db *gorm.DB, eventType events.EventType, visitorID string, opts ...EventOption) *events.Event {
	t.Helper()

	event := &events.Event{
		EventType: eventType,
		VisitorID: visitorID,
		UserAgent: "Mozilla/5.0 Test Browser",
		Path:      "/",
		Country:   events.UnknownCountry,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(event)
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

// CreateTestProject inserts a project fixture.
func CreateTestProject(t *testing.T, db *gorm.DB, title string) *catalog.Project {
	t.Helper()

	project := &catalog.Project{Title: title}
	require.NoError(t, db.Create(project).Error)
	return project
}

// CreateTestSkill inserts a skill fixture.
func CreateTestSkill(t *testing.T, db *gorm.DB, name string) *catalog.Skill {
	t.Helper()

	skill := &catalog.Skill{Name: name}
	require.NoError(t, db.Create(skill).Error)
	return skill
}

// CreateMinimalTestApp creates a test Fiber app with all routes
func CreateMinimalTestApp(t *testing.T, db *gorm.DB) *fiber.App {
	t.Helper()

	dbManager := NewTestDBManager(db)
	appConfig := config.GetConfig()
	appConfig.Environment = config.Test

	cfg := cartridge.DefaultServerConfig()
	cfg.Config = appConfig
	cfg.Logger = GetLogger()
	cfg.DBManager = dbManager

	srv, err := cartridge.NewServer(cfg)
	require.NoError(t, err)

	internal.MountAppRoutes(srv)
	return srv.App()
}

// AuthHeaderForUser issues a bearer token for the user and returns the
// Authorization header value.
func AuthHeaderForUser(t *testing.T, user *users.User) string {
	t.Helper()

	token, err := auth.IssueToken(config.GetConfig(), user)
	require.NoError(t, err)
	return "Bearer " + token
}
