package mock

import (
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/goal-planner/backend/config"
	"github.com/goal-planner/backend/internal/infra/db"
	"github.com/goal-planner/backend/internal/integration/persistence/model"
)

const (
	clearAttempts = 3
	clearBackoff  = 50 * time.Millisecond
)

var (
	dbOnce sync.Once
	testDb *Db
	dbErr  error
)

// Db is the in-memory SQLite database shared by all scenarios, migrated with the
// same models as the service.
type Db struct {
	DbConn *gorm.DB
	// tables lists the models by table name in deletion order.
	tables []string
	models map[string]any
}

// NewDb opens and migrates the shared database once. Later calls return the same
// instance, or the error the first call failed with.
func NewDb() (*Db, error) {
	dbOnce.Do(func() {
		testDb, dbErr = open()
	})
	return testDb, dbErr
}

func open() (*Db, error) {
	// A single connection that is never recycled keeps the in-memory database alive.
	database, err := db.NewSQLiteConnection(&config.DatabaseConfig{
		SQLitePath:   ":memory:",
		MaxIdleConns: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("open test database: %w", err)
	}
	if err := database.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("migrate test database: %w", err)
	}

	d := &Db{
		DbConn: database.DB(),
		models: make(map[string]any),
	}
	// Progress entries first, they reference goals.
	for _, m := range []any{&model.ProgressEntryModel{}, &model.GoalModel{}, &model.BudgetModel{}} {
		stmt := &gorm.Statement{DB: d.DbConn}
		if err := stmt.Parse(m); err != nil {
			return nil, fmt.Errorf("parse model %T: %w", m, err)
		}
		d.tables = append(d.tables, stmt.Schema.Table)
		d.models[stmt.Schema.Table] = m
	}
	return d, nil
}

// ClearDB deletes every row, soft-deleted ones included, retrying a busy database
// a few times before giving up.
func (d *Db) ClearDB() error {
	var err error
	for attempt := 1; attempt <= clearAttempts; attempt++ {
		if err = d.clear(); err == nil {
			return nil
		}
		time.Sleep(clearBackoff * time.Duration(attempt))
	}
	return fmt.Errorf("failed to clear database after %d attempts: %w", clearAttempts, err)
}

func (d *Db) clear() error {
	return d.DbConn.Transaction(func(tx *gorm.DB) error {
		for _, table := range d.tables {
			if err := tx.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}

// GetModel returns a zero model for the given table name.
func (d *Db) GetModel(table string) (any, bool) {
	m, ok := d.models[table]
	return m, ok
}
