package mock

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/finance-tracker/budget-api/internal/infra/db"
)

var once sync.Once
var sharedDb *Db

// Db is a shared in-memory SQLite database with the application schema.
type Db struct {
	DbConn *gorm.DB
	models []any
}

// NewDb opens the shared database on first use and migrates models.
func NewDb(models ...any) *Db {
	once.Do(func() {
		sharedDb = open(models)
	})
	return sharedDb
}

func open(models []any) *Db {
	dbSQL, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		panic(err)
	}
	dbSQL.SetMaxOpenConns(1)

	dbConn, err := gorm.Open(sqlite.Dialector{Conn: dbSQL}, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}

	if err := dbConn.AutoMigrate(models...); err != nil {
		panic(fmt.Sprintf("failed to migrate database. err: %s", err.Error()))
	}

	return &Db{DbConn: dbConn, models: models}
}

// Database wraps the connection for the storage layer.
func (d *Db) Database() *db.Database {
	return db.FromGorm(d.DbConn)
}

// ClearDB deletes every row of every migrated table.
func (d *Db) ClearDB() error {
	for _, model := range d.models {
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error
		if err != nil {
			return fmt.Errorf("failed to clear %T: %w", model, err)
		}
	}
	return nil
}

// Count returns the number of rows in the table of model.
func (d *Db) Count(model any) (int64, error) {
	var n int64
	err := d.DbConn.Model(model).Count(&n).Error
	return n, err
}
