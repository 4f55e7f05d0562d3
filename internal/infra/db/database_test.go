package db

import (
	"context"
	"path/filepath"
	"testing"
)

type probe struct {
	ID   uint
	Name string
}

func TestNewSQLiteConnection_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "finance.db")

	database, err := NewSQLiteConnection(path)
	if err != nil {
		t.Fatalf("NewSQLiteConnection() error = %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := database.AutoMigrate(&probe{}); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}
	if err := database.DB().Create(&probe{Name: "x"}).Error; err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := database.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
	if database.Driver() != "sqlite" {
		t.Errorf("Driver() = %q, want sqlite", database.Driver())
	}
}

func TestNewSQLiteConnection_Memory(t *testing.T) {
	database, err := NewSQLiteConnection(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteConnection() error = %v", err)
	}
	if err := database.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
