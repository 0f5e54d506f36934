package db

import (
	"path/filepath"
	"testing"
)

func TestOpen_SQLiteForms(t *testing.T) {
	for _, dsn := range []string{":memory:", "sqlite:///" + filepath.ToSlash(filepath.Join(t.TempDir(), "a.db"))} {
		gdb, err := Open(dsn)
		if err != nil {
			t.Fatalf("%s: %v", dsn, err)
		}
		if err := gdb.Exec("SELECT 1").Error; err != nil {
			t.Fatalf("%s: ping: %v", dsn, err)
		}
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
