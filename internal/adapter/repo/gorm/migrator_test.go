package gormrepo

import (
	"testing"
	"testing/fstest"
)

func TestMigrationFilesAreOrderedAndFiltered(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_b.sql":   {Data: []byte("SELECT 2")},
		"0001_a.sql":   {Data: []byte("SELECT 1")},
		"README.md":    {Data: []byte("notes")},
		"sub/0003.sql": {Data: []byte("SELECT 3")},
	}
	files, err := migrationFiles(fsys)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 2 || files[0] != "0001_a.sql" || files[1] != "0002_b.sql" {
		t.Fatalf("unexpected files %v", files)
	}
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	files, err := migrationFiles(Migrations())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 embedded migrations, got %v", files)
	}
}
