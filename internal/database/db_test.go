package database

import (
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := Open("file::memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	fsys := fstest.MapFS{
		"001_a.sql": {Data: []byte(`CREATE TABLE a (id INTEGER PRIMARY KEY);`)},
		"002_b.sql": {Data: []byte(`CREATE TABLE b (id INTEGER PRIMARY KEY);`)},
		"README.md": {Data: []byte(`not a migration`)},
	}
	for i := 0; i < 2; i++ {
		if err := Migrate(db, fsys); err != nil {
			t.Fatalf("Migrate() run %d error = %v", i+1, err)
		}
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("_migrations rows = %d, want 2", n)
	}
}

func TestMigrateRollsBackBadFile(t *testing.T) {
	db, err := Open("file::memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	fsys := fstest.MapFS{"001_bad.sql": {Data: []byte(`CREATE TABLE;`)}}
	if err := Migrate(db, fsys); err == nil {
		t.Fatal("Migrate() error = nil, want syntax error")
	}
	var n int
	_ = db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n)
	if n != 0 {
		t.Errorf("bad migration recorded (%d rows)", n)
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
