package catalogcmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cuihairu/arcadehub/internal/catalog"
)

const doc = `[
  {"id": 1, "title": "Snake Arena", "description": "classic snake", "url": "https://x/1"},
  {"id": 2, "title": "Dragon Quest", "description": "an RPG", "url": "https://x/2"}
]`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := New()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeDoc(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "games.json")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate", writeDoc(t, doc))
	if err != nil || !strings.Contains(out, "catalog OK: 2 games") {
		t.Fatalf("unexpected %q %v", out, err)
	}
	if _, err := run(t, "validate", writeDoc(t, `[{"id":1,"title":"a","url":"https://x/u"},{"id":1,"title":"b","url":"https://x/v"}]`)); err == nil {
		t.Fatalf("duplicate ids must fail validation")
	}
}

func TestSearch(t *testing.T) {
	p := writeDoc(t, doc)
	out, err := run(t, "search", "DRAGON", "--catalog", p)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "2\tDragon Quest") || strings.Contains(out, "Snake") || !strings.Contains(out, "1 games found") {
		t.Fatalf("unexpected output %q", out)
	}
	out, _ = run(t, "search", "--catalog", p)
	if !strings.Contains(out, "2 games found") {
		t.Fatalf("empty query must list everything, got %q", out)
	}
}

func TestImport_ThenLoadFromDB(t *testing.T) {
	dsn := "sqlite:///" + filepath.ToSlash(filepath.Join(t.TempDir(), "arcadehub.db"))
	out, err := run(t, "import", writeDoc(t, doc), "--dsn", dsn)
	if err != nil || !strings.Contains(out, "imported 2 games") {
		t.Fatalf("unexpected %q %v", out, err)
	}
	src, err := catalog.NewSource(catalog.Config{Driver: "db", DSN: dsn})
	if err != nil {
		t.Fatal(err)
	}
	c, err := catalog.Load(context.Background(), src)
	if err != nil || c.Len() != 2 {
		t.Fatalf("expected 2 games from db, got %d %v", c.Len(), err)
	}
}
