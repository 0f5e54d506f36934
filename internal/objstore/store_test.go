package objstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gocloud.dev/blob/memblob"
)

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	ok := []Config{
		{Driver: "s3", Bucket: "b"},
		{Driver: "blob", URL: "mem://"},
		{Driver: "oss", Bucket: "b", Endpoint: "oss-cn-hangzhou.aliyuncs.com", AccessKey: "a", SecretKey: "s"},
		{Driver: "cos", Bucket: "b-125", Region: "ap-shanghai", AccessKey: "a", SecretKey: "s"},
		{Driver: "file", BaseDir: dir},
	}
	for _, c := range ok {
		if err := Validate(c); err != nil {
			t.Fatalf("%s: unexpected %v", c.Driver, err)
		}
	}
	bad := []Config{
		{},
		{Driver: "ftp"},
		{Driver: "s3"},
		{Driver: "blob"},
		{Driver: "oss", Bucket: "b"},
		{Driver: "cos", Bucket: "b", AccessKey: "a", SecretKey: "s"},
		{Driver: "file", BaseDir: filepath.Join(dir, "missing")},
	}
	for _, c := range bad {
		if err := Validate(c); err == nil {
			t.Fatalf("%+v: expected error", c)
		}
	}
}

func TestSanitizeKey(t *testing.T) {
	cases := map[string]string{
		"/catalog/games.json": "catalog/games.json",
		"../../etc/passwd":    "etc/passwd",
		"a//b/./c":            "a/b/c",
		"games.json":          "games.json",
	}
	for in, want := range cases {
		if got := sanitizeKey(in); got != want {
			t.Fatalf("sanitizeKey(%q)=%q want %q", in, got, want)
		}
	}
}

func TestBuildS3URL(t *testing.T) {
	u := buildS3URL(Config{Bucket: "games", Region: "us-east-1", ForcePathStyle: true})
	if !strings.HasPrefix(u, "s3://games?") || !strings.Contains(u, "region=us-east-1") || !strings.Contains(u, "s3ForcePathStyle=true") {
		t.Fatalf("unexpected url %s", u)
	}
}

func TestBlobStore_Get(t *testing.T) {
	ctx := context.Background()
	bk := memblob.OpenBucket(nil)
	if err := bk.WriteAll(ctx, "catalog/games.json", []byte(`[]`), nil); err != nil {
		t.Fatal(err)
	}
	s := NewBlobStore(bk)
	defer s.Close()
	r, err := s.Get(ctx, "/catalog/games.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer r.Close()
	b, _ := io.ReadAll(r)
	if string(b) != "[]" {
		t.Fatalf("unexpected body %q", b)
	}
	if _, err := s.Get(ctx, "missing.json"); err == nil {
		t.Fatalf("expected error for missing key")
	}
}

func TestFileStore_Get(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "games.json"), []byte(`[1]`), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Open(context.Background(), Config{Driver: "file", BaseDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	r, err := s.Get(context.Background(), "../games.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer r.Close()
	b, _ := io.ReadAll(r)
	if string(b) != "[1]" {
		t.Fatalf("unexpected body %q", b)
	}
}
