package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/cuihairu/arcadehub/internal/db"
	"github.com/cuihairu/arcadehub/internal/objstore"
	dom "github.com/cuihairu/arcadehub/internal/ports"
	repocatalog "github.com/cuihairu/arcadehub/internal/repo/gorm/catalog"
)

// Config selects where the catalog document lives.
// Driver: file|http|dir|blob|s3|oss|cos|db. When empty it is inferred from
// BaseDir (dir) or Location. The dir driver reads Key below BaseDir.
type Config struct {
	Driver         string
	Location       string
	Bucket         string
	Key            string
	Region         string
	Endpoint       string
	AccessKey      string
	SecretKey      string
	ForcePathStyle bool
	BaseDir        string
	DSN            string
}

// NewSource builds the source described by c.
func NewSource(c Config) (dom.CatalogSource, error) {
	driver := strings.ToLower(strings.TrimSpace(c.Driver))
	if driver == "" {
		driver = inferDriver(c)
	}
	switch driver {
	case "file":
		if c.Location == "" {
			return nil, fmt.Errorf("catalog location required for file driver")
		}
		return &FileSource{Path: c.Location}, nil
	case "http":
		return &HTTPSource{URL: c.Location, Client: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}}, nil
	case "dir", "blob", "s3", "oss", "cos":
		oc := objstore.Config{
			Driver:         driver,
			Bucket:         c.Bucket,
			Region:         c.Region,
			Endpoint:       c.Endpoint,
			AccessKey:      c.AccessKey,
			SecretKey:      c.SecretKey,
			ForcePathStyle: c.ForcePathStyle,
			BaseDir:        c.BaseDir,
			URL:            c.Location,
		}
		if driver == "dir" {
			oc.Driver = "file"
			if oc.BaseDir == "" {
				oc.BaseDir = c.Location
			}
		}
		if err := objstore.Validate(oc); err != nil {
			return nil, err
		}
		if c.Key == "" {
			return nil, fmt.Errorf("catalog key required for %s driver", driver)
		}
		return &ObjectSource{Config: oc, Key: c.Key}, nil
	case "db":
		dsn := c.DSN
		if dsn == "" {
			dsn = c.Location
		}
		gdb, err := db.Open(dsn)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		if err := repocatalog.AutoMigrate(gdb); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return &DBSource{Repo: repocatalog.NewPortRepo(repocatalog.NewRepo(gdb))}, nil
	default:
		return nil, fmt.Errorf("unknown catalog driver: %s", c.Driver)
	}
}

func inferDriver(c Config) string {
	l := strings.ToLower(c.Location)
	switch {
	case c.BaseDir != "":
		return "dir"
	case strings.HasPrefix(l, "http://"), strings.HasPrefix(l, "https://"):
		return "http"
	case strings.Contains(l, "://"):
		return "blob"
	default:
		return "file"
	}
}

// FileSource reads a local document.
type FileSource struct{ Path string }

func (s *FileSource) Name() string { return "file:" + s.Path }

func (s *FileSource) Open(context.Context) (io.ReadCloser, string, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, "", err
	}
	return f, FormatFor(s.Path), nil
}

// HTTPSource fetches the document with a single GET.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s *HTTPSource) Name() string { return s.URL }

func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, "", err
	}
	cli := s.Client
	if cli == nil {
		cli = http.DefaultClient
	}
	resp, err := cli.Do(req)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, "", fmt.Errorf("unexpected status %s", resp.Status)
	}
	format := FormatJSON
	if ct := resp.Header.Get("Content-Type"); strings.Contains(strings.ToLower(ct), "yaml") {
		format = FormatYAML
	} else if req.URL != nil {
		format = FormatFor(path.Base(req.URL.Path))
	}
	return resp.Body, format, nil
}

// ObjectSource reads the document from an object storage bucket.
type ObjectSource struct {
	Config objstore.Config
	Key    string
}

func (s *ObjectSource) Name() string {
	where := s.Config.Bucket
	if where == "" && s.Config.BaseDir != "" {
		where = s.Config.BaseDir
	}
	if where == "" {
		where = s.Config.URL
	}
	return s.Config.Driver + ":" + where + "/" + s.Key
}

func (s *ObjectSource) Open(ctx context.Context) (io.ReadCloser, string, error) {
	st, err := objstore.Open(ctx, s.Config)
	if err != nil {
		return nil, "", err
	}
	r, err := st.Get(ctx, s.Key)
	if err != nil {
		_ = st.Close()
		return nil, "", err
	}
	return &storeReader{ReadCloser: r, store: st}, FormatFor(s.Key), nil
}

type storeReader struct {
	io.ReadCloser
	store objstore.Store
}

func (r *storeReader) Close() error {
	err := r.ReadCloser.Close()
	if e := r.store.Close(); err == nil {
		err = e
	}
	return err
}

// DBSource serves a catalog previously imported into the database.
type DBSource struct{ Repo dom.CatalogRepository }

func (s *DBSource) Name() string { return "db" }

func (s *DBSource) Open(ctx context.Context) (io.ReadCloser, string, error) {
	games, err := s.Repo.List(ctx)
	if err != nil {
		return nil, "", err
	}
	b, err := json.Marshal(games)
	if err != nil {
		return nil, "", err
	}
	return io.NopCloser(bytes.NewReader(b)), FormatJSON, nil
}
