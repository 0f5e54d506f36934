package objstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Store is a read-only view of an object storage bucket.
type Store interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Close() error
}

type Config struct {
	Driver         string
	Bucket         string
	Region         string
	Endpoint       string
	AccessKey      string
	SecretKey      string
	ForcePathStyle bool
	BaseDir        string
	// URL is a gocloud bucket URL (mem://, file:///dir, s3://bucket?region=..) for the blob driver.
	URL string
}

func Validate(c Config) error {
	switch strings.ToLower(c.Driver) {
	case "s3":
		if c.Bucket == "" {
			return errors.New("bucket required for s3 driver")
		}
	case "blob":
		if c.URL == "" {
			return errors.New("url required for blob driver")
		}
	case "oss":
		if c.Bucket == "" {
			return errors.New("bucket required for oss driver")
		}
		if c.Endpoint == "" {
			return errors.New("endpoint required for oss driver")
		}
		if c.AccessKey == "" || c.SecretKey == "" {
			return errors.New("access_key/secret_key required for oss driver")
		}
	case "cos":
		if c.Bucket == "" {
			return errors.New("bucket required for cos driver")
		}
		if c.Region == "" && c.Endpoint == "" {
			return errors.New("region or endpoint required for cos driver")
		}
		if c.AccessKey == "" || c.SecretKey == "" {
			return errors.New("access_key/secret_key required for cos driver")
		}
	case "file":
		if c.BaseDir == "" {
			return errors.New("base_dir required for file driver")
		}
		if _, err := os.Stat(c.BaseDir); err != nil {
			return fmt.Errorf("base_dir: %w", err)
		}
	case "":
		return errors.New("storage driver not set")
	default:
		return fmt.Errorf("unknown storage driver: %s", c.Driver)
	}
	return nil
}

// Open validates c and opens the matching driver.
func Open(ctx context.Context, c Config) (Store, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}
	switch strings.ToLower(c.Driver) {
	case "s3":
		return openBlob(ctx, buildS3URL(c))
	case "blob":
		return openBlob(ctx, c.URL)
	case "oss":
		return OpenOSS(ctx, c)
	case "cos":
		return OpenCOS(ctx, c)
	default:
		return OpenFile(ctx, c)
	}
}

// sanitizeKey prevents path traversal.
func sanitizeKey(key string) string {
	key = filepath.ToSlash(key)
	key = strings.TrimLeft(key, "/")
	parts := strings.Split(key, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, "/")
}

// buildS3URL constructs a gocloud s3 URL with query params.
func buildS3URL(c Config) string {
	u := url.URL{Scheme: "s3", Host: c.Bucket}
	q := url.Values{}
	if c.Region != "" {
		q.Set("region", c.Region)
	}
	if c.Endpoint != "" {
		q.Set("endpoint", c.Endpoint)
	}
	if c.ForcePathStyle {
		q.Set("s3ForcePathStyle", "true")
	}
	u.RawQuery = q.Encode()
	return u.String()
}
