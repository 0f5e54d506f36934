package objstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	cos "github.com/tencentyun/cos-go-sdk-v5"
)

type cosStore struct {
	cli *cos.Client
}

func OpenCOS(_ context.Context, c Config) (Store, error) {
	u, err := cosBucketURL(c)
	if err != nil {
		return nil, err
	}
	b := &cos.BaseURL{BucketURL: u}
	cli := cos.NewClient(b, &http.Client{Transport: &cos.AuthorizationTransport{SecretID: c.AccessKey, SecretKey: c.SecretKey}})
	return &cosStore{cli: cli}, nil
}

func cosBucketURL(c Config) (*url.URL, error) {
	if c.Endpoint != "" {
		u, err := url.Parse(c.Endpoint)
		if err != nil {
			return nil, err
		}
		// if host does not contain the bucket, use path-style
		if !strings.Contains(u.Host, c.Bucket) && !strings.HasSuffix(u.Path, "/"+c.Bucket) {
			u.Path = "/" + c.Bucket
		}
		return u, nil
	}
	if c.Region == "" {
		return nil, fmt.Errorf("region required for cos when endpoint empty")
	}
	return url.Parse(fmt.Sprintf("https://%s.cos.%s.myqcloud.com", c.Bucket, c.Region))
}

func (s *cosStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := s.cli.Object.Get(ctx, sanitizeKey(key), nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (s *cosStore) Close() error { return nil }
