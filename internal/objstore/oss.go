package objstore

import (
	"context"
	"io"

	oss "github.com/aliyun/aliyun-oss-go-sdk/oss"
)

type ossStore struct {
	bk *oss.Bucket
}

func OpenOSS(_ context.Context, c Config) (Store, error) {
	cli, err := oss.New(c.Endpoint, c.AccessKey, c.SecretKey)
	if err != nil {
		return nil, err
	}
	bk, err := cli.Bucket(c.Bucket)
	if err != nil {
		return nil, err
	}
	return &ossStore{bk: bk}, nil
}

func (s *ossStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	return s.bk.GetObject(sanitizeKey(key))
}

func (s *ossStore) Close() error { return nil }
