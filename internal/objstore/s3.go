package objstore

import (
	"context"
	"io"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

// blobStore serves any gocloud bucket URL; the s3 driver builds one from Config.
type blobStore struct{ bk *blob.Bucket }

func openBlob(ctx context.Context, u string) (Store, error) {
	bk, err := blob.OpenBucket(ctx, u)
	if err != nil {
		return nil, err
	}
	return &blobStore{bk: bk}, nil
}

// NewBlobStore wraps an already opened bucket. The store takes ownership of bk.
func NewBlobStore(bk *blob.Bucket) Store { return &blobStore{bk: bk} }

func (s *blobStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.bk.NewReader(ctx, sanitizeKey(key), nil)
}

func (s *blobStore) Close() error { return s.bk.Close() }
