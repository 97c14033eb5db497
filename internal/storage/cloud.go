package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// CloudBackend stores file bytes as objects in a Google Cloud Storage
// bucket. Enabled when STORAGE_BUCKET is set; credentials come from the
// ambient application-default mechanism.
type CloudBackend struct {
	BucketName string
	Ctx        context.Context
	Client     *gcs.Client
}

// NewCloudBackend connects a backend to the named bucket.
func NewCloudBackend(bucketName string) (*CloudBackend, error) {
	ctx := context.Background()
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud storage client: %v", err)
	}
	return &CloudBackend{
		BucketName: bucketName,
		Ctx:        ctx,
		Client:     client,
	}, nil
}

// Save writes content to the object named name, overwriting it if present.
func (c *CloudBackend) Save(name string, content io.Reader) (int64, error) {
	obj := c.Client.Bucket(c.BucketName).Object(name)
	wc := obj.NewWriter(c.Ctx)
	n, err := io.Copy(wc, content)
	if err != nil {
		_ = wc.Close()
		return 0, fmt.Errorf("failed to write data to object: %v", err)
	}
	if err := wc.Close(); err != nil {
		return 0, fmt.Errorf("failed to close object writer: %v", err)
	}
	return n, nil
}

// Open returns a reader over the object's bytes and its size.
func (c *CloudBackend) Open(name string) (io.ReadCloser, int64, error) {
	obj := c.Client.Bucket(c.BucketName).Object(name)
	r, err := obj.NewReader(c.Ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil, 0, ErrNotExist
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open object reader: %v", err)
	}
	return r, r.Attrs.Size, nil
}

// Remove deletes the object.
func (c *CloudBackend) Remove(name string) error {
	err := c.Client.Bucket(c.BucketName).Object(name).Delete(c.Ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return ErrNotExist
	}
	return err
}

// Exists reports whether the object is present in the bucket.
func (c *CloudBackend) Exists(name string) (bool, error) {
	_, err := c.Client.Bucket(c.BucketName).Object(name).Attrs(c.Ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List returns every object name in the bucket.
func (c *CloudBackend) List() ([]string, error) {
	it := c.Client.Bucket(c.BucketName).Objects(c.Ctx, nil)

	var names []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %v", err)
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}
