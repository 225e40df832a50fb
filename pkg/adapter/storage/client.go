package storage

import (
	"context"
	"errors"
	"io"
	"net/url"

	"cloud.google.com/go/storage"
	"github.com/feelcast/feelcast/pkg/domain/interfaces"
	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
)

// Client is a Cloud Storage bucket.
type Client struct {
	client *storage.Client
	bucket string
}

var _ interfaces.StorageClient = &Client{}

func New(ctx context.Context, bucket string, opts ...option.ClientOption) (*Client, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.T(errs.TagStorage))
	}

	return &Client{
		client: client,
		bucket: bucket,
	}, nil
}

func (x *Client) PutObject(ctx context.Context, object string) io.WriteCloser {
	return x.client.Bucket(x.bucket).Object(object).NewWriter(ctx)
}

func (x *Client) GetObject(ctx context.Context, object string) (io.ReadCloser, error) {
	rc, err := x.client.Bucket(x.bucket).Object(object).NewReader(ctx)
	if err != nil {
		opts := []goerr.Option{
			goerr.V("bucket", x.bucket),
			goerr.TV(errs.ObjectKey, object),
		}
		if errors.Is(err, storage.ErrObjectNotExist) {
			opts = append(opts, goerr.T(errs.TagNotFound))
		}
		return nil, goerr.Wrap(err, "failed to create reader", opts...)
	}

	return rc, nil
}

// DeleteObject removes object. A missing object is not an error.
func (x *Client) DeleteObject(ctx context.Context, object string) error {
	if err := x.client.Bucket(x.bucket).Object(object).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return goerr.Wrap(err, "failed to delete object",
			goerr.V("bucket", x.bucket),
			goerr.TV(errs.ObjectKey, object),
		)
	}
	return nil
}

// ObjectURL returns the public URL of object.
func (x *Client) ObjectURL(object string) string {
	u := url.URL{
		Scheme: "https",
		Host:   "storage.googleapis.com",
		Path:   "/" + x.bucket + "/" + object,
	}
	return u.String()
}

// URI returns the gs:// URI of object, as used by Vertex AI.
func (x *Client) URI(object string) string {
	return "gs://" + x.bucket + "/" + object
}

func (x *Client) Close(ctx context.Context) {
	safe.Close(ctx, x.client)
}
