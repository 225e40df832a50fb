package storage_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/feelcast/feelcast/pkg/adapter/storage"
	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/utils/test"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestClient(t *testing.T) {
	vars := test.RequireCloud(t, "TEST_STORAGE_BUCKET")
	prefix := "test-" + time.Now().Format("20060102150405") + "/"

	ctx := context.Background()
	client, err := storage.New(ctx, vars.Get("TEST_STORAGE_BUCKET"))
	gt.NoError(t, err).Required()
	defer client.Close(ctx)

	objectName := prefix + "voice.wav"
	testData := []byte("test data")

	t.Run("PutObject", func(t *testing.T) {
		w := client.PutObject(ctx, objectName)
		_, err := w.Write(testData)
		gt.NoError(t, err).Required()
		gt.NoError(t, w.Close())
	})

	t.Run("GetObject", func(t *testing.T) {
		rc, err := client.GetObject(ctx, objectName)
		gt.NoError(t, err).Required()
		defer func() {
			_ = rc.Close()
		}()

		data, err := io.ReadAll(rc)
		gt.NoError(t, err)
		gt.Equal(t, string(data), string(testData))
	})

	t.Run("DeleteObject", func(t *testing.T) {
		gt.NoError(t, client.DeleteObject(ctx, objectName))
		_, err := client.GetObject(ctx, objectName)
		gt.True(t, goerr.HasTag(err, errs.TagNotFound))
		gt.NoError(t, client.DeleteObject(ctx, objectName))
	})
}

func TestClientURL(t *testing.T) {
	vars := test.RequireCloud(t, "TEST_STORAGE_BUCKET")
	ctx := context.Background()
	client, err := storage.New(ctx, vars.Get("TEST_STORAGE_BUCKET"))
	gt.NoError(t, err).Required()
	defer client.Close(ctx)

	gt.Equal(t, client.URI("voice/a.wav"), "gs://"+vars.Get("TEST_STORAGE_BUCKET")+"/voice/a.wav")
	gt.S(t, client.ObjectURL("voice/a.wav")).Contains("storage.googleapis.com")
}
