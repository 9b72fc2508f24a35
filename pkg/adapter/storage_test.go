package adapter_test

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/m-mizutani/chatlaw/pkg/adapter"
	"github.com/m-mizutani/gt"
)

func TestStoragePutGet(t *testing.T) {
	bucket := os.Getenv("TEST_STORAGE_BUCKET")
	if bucket == "" {
		t.Skip("TEST_STORAGE_BUCKET is not set")
	}

	ctx := context.Background()
	s, err := adapter.NewStorage(ctx, bucket, adapter.WithPrefix("test/"))
	gt.NoError(t, err)

	key := uuid.NewString() + ".json"
	w, err := s.Put(ctx, key, "application/json")
	gt.NoError(t, err)
	_, err = w.Write([]byte(`{"case_type":"criminal"}`))
	gt.NoError(t, err)
	gt.NoError(t, w.Close())

	r, err := s.Get(ctx, key)
	gt.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	gt.NoError(t, err)
	gt.Equal(t, string(data), `{"case_type":"criminal"}`)
}
