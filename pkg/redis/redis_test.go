package redis

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestPublishSnapshotUnreachable(t *testing.T) {
	l := logrus.New()
	l.SetOutput(io.Discard)

	r := New(l, Options{Address: "127.0.0.1:1", Channel: "test:snapshots"})
	defer r.Close()

	assert.Equal(t, "test:snapshots", r.Channel())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.Error(t, r.Ping(ctx))
	assert.Error(t, r.PublishSnapshot(ctx, []byte(`{"version":1}`)))
}
