package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStoreNamespacesKeys(t *testing.T) {
	s := &RedisStore{prefix: "signalboard"}
	assert.Equal(t, "signalboard:snapshot:latest", s.wrapKey("snapshot:latest"))
	assert.Equal(t, "signalboard:snapshots", s.wrapKey("snapshots"))
}

func TestEncode(t *testing.T) {
	data, err := encode("raw")
	require.NoError(t, err)
	assert.Equal(t, []byte("raw"), data)

	data, err = encode([]byte(`{"a":1}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(data))

	data, err = encode(map[string]float64{"Gold": 4979.8})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Gold":4979.8}`, string(data))

	_, err = encode(make(chan int))
	assert.Error(t, err)
}

func TestNewRedisStoreFailsWithoutServer(t *testing.T) {
	_, err := NewRedisStore(WithRedisAddr("127.0.0.1:1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")
}

func TestSetAndPublishSurfacesTransportErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	s := &RedisStore{client: client, prefix: "signalboard"}
	defer s.Close()

	err := s.SetAndPublish(context.Background(), "snapshot:latest", "snapshots", map[string]int{"n": 1}, time.Minute)
	assert.Error(t, err)

	err = s.SetAndPublish(context.Background(), "snapshot:latest", "snapshots", make(chan int), time.Minute)
	assert.ErrorContains(t, err, "marshal value")
}
