package redis

import (
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
)

// newTestRedisClient returns a client bound to a fresh in-process server. The
// client is closed when the test ends.
func newTestRedisClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	opts, err := redislib.ParseURL("redis://" + mr.Addr() + "/0")
	if err != nil {
		t.Fatalf("parse redis url: %v", err)
	}
	client := redislib.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}
