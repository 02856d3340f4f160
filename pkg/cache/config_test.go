package cache

import "testing"

func TestWithRedisAddr(t *testing.T) {
	cases := []struct {
		addr string
		host string
		port int
	}{
		{"redis:6380", "redis", 6380},
		{":6390", "localhost", 6390},
		{"cache.internal", "cache.internal", 6379},
	}
	for _, c := range cases {
		cfg := &RedisConfig{Host: "localhost", Port: 6379}
		WithRedisAddr(c.addr)(cfg)
		if cfg.Host != c.host || cfg.Port != c.port {
			t.Fatalf("%q: got %s:%d, want %s:%d", c.addr, cfg.Host, cfg.Port, c.host, c.port)
		}
	}
}
