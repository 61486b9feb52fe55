package httpadapter

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWriteTimeout(t *testing.T) {
	cases := map[time.Duration]time.Duration{
		0:                0 + minWriteTimeout,
		30 * time.Second: 40 * time.Second,
		2 * time.Minute:  2*time.Minute + minWriteTimeout,
		-time.Second:     minWriteTimeout,
	}
	for cacheTimeout, want := range cases {
		assert.Equal(t, want, writeTimeout(cacheTimeout), "cache timeout %s", cacheTimeout)
	}
}

func TestNewServer_WriteTimeoutCoversReload(t *testing.T) {
	cacheTimeout := 5 * time.Minute
	s := NewServer(":0", nil, nil, cacheTimeout, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.Greater(t, s.httpServer.WriteTimeout, cacheTimeout)
}
