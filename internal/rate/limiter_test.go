package rate

import (
	"testing"
	"time"
)

func TestNewRedisLimiter_Defaults(t *testing.T) {
	l := NewRedisLimiter(nil, "", 10, 0)
	if l.Prefix != "rl:" {
		t.Fatalf("prefix = %q, quería rl:", l.Prefix)
	}
	if l.Window != time.Minute {
		t.Fatalf("window = %v, quería 1m", l.Window)
	}

	if l = NewRedisLimiter(nil, "hc:rl:", 10, -time.Second); l.Window != time.Minute {
		t.Fatalf("window negativa = %v, quería 1m", l.Window)
	}

	if l = NewRedisLimiter(nil, "hc:rl:", 10, 30*time.Second); l.Window != 30*time.Second {
		t.Fatalf("window explícita = %v, quería 30s", l.Window)
	}
}
