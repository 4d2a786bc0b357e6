package store

import (
	"context"
	"testing"
)

func TestVisitorCounter(t *testing.T) {
	_, rdb := newTestRedis(t)
	s := NewVisitorCounter(rdb)
	ctx := context.Background()

	n, err := s.Total(ctx)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if n != 0 {
		t.Fatalf("fresh counter = %d, want 0", n)
	}

	for i := int64(1); i <= 3; i++ {
		n, err = s.Hit(ctx)
		if err != nil {
			t.Fatalf("hit: %v", err)
		}
		if n != i {
			t.Fatalf("hit %d returned %d", i, n)
		}
	}

	n, err = s.Total(ctx)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if n != 3 {
		t.Fatalf("total = %d, want 3", n)
	}
}
