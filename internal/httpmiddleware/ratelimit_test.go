package httpmiddleware

import (
	"context"
	"testing"
)

func TestTokenBucketExhausts(t *testing.T) {
	l := NewTokenBucket(3, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if !l.Allow(ctx, "1.2.3.4") {
			t.Fatalf("attempt %d unexpectedly limited", i)
		}
	}
	if l.Allow(ctx, "1.2.3.4") {
		t.Fatalf("expected limit after capacity exhausted")
	}
}

func TestTokenBucketKeysAreIndependent(t *testing.T) {
	l := NewTokenBucket(1, 1)
	ctx := context.Background()

	if !l.Allow(ctx, "1.1.1.1") {
		t.Fatalf("first key should be allowed")
	}
	if l.Allow(ctx, "1.1.1.1") {
		t.Fatalf("first key should now be limited")
	}
	if !l.Allow(ctx, "2.2.2.2") {
		t.Fatalf("second key should be unaffected")
	}
}
