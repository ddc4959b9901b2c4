package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kkalanta/CreateWebMapsWithPopups/internal/db"
)

func TestStore_GetSetDel(t *testing.T) {
	s := NewStore(time.Minute)
	ctx := context.Background()

	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	value := []byte("hello")
	if err := s.SetWithTTL(ctx, "k", value, time.Minute); err != nil {
		t.Fatalf("SetWithTTL: %v", err)
	}
	value[0] = 'j'

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("Get = %q, want stored copy %q", got, "hello")
	}

	if err := s.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound after Del, got %v", err)
	}
}

func TestStore_Expiry(t *testing.T) {
	s := NewStore(time.Minute)
	ctx := context.Background()

	_ = s.SetWithTTL(ctx, "short", []byte("x"), 10*time.Millisecond)
	_ = s.SetWithTTL(ctx, "forever", []byte("y"), 0)
	time.Sleep(30 * time.Millisecond)

	if _, err := s.Get(ctx, "short"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expired key must be gone, got %v", err)
	}
	if _, err := s.Get(ctx, "forever"); err != nil {
		t.Errorf("key without ttl must stay, got %v", err)
	}
}

func TestStore_Close(t *testing.T) {
	s := NewStore(0)
	ctx := context.Background()

	if err := s.WaitForReady(ctx, time.Second); err != nil {
		t.Fatalf("WaitForReady: %v", err)
	}
	_ = s.SetWithTTL(ctx, "k", []byte("v"), 0)
	s.Close()

	var dbErr *db.Error
	if err := s.Ping(ctx); !errors.As(err, &dbErr) {
		t.Errorf("Ping after Close = %v, want *db.Error", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("Close must drop entries, got %v", err)
	}
}
