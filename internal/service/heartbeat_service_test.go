package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lshigami/proctorexam/internal/repository"
)

type memLivenessCache struct {
	entries map[string]time.Time
	failGet bool
}

func (c *memLivenessCache) Touch(_ context.Context, userID uint, examKey string, at time.Time) error {
	c.entries[livenessKey(userID, examKey)] = at
	return nil
}

func (c *memLivenessCache) LastSeen(_ context.Context, userID uint, examKey string) (time.Time, bool, error) {
	if c.failGet {
		return time.Time{}, false, errors.New("connection refused")
	}
	at, ok := c.entries[livenessKey(userID, examKey)]
	return at, ok, nil
}

func TestHeartbeatLiveness(t *testing.T) {
	db := newTestDB(t)
	svc := NewHeartbeatService(repository.NewHeartbeatRepository(db), nil, testConfig()).(*heartbeatService)
	student := seedStudent(t, db, "alice")
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := base
	svc.now = func() time.Time { return clock }

	l, err := svc.Liveness(ctx, student.ID, strPtr("MATH101"))
	if err != nil {
		t.Fatalf("Liveness: %v", err)
	}
	if l.LastSeen != nil || !l.Stale {
		t.Errorf("no heartbeat yet: %+v", l)
	}

	sc := studentSession(student, strPtr("MATH101"))
	for i := 0; i < 3; i++ {
		clock = base.Add(time.Duration(i) * 10 * time.Second)
		if err := svc.Ping(ctx, sc); err != nil {
			t.Fatalf("Ping: %v", err)
		}
	}
	var rows int64
	db.Table("proctor_health").Count(&rows)
	if rows != 3 {
		t.Errorf("heartbeat rows = %d, want 3 (append-only)", rows)
	}

	clock = base.Add(25 * time.Second)
	l, err = svc.Liveness(ctx, student.ID, strPtr("MATH101"))
	if err != nil {
		t.Fatalf("Liveness: %v", err)
	}
	if l.LastSeen == nil || !l.LastSeen.Equal(base.Add(20*time.Second)) {
		t.Fatalf("last seen = %v, want %v", l.LastSeen, base.Add(20*time.Second))
	}
	if *l.SecondsSince != 5 || l.Stale {
		t.Errorf("seconds since = %d stale = %v", *l.SecondsSince, l.Stale)
	}

	clock = base.Add(2 * time.Minute)
	l, _ = svc.Liveness(ctx, student.ID, strPtr("MATH101"))
	if !l.Stale {
		t.Error("expected stale after two minutes")
	}

	// Heartbeats without an exam are tracked separately.
	if last, err := svc.LastSeen(ctx, student.ID, nil); err != nil || last != nil {
		t.Errorf("LastSeen(nil exam) = %v, %v", last, err)
	}
}

func TestHeartbeatCache(t *testing.T) {
	db := newTestDB(t)
	cache := &memLivenessCache{entries: map[string]time.Time{}}
	svc := NewHeartbeatService(repository.NewHeartbeatRepository(db), cache, testConfig())
	student := seedStudent(t, db, "bob")
	ctx := context.Background()

	if err := svc.Ping(ctx, studentSession(student, strPtr("BIO"))); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if len(cache.entries) != 1 {
		t.Fatalf("cache entries = %d, want 1", len(cache.entries))
	}
	fromCache, err := svc.LastSeen(ctx, student.ID, strPtr("BIO"))
	if err != nil || fromCache == nil {
		t.Fatalf("LastSeen = %v, %v", fromCache, err)
	}

	cache.failGet = true
	fromDB, err := svc.LastSeen(ctx, student.ID, strPtr("BIO"))
	if err != nil || fromDB == nil {
		t.Fatalf("LastSeen with broken cache = %v, %v", fromDB, err)
	}
	if fromDB.Sub(*fromCache).Abs() > time.Millisecond {
		t.Errorf("db %v and cache %v disagree", fromDB, fromCache)
	}
}
