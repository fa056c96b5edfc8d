package statement

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type countingRepo struct {
	calls int
	rows  []MappedAccountRow
}

func (c *countingRepo) MappedRows(ctx context.Context, workpaperID uuid.UUID) ([]MappedAccountRow, error) {
	c.calls++
	return append([]MappedAccountRow(nil), c.rows...), nil
}

func TestServiceBuildUsesRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := &countingRepo{rows: balancedRows()}
	svc := NewService(repo, nil, NewCache(client, time.Minute))
	filters := Filters{WorkpaperID: uuid.New()}

	ctx := context.Background()
	first, warnings, err := svc.Build(ctx, filters)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	second, _, err := svc.Build(ctx, filters)
	if err != nil {
		t.Fatalf("cached Build() error = %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("expected one repo read, got %d", repo.calls)
	}
	if first.BalanceSheet.TotalAssets != second.BalanceSheet.TotalAssets {
		t.Fatalf("cached pack diverged: %v vs %v", first.BalanceSheet.TotalAssets, second.BalanceSheet.TotalAssets)
	}
}

func TestServiceBuildRebuildsAfterBump(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := &countingRepo{rows: balancedRows()}
	cache := NewCache(client, time.Minute)
	svc := NewService(repo, nil, cache)
	filters := Filters{WorkpaperID: uuid.New()}

	ctx := context.Background()
	if _, _, err := svc.Build(ctx, filters); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if err := cache.Bump(ctx); err != nil {
		t.Fatalf("Bump() error = %v", err)
	}
	if _, _, err := svc.Build(ctx, filters); err != nil {
		t.Fatalf("Build() after bump error = %v", err)
	}
	if repo.calls != 2 {
		t.Fatalf("expected rebuild after bump, got %d repo reads", repo.calls)
	}
}

func TestCacheDistinguishesFilters(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := &countingRepo{rows: balancedRows()}
	svc := NewService(repo, nil, NewCache(client, time.Minute))
	workpaperID := uuid.New()

	ctx := context.Background()
	if _, _, err := svc.Build(ctx, Filters{WorkpaperID: workpaperID}); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, _, err := svc.Build(ctx, Filters{WorkpaperID: workpaperID, IncludeZeroItems: true}); err != nil {
		t.Fatalf("Build() with zero items error = %v", err)
	}
	if repo.calls != 2 {
		t.Fatalf("expected distinct cache entries per filters, got %d repo reads", repo.calls)
	}
}

func TestCacheNilClientFallsThrough(t *testing.T) {
	repo := &countingRepo{rows: balancedRows()}
	svc := NewService(repo, nil, NewCache(nil, time.Minute))
	filters := Filters{WorkpaperID: uuid.New()}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, _, err := svc.Build(ctx, filters); err != nil {
			t.Fatalf("Build() error = %v", err)
		}
	}
	if repo.calls != 2 {
		t.Fatalf("nil client must not cache, got %d repo reads", repo.calls)
	}
}
