package lms_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/p-n-ai/pai-learn/internal/lms"
	"github.com/p-n-ai/pai-learn/internal/platform/cache"
)

// cacheForTest connects to a local Redis/Dragonfly and isolates the test in
// its own keyspace via FlushDB on a high-numbered database.
func cacheForTest(t *testing.T) *cache.Cache {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping cache integration test in short mode")
	}

	ctx := context.Background()
	c, err := cache.New(ctx, "redis://localhost:6379/9")
	if err != nil {
		t.Skipf("cache unavailable: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	if err := c.Client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("FlushDB() error = %v", err)
	}
	return c
}

func TestCachedGetCourse(t *testing.T) {
	c := cacheForTest(t)
	ctx := context.Background()

	mock := &lms.Mock{
		CourseResp: lms.Course{ID: "algebra-1", Title: "Algebra Basics",
			Units: []lms.Unit{{ID: "u1", Lessons: []lms.Lesson{{ID: "l1"}}}}},
	}
	svc := lms.NewCachedService(mock, c, lms.WithCourseTTL(time.Minute))

	for i := range 3 {
		course, err := svc.GetCourse(ctx, "algebra-1")
		if err != nil {
			t.Fatalf("GetCourse() call %d error = %v", i+1, err)
		}
		if course.Title != "Algebra Basics" {
			t.Errorf("Title = %q, want Algebra Basics", course.Title)
		}
	}

	if got := len(mock.Calls); got != 1 {
		t.Errorf("upstream calls = %d, want 1 (rest served from cache)", got)
	}
}

func TestCachedGetRewardsByIDs(t *testing.T) {
	c := cacheForTest(t)
	ctx := context.Background()

	mock := &lms.Mock{
		RewardsResp: []lms.Reward{{ID: "r1", Name: "Starter"}, {ID: "r2", Name: "Streak"}},
	}
	svc := lms.NewCachedService(mock, c)

	rewards, err := svc.GetRewardsByIDs(ctx, []string{"r1", "r2"})
	if err != nil {
		t.Fatalf("GetRewardsByIDs() error = %v", err)
	}
	if len(rewards) != 2 || rewards[0].ID != "r1" || rewards[1].ID != "r2" {
		t.Fatalf("rewards = %+v, want [r1 r2]", rewards)
	}

	// Second fetch is fully cache-served.
	rewards, err = svc.GetRewardsByIDs(ctx, []string{"r2", "r1"})
	if err != nil {
		t.Fatalf("GetRewardsByIDs() second call error = %v", err)
	}
	if len(mock.Calls) != 1 {
		t.Errorf("upstream calls = %d, want 1", len(mock.Calls))
	}

	// Requested order is preserved, not cache order.
	if rewards[0].ID != "r2" || rewards[1].ID != "r1" {
		t.Errorf("rewards = %+v, want [r2 r1]", rewards)
	}
}

func TestCachedGetRewardsByIDsPartialMiss(t *testing.T) {
	c := cacheForTest(t)
	ctx := context.Background()

	mock := &lms.Mock{RewardsResp: []lms.Reward{{ID: "r1", Name: "Starter"}}}
	svc := lms.NewCachedService(mock, c)

	if _, err := svc.GetRewardsByIDs(ctx, []string{"r1"}); err != nil {
		t.Fatalf("GetRewardsByIDs() error = %v", err)
	}

	// r1 is cached; only r3 should go upstream.
	mock.RewardsResp = []lms.Reward{{ID: "r3", Name: "Scholar"}}
	rewards, err := svc.GetRewardsByIDs(ctx, []string{"r1", "r3"})
	if err != nil {
		t.Fatalf("GetRewardsByIDs() error = %v", err)
	}
	if len(rewards) != 2 {
		t.Fatalf("got %d rewards, want 2", len(rewards))
	}
	if fmt.Sprint(mock.LastRewardIDs) != "[r3]" {
		t.Errorf("upstream ids = %v, want [r3]", mock.LastRewardIDs)
	}
}

func TestCachedPassThrough(t *testing.T) {
	c := cacheForTest(t)
	ctx := context.Background()

	mock := &lms.Mock{ProfileResp: lms.Profile{Points: 40, Level: 1}}
	svc := lms.NewCachedService(mock, c)

	for range 2 {
		if _, err := svc.GetProfile(ctx, "learner-1"); err != nil {
			t.Fatalf("GetProfile() error = %v", err)
		}
	}
	if len(mock.Calls) != 2 {
		t.Errorf("upstream calls = %d, want 2 (profile is never cached)", len(mock.Calls))
	}
}
