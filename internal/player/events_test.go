package player_test

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/p-n-ai/pai-learn/internal/platform/database"
	"github.com/p-n-ai/pai-learn/internal/player"
)

func TestMemoryEventLogger(t *testing.T) {
	logger := player.NewMemoryEventLogger()

	err := logger.LogEvent(player.Event{
		LearnerID: "learner-1",
		CourseID:  "algebra-1",
		EventType: "lesson_progress",
		Data:      map[string]any{"lesson_id": "l1"},
	})
	if err != nil {
		t.Fatalf("LogEvent() error = %v", err)
	}

	events := logger.Events()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].EventType != "lesson_progress" {
		t.Errorf("EventType = %q, want lesson_progress", events[0].EventType)
	}
	if events[0].CreatedAt.IsZero() {
		t.Error("CreatedAt was not defaulted")
	}
}

func TestMemoryEventLoggerRequiresType(t *testing.T) {
	logger := player.NewMemoryEventLogger()
	if err := logger.LogEvent(player.Event{LearnerID: "learner-1"}); err == nil {
		t.Error("LogEvent() without event_type should fail")
	}
}

func TestNopEventLogger(t *testing.T) {
	if err := (player.NopEventLogger{}).LogEvent(player.Event{}); err != nil {
		t.Errorf("LogEvent() error = %v, want nil", err)
	}
}

func TestPostgresEventLoggerValidation(t *testing.T) {
	logger := player.NewPostgresEventLogger(nil)
	if err := logger.LogEvent(player.Event{LearnerID: "l", EventType: "t"}); err == nil {
		t.Error("LogEvent() with nil pool should fail")
	}
}

func TestPostgresEventLogger(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("pai"),
		tcpostgres.WithUsername("pai"),
		tcpostgres.WithPassword("pai"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("starting postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminating container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("ConnectionString() error = %v", err)
	}

	db, err := database.New(ctx, url, 5, 1)
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(db.Close)

	if err := db.ApplySchema(ctx, player.EventsSchema); err != nil {
		t.Fatalf("ApplySchema() error = %v", err)
	}

	logger := player.NewPostgresEventLogger(db.Pool)
	event := player.Event{
		LearnerID: "learner-1",
		CourseID:  "algebra-1",
		EventType: "quiz_submitted",
		Data:      map[string]any{"score": 85.0},
	}
	if err := logger.LogEvent(event); err != nil {
		t.Fatalf("LogEvent() error = %v", err)
	}

	var (
		learnerID string
		eventType string
	)
	row := db.Pool.QueryRow(ctx,
		`SELECT learner_id, event_type FROM learning_events WHERE course_id = $1`, "algebra-1")
	if err := row.Scan(&learnerID, &eventType); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if learnerID != "learner-1" || eventType != "quiz_submitted" {
		t.Errorf("row = (%s, %s), want (learner-1, quiz_submitted)", learnerID, eventType)
	}
}
