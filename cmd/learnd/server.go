package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/p-n-ai/pai-learn/internal/catalog"
	"github.com/p-n-ai/pai-learn/internal/lms"
)

const passingScore = 70.0

// server is the fixture-backed dev LMS. It implements the production wire
// contract over in-memory learner state: grading, points and levels are
// computed here so the client can treat it exactly like the real service.
type server struct {
	catalog *catalog.Loader
	hub     *hub

	mu       sync.Mutex
	learners map[string]*learnerState
	attempts map[string]attemptState
}

type learnerState struct {
	points    int
	level     int
	completed map[string]map[string]bool // course ID -> set of lesson IDs
}

type attemptState struct {
	quizID  string
	learner string
	fixture catalog.QuizFixture
}

func newServer(loader *catalog.Loader) *server {
	return &server{
		catalog:  loader,
		hub:      newHub(),
		learners: make(map[string]*learnerState),
		attempts: make(map[string]attemptState),
	}
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", handleReadyz)
	mux.HandleFunc("GET /v1/courses/{id}", s.handleGetCourse)
	mux.HandleFunc("GET /v1/courses/{id}/enrollment", s.handleGetEnrollment)
	mux.HandleFunc("GET /v1/learners/{id}/profile", s.handleGetProfile)
	mux.HandleFunc("POST /v1/courses/{course}/lessons/{lesson}/progress", s.handlePostProgress)
	mux.HandleFunc("POST /v1/quizzes/{id}/attempts", s.handleStartAttempt)
	mux.HandleFunc("POST /v1/attempts/{id}/submit", s.handleSubmitAttempt)
	mux.HandleFunc("GET /v1/rewards", s.handleGetRewards)
	mux.HandleFunc("GET /v1/events/stream", s.hub.handleStream)
	return mux
}

func (s *server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	fixture, ok := s.catalog.Course(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "course not found")
		return
	}
	writeJSON(w, http.StatusOK, courseFromFixture(fixture))
}

func (s *server) handleGetEnrollment(w http.ResponseWriter, r *http.Request) {
	courseID := r.PathValue("id")
	learnerID := r.URL.Query().Get("learner_id")
	if learnerID == "" {
		writeError(w, http.StatusNotFound, "not enrolled")
		return
	}
	fixture, ok := s.catalog.Course(courseID)
	if !ok {
		writeError(w, http.StatusNotFound, "course not found")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Learners are enrolled on first sight; the dev LMS has no enrollment
	// workflow of its own.
	learner := s.learner(learnerID)
	var completed []string
	for id := range learner.completed[courseID] {
		completed = append(completed, id)
	}

	writeJSON(w, http.StatusOK, lms.Enrollment{
		Progress:           s.snapshotLocked(learner, fixture),
		CompletedLessonIDs: completed,
	})
}

func (s *server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	learner := s.learner(r.PathValue("id"))
	profile := lms.Profile{Points: learner.points, Level: learner.level}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, profile)
}

func (s *server) handlePostProgress(w http.ResponseWriter, r *http.Request) {
	courseID := r.PathValue("course")
	lessonID := r.PathValue("lesson")
	learnerID := learnerFromAuth(r)

	var body struct {
		Completed bool `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	fixture, ok := s.catalog.Course(courseID)
	if !ok {
		writeError(w, http.StatusNotFound, "course not found")
		return
	}
	lessonFixture, ok := findLesson(fixture, lessonID)
	if !ok {
		writeError(w, http.StatusNotFound, "lesson not found")
		return
	}

	s.mu.Lock()
	learner := s.learner(learnerID)
	set := learner.completed[courseID]
	if set == nil {
		set = make(map[string]bool)
		learner.completed[courseID] = set
	}

	var awarded []string
	if body.Completed && !set[lessonID] {
		set[lessonID] = true
		points := lessonFixture.Points
		if points == 0 {
			points = 10
		}
		learner.points += points
		learner.level = 1 + learner.points/100
		awarded = append(awarded, lessonFixture.RewardIDs...)
	} else if !body.Completed {
		delete(set, lessonID)
	}

	result := lms.ProgressResult{
		Snapshot:         s.snapshotLocked(learner, fixture),
		AwardedRewardIDs: awarded,
	}
	s.mu.Unlock()

	s.hub.broadcast(map[string]any{
		"type":       "lesson_progress",
		"learner_id": learnerID,
		"course_id":  courseID,
		"lesson_id":  lessonID,
		"completed":  body.Completed,
		"points":     result.Snapshot.Points,
		"level":      result.Snapshot.Level,
	})

	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleStartAttempt(w http.ResponseWriter, r *http.Request) {
	quizID := r.PathValue("id")
	fixture, ok := s.catalog.Quiz(quizID)
	if !ok {
		writeError(w, http.StatusNotFound, "quiz not found")
		return
	}

	attemptID := uuid.NewString()
	s.mu.Lock()
	s.attempts[attemptID] = attemptState{
		quizID:  quizID,
		learner: learnerFromAuth(r),
		fixture: fixture,
	}
	s.mu.Unlock()

	questions := make([]lms.Question, 0, len(fixture.Questions))
	for _, q := range fixture.Questions {
		questions = append(questions, lms.Question{
			ID:      q.ID,
			Text:    q.Text,
			Type:    q.Type,
			Options: q.Options,
		})
	}

	writeJSON(w, http.StatusOK, lms.Attempt{AttemptID: attemptID, Questions: questions})
}

func (s *server) handleSubmitAttempt(w http.ResponseWriter, r *http.Request) {
	attemptID := r.PathValue("id")

	var body struct {
		Answers []lms.QuizAnswer `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	att, ok := s.attempts[attemptID]
	if ok {
		delete(s.attempts, attemptID)
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "attempt not found")
		return
	}

	score := grade(att.fixture, body.Answers)
	var awarded []string
	if score >= passingScore {
		awarded = att.fixture.RewardIDs
	}

	s.hub.broadcast(map[string]any{
		"type":       "quiz_graded",
		"learner_id": att.learner,
		"quiz_id":    att.quizID,
		"attempt_id": attemptID,
		"score":      score,
	})

	writeJSON(w, http.StatusOK, lms.GradeResult{
		PercentageScore:  score,
		AwardedRewardIDs: awarded,
	})
}

func (s *server) handleGetRewards(w http.ResponseWriter, r *http.Request) {
	idsParam := r.URL.Query().Get("ids")
	var rewards []lms.Reward
	for _, id := range strings.Split(idsParam, ",") {
		if id == "" {
			continue
		}
		fixture, ok := s.catalog.Reward(id)
		if !ok {
			slog.Warn("unknown reward requested", "reward_id", id)
			continue
		}
		rewards = append(rewards, lms.Reward{
			ID:          fixture.ID,
			Name:        fixture.Name,
			Description: fixture.Description,
			ImageRef:    fixture.ImageRef,
			Rarity:      fixture.Rarity,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"rewards": rewards})
}

// learner returns (creating if needed) the state for a learner. Caller holds
// the lock.
func (s *server) learner(id string) *learnerState {
	l, ok := s.learners[id]
	if !ok {
		l = &learnerState{level: 1, completed: make(map[string]map[string]bool)}
		s.learners[id] = l
	}
	return l
}

// snapshotLocked computes the authoritative snapshot. Caller holds the lock.
func (s *server) snapshotLocked(learner *learnerState, fixture catalog.Fixture) lms.ProgressSnapshot {
	total := 0
	for _, u := range fixture.Units {
		total += len(u.Lessons)
	}
	done := len(learner.completed[fixture.ID])
	pct := 0
	if total > 0 {
		pct = done * 100 / total
	}
	return lms.ProgressSnapshot{
		Points:             learner.points,
		Level:              learner.level,
		ProgressPercentage: pct,
	}
}

func grade(fixture catalog.QuizFixture, answers []lms.QuizAnswer) float64 {
	if len(fixture.Questions) == 0 {
		return 0
	}
	key := make(map[string]string, len(fixture.Questions))
	for _, q := range fixture.Questions {
		key[q.ID] = q.Answer
	}
	correct := 0
	for _, a := range answers {
		if want, ok := key[a.QuestionID]; ok && strings.EqualFold(want, a.SelectedAnswer) {
			correct++
		}
	}
	return float64(correct) * 100 / float64(len(fixture.Questions))
}

func courseFromFixture(f catalog.Fixture) lms.Course {
	c := lms.Course{ID: f.ID, Title: f.Title}
	for _, u := range f.Units {
		unit := lms.Unit{ID: u.ID, Title: u.Title}
		for _, l := range u.Lessons {
			unit.Lessons = append(unit.Lessons, lms.Lesson{
				ID:              l.ID,
				Title:           l.Title,
				Content:         l.Content,
				Resources:       l.Resources,
				QuizID:          l.QuizID,
				DurationMinutes: l.DurationMinutes,
			})
		}
		c.Units = append(c.Units, unit)
	}
	return c
}

func findLesson(f catalog.Fixture, lessonID string) (catalog.LessonFixture, bool) {
	for _, u := range f.Units {
		for _, l := range u.Lessons {
			if l.ID == lessonID {
				return l, true
			}
		}
	}
	return catalog.LessonFixture{}, false
}

// learnerFromAuth extracts the learner from the bearer token. The dev LMS
// trusts the token to literally be the learner ID.
func learnerFromAuth(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok && token != "" {
		return token
	}
	return "anonymous"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("writing response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
