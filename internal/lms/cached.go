package lms

import (
	"context"
	"log/slog"
	"time"

	"github.com/p-n-ai/pai-learn/internal/platform/cache"
)

const (
	defaultCourseTTL = 10 * time.Minute
	defaultRewardTTL = 24 * time.Hour
)

// CachedService decorates a Service with Redis/Dragonfly caching for the
// immutable-per-load payloads (course detail, reward catalog entries).
// Cache failures degrade to the wrapped service, never to the caller.
type CachedService struct {
	next      Service
	cache     *cache.Cache
	courseTTL time.Duration
	rewardTTL time.Duration
}

// CachedOption configures a CachedService.
type CachedOption func(*CachedService)

// WithCourseTTL overrides the course payload TTL.
func WithCourseTTL(ttl time.Duration) CachedOption {
	return func(s *CachedService) {
		s.courseTTL = ttl
	}
}

// WithRewardTTL overrides the reward catalog TTL.
func WithRewardTTL(ttl time.Duration) CachedOption {
	return func(s *CachedService) {
		s.rewardTTL = ttl
	}
}

// NewCachedService wraps next with caching backed by c.
func NewCachedService(next Service, c *cache.Cache, opts ...CachedOption) *CachedService {
	s := &CachedService{
		next:      next,
		cache:     c,
		courseTTL: defaultCourseTTL,
		rewardTTL: defaultRewardTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CachedService) GetCourse(ctx context.Context, courseID string) (Course, error) {
	key := "lms:course:" + courseID

	var course Course
	if ok, err := s.cache.GetJSON(ctx, key, &course); err != nil {
		slog.Warn("course cache read failed", "course_id", courseID, "error", err)
	} else if ok {
		return course, nil
	}

	course, err := s.next.GetCourse(ctx, courseID)
	if err != nil {
		return Course{}, err
	}
	if err := s.cache.SetJSON(ctx, key, course, s.courseTTL); err != nil {
		slog.Warn("course cache write failed", "course_id", courseID, "error", err)
	}
	return course, nil
}

func (s *CachedService) GetRewardsByIDs(ctx context.Context, ids []string) ([]Reward, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cached := make(map[string]Reward, len(ids))
	var missing []string
	for _, id := range ids {
		var r Reward
		ok, err := s.cache.GetJSON(ctx, "lms:reward:"+id, &r)
		if err != nil {
			slog.Warn("reward cache read failed", "reward_id", id, "error", err)
		}
		if ok && err == nil {
			cached[id] = r
		} else {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		fetched, err := s.next.GetRewardsByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, r := range fetched {
			cached[r.ID] = r
			if err := s.cache.SetJSON(ctx, "lms:reward:"+r.ID, r, s.rewardTTL); err != nil {
				slog.Warn("reward cache write failed", "reward_id", r.ID, "error", err)
			}
		}
	}

	// Preserve the requested order; awards are presented front-to-back.
	rewards := make([]Reward, 0, len(ids))
	for _, id := range ids {
		if r, ok := cached[id]; ok {
			rewards = append(rewards, r)
		}
	}
	return rewards, nil
}

// The remaining operations are mutating or learner-specific and pass through.

func (s *CachedService) GetEnrollment(ctx context.Context, courseID, learnerID string) (Enrollment, error) {
	return s.next.GetEnrollment(ctx, courseID, learnerID)
}

func (s *CachedService) GetProfile(ctx context.Context, learnerID string) (Profile, error) {
	return s.next.GetProfile(ctx, learnerID)
}

func (s *CachedService) PostLessonProgress(ctx context.Context, courseID, lessonID string, completed bool) (ProgressResult, error) {
	return s.next.PostLessonProgress(ctx, courseID, lessonID, completed)
}

func (s *CachedService) StartQuizAttempt(ctx context.Context, quizID string) (Attempt, error) {
	return s.next.StartQuizAttempt(ctx, quizID)
}

func (s *CachedService) SubmitQuizAttempt(ctx context.Context, attemptID string, answers []QuizAnswer) (GradeResult, error) {
	return s.next.SubmitQuizAttempt(ctx, attemptID, answers)
}
