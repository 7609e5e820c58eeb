// Package catalog loads course fixtures from the filesystem. The dev LMS
// serves these over the production wire contract so the client can be built
// and demoed without the real service.
package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Loader loads and caches course fixtures from the filesystem.
type Loader struct {
	rootDir string
	courses map[string]Fixture
	quizzes map[string]QuizFixture
	rewards map[string]RewardFixture
	mu      sync.RWMutex
}

// NewLoader creates a loader and loads every *.course.yaml under rootDir.
func NewLoader(rootDir string) (*Loader, error) {
	l := &Loader{
		rootDir: rootDir,
		courses: make(map[string]Fixture),
		quizzes: make(map[string]QuizFixture),
		rewards: make(map[string]RewardFixture),
	}

	if err := l.loadAll(); err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	slog.Info("catalog loaded",
		"courses", len(l.courses),
		"quizzes", len(l.quizzes),
		"rewards", len(l.rewards),
	)
	return l, nil
}

// Course returns a course fixture by ID.
func (l *Loader) Course(id string) (Fixture, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.courses[id]
	return c, ok
}

// Quiz returns a quiz fixture by ID, across all courses.
func (l *Loader) Quiz(id string) (QuizFixture, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	q, ok := l.quizzes[id]
	return q, ok
}

// Reward returns a reward fixture by ID.
func (l *Loader) Reward(id string) (RewardFixture, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.rewards[id]
	return r, ok
}

// AllCourses returns every loaded course fixture.
func (l *Loader) AllCourses() []Fixture {
	l.mu.RLock()
	defer l.mu.RUnlock()
	courses := make([]Fixture, 0, len(l.courses))
	for _, c := range l.courses {
		courses = append(courses, c)
	}
	return courses
}

func (l *Loader) loadAll() error {
	return filepath.Walk(l.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".course.yaml") && !strings.HasSuffix(path, ".course.yml") {
			return nil
		}
		return l.loadCourse(path)
	})
}

func (l *Loader) loadCourse(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		slog.Warn("skipping invalid course YAML", "path", path, "error", err)
		return nil
	}

	if fixture.ID == "" {
		return nil // Not a course file
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.courses[fixture.ID] = fixture
	for _, q := range fixture.Quizzes {
		l.quizzes[q.ID] = q
	}
	for _, r := range fixture.Rewards {
		l.rewards[r.ID] = r
	}
	return nil
}
