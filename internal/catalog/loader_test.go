package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/p-n-ai/pai-learn/internal/catalog"
)

const validCourseYAML = `
id: algebra-1
title: Algebra Basics
units:
  - id: u1
    title: Linear Equations
    lessons:
      - id: l1
        title: Solving for x
        points: 40
        quiz_id: q1
quizzes:
  - id: q1
    reward_ids: [r1]
    questions:
      - id: qq1
        text: "2x = 6, x = ?"
        type: multiple-choice
        options: ["2", "3"]
        answer: "3"
rewards:
  - id: r1
    name: Equation Solver
    rarity: rare
`

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestLoaderLoadsCourses(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "algebra.course.yaml", validCourseYAML)

	loader, err := catalog.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	course, ok := loader.Course("algebra-1")
	if !ok {
		t.Fatal("Course(algebra-1) not found")
	}
	if course.Title != "Algebra Basics" {
		t.Errorf("Title = %q, want Algebra Basics", course.Title)
	}
	if course.Units[0].Lessons[0].Points != 40 {
		t.Errorf("lesson points = %d, want 40", course.Units[0].Lessons[0].Points)
	}

	q, ok := loader.Quiz("q1")
	if !ok {
		t.Fatal("Quiz(q1) not found")
	}
	if q.Questions[0].Answer != "3" {
		t.Errorf("answer key = %q, want 3", q.Questions[0].Answer)
	}

	r, ok := loader.Reward("r1")
	if !ok {
		t.Fatal("Reward(r1) not found")
	}
	if r.Name != "Equation Solver" {
		t.Errorf("reward name = %q", r.Name)
	}

	if got := len(loader.AllCourses()); got != 1 {
		t.Errorf("AllCourses() = %d, want 1", got)
	}
}

func TestLoaderSkipsInvalidAndForeignFiles(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "algebra.course.yaml", validCourseYAML)
	writeFixture(t, dir, "broken.course.yaml", "id: [unclosed")
	writeFixture(t, dir, "no-id.course.yaml", "title: missing the id")
	writeFixture(t, dir, "notes.txt", "not a course file")

	loader, err := catalog.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	if got := len(loader.AllCourses()); got != 1 {
		t.Errorf("AllCourses() = %d, want 1 (invalid files skipped)", got)
	}
}

func TestLoaderWalksSubdirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "maths")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFixture(t, sub, "algebra.course.yml", validCourseYAML)

	loader, err := catalog.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	if _, ok := loader.Course("algebra-1"); !ok {
		t.Error("course in subdirectory was not loaded")
	}
}

func TestLoaderUnknownIDs(t *testing.T) {
	dir := t.TempDir()
	loader, err := catalog.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	if _, ok := loader.Course("nope"); ok {
		t.Error("Course(nope) should not be found")
	}
	if _, ok := loader.Quiz("nope"); ok {
		t.Error("Quiz(nope) should not be found")
	}
	if _, ok := loader.Reward("nope"); ok {
		t.Error("Reward(nope) should not be found")
	}
}
