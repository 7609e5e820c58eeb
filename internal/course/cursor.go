package course

import "fmt"

// Cursor is the (unit, lesson) position the learner is looking at. It always
// addresses an existing lesson in its outline; navigation that would leave
// the outline is a no-op.
type Cursor struct {
	outline *Outline
	unit    int
	lesson  int
}

// NewCursor positions a cursor on the first lesson of the outline.
func NewCursor(o *Outline) (*Cursor, error) {
	for ui, u := range o.Units {
		if len(u.Lessons) > 0 {
			return &Cursor{outline: o, unit: ui}, nil
		}
	}
	return nil, fmt.Errorf("outline %s has no lessons", o.CourseID)
}

// Position returns the zero-based (unit, lesson) indices.
func (c *Cursor) Position() (int, int) {
	return c.unit, c.lesson
}

// Lesson returns the lesson under the cursor.
func (c *Cursor) Lesson() *Lesson {
	return c.outline.Units[c.unit].Lessons[c.lesson]
}

// Next advances to the next lesson in the unit, or to the first lesson of
// the next non-empty unit. Returns false (no move) at the end of the course.
func (c *Cursor) Next() bool {
	unit := c.outline.Units[c.unit]
	if c.lesson+1 < len(unit.Lessons) {
		c.lesson++
		return true
	}
	for ui := c.unit + 1; ui < len(c.outline.Units); ui++ {
		if len(c.outline.Units[ui].Lessons) > 0 {
			c.unit = ui
			c.lesson = 0
			return true
		}
	}
	return false
}

// Prev moves to the previous lesson in the unit, or to the last lesson of
// the previous non-empty unit. Returns false (no move) at the start.
func (c *Cursor) Prev() bool {
	if c.lesson > 0 {
		c.lesson--
		return true
	}
	for ui := c.unit - 1; ui >= 0; ui-- {
		if n := len(c.outline.Units[ui].Lessons); n > 0 {
			c.unit = ui
			c.lesson = n - 1
			return true
		}
	}
	return false
}

// JumpTo moves directly to (unitIndex, lessonIndex). Out-of-range indices
// fail silently: false, no mutation.
func (c *Cursor) JumpTo(unitIndex, lessonIndex int) bool {
	if _, ok := c.outline.FindLesson(unitIndex, lessonIndex); !ok {
		return false
	}
	c.unit = unitIndex
	c.lesson = lessonIndex
	return true
}
