// Package reward sequences earned rewards for one-at-a-time presentation.
package reward

import "github.com/p-n-ai/pai-learn/internal/lms"

// Queue presents rewards front-to-back in the order a single award event
// delivered them. A new award event replaces whatever was queued before.
type Queue struct {
	items []lms.Reward
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Replace loads the queue with the rewards of a new award event, discarding
// any previous contents.
func (q *Queue) Replace(rewards []lms.Reward) {
	q.items = append([]lms.Reward{}, rewards...)
}

// Peek returns the front reward without removing it.
func (q *Queue) Peek() (lms.Reward, bool) {
	if len(q.items) == 0 {
		return lms.Reward{}, false
	}
	return q.items[0], true
}

// Next removes and returns the front reward.
func (q *Queue) Next() (lms.Reward, bool) {
	if len(q.items) == 0 {
		return lms.Reward{}, false
	}
	r := q.items[0]
	q.items = q.items[1:]
	return r, true
}

// Len returns how many rewards remain to present.
func (q *Queue) Len() int {
	return len(q.items)
}
