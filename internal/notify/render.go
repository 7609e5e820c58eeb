// Package notify turns the player's notice values into user-facing text.
// Keeping rendering here keeps the state machine pure: the controller says
// what happened, this package says it in the learner's language.
package notify

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/p-n-ai/pai-learn/internal/player"
	"github.com/p-n-ai/pai-learn/internal/quiz"
)

var matcher = language.NewMatcher([]language.Tag{
	language.English, // default
	language.Malay,
})

const (
	msgPointsEarned  = "You earned %d points!"
	msgLevelUp       = "Level up! You are now level %d."
	msgQuizPassed    = "Quiz completed! You passed with %.0f%%."
	msgQuizFinished  = "Quiz completed. You scored %.0f%%, keep practising!"
	msgRewardEarned  = "New reward earned: %s"
	msgLessonAlready = "This lesson is already completed."
)

func init() {
	for key, msg := range map[string]string{
		msgPointsEarned:  "Anda memperoleh %d mata!",
		msgLevelUp:       "Naik tahap! Anda kini di tahap %d.",
		msgQuizPassed:    "Kuiz selesai! Anda lulus dengan %.0f%%.",
		msgQuizFinished:  "Kuiz selesai. Markah anda %.0f%%, cuba lagi!",
		msgRewardEarned:  "Ganjaran baharu: %s",
		msgLessonAlready: "Pelajaran ini sudah selesai.",
	} {
		_ = message.SetString(language.Malay, key, msg)
		_ = message.SetString(language.English, key, key)
	}
}

// Renderer renders notices for one locale.
type Renderer struct {
	printer *message.Printer
}

// NewRenderer builds a renderer for a BCP 47 locale string. Unknown locales
// fall back to English.
func NewRenderer(locale string) *Renderer {
	tag, _ := language.MatchStrings(matcher, locale)
	return &Renderer{printer: message.NewPrinter(tag)}
}

// Render returns the learner-facing line for one notice.
func (r *Renderer) Render(n player.Notice) string {
	switch n.Kind {
	case player.NoticePointsEarned:
		return r.printer.Sprintf(msgPointsEarned, n.Points)
	case player.NoticeLevelUp:
		return r.printer.Sprintf(msgLevelUp, n.Level)
	case player.NoticeQuizCompleted:
		if quiz.Passing(n.Score) {
			return r.printer.Sprintf(msgQuizPassed, n.Score)
		}
		return r.printer.Sprintf(msgQuizFinished, n.Score)
	case player.NoticeReward:
		return r.printer.Sprintf(msgRewardEarned, n.Reward.Name)
	default:
		return ""
	}
}

// RenderOutcome renders every notice of an outcome, plus the informational
// already-completed line when set.
func (r *Renderer) RenderOutcome(out player.Outcome) []string {
	var lines []string
	if out.AlreadyCompleted {
		lines = append(lines, r.printer.Sprintf(msgLessonAlready))
	}
	for _, n := range out.Notices {
		if line := r.Render(n); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
