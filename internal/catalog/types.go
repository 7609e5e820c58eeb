package catalog

// Fixture is one course definition loaded from YAML, including the answer
// keys and award rules the dev LMS needs to grade and award.
type Fixture struct {
	ID      string          `yaml:"id"`
	Title   string          `yaml:"title"`
	Units   []UnitFixture   `yaml:"units"`
	Quizzes []QuizFixture   `yaml:"quizzes"`
	Rewards []RewardFixture `yaml:"rewards"`
}

// UnitFixture is an ordered group of lesson fixtures.
type UnitFixture struct {
	ID      string          `yaml:"id"`
	Title   string          `yaml:"title"`
	Lessons []LessonFixture `yaml:"lessons"`
}

// LessonFixture describes one lesson and the points completing it awards.
type LessonFixture struct {
	ID              string   `yaml:"id"`
	Title           string   `yaml:"title"`
	Content         string   `yaml:"content"`
	Resources       []string `yaml:"resources"`
	QuizID          string   `yaml:"quiz_id"`
	DurationMinutes int      `yaml:"duration_minutes"`
	Points          int      `yaml:"points"`
	RewardIDs       []string `yaml:"reward_ids"`
}

// QuizFixture is a question bank with its answer key and pass awards.
type QuizFixture struct {
	ID        string            `yaml:"id"`
	Questions []QuestionFixture `yaml:"questions"`
	RewardIDs []string          `yaml:"reward_ids"`
}

// QuestionFixture is one question plus its correct answer.
type QuestionFixture struct {
	ID      string   `yaml:"id"`
	Text    string   `yaml:"text"`
	Type    string   `yaml:"type"`
	Options []string `yaml:"options"`
	Answer  string   `yaml:"answer"`
}

// RewardFixture is a reward catalog entry.
type RewardFixture struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	ImageRef    string `yaml:"image_ref"`
	Rarity      string `yaml:"rarity"`
}
