package lms

import "context"

// Mock is a scriptable test double for Service.
type Mock struct {
	CourseResp     Course
	CourseErr      error
	EnrollmentResp Enrollment
	EnrollmentErr  error
	ProfileResp    Profile
	ProfileErr     error
	ProgressResp   ProgressResult
	ProgressErr    error
	AttemptResp    Attempt
	AttemptErr     error
	GradeResp      GradeResult
	GradeErr       error
	RewardsResp    []Reward
	RewardsErr     error

	// Call capture for inspection.
	Calls             []string
	LastLessonID      string
	LastCompleted     bool
	LastQuizID        string
	LastAttemptID     string
	LastAnswers       []QuizAnswer
	LastRewardIDs     []string
	ProgressCallCount int
}

func (m *Mock) GetCourse(_ context.Context, courseID string) (Course, error) {
	m.Calls = append(m.Calls, "GetCourse")
	return m.CourseResp, m.CourseErr
}

func (m *Mock) GetEnrollment(_ context.Context, courseID, learnerID string) (Enrollment, error) {
	m.Calls = append(m.Calls, "GetEnrollment")
	return m.EnrollmentResp, m.EnrollmentErr
}

func (m *Mock) GetProfile(_ context.Context, learnerID string) (Profile, error) {
	m.Calls = append(m.Calls, "GetProfile")
	return m.ProfileResp, m.ProfileErr
}

func (m *Mock) PostLessonProgress(_ context.Context, courseID, lessonID string, completed bool) (ProgressResult, error) {
	m.Calls = append(m.Calls, "PostLessonProgress")
	m.LastLessonID = lessonID
	m.LastCompleted = completed
	m.ProgressCallCount++
	return m.ProgressResp, m.ProgressErr
}

func (m *Mock) StartQuizAttempt(_ context.Context, quizID string) (Attempt, error) {
	m.Calls = append(m.Calls, "StartQuizAttempt")
	m.LastQuizID = quizID
	return m.AttemptResp, m.AttemptErr
}

func (m *Mock) SubmitQuizAttempt(_ context.Context, attemptID string, answers []QuizAnswer) (GradeResult, error) {
	m.Calls = append(m.Calls, "SubmitQuizAttempt")
	m.LastAttemptID = attemptID
	m.LastAnswers = append([]QuizAnswer{}, answers...)
	return m.GradeResp, m.GradeErr
}

func (m *Mock) GetRewardsByIDs(_ context.Context, ids []string) ([]Reward, error) {
	m.Calls = append(m.Calls, "GetRewardsByIDs")
	m.LastRewardIDs = append([]string{}, ids...)
	return m.RewardsResp, m.RewardsErr
}
