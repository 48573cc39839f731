package quiz

// DefaultPassingScore applies when a quiz definition carries no threshold.
const DefaultPassingScore = 70

// Option is a possible answer to a Question. More than one option may carry
// the correct flag; scoring takes the first flagged option in array order.
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"question"`
	Options []Option `json:"options"`
}

// Quiz is an ordered multiple-choice quiz definition, as built in the
// dashboard's quiz editor. JSON tags match the frontend's casing.
type Quiz struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	CourseID     string     `json:"courseId"`
	Questions    []Question `json:"questions"`
	PassingScore int        `json:"passingScore"` // 0 means DefaultPassingScore
}

// QuestionResult is the per-question detail row of a submitted session.
type QuestionResult struct {
	QuestionID       string `json:"questionId"`
	Text             string `json:"question"`
	SelectedOptionID string `json:"selectedOptionId"`
	CorrectOptionID  string `json:"correctOptionId"`
	Correct          bool   `json:"correct"`
	TimeSpent        int    `json:"timeSpent"` // whole seconds deciding
}

// Results is the terminal record of a submitted session.
type Results struct {
	QuizID         string           `json:"quizId"`
	Score          int              `json:"score"` // 0-100
	Passed         bool             `json:"passed"`
	TotalQuestions int              `json:"totalQuestions"`
	CorrectAnswers int              `json:"correctAnswers"`
	TimeSpent      int              `json:"timeSpent"`     // raw seconds
	FormattedTime  string           `json:"formattedTime"` // mm:ss
	Questions      []QuestionResult `json:"questions"`
}
