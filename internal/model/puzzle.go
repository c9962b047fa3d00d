package model

// OrderingStep is one card of the workflow-ordering puzzle. Explanation says
// why the step belongs at its canonical position.
type OrderingStep struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Explanation string `json:"explanation" yaml:"explanation"`
}

// Problem is a situation to be matched with the persona that owns it.
type Problem struct {
	ID             int    `json:"id" yaml:"id"`
	Title          string `json:"title" yaml:"title"`
	Description    string `json:"description" yaml:"description"`
	CorrectPersona string `json:"-" yaml:"correct_persona"`
	Category       string `json:"category" yaml:"category"`
}

// Role is a FinOps persona of the matching game.
type Role struct {
	Name             string   `json:"name" yaml:"name"`
	Type             string   `json:"type" yaml:"type"`
	Description      string   `json:"description" yaml:"description"`
	Responsibilities []string `json:"responsibilities" yaml:"responsibilities"`
}

// MissionOption is one answer of a mini-mission.
type MissionOption struct {
	ID      string `json:"id" yaml:"id"`
	Text    string `json:"text" yaml:"text"`
	Correct bool   `json:"-" yaml:"correct"`
}

// Mission is the bonus question unlocked by a correct match.
type Mission struct {
	ProblemID int             `json:"problem_id" yaml:"problem_id"`
	Title     string          `json:"title" yaml:"title"`
	Question  string          `json:"question" yaml:"question"`
	Options   []MissionOption `json:"options" yaml:"options"`
}

// CorrectOption returns the id of the correct option.
func (m Mission) CorrectOption() (MissionOption, bool) {
	for _, o := range m.Options {
		if o.Correct {
			return o, true
		}
	}
	return MissionOption{}, false
}

// MatchingContent is the static material of the matching game.
type MatchingContent struct {
	Problems []Problem `json:"problems" yaml:"problems"`
	Roles    []Role    `json:"roles" yaml:"roles"`
	Missions []Mission `json:"missions" yaml:"missions"`
}

// ResponsibilityPair maps a persona to its one-line responsibility for the
// quick pairing round.
type ResponsibilityPair struct {
	Persona        string `json:"persona" yaml:"persona"`
	Responsibility string `json:"responsibility" yaml:"responsibility"`
}

// MaturityScenario describes a company to place on the crawl/walk/run scale.
type MaturityScenario struct {
	Title             string   `json:"title" yaml:"title"`
	Description       string   `json:"description" yaml:"description"`
	CorrectStage      string   `json:"-" yaml:"correct_stage"`
	CorrectChallenges []string `json:"-" yaml:"correct_challenges"`
	StageOptions      []string `json:"stage_options" yaml:"stage_options"`
	ChallengeOptions  []string `json:"challenge_options" yaml:"challenge_options"`
}

// Flipcard is an exam-prep question with its answer.
type Flipcard struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}
