// Package rubric holds the static design-track role catalog: the scored
// criteria per role and the six-item motivation survey. The data never
// changes after process start.
package rubric

import (
	"errors"
	"fmt"
)

// Criterion is one scored dimension of a role's rubric.
type Criterion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SurveyItem is one question of the motivation survey.
type SurveyItem struct {
	Question string `json:"question"`
	Key      string `json:"key"`
}

// Criteria are scored 1..5; survey items are answered 1..7.
const (
	ScoreMin  = 1
	ScoreMax  = 5
	SurveyMin = 1
	SurveyMax = 7
)

// ErrUnknownRole is returned for role labels outside the catalog.
var ErrUnknownRole = errors.New("unknown role")

var roles = []string{
	"Associate Product Designer",
	"Product Designer",
	"Lead Product Designer",
	"Principal Product Designer",
	"Design Manager",
	"Senior Design Manager",
	"Head of Design",
}

var criteria = map[string][]Criterion{
	"Associate Product Designer": {
		{"Design Craft", "Basic skills in wireframing, mockups, and UI tools."},
		{"Research and User Understanding", "Assisting in user needs analysis and simple user journeys."},
		{"Collaboration and Communication", "Working effectively in teams and communicating ideas clearly."},
		{"Leadership and Mentoring", "Seeking feedback and learning from others."},
		{"Strategic Thinking and Impact", "Contributing to meeting business goals at a basic level."},
	},
	"Product Designer": {
		{"Design Craft", "Proficient in prototyping, visual design, and design systems."},
		{"Research and User Understanding", "Conducting user tests and gathering feedback independently."},
		{"Collaboration and Communication", "Collaborating across teams on specs and features."},
		{"Leadership and Mentoring", "Driving consistency in processes."},
		{"Strategic Thinking and Impact", "Using data to shape work and evolve products based on feedback."},
	},
	"Lead Product Designer": {
		{"Design Craft", "Advanced prototyping and guiding aesthetic direction."},
		{"Research and User Understanding", "Evaluating trends and complex UX patterns."},
		{"Collaboration and Communication", "Reviewing goals with PMs and providing accurate timelines."},
		{"Leadership and Mentoring", "Mentoring juniors and initiating product ideas."},
		{"Strategic Thinking and Impact", "Prioritizing work for efficiency and business impact."},
	},
	"Principal Product Designer": {
		{"Design Craft", "Expert in complex components and user journeys."},
		{"Research and User Understanding", "Leading strategic user research and roadmap creation."},
		{"Collaboration and Communication", "Managing stakeholder expectations across projects."},
		{"Leadership and Mentoring", "Improving team work through critique and leading by example."},
		{"Strategic Thinking and Impact", "Demonstrating business thinking and high-impact delivery."},
	},
	"Design Manager": {
		{"Design Craft", "Overseeing design quality and systems across teams."},
		{"Research and User Understanding", "Aligning research with product vision."},
		{"Collaboration and Communication", "Facilitating cross-functional collaboration."},
		{"Leadership and Mentoring", "Managing team development and career growth."},
		{"Strategic Thinking and Impact", "Budget management and ensuring project success."},
	},
	"Senior Design Manager": {
		{"Design Craft", "Setting organization-wide design standards."},
		{"Research and User Understanding", "Integrating insights into long-term strategies."},
		{"Collaboration and Communication", "Building partnerships at senior levels."},
		{"Leadership and Mentoring", "Coaching managers and scaling teams."},
		{"Strategic Thinking and Impact", "Driving revenue-generating initiatives."},
	},
	"Head of Design": {
		{"Design Craft", "Defining the overall design philosophy."},
		{"Research and User Understanding", "Championing user-centric culture."},
		{"Collaboration and Communication", "Influencing executive decisions."},
		{"Leadership and Mentoring", "Building and leading high-performing design org."},
		{"Strategic Thinking and Impact", "Aligning design with company vision and growth."},
	},
}

var surveyItems = []SurveyItem{
	{"I continue to work in my role because the work itself is enjoyable, interesting, and stimulating. (Play)", "play"},
	{"I continue to work in my role because I value the impact and outcomes of my work. (Purpose)", "purpose"},
	{"I continue to work in my role because it connects to my personal growth and future goals. (Potential)", "potential"},
	{"I continue to work in my role because I feel guilty, anxious, or ashamed if I don't. (Emotional Pressure)", "emotional"},
	{"I continue to work in my role to gain rewards or avoid financial punishment. (Economic Pressure)", "economic"},
	{"I continue to work in my role simply because it's routine and I don't think about why. (Inertia)", "inertia"},
}

// Roles returns the recognized role labels in seniority order.
func Roles() []string {
	return append([]string(nil), roles...)
}

// IsRole reports whether label is a recognized role.
func IsRole(label string) bool {
	_, ok := criteria[label]
	return ok
}

// CriteriaFor returns the ordered rubric for a role label.
func CriteriaFor(label string) ([]Criterion, error) {
	cs, ok := criteria[label]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, label)
	}
	return append([]Criterion(nil), cs...), nil
}

// CriterionNames returns just the ordered criterion names for a role.
func CriterionNames(label string) ([]string, error) {
	cs, err := CriteriaFor(label)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cs))
	for _, c := range cs {
		names = append(names, c.Name)
	}
	return names, nil
}

// SurveyItems returns the ordered motivation survey questions.
func SurveyItems() []SurveyItem {
	return append([]SurveyItem(nil), surveyItems...)
}
