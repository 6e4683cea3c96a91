package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/soaringjerry/Scorecard/internal/rubric"
)

// AssessorRole identifies who authored an assessment relative to the subject.
type AssessorRole string

const (
	RoleSelf    AssessorRole = "Self"
	RolePeer    AssessorRole = "Peer"
	RoleManager AssessorRole = "Manager"
)

// ParseAssessorRole accepts the wire strings case-insensitively.
func ParseAssessorRole(s string) (AssessorRole, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "self":
		return RoleSelf, nil
	case "peer":
		return RolePeer, nil
	case "manager":
		return RoleManager, nil
	}
	return "", NewInvalidError(fmt.Sprintf("unknown assessor role %q", s))
}

// Valid reports whether r is one of the three recognized roles.
func (r AssessorRole) Valid() bool {
	return r == RoleSelf || r == RolePeer || r == RoleManager
}

// Status is the approval state of an assessment record.
type Status string

const (
	StatusApproved Status = "Approved"
	StatusPending  Status = "PendingApproval"
	StatusRejected Status = "Rejected"
)

// ScoreSet maps criterion name to an integer score in [1,5].
type ScoreSet map[string]int

// MotivationSurvey holds the six ToMo sub-scores, each in [1,7].
type MotivationSurvey struct {
	Play      int `json:"play"`
	Purpose   int `json:"purpose"`
	Potential int `json:"potential"`
	Emotional int `json:"emotional"`
	Economic  int `json:"economic"`
	Inertia   int `json:"inertia"`
}

// Validate checks that every sub-score is within the survey range and
// names the offending item otherwise.
func (m *MotivationSurvey) Validate() error {
	items := []struct {
		key string
		val int
	}{
		{"play", m.Play},
		{"purpose", m.Purpose},
		{"potential", m.Potential},
		{"emotional", m.Emotional},
		{"economic", m.Economic},
		{"inertia", m.Inertia},
	}
	for _, it := range items {
		if it.val < rubric.SurveyMin || it.val > rubric.SurveyMax {
			return NewInvalidError(fmt.Sprintf("survey item %q must be between %d and %d, got %d", it.key, rubric.SurveyMin, rubric.SurveyMax, it.val))
		}
	}
	return nil
}

// Tomo derives the total motivation score, range [-18,18].
func (m *MotivationSurvey) Tomo() int {
	return (m.Play + m.Purpose + m.Potential) - (m.Emotional + m.Economic + m.Inertia)
}

// AssessmentRecord is one submitted evaluation of a subject. JSON tags
// match the persisted store representation.
type AssessmentRecord struct {
	ID           string            `json:"id,omitempty"`
	Subject      string            `json:"subject,omitempty"`
	AssessorRole AssessorRole      `json:"assessor"`
	AssessorName string            `json:"assessor_name,omitempty"`
	Role         string            `json:"role"`
	Scores       ScoreSet          `json:"scores"`
	Tomo         int               `json:"tomo"`
	Motivation   *MotivationSurvey `json:"tomo_scores,omitempty"`
	Status       Status            `json:"status,omitempty"`
	CreatedAt    time.Time         `json:"timestamp"`
}

// NormalizeRecord applies the read-boundary migration rules: a missing
// status means Approved (legacy records predate the field), and the
// persisted tomo scalar is recomputed from its survey inputs.
func NormalizeRecord(r *AssessmentRecord) {
	if r == nil {
		return
	}
	if r.Status == "" {
		r.Status = StatusApproved
	}
	if r.Motivation != nil {
		r.Tomo = r.Motivation.Tomo()
	}
}

// AdminRole is the administrative capability level of a person.
type AdminRole string

const (
	AdminUser       AdminRole = "user"
	AdminManager    AdminRole = "manager"
	AdminSuperadmin AdminRole = "superadmin"
)

// Person is a known identity: display id, rubric role label,
// administrative role, and for managers the ids of their reports.
type Person struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	AdminRole AdminRole `json:"admin_role"`
	Team      []string  `json:"team,omitempty"`
	PassHash  []byte    `json:"pass_hash,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ActorContext carries the calling identity into every engine
// operation. It is always passed explicitly, never ambient.
type ActorContext struct {
	PersonID  string
	AdminRole AdminRole
	Team      []string
}

// IsSuperadmin reports whether the actor holds the superadmin role.
func (a ActorContext) IsSuperadmin() bool { return a.AdminRole == AdminSuperadmin }

// Manages reports whether subject is on the actor's team.
func (a ActorContext) Manages(subject string) bool {
	if a.AdminRole != AdminManager && a.AdminRole != AdminSuperadmin {
		return false
	}
	for _, id := range a.Team {
		if id == subject {
			return true
		}
	}
	return false
}

type AuditEntry struct {
	Time   time.Time
	Actor  string
	Action string
	Target string
	Note   string
}
