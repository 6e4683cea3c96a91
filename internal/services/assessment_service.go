package services

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/soaringjerry/Scorecard/internal/rubric"
)

// AssessmentStore abstracts the persistence operations the engine
// needs: a subject's full record list is loaded, mutated, and saved
// back as a whole. SaveRecords with an empty list removes the subject
// key entirely.
type AssessmentStore interface {
	LoadRecords(subject string) ([]*AssessmentRecord, error)
	SaveRecords(subject string, records []*AssessmentRecord) error
	GetPerson(id string) (*Person, error)
	AddAudit(entry AuditEntry)
}

// AssessmentService owns the record lifecycle: submission, the
// approval state machine, deletion, and policy-gated views. Mutating
// operations on the same subject are serialized through a per-subject
// mutex held across the whole load-mutate-save cycle, so the
// last-write-wins race of a bare read-modify-write never applies
// between two engine calls in this process.
type AssessmentService struct {
	store AssessmentStore
	now   func() time.Time
	idGen func() string

	mu       sync.Mutex
	subjects map[string]*sync.Mutex
}

func NewAssessmentService(store AssessmentStore) *AssessmentService {
	return &AssessmentService{
		store:    store,
		now:      func() time.Time { return time.Now().UTC() },
		idGen:    func() string { return shortID(8) },
		subjects: map[string]*sync.Mutex{},
	}
}

func shortID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}

func (s *AssessmentService) lockSubject(subject string) func() {
	s.mu.Lock()
	m, ok := s.subjects[subject]
	if !ok {
		m = &sync.Mutex{}
		s.subjects[subject] = m
	}
	s.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// SubmitRequest carries one raw submission into the engine.
type SubmitRequest struct {
	Subject      string            `json:"subject"`
	AssessorRole AssessorRole      `json:"assessor"`
	Role         string            `json:"role,omitempty"`
	Scores       ScoreSet          `json:"scores"`
	Motivation   *MotivationSurvey `json:"tomo_scores,omitempty"`
}

// Submit validates the request, applies the admission rule, appends the
// new record to the subject's list and persists it. No record is ever
// constructed, let alone stored, when validation fails.
//
// Admission: peer and manager records are created Approved. A self
// record is created Approved only when the subject has no currently
// approved self record; otherwise it enters PendingApproval and the
// existing approved one stays active until this one is approved.
func (s *AssessmentService) Submit(actor ActorContext, req SubmitRequest) (*AssessmentRecord, error) {
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return nil, NewInvalidError("subject required")
	}
	if err := CanSubmit(actor, req.AssessorRole, subject); err != nil {
		return nil, err
	}
	person, err := s.store.GetPerson(subject)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, NewNotFoundError(fmt.Sprintf("unknown person %q", subject))
	}
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = person.Role
	}
	if err := validateScores(role, req.Scores); err != nil {
		return nil, err
	}
	if req.AssessorRole == RoleSelf && req.Motivation == nil {
		return nil, NewInvalidError("motivation survey required for self-assessments")
	}
	if req.Motivation != nil {
		if err := req.Motivation.Validate(); err != nil {
			return nil, err
		}
	}

	unlock := s.lockSubject(subject)
	defer unlock()

	records, err := s.store.LoadRecords(subject)
	if err != nil {
		return nil, err
	}

	status := StatusApproved
	if req.AssessorRole == RoleSelf && hasApprovedSelf(records) {
		status = StatusPending
	}

	rec := &AssessmentRecord{
		ID:           s.idGen(),
		Subject:      subject,
		AssessorRole: req.AssessorRole,
		Role:         role,
		Scores:       req.Scores,
		Motivation:   req.Motivation,
		Status:       status,
		CreatedAt:    s.now(),
	}
	if req.AssessorRole != RoleSelf {
		rec.AssessorName = actor.PersonID
	}
	if rec.Motivation != nil {
		rec.Tomo = rec.Motivation.Tomo()
	}

	if err := s.store.SaveRecords(subject, append(records, rec)); err != nil {
		return nil, err
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: actor.PersonID, Action: "assessment.submit", Target: subject, Note: string(rec.AssessorRole) + ":" + string(status)})
	return rec, nil
}

func hasApprovedSelf(records []*AssessmentRecord) bool {
	for _, r := range records {
		if r.AssessorRole == RoleSelf && r.Status == StatusApproved {
			return true
		}
	}
	return false
}

// validateScores checks the score set against the rubric for role:
// exactly the rubric's criteria, each score within [1,5]. The error
// names every missing or extra criterion so the submitter can fix the
// form in one pass.
func validateScores(role string, scores ScoreSet) error {
	names, err := rubric.CriterionNames(role)
	if err != nil {
		return NewInvalidError(fmt.Sprintf("unknown role %q", role))
	}
	var missing []string
	for _, name := range names {
		if _, ok := scores[name]; !ok {
			missing = append(missing, name)
		}
	}
	known := map[string]bool{}
	for _, name := range names {
		known[name] = true
	}
	var extra []string
	for crit := range scores {
		if !known[crit] {
			extra = append(extra, crit)
		}
	}
	sort.Strings(extra)
	if len(missing) > 0 || len(extra) > 0 {
		msg := "score set does not match rubric"
		if len(missing) > 0 {
			msg += "; missing: " + strings.Join(missing, ", ")
		}
		if len(extra) > 0 {
			msg += "; extra: " + strings.Join(extra, ", ")
		}
		return NewInvalidError(msg)
	}
	for _, name := range names {
		v := scores[name]
		if v < rubric.ScoreMin || v > rubric.ScoreMax {
			return NewInvalidError(fmt.Sprintf("score for %q must be between %d and %d, got %d", name, rubric.ScoreMin, rubric.ScoreMax, v))
		}
	}
	return nil
}

// Approve promotes a pending self record. The previously approved self
// records are dropped and the target flips to Approved in the same
// SaveRecords call, so no intermediate state with zero or two approved
// self records is ever persisted.
func (s *AssessmentService) Approve(actor ActorContext, subject, recordID string) error {
	if err := CanModerate(actor, subject); err != nil {
		return err
	}
	unlock := s.lockSubject(subject)
	defer unlock()

	records, err := s.store.LoadRecords(subject)
	if err != nil {
		return err
	}
	target := findRecord(records, recordID)
	if target == nil {
		return NewNotFoundError(fmt.Sprintf("record %q not found for %q", recordID, subject))
	}
	if target.Status != StatusPending {
		return NewConflictError("record is not pending approval")
	}
	if target.AssessorRole != RoleSelf {
		// Peer/Manager records are admitted as Approved; a pending one
		// means the store was tampered with or written by a buggy writer.
		return NewInconsistentError(fmt.Sprintf("pending %s record %q should not exist", target.AssessorRole, recordID))
	}

	next := make([]*AssessmentRecord, 0, len(records))
	for _, r := range records {
		if r.AssessorRole == RoleSelf && r.Status == StatusApproved {
			continue
		}
		next = append(next, r)
	}
	target.Status = StatusApproved
	if err := s.store.SaveRecords(subject, next); err != nil {
		return err
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: actor.PersonID, Action: "assessment.approve", Target: subject, Note: recordID})
	return nil
}

// Reject marks a pending record Rejected. Rejection is terminal and
// touches no other record; an earlier approved self-assessment stays
// approved and active.
func (s *AssessmentService) Reject(actor ActorContext, subject, recordID string) error {
	if err := CanModerate(actor, subject); err != nil {
		return err
	}
	unlock := s.lockSubject(subject)
	defer unlock()

	records, err := s.store.LoadRecords(subject)
	if err != nil {
		return err
	}
	target := findRecord(records, recordID)
	if target == nil {
		return NewNotFoundError(fmt.Sprintf("record %q not found for %q", recordID, subject))
	}
	if target.Status != StatusPending {
		return NewConflictError("record is not pending approval")
	}
	target.Status = StatusRejected
	if err := s.store.SaveRecords(subject, records); err != nil {
		return err
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: actor.PersonID, Action: "assessment.reject", Target: subject, Note: recordID})
	return nil
}

// Delete removes a record regardless of its status. This is an
// administrative override, not a state transition; when the list
// becomes empty the store drops the subject's entry.
func (s *AssessmentService) Delete(actor ActorContext, subject, recordID string) error {
	if err := CanModerate(actor, subject); err != nil {
		return err
	}
	unlock := s.lockSubject(subject)
	defer unlock()

	records, err := s.store.LoadRecords(subject)
	if err != nil {
		return err
	}
	next := make([]*AssessmentRecord, 0, len(records))
	found := false
	for _, r := range records {
		if r.ID == recordID {
			found = true
			continue
		}
		next = append(next, r)
	}
	if !found {
		return NewNotFoundError(fmt.Sprintf("record %q not found for %q", recordID, subject))
	}
	if err := s.store.SaveRecords(subject, next); err != nil {
		return err
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: actor.PersonID, Action: "assessment.delete", Target: subject, Note: recordID})
	return nil
}

func findRecord(records []*AssessmentRecord, id string) *AssessmentRecord {
	for _, r := range records {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// RecordView is a record as shown to a particular viewer. The assessor
// identity on non-self records is replaced by a stable pseudonym
// unless the viewer has admin scope over the subject.
type RecordView struct {
	ID            string       `json:"id"`
	AssessorRole  AssessorRole `json:"assessor"`
	AssessorLabel string       `json:"assessor_label"`
	Role          string       `json:"role"`
	Scores        ScoreSet     `json:"scores"`
	Tomo          *int         `json:"tomo,omitempty"`
	TomoBand      string       `json:"tomo_band,omitempty"`
	Status        Status       `json:"status"`
	CreatedAt     time.Time    `json:"timestamp"`
}

// ListResult carries the viewable records plus the ids of records that
// violate store invariants. Offending records are reported and skipped
// rather than failing the whole listing.
type ListResult struct {
	Records      []RecordView `json:"records"`
	Inconsistent []string     `json:"inconsistent,omitempty"`
}

// ListForViewer returns subject's records shaped for the given viewer.
func (s *AssessmentService) ListForViewer(actor ActorContext, subject string) (*ListResult, error) {
	if err := CanView(actor, subject); err != nil {
		return nil, err
	}
	records, err := s.store.LoadRecords(subject)
	if err != nil {
		return nil, err
	}
	valid, bad := splitInconsistent(records)
	raw := SeesRawIdentity(actor, subject)
	out := &ListResult{Records: make([]RecordView, 0, len(valid)), Inconsistent: bad}
	for _, r := range valid {
		view := RecordView{
			ID:           r.ID,
			AssessorRole: r.AssessorRole,
			Role:         r.Role,
			Scores:       r.Scores,
			Status:       r.Status,
			CreatedAt:    r.CreatedAt,
		}
		switch {
		case r.AssessorRole == RoleSelf:
			view.AssessorLabel = "Self"
		case raw:
			view.AssessorLabel = r.AssessorName
		default:
			view.AssessorLabel = MaskIdentity(r.AssessorName)
		}
		if r.Motivation != nil {
			tomo := r.Motivation.Tomo()
			view.Tomo = &tomo
			view.TomoBand = ClassifyTomo(tomo)
		}
		out.Records = append(out.Records, view)
	}
	return out, nil
}

// splitInconsistent separates records that violate invariants: a
// pending peer/manager record, or any approved self record beyond the
// first. The valid slice keeps input order.
func splitInconsistent(records []*AssessmentRecord) (valid []*AssessmentRecord, badIDs []string) {
	approvedSelf := 0
	for _, r := range records {
		switch {
		case r.AssessorRole != RoleSelf && r.Status == StatusPending:
			badIDs = append(badIDs, r.ID)
		case r.AssessorRole == RoleSelf && r.Status == StatusApproved:
			approvedSelf++
			if approvedSelf > 1 {
				badIDs = append(badIDs, r.ID)
				continue
			}
			valid = append(valid, r)
		default:
			valid = append(valid, r)
		}
	}
	return valid, badIDs
}

// SubjectSummary is the aggregated view over a subject's approved
// records.
type SubjectSummary struct {
	Subject      string            `json:"subject"`
	Aggregate    *AggregateSummary `json:"aggregate"`
	AverageTomo  float64           `json:"average_tomo"`
	HasTomo      bool              `json:"has_tomo"`
	TomoBand     string            `json:"tomo_band,omitempty"`
	Inconsistent []string          `json:"inconsistent,omitempty"`
}

// Summary aggregates the subject's approved records. Rejected and
// pending records never count; inconsistent records are reported and
// skipped.
func (s *AssessmentService) Summary(actor ActorContext, subject string) (*SubjectSummary, error) {
	if err := CanView(actor, subject); err != nil {
		return nil, err
	}
	records, err := s.store.LoadRecords(subject)
	if err != nil {
		return nil, err
	}
	valid, bad := splitInconsistent(records)
	approved := make([]*AssessmentRecord, 0, len(valid))
	for _, r := range valid {
		if r.Status == StatusApproved {
			approved = append(approved, r)
		}
	}
	out := &SubjectSummary{Subject: subject, Inconsistent: bad}
	out.Aggregate = Aggregate(approved)
	out.AverageTomo, out.HasTomo = AverageTomo(approved)
	if out.HasTomo {
		switch {
		case out.AverageTomo > 9:
			out.TomoBand = BandAdaptive
		case out.AverageTomo > 0:
			out.TomoBand = BandBalanced
		default:
			out.TomoBand = BandTactical
		}
	}
	return out, nil
}
