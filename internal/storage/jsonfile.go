package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/soaringjerry/Scorecard/internal/services"
)

const (
	assessmentsFile = "assessments.json"
	peopleFile      = "people.json"
	auditFile       = "audit.log"
)

// JSONFileStore persists the whole dataset as flat JSON files in a
// directory, compatible with the legacy assessments.json layout:
// a single object mapping person identifier to their record list.
// Records written before the approval pipeline existed lack a status
// field; it is normalized to Approved on read.
type JSONFileStore struct {
	mu  sync.Mutex
	dir string
}

func NewJSONFileStore(dir string) (*JSONFileStore, error) {
	if dir == "" {
		return nil, errors.New("data directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &JSONFileStore{dir: dir}, nil
}

func (s *JSONFileStore) readAssessments() (map[string][]*services.AssessmentRecord, error) {
	path := filepath.Join(s.dir, assessmentsFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string][]*services.AssessmentRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", assessmentsFile, err)
	}
	var out map[string][]*services.AssessmentRecord
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", assessmentsFile, err)
	}
	if out == nil {
		out = map[string][]*services.AssessmentRecord{}
	}
	for subject, records := range out {
		for _, rec := range records {
			rec.Subject = subject
			services.NormalizeRecord(rec)
		}
	}
	return out, nil
}

func (s *JSONFileStore) writeAssessments(all map[string][]*services.AssessmentRecord) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", assessmentsFile, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, assessmentsFile), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", assessmentsFile, err)
	}
	return nil
}

func (s *JSONFileStore) LoadRecords(subject string) ([]*services.AssessmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.readAssessments()
	if err != nil {
		return nil, err
	}
	return all[subject], nil
}

func (s *JSONFileStore) SaveRecords(subject string, records []*services.AssessmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.readAssessments()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		delete(all, subject)
	} else {
		all[subject] = records
	}
	return s.writeAssessments(all)
}

func (s *JSONFileStore) ListSubjects() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.readAssessments()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(all))
	for subject := range all {
		out = append(out, subject)
	}
	sort.Strings(out)
	return out, nil
}

func (s *JSONFileStore) readPeople() (map[string]*services.Person, error) {
	path := filepath.Join(s.dir, peopleFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]*services.Person{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", peopleFile, err)
	}
	var out map[string]*services.Person
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", peopleFile, err)
	}
	if out == nil {
		out = map[string]*services.Person{}
	}
	return out, nil
}

func (s *JSONFileStore) writePeople(people map[string]*services.Person) error {
	data, err := json.MarshalIndent(people, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", peopleFile, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, peopleFile), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", peopleFile, err)
	}
	return nil
}

func (s *JSONFileStore) GetPerson(id string) (*services.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	people, err := s.readPeople()
	if err != nil {
		return nil, err
	}
	return people[id], nil
}

func (s *JSONFileStore) PutPerson(p *services.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	people, err := s.readPeople()
	if err != nil {
		return err
	}
	people[p.ID] = p
	return s.writePeople(people)
}

func (s *JSONFileStore) LoadPeople() (map[string]*services.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readPeople()
}

func (s *JSONFileStore) SavePeople(people map[string]*services.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writePeople(people)
}

// AddAudit appends a JSON line to audit.log. Audit writes are
// best-effort; failures are logged, never propagated.
func (s *JSONFileStore) AddAudit(entry services.AuditEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(filepath.Join(s.dir, auditFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("jsonfile store: open audit log: %v", err)
		return
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(entry); err != nil {
		log.Printf("jsonfile store: write audit log: %v", err)
	}
}

var _ Store = (*JSONFileStore)(nil)
