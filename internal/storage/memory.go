package storage

import (
	"sort"
	"sync"

	"github.com/soaringjerry/Scorecard/internal/services"
)

// MemoryStore keeps everything in process memory. It backs tests and
// the default server configuration when no database is set.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]*services.AssessmentRecord
	people  map[string]*services.Person
	audit   []services.AuditEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: map[string][]*services.AssessmentRecord{},
		people:  map[string]*services.Person{},
	}
}

func (s *MemoryStore) LoadRecords(subject string) ([]*services.AssessmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*services.AssessmentRecord, 0, len(s.records[subject]))
	for _, r := range s.records[subject] {
		copy := *r
		services.NormalizeRecord(&copy)
		out = append(out, &copy)
	}
	return out, nil
}

func (s *MemoryStore) SaveRecords(subject string, records []*services.AssessmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(records) == 0 {
		delete(s.records, subject)
		return nil
	}
	stored := make([]*services.AssessmentRecord, 0, len(records))
	for _, r := range records {
		copy := *r
		stored = append(stored, &copy)
	}
	s.records[subject] = stored
	return nil
}

func (s *MemoryStore) ListSubjects() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.records))
	for subject := range s.records {
		out = append(out, subject)
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStore) GetPerson(id string) (*services.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.people[id]
	if !ok {
		return nil, nil
	}
	copy := *p
	return &copy, nil
}

func (s *MemoryStore) PutPerson(p *services.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *p
	s.people[p.ID] = &copy
	return nil
}

func (s *MemoryStore) LoadPeople() (map[string]*services.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*services.Person, len(s.people))
	for id, p := range s.people {
		copy := *p
		out[id] = &copy
	}
	return out, nil
}

func (s *MemoryStore) SavePeople(people map[string]*services.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.people = map[string]*services.Person{}
	for id, p := range people {
		copy := *p
		s.people[id] = &copy
	}
	return nil
}

func (s *MemoryStore) AddAudit(entry services.AuditEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, entry)
}

// Audit returns a copy of the audit trail, oldest first.
func (s *MemoryStore) Audit() []services.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]services.AuditEntry(nil), s.audit...)
}

var _ Store = (*MemoryStore)(nil)
