// Package storage provides the persistence collaborators for the
// assessment engine: a key-value mapping from person identifier to an
// ordered list of assessment records, plus the person directory.
package storage

import "github.com/soaringjerry/Scorecard/internal/services"

// Store is the full collaborator contract. SaveRecords replaces the
// subject's whole list atomically from the engine's perspective; an
// empty list removes the subject's entry. Implementations normalize
// records on read (missing status becomes Approved, tomo is recomputed
// from its survey inputs) so consumers never see pre-migration data.
type Store interface {
	LoadRecords(subject string) ([]*services.AssessmentRecord, error)
	SaveRecords(subject string, records []*services.AssessmentRecord) error
	ListSubjects() ([]string, error)

	GetPerson(id string) (*services.Person, error)
	PutPerson(p *services.Person) error
	LoadPeople() (map[string]*services.Person, error)
	SavePeople(people map[string]*services.Person) error

	AddAudit(entry services.AuditEntry)
}
