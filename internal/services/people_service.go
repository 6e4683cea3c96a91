package services

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// PeopleStore is the identity slice of the store the directory needs.
type PeopleStore interface {
	GetPerson(id string) (*Person, error)
	PutPerson(p *Person) error
	LoadPeople() (map[string]*Person, error)
	AddAudit(entry AuditEntry)
}

// PeopleService exposes the person directory and the superadmin-only
// manager/team administration.
type PeopleService struct {
	store PeopleStore
	now   func() time.Time
}

func NewPeopleService(store PeopleStore) *PeopleService {
	return &PeopleService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Get returns one person without credential material.
func (s *PeopleService) Get(actor ActorContext, id string) (*Person, error) {
	if actor.PersonID == "" {
		return nil, NewUnauthorizedError("authentication required")
	}
	p, err := s.store.GetPerson(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, NewNotFoundError(fmt.Sprintf("unknown person %q", id))
	}
	return stripCredentials(p), nil
}

// List returns the directory sorted by id, credentials stripped.
func (s *PeopleService) List(actor ActorContext) ([]*Person, error) {
	if actor.PersonID == "" {
		return nil, NewUnauthorizedError("authentication required")
	}
	people, err := s.store.LoadPeople()
	if err != nil {
		return nil, err
	}
	out := make([]*Person, 0, len(people))
	for _, p := range people {
		out = append(out, stripCredentials(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// AssignManager grants the manager role with the given team to a
// non-superadmin person. Superadmin only.
func (s *PeopleService) AssignManager(actor ActorContext, personID string, team []string) error {
	if !actor.IsSuperadmin() {
		return NewForbiddenError("manager assignment requires superadmin")
	}
	p, err := s.store.GetPerson(personID)
	if err != nil {
		return err
	}
	if p == nil {
		return NewNotFoundError(fmt.Sprintf("unknown person %q", personID))
	}
	if p.AdminRole == AdminSuperadmin {
		return NewConflictError("cannot reassign a superadmin")
	}
	for _, id := range team {
		member, err := s.store.GetPerson(id)
		if err != nil {
			return err
		}
		if member == nil {
			return NewInvalidError(fmt.Sprintf("unknown team member %q", id))
		}
	}
	p.AdminRole = AdminManager
	p.Team = append([]string(nil), team...)
	if err := s.store.PutPerson(p); err != nil {
		return err
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: actor.PersonID, Action: "people.assign_manager", Target: personID, Note: strings.Join(team, ",")})
	return nil
}

// RevokeManager demotes a manager back to an ordinary user and clears
// their team. Superadmin only.
func (s *PeopleService) RevokeManager(actor ActorContext, personID string) error {
	if !actor.IsSuperadmin() {
		return NewForbiddenError("manager assignment requires superadmin")
	}
	p, err := s.store.GetPerson(personID)
	if err != nil {
		return err
	}
	if p == nil {
		return NewNotFoundError(fmt.Sprintf("unknown person %q", personID))
	}
	if p.AdminRole == AdminSuperadmin {
		return NewConflictError("cannot reassign a superadmin")
	}
	p.AdminRole = AdminUser
	p.Team = nil
	if err := s.store.PutPerson(p); err != nil {
		return err
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: actor.PersonID, Action: "people.revoke_manager", Target: personID})
	return nil
}

func stripCredentials(p *Person) *Person {
	copy := *p
	copy.PassHash = nil
	return &copy
}
