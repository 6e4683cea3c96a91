package services

import "fmt"

// Capability checks for engine operations. Every rule takes the
// explicit ActorContext; there is no ambient session state.
//
// Note: any known actor may submit a Peer or Manager assessment for
// any other person. The engine does not verify an actual reporting
// relationship for Manager submissions; tightening that to
// actor.Manages(subject) is a policy option, not current behavior.

// CanSubmit reports whether the actor may submit an assessment with
// the given assessor role for subject.
func CanSubmit(actor ActorContext, role AssessorRole, subject string) error {
	if actor.PersonID == "" {
		return NewUnauthorizedError("authentication required")
	}
	if !role.Valid() {
		return NewInvalidError(fmt.Sprintf("unknown assessor role %q", role))
	}
	if role == RoleSelf {
		if actor.PersonID != subject {
			return NewForbiddenError("self-assessments may only be submitted for yourself")
		}
		return nil
	}
	if actor.PersonID == subject {
		return NewForbiddenError("peer and manager assessments must target another person")
	}
	return nil
}

// CanModerate reports whether the actor may approve, reject, or delete
// records for subject: superadmin anywhere, managers within their team.
func CanModerate(actor ActorContext, subject string) error {
	if actor.PersonID == "" {
		return NewUnauthorizedError("authentication required")
	}
	if actor.IsSuperadmin() {
		return nil
	}
	if actor.AdminRole == AdminManager && actor.Manages(subject) {
		return nil
	}
	return NewForbiddenError("subject is outside your team")
}

// CanView reports whether the actor may read subject's records. Every
// known actor may view; the assessor identity is masked for viewers
// without admin scope over the subject (see SeesRawIdentity).
func CanView(actor ActorContext, subject string) error {
	if actor.PersonID == "" {
		return NewUnauthorizedError("authentication required")
	}
	return nil
}

// SeesRawIdentity reports whether the actor may see unmasked assessor
// identifiers on subject's records.
func SeesRawIdentity(actor ActorContext, subject string) bool {
	return actor.IsSuperadmin() || actor.Manages(subject)
}
