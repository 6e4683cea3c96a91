package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/soaringjerry/Scorecard/internal/services"
)

func TestJSONFileStoreRoundTrip(t *testing.T) {
	store, err := NewJSONFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewJSONFileStore error: %v", err)
	}
	records := []*services.AssessmentRecord{
		{ID: "R1", AssessorRole: services.RoleSelf, Status: services.StatusApproved, Role: "Product Designer", Scores: services.ScoreSet{"Design Craft": 4}},
		{ID: "R2", AssessorRole: services.RolePeer, AssessorName: "bob", Status: services.StatusApproved, Role: "Product Designer", Scores: services.ScoreSet{"Design Craft": 2}},
	}
	if err := store.SaveRecords("alice", records); err != nil {
		t.Fatalf("SaveRecords error: %v", err)
	}
	got, err := store.LoadRecords("alice")
	if err != nil {
		t.Fatalf("LoadRecords error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "R1" || got[1].AssessorName != "bob" {
		t.Fatalf("unexpected records: %+v", got)
	}
	subjects, _ := store.ListSubjects()
	if len(subjects) != 1 || subjects[0] != "alice" {
		t.Fatalf("unexpected subjects: %v", subjects)
	}
}

// Legacy files carry no status field and may hold a stale tomo scalar;
// both are normalized on read.
func TestJSONFileStoreLegacyNormalization(t *testing.T) {
	dir := t.TempDir()
	legacy := `{
  "alice": [
    {
      "assessor": "Self",
      "role": "Product Designer",
      "scores": {"Design Craft": 4},
      "tomo": 3,
      "tomo_scores": {"play": 6, "purpose": 6, "potential": 6, "emotional": 1, "economic": 1, "inertia": 1},
      "timestamp": "2024-11-02T09:30:00Z"
    }
  ]
}`
	if err := os.WriteFile(filepath.Join(dir, "assessments.json"), []byte(legacy), 0o644); err != nil {
		t.Fatalf("write legacy file: %v", err)
	}
	store, err := NewJSONFileStore(dir)
	if err != nil {
		t.Fatalf("NewJSONFileStore error: %v", err)
	}
	got, err := store.LoadRecords("alice")
	if err != nil {
		t.Fatalf("LoadRecords error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].Status != services.StatusApproved {
		t.Fatalf("absent status must read as Approved, got %q", got[0].Status)
	}
	if got[0].Tomo != 15 {
		t.Fatalf("tomo must be recomputed from tomo_scores, got %d", got[0].Tomo)
	}
	if got[0].Subject != "alice" {
		t.Fatalf("subject must be filled from the map key, got %q", got[0].Subject)
	}
}

func TestJSONFileStoreEmptySaveDeletesSubject(t *testing.T) {
	store, _ := NewJSONFileStore(t.TempDir())
	_ = store.SaveRecords("alice", []*services.AssessmentRecord{{ID: "R1", AssessorRole: services.RoleSelf}})
	if err := store.SaveRecords("alice", nil); err != nil {
		t.Fatalf("SaveRecords error: %v", err)
	}
	subjects, _ := store.ListSubjects()
	if len(subjects) != 0 {
		t.Fatalf("expected no subjects, got %v", subjects)
	}
}

func TestJSONFileStorePeople(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewJSONFileStore(dir)
	if err := store.PutPerson(&services.Person{ID: "alice", Role: "Product Designer", AdminRole: services.AdminSuperadmin}); err != nil {
		t.Fatalf("PutPerson error: %v", err)
	}
	// a fresh store over the same directory sees the same people
	reopened, _ := NewJSONFileStore(dir)
	p, err := reopened.GetPerson("alice")
	if err != nil || p == nil || p.AdminRole != services.AdminSuperadmin {
		t.Fatalf("GetPerson after reopen failed: %v %+v", err, p)
	}
}
