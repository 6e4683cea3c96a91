package services

import (
	"math"
	"reflect"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestAggregateSelfAndPeer(t *testing.T) {
	records := []*AssessmentRecord{
		{AssessorRole: RoleSelf, Status: StatusApproved, Scores: ScoreSet{"A": 4, "B": 2}},
		{AssessorRole: RolePeer, Status: StatusApproved, Scores: ScoreSet{"A": 2, "B": 4}},
	}
	sum := Aggregate(records)
	if !sum.HasData {
		t.Fatalf("expected data")
	}
	if !almostEqual(sum.PerCriterion["A"], 3.0) || !almostEqual(sum.PerCriterion["B"], 3.0) {
		t.Fatalf("unexpected per-criterion averages: %+v", sum.PerCriterion)
	}
	if !almostEqual(sum.Overall, 3.0) {
		t.Fatalf("expected overall 3.0, got %v", sum.Overall)
	}
	if sum.Counts[RoleSelf] != 1 || sum.Counts[RolePeer] != 1 {
		t.Fatalf("unexpected counts: %+v", sum.Counts)
	}
}

func TestAggregateEmptyIsNoData(t *testing.T) {
	sum := Aggregate(nil)
	if sum.HasData {
		t.Fatalf("empty input must not report data")
	}
	if len(sum.PerCriterion) != 0 || sum.Overall != 0 {
		t.Fatalf("expected zero values, got %+v", sum)
	}
}

// Records from different rubric roles cover different criteria; each
// criterion averages only over the records that contain it, and the
// overall average is the mean of means, not the mean of raw scores.
func TestAggregatePartialCriteria(t *testing.T) {
	records := []*AssessmentRecord{
		{AssessorRole: RoleSelf, Scores: ScoreSet{"A": 5, "B": 1}},
		{AssessorRole: RolePeer, Scores: ScoreSet{"A": 3}},
	}
	sum := Aggregate(records)
	if !almostEqual(sum.PerCriterion["A"], 4.0) {
		t.Fatalf("expected A=4.0, got %v", sum.PerCriterion["A"])
	}
	if !almostEqual(sum.PerCriterion["B"], 1.0) {
		t.Fatalf("expected B=1.0, got %v", sum.PerCriterion["B"])
	}
	// mean of means: (4.0 + 1.0) / 2, not (5+1+3)/3
	if !almostEqual(sum.Overall, 2.5) {
		t.Fatalf("expected overall 2.5, got %v", sum.Overall)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	records := []*AssessmentRecord{
		{AssessorRole: RoleSelf, Scores: ScoreSet{"A": 4, "B": 2}},
		{AssessorRole: RoleManager, Scores: ScoreSet{"A": 2, "B": 4}},
	}
	first := Aggregate(records)
	second := Aggregate(records)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("aggregate not idempotent: %+v vs %+v", first, second)
	}
}

func TestAverageTomo(t *testing.T) {
	records := []*AssessmentRecord{
		{Motivation: &MotivationSurvey{Play: 6, Purpose: 6, Potential: 6, Emotional: 1, Economic: 1, Inertia: 1}}, // 15
		{Motivation: &MotivationSurvey{Play: 4, Purpose: 4, Potential: 4, Emotional: 3, Economic: 3, Inertia: 3}}, // 3
		{Scores: ScoreSet{"A": 3}}, // no survey, excluded
	}
	avg, ok := AverageTomo(records)
	if !ok {
		t.Fatalf("expected tomo data")
	}
	if !almostEqual(avg, 9.0) {
		t.Fatalf("expected average tomo 9.0, got %v", avg)
	}
	if _, ok := AverageTomo(nil); ok {
		t.Fatalf("empty input must report no data")
	}
}
