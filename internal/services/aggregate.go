package services

// AggregateSummary is the combined view over a set of assessment
// records. HasData distinguishes "no records" from a real zero score.
type AggregateSummary struct {
	PerCriterion map[string]float64   `json:"per_criterion"`
	Overall      float64              `json:"overall"`
	Counts       map[AssessorRole]int `json:"counts"`
	HasData      bool                 `json:"has_data"`
}

// Aggregate combines records into per-criterion and overall averages
// plus assessor-role counts. Callers filter to approved records first;
// no filtering happens here. Every record weighs the same regardless
// of assessor role, and the overall average is the mean of the
// per-criterion means, so each criterion contributes equally no matter
// how many records scored it.
func Aggregate(records []*AssessmentRecord) *AggregateSummary {
	out := &AggregateSummary{
		PerCriterion: map[string]float64{},
		Counts:       map[AssessorRole]int{},
	}
	if len(records) == 0 {
		return out
	}
	sums := map[string]int{}
	ns := map[string]int{}
	for _, rec := range records {
		out.Counts[rec.AssessorRole]++
		for crit, score := range rec.Scores {
			sums[crit] += score
			ns[crit]++
		}
	}
	if len(sums) == 0 {
		return out
	}
	total := 0.0
	for crit, sum := range sums {
		avg := float64(sum) / float64(ns[crit])
		out.PerCriterion[crit] = avg
		total += avg
	}
	out.Overall = total / float64(len(out.PerCriterion))
	out.HasData = true
	return out
}

// AverageTomo returns the mean derived tomo over records that carry a
// motivation survey. ok is false when none do.
func AverageTomo(records []*AssessmentRecord) (float64, bool) {
	sum, n := 0, 0
	for _, rec := range records {
		if rec.Motivation == nil {
			continue
		}
		sum += rec.Motivation.Tomo()
		n++
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}
