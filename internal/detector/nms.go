package detector

import (
	"sort"

	"github.com/samber/lo"
)

// FilterPersons keeps detections whose class is the person class and whose
// confidence is strictly above the threshold, converted to pixel boxes.
func FilterPersons(detections []Detection, width, height int, config Config) []Candidate {
	return lo.FilterMap(detections, func(d Detection, i int) (Candidate, bool) {
		if d.ClassID != config.PersonClassID || d.Confidence <= config.ConfidenceThreshold {
			return Candidate{}, false
		}
		return Candidate{
			Box:   d.Denormalize(width, height),
			Score: d.Confidence,
			Index: i,
		}, true
	})
}

// Suppress applies greedy non-max suppression. Candidates are visited by
// descending score, ties broken by model output order. A candidate is dropped
// when its IoU with an already kept box exceeds threshold. The kept boxes are
// returned in the order they were selected.
func Suppress(candidates []Candidate, threshold float64) []Box {
	if len(candidates) == 0 {
		return []Box{}
	}

	ordered := make([]Candidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})

	kept := make([]Candidate, 0, len(ordered))
	for _, c := range ordered {
		overlaps := lo.ContainsBy(kept, func(k Candidate) bool {
			return IoU(k.Box, c.Box) > threshold
		})
		if !overlaps {
			kept = append(kept, c)
		}
	}

	return lo.Map(kept, func(c Candidate, _ int) Box {
		return c.Box
	})
}
