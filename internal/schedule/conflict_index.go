package schedule

import (
	"strings"
	"time"

	"github.com/noah-isme/league-sched-api/internal/models"
)

type span struct {
	startMin int
	endMin   int
}

// ConflictIndex buckets occupied time ranges by (fieldKey, gameDate) for
// overlap detection. Not safe for concurrent use; each request owns one.
type ConflictIndex struct {
	buckets map[string][]span
}

// NewConflictIndex returns an empty index.
func NewConflictIndex() *ConflictIndex {
	return &ConflictIndex{buckets: make(map[string][]span)}
}

// BucketKey builds the canonical lowercase(fieldKey)|gameDate bucket key.
func BucketKey(fieldKey string, gameDate time.Time) string {
	return strings.ToLower(fieldKey) + "|" + FormatDate(gameDate)
}

// Load indexes the non-cancelled slots. Availability slots are skipped when
// includeAvailability is false. Slots with inverted minute ranges are ignored.
func (ix *ConflictIndex) Load(slots []models.Slot, includeAvailability bool) {
	for _, slot := range slots {
		if slot.Status == models.SlotStatusCancelled {
			continue
		}
		if slot.IsAvailability && !includeAvailability {
			continue
		}
		if slot.StartMin >= slot.EndMin {
			continue
		}
		date, err := ParseDate(slot.GameDate)
		if err != nil {
			continue
		}
		ix.Add(BucketKey(slot.FieldKey, date), slot.StartMin, slot.EndMin)
	}
}

// HasOverlap scans the bucket for any half-open intersection.
func (ix *ConflictIndex) HasOverlap(key string, startMin, endMin int) bool {
	for _, s := range ix.buckets[key] {
		if Overlaps(startMin, endMin, s.startMin, s.endMin) {
			return true
		}
	}
	return false
}

// CountOverlaps returns how many indexed ranges intersect the given one.
func (ix *ConflictIndex) CountOverlaps(key string, startMin, endMin int) int {
	count := 0
	for _, s := range ix.buckets[key] {
		if Overlaps(startMin, endMin, s.startMin, s.endMin) {
			count++
		}
	}
	return count
}

// Add appends a range to the bucket.
func (ix *ConflictIndex) Add(key string, startMin, endMin int) {
	ix.buckets[key] = append(ix.buckets[key], span{startMin: startMin, endMin: endMin})
}

// SplitByOverlap partitions candidates in insertion order. A candidate
// conflicting with the preloaded index or any previously accepted candidate is
// rejected; accepted candidates join the index so in-batch duplicates also
// conflict. |accepted| + |conflicts| always equals |candidates|.
func (ix *ConflictIndex) SplitByOverlap(candidates []Candidate) (accepted, conflicts []Candidate) {
	accepted = make([]Candidate, 0, len(candidates))
	conflicts = make([]Candidate, 0)
	for _, cand := range candidates {
		key := BucketKey(cand.FieldKey, cand.GameDate)
		if ix.HasOverlap(key, cand.StartMin, cand.EndMin) {
			conflicts = append(conflicts, cand)
			continue
		}
		ix.Add(key, cand.StartMin, cand.EndMin)
		accepted = append(accepted, cand)
	}
	return accepted, conflicts
}
