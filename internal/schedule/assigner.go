package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Phase identifies one of the three scheduling phases.
type Phase string

const (
	PhaseRegular Phase = "REGULAR_SEASON"
	PhasePool    Phase = "POOL_PLAY"
	PhaseBracket Phase = "BRACKET"
)

// SlotType describes what a slot may host. Game and both slots order before
// practice slots.
type SlotType string

const (
	SlotTypePractice SlotType = "practice"
	SlotTypeGame     SlotType = "game"
	SlotTypeBoth     SlotType = "both"
)

// AssignableSlot is a slot offered to the assigner, annotated with the
// caller's slot plan.
type AssignableSlot struct {
	SlotID       string
	GameDate     time.Time
	StartMin     int
	EndMin       int
	FieldKey     string
	SlotType     SlotType
	PriorityRank *int
}

// Constraints govern one phase assignment. Zero MaxGamesPerWeek means
// unlimited.
type Constraints struct {
	MaxGamesPerWeek           int
	NoDoubleHeaders           bool
	BalanceHomeAway           bool
	ExternalOfferPerWeek      int
	PreferredWeeknights       []time.Weekday
	StrictPreferredWeeknights bool
}

// GuestAnchor is a preferred (day, time, field) used to pick which
// availability slots become external offers.
type GuestAnchor struct {
	Day      time.Weekday
	StartMin int
	EndMin   int
	FieldKey string
}

// Assignment is one slot-to-matchup binding. An external offer carries only a
// home team.
type Assignment struct {
	SlotID          string    `json:"slot_id"`
	GameDate        time.Time `json:"game_date"`
	StartMin        int       `json:"start_min"`
	EndMin          int       `json:"end_min"`
	FieldKey        string    `json:"field_key"`
	HomeTeamID      string    `json:"home_team_id"`
	AwayTeamID      string    `json:"away_team_id"`
	IsExternalOffer bool      `json:"is_external_offer"`
	Phase           Phase     `json:"phase"`
}

// PhaseResult is what one phase assignment produced.
type PhaseResult struct {
	Phase              Phase
	Assignments        []Assignment
	UnassignedSlots    []AssignableSlot
	UnassignedMatchups []MatchupPair
	Warnings           []string
}

// TeamCounters tracks per-team load. One instance is shared across the phases
// of a wizard run so guest-offer reservations and week caps see the full
// picture.
type TeamCounters struct {
	Total    map[string]int
	Home     map[string]int
	External map[string]int
	week     map[string]int
	byDate   map[string]bool
}

// NewTeamCounters returns zeroed counters.
func NewTeamCounters() *TeamCounters {
	return &TeamCounters{
		Total:    make(map[string]int),
		Home:     make(map[string]int),
		External: make(map[string]int),
		week:     make(map[string]int),
		byDate:   make(map[string]bool),
	}
}

func (c *TeamCounters) weekCount(teamID string, date time.Time) int {
	return c.week[teamID+"|"+WeekKey(date)]
}

func (c *TeamCounters) playedOn(teamID string, date time.Time) bool {
	return c.byDate[teamID+"|"+FormatDate(date)]
}

func (c *TeamCounters) record(teamID string, date time.Time, home, external bool) {
	c.Total[teamID]++
	if home {
		c.Home[teamID]++
	}
	if external {
		c.External[teamID]++
	}
	c.week[teamID+"|"+WeekKey(date)]++
	c.byDate[teamID+"|"+FormatDate(date)] = true
}

// slotTypePriority orders game/both slots ahead of practice slots.
func slotTypePriority(t SlotType) int {
	if t == SlotTypePractice {
		return 1
	}
	return 0
}

const noPreferredDay = 1 << 20

func preferredDayRank(day time.Weekday, preferred []time.Weekday) int {
	for i, d := range preferred {
		if d == day {
			return i
		}
	}
	return noPreferredDay
}

// OrderSlots applies the deterministic slot ordering: slot type, priority
// rank, preferred weeknight rank, then date, start time and field key. When
// strict preferred weeknights are requested, slots on other days are dropped
// before ordering.
func OrderSlots(slots []AssignableSlot, constraints Constraints) []AssignableSlot {
	ordered := make([]AssignableSlot, 0, len(slots))
	for _, s := range slots {
		if constraints.StrictPreferredWeeknights && len(constraints.PreferredWeeknights) > 0 &&
			preferredDayRank(s.GameDate.Weekday(), constraints.PreferredWeeknights) == noPreferredDay {
			continue
		}
		ordered = append(ordered, s)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if pa, pb := slotTypePriority(a.SlotType), slotTypePriority(b.SlotType); pa != pb {
			return pa < pb
		}
		ra, rb := rankValue(a.PriorityRank), rankValue(b.PriorityRank)
		if ra != rb {
			return ra < rb
		}
		da := preferredDayRank(a.GameDate.Weekday(), constraints.PreferredWeeknights)
		db := preferredDayRank(b.GameDate.Weekday(), constraints.PreferredWeeknights)
		if da != db {
			return da < db
		}
		if !a.GameDate.Equal(b.GameDate) {
			return a.GameDate.Before(b.GameDate)
		}
		if a.StartMin != b.StartMin {
			return a.StartMin < b.StartMin
		}
		return a.FieldKey < b.FieldKey
	})
	return ordered
}

func rankValue(rank *int) int {
	if rank == nil {
		return noPreferredDay
	}
	return *rank
}

// Anchor match scores, best to worst. Slots scoring anchorNoMatch are never
// reserved.
const (
	anchorPrimaryExact     = 0
	anchorSecondaryExact   = 1
	anchorPrimaryDayTime   = 2
	anchorSecondaryDayTime = 3
	anchorNoMatch          = 100
)

func anchorScore(slot AssignableSlot, primary, secondary *GuestAnchor) int {
	p := scoreAgainst(slot, primary, anchorPrimaryExact, anchorPrimaryDayTime)
	if s := scoreAgainst(slot, secondary, anchorSecondaryExact, anchorSecondaryDayTime); s < p {
		return s
	}
	return p
}

func scoreAgainst(slot AssignableSlot, anchor *GuestAnchor, exact, dayTime int) int {
	if anchor == nil {
		return anchorNoMatch
	}
	if slot.GameDate.Weekday() != anchor.Day || slot.StartMin != anchor.StartMin || slot.EndMin != anchor.EndMin {
		return anchorNoMatch
	}
	if strings.EqualFold(slot.FieldKey, anchor.FieldKey) {
		return exact
	}
	return dayTime
}

// ReserveGuestSlots pulls the best anchor-matching slots out of each ISO week
// for external-offer backfill, up to perWeek per week. The remaining slots
// keep their relative order.
func ReserveGuestSlots(ordered []AssignableSlot, primary, secondary *GuestAnchor, perWeek int) (reserved, remaining []AssignableSlot) {
	if perWeek <= 0 || (primary == nil && secondary == nil) {
		return nil, ordered
	}

	type scored struct {
		index int
		score int
	}
	byWeek := make(map[string][]scored)
	weekOrder := make([]string, 0)
	for i, slot := range ordered {
		week := WeekKey(slot.GameDate)
		if _, seen := byWeek[week]; !seen {
			weekOrder = append(weekOrder, week)
		}
		byWeek[week] = append(byWeek[week], scored{index: i, score: anchorScore(slot, primary, secondary)})
	}

	reservedIdx := make(map[int]bool)
	for _, week := range weekOrder {
		entries := byWeek[week]
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].score < entries[j].score })
		taken := 0
		for _, e := range entries {
			if taken >= perWeek || e.score >= anchorNoMatch {
				break
			}
			reservedIdx[e.index] = true
			taken++
		}
	}

	for i, slot := range ordered {
		if reservedIdx[i] {
			reserved = append(reserved, slot)
		} else {
			remaining = append(remaining, slot)
		}
	}
	return reserved, remaining
}

// AssignPhase runs the greedy assignment loop for a regular-season or
// pool-play phase. Matchups are consumed FIFO; a matchup that violates the
// doubleheader or week-cap rules rotates to the back of the queue until every
// matchup has been tried for the slot. Counters are mutated in place so
// subsequent phases observe earlier load. The only error is an internal
// precondition breach; malformed data yields an empty result with warnings.
func AssignPhase(phase Phase, teams []string, slots []AssignableSlot, matchups []MatchupPair, constraints Constraints, primary, secondary *GuestAnchor, counters *TeamCounters) (PhaseResult, error) {
	if counters == nil {
		return PhaseResult{}, fmt.Errorf("assign phase %s: nil team counters", phase)
	}
	if constraints.MaxGamesPerWeek < 0 || constraints.ExternalOfferPerWeek < 0 {
		return PhaseResult{}, fmt.Errorf("assign phase %s: negative constraint value", phase)
	}

	result := PhaseResult{Phase: phase}
	ordered := OrderSlots(slots, constraints)
	if len(ordered) == 0 {
		result.UnassignedMatchups = append(result.UnassignedMatchups, matchups...)
		if len(matchups) > 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: no usable slots for %d matchups", phase, len(matchups)))
		}
		return result, nil
	}

	var reserved []AssignableSlot
	if phase == PhaseRegular {
		reserved, ordered = ReserveGuestSlots(ordered, primary, secondary, constraints.ExternalOfferPerWeek)
	}

	queue := append([]MatchupPair(nil), matchups...)
	var leftover []AssignableSlot

	for _, slot := range ordered {
		if len(queue) == 0 {
			leftover = append(leftover, slot)
			continue
		}
		assigned := false
		for attempt := 0; attempt < len(queue); attempt++ {
			pair := queue[0]
			queue = queue[1:]
			if !fits(pair, slot, constraints, counters) {
				queue = append(queue, pair)
				continue
			}
			pair = orient(pair, constraints, counters)
			result.Assignments = append(result.Assignments, Assignment{
				SlotID:     slot.SlotID,
				GameDate:   slot.GameDate,
				StartMin:   slot.StartMin,
				EndMin:     slot.EndMin,
				FieldKey:   slot.FieldKey,
				HomeTeamID: pair.HomeTeamID,
				AwayTeamID: pair.AwayTeamID,
				Phase:      phase,
			})
			counters.record(pair.HomeTeamID, slot.GameDate, true, false)
			counters.record(pair.AwayTeamID, slot.GameDate, false, false)
			assigned = true
			break
		}
		if !assigned {
			leftover = append(leftover, slot)
		}
	}

	result.UnassignedMatchups = append(result.UnassignedMatchups, queue...)

	if phase == PhaseRegular && constraints.ExternalOfferPerWeek > 0 {
		offers, unused := backfillExternalOffers(reserved, leftover, teams, constraints, counters)
		result.Assignments = append(result.Assignments, offers...)
		result.UnassignedSlots = unused
	} else {
		result.UnassignedSlots = append(leftover, reserved...)
	}

	if len(result.UnassignedMatchups) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %d matchups could not be placed", phase, len(result.UnassignedMatchups)))
	}
	return result, nil
}

// fits checks the doubleheader and week-cap constraints for both teams.
func fits(pair MatchupPair, slot AssignableSlot, constraints Constraints, counters *TeamCounters) bool {
	for _, team := range []string{pair.HomeTeamID, pair.AwayTeamID} {
		if constraints.NoDoubleHeaders && counters.playedOn(team, slot.GameDate) {
			return false
		}
		if constraints.MaxGamesPerWeek > 0 && counters.weekCount(team, slot.GameDate) >= constraints.MaxGamesPerWeek {
			return false
		}
	}
	return true
}

// orient picks the home/away orientation that narrows the home-count spread
// between the two teams when balancing is on.
func orient(pair MatchupPair, constraints Constraints, counters *TeamCounters) MatchupPair {
	if !constraints.BalanceHomeAway {
		return pair
	}
	if counters.Home[pair.HomeTeamID] > counters.Home[pair.AwayTeamID] {
		return pair.Swapped()
	}
	return pair
}

// backfillExternalOffers fills up to ExternalOfferPerWeek guest games per ISO
// week. Anchor-reserved slots are consumed before ordinary leftovers inside
// each week. The home team is chosen by least external count, then least
// total, then least home count, then team id; teams at the week cap are
// skipped.
func backfillExternalOffers(reserved, leftover []AssignableSlot, teams []string, constraints Constraints, counters *TeamCounters) (offers []Assignment, unused []AssignableSlot) {
	type poolSlot struct {
		slot     AssignableSlot
		reserved bool
	}
	pool := make([]poolSlot, 0, len(reserved)+len(leftover))
	for _, s := range reserved {
		pool = append(pool, poolSlot{slot: s, reserved: true})
	}
	for _, s := range leftover {
		pool = append(pool, poolSlot{slot: s})
	}
	if len(teams) == 0 {
		for _, p := range pool {
			unused = append(unused, p.slot)
		}
		return nil, unused
	}

	sort.SliceStable(pool, func(i, j int) bool {
		a, b := pool[i], pool[j]
		wa, wb := WeekKey(a.slot.GameDate), WeekKey(b.slot.GameDate)
		if wa != wb {
			return wa < wb
		}
		if a.reserved != b.reserved {
			return a.reserved
		}
		if !a.slot.GameDate.Equal(b.slot.GameDate) {
			return a.slot.GameDate.Before(b.slot.GameDate)
		}
		if a.slot.StartMin != b.slot.StartMin {
			return a.slot.StartMin < b.slot.StartMin
		}
		return a.slot.FieldKey < b.slot.FieldKey
	})

	perWeek := make(map[string]int)
	for _, p := range pool {
		slot := p.slot
		week := WeekKey(slot.GameDate)
		if perWeek[week] >= constraints.ExternalOfferPerWeek {
			unused = append(unused, slot)
			continue
		}
		home := pickOfferHome(teams, slot.GameDate, constraints, counters)
		if home == "" {
			unused = append(unused, slot)
			continue
		}
		offers = append(offers, Assignment{
			SlotID:          slot.SlotID,
			GameDate:        slot.GameDate,
			StartMin:        slot.StartMin,
			EndMin:          slot.EndMin,
			FieldKey:        slot.FieldKey,
			HomeTeamID:      home,
			AwayTeamID:      "",
			IsExternalOffer: true,
			Phase:           PhaseRegular,
		})
		counters.record(home, slot.GameDate, true, true)
		perWeek[week]++
	}
	return offers, unused
}

func pickOfferHome(teams []string, date time.Time, constraints Constraints, counters *TeamCounters) string {
	candidates := append([]string(nil), teams...)
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if counters.External[a] != counters.External[b] {
			return counters.External[a] < counters.External[b]
		}
		if counters.Total[a] != counters.Total[b] {
			return counters.Total[a] < counters.Total[b]
		}
		if counters.Home[a] != counters.Home[b] {
			return counters.Home[a] < counters.Home[b]
		}
		return a < b
	})
	for _, team := range candidates {
		if constraints.MaxGamesPerWeek > 0 && counters.weekCount(team, date) >= constraints.MaxGamesPerWeek {
			continue
		}
		if constraints.NoDoubleHeaders && counters.playedOn(team, date) {
			continue
		}
		return team
	}
	return ""
}

// AssignBracket dequeues bracket matchups into slots ordered without the
// preferred-weeknight key. Week caps and doubleheader rules do not apply.
func AssignBracket(slots []AssignableSlot, matchups []MatchupPair) PhaseResult {
	result := PhaseResult{Phase: PhaseBracket}
	ordered := OrderSlots(slots, Constraints{})

	queue := append([]MatchupPair(nil), matchups...)
	for _, slot := range ordered {
		if len(queue) == 0 {
			result.UnassignedSlots = append(result.UnassignedSlots, slot)
			continue
		}
		pair := queue[0]
		queue = queue[1:]
		result.Assignments = append(result.Assignments, Assignment{
			SlotID:     slot.SlotID,
			GameDate:   slot.GameDate,
			StartMin:   slot.StartMin,
			EndMin:     slot.EndMin,
			FieldKey:   slot.FieldKey,
			HomeTeamID: pair.HomeTeamID,
			AwayTeamID: pair.AwayTeamID,
			Phase:      PhaseBracket,
		})
	}
	result.UnassignedMatchups = queue
	if len(queue) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("BRACKET: %d matchups could not be placed", len(queue)))
	}
	return result
}
