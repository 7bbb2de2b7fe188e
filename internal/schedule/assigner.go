package schedule

import (
	"sort"

	"github.com/charmbracelet/log"
)

// tracker is the mutable accumulator threaded through an assignment run.
// All constraint checks read from it and every accepted assignment writes
// back through record, so there is no hidden state between iterations.
type tracker struct {
	homeCount   map[string]int
	awayCount   map[string]int
	datesPlayed map[string]map[string]bool
	weekCount   map[string]int // team + "|" + weekKey
}

func newTracker(teamIDs []string) *tracker {
	tr := &tracker{
		homeCount:   make(map[string]int, len(teamIDs)),
		awayCount:   make(map[string]int, len(teamIDs)),
		datesPlayed: make(map[string]map[string]bool, len(teamIDs)),
		weekCount:   make(map[string]int),
	}
	for _, id := range teamIDs {
		tr.homeCount[id] = 0
		tr.awayCount[id] = 0
		tr.datesPlayed[id] = make(map[string]bool)
	}
	return tr
}

func (tr *tracker) playedOn(team, date string) bool {
	return tr.datesPlayed[team][date]
}

func (tr *tracker) gamesInWeek(team, week string) int {
	return tr.weekCount[team+"|"+week]
}

func (tr *tracker) record(team, date, week string, home bool) {
	if home {
		tr.homeCount[team]++
	} else {
		tr.awayCount[team]++
	}
	if tr.datesPlayed[team] == nil {
		tr.datesPlayed[team] = make(map[string]bool)
	}
	tr.datesPlayed[team][date] = true
	if week != "" {
		tr.weekCount[team+"|"+week]++
	}
}

func (tr *tracker) totalGames(team string) int {
	return tr.homeCount[team] + tr.awayCount[team]
}

// SortSlots orders slots by (gameDate, startMinute, fieldKey) ascending,
// the order the assigner expects.
func SortSlots(slots []Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].GameDate != slots[j].GameDate {
			return slots[i].GameDate < slots[j].GameDate
		}
		if slots[i].StartMinute != slots[j].StartMinute {
			return slots[i].StartMinute < slots[j].StartMinute
		}
		return slots[i].FieldKey < slots[j].FieldKey
	})
}

// Assign greedily places matchups into slots under the given constraints.
// Slots must already be sorted (see SortSlots). Infeasibility is never an
// error: slots and matchups that cannot be placed are reported in the
// result. teamIDs is the division roster; it seeds the balance counters and
// is the candidate pool for external offers.
func Assign(slots []Slot, matchups []Matchup, teamIDs []string, cons Constraints) Result {
	tr := newTracker(teamIDs)
	roster := make(map[string]bool, len(teamIDs))
	for _, id := range teamIDs {
		roster[id] = true
	}

	remaining := append([]Matchup(nil), matchups...)
	var assignments []Assignment
	var unassignedSlots []Slot

	for _, slot := range slots {
		week, hasWeek := weekKey(slot.GameDate)
		if !hasWeek {
			log.Warn("Slot date does not parse, exempt from weekly cap", "slotID", slot.ID, "gameDate", slot.GameDate)
		}

		// A slot offered by a roster team fixes that team as one side.
		fixed := ""
		if slot.OfferingTeamID != "" && roster[slot.OfferingTeamID] {
			fixed = slot.OfferingTeamID
		}

		bestIdx := -1
		bestScore := 0
		var bestHome, bestAway string
		for idx, m := range remaining {
			home, away := m.Home, m.Away
			if fixed != "" {
				switch fixed {
				case home:
					// Already oriented.
				case away:
					home, away = away, home
				default:
					continue
				}
			}
			if cons.NoDoubleHeaders && (tr.playedOn(home, slot.GameDate) || tr.playedOn(away, slot.GameDate)) {
				continue
			}
			if cons.MaxGamesPerWeek > 0 && hasWeek {
				if tr.gamesInWeek(home, week) >= cons.MaxGamesPerWeek || tr.gamesInWeek(away, week) >= cons.MaxGamesPerWeek {
					continue
				}
			}

			score := 0
			if cons.BalanceHomeAway {
				score = abs(tr.homeCount[home]+1-tr.awayCount[home]) + abs(tr.awayCount[away]+1-tr.homeCount[away])
			}
			if bestIdx == -1 || score < bestScore {
				bestIdx, bestScore = idx, score
				bestHome, bestAway = home, away
				if score == 0 {
					break
				}
			}
		}

		if bestIdx == -1 {
			unassignedSlots = append(unassignedSlots, slot)
			continue
		}

		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
		tr.record(bestHome, slot.GameDate, week, true)
		tr.record(bestAway, slot.GameDate, week, false)
		assignments = append(assignments, Assignment{
			SlotID:     slot.ID,
			HomeTeamID: bestHome,
			AwayTeamID: bestAway,
		})
	}

	matchupsAssigned := len(matchups) - len(remaining)

	externalOffers := 0
	if cons.ExternalOfferPerWeek > 0 && len(unassignedSlots) > 0 {
		unassignedSlots, assignments, externalOffers = fillExternalOffers(unassignedSlots, assignments, teamIDs, tr, cons.ExternalOfferPerWeek)
	}

	return Result{
		Assignments:        assignments,
		UnassignedSlots:    unassignedSlots,
		UnassignedMatchups: remaining,
		Summary: Summary{
			SlotsTotal:         len(slots),
			SlotsAssigned:      len(assignments),
			MatchupsTotal:      len(matchups),
			MatchupsAssigned:   matchupsAssigned,
			ExternalOffers:     externalOffers,
			UnassignedSlots:    len(unassignedSlots),
			UnassignedMatchups: len(remaining),
		},
	}
}

// fillExternalOffers hands up to perWeek leftover slots per week to the team
// with the fewest total games, marking them as external offers with no
// opponent. Slots whose date has no week key stay unassigned.
func fillExternalOffers(unassigned []Slot, assignments []Assignment, teamIDs []string, tr *tracker, perWeek int) ([]Slot, []Assignment, int) {
	taken := make(map[string]int) // week -> offers handed out
	offers := 0
	var stillUnassigned []Slot

	for _, slot := range unassigned {
		week, ok := weekKey(slot.GameDate)
		if !ok || taken[week] >= perWeek {
			stillUnassigned = append(stillUnassigned, slot)
			continue
		}

		team := pickExternalOfferTeam(teamIDs, tr)
		if team == "" {
			stillUnassigned = append(stillUnassigned, slot)
			continue
		}

		taken[week]++
		offers++
		tr.record(team, slot.GameDate, week, true)
		assignments = append(assignments, Assignment{
			SlotID:        slot.ID,
			HomeTeamID:    team,
			ExternalOffer: true,
		})
		log.Debug("Assigned external offer slot", "slotID", slot.ID, "team", team, "week", week)
	}
	return stillUnassigned, assignments, offers
}

// pickExternalOfferTeam selects the team with the lowest total game count,
// breaking ties by lowest home count and then by ascending team id. The id
// ordering is arbitrary but kept stable for reproducible output.
func pickExternalOfferTeam(teamIDs []string, tr *tracker) string {
	best := ""
	for _, id := range teamIDs {
		if best == "" {
			best = id
			continue
		}
		switch {
		case tr.totalGames(id) < tr.totalGames(best):
			best = id
		case tr.totalGames(id) == tr.totalGames(best) && tr.homeCount[id] < tr.homeCount[best]:
			best = id
		case tr.totalGames(id) == tr.totalGames(best) && tr.homeCount[id] == tr.homeCount[best] && id < best:
			best = id
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
