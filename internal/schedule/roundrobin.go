package schedule

// byeTeam is the synthetic entry appended when the roster size is odd.
// Pairings involving it are dropped and it never appears in the output.
const byeTeam = "__BYE__"

// RoundRobin produces the full single round-robin pairing list for the given
// ordered roster using the circle method. Home and away alternate by round
// parity so the list is roughly pre-balanced before the assigner runs its
// own balancing. Round order is preserved in the output; the assigner's
// tie-breaking depends on it.
//
// Callers must reject rosters smaller than two teams before calling.
func RoundRobin(teamIDs []string) []Matchup {
	ids := append([]string(nil), teamIDs...)
	if len(ids)%2 == 1 {
		ids = append(ids, byeTeam)
	}
	n := len(ids)
	if n < 2 {
		return nil
	}

	var matchups []Matchup
	for round := 0; round < n-1; round++ {
		for i := 0; i < n/2; i++ {
			first, second := ids[i], ids[n-1-i]
			if first == byeTeam || second == byeTeam {
				continue
			}
			if round%2 == 0 {
				matchups = append(matchups, Matchup{Home: first, Away: second})
			} else {
				matchups = append(matchups, Matchup{Home: second, Away: first})
			}
		}
		// Classic circle rotation: hold position 0, rotate the rest by one.
		last := ids[n-1]
		copy(ids[2:], ids[1:n-1])
		ids[1] = last
	}
	return matchups
}
