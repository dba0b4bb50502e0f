package schedule

// MatchupPair is one scheduled pairing. Home/away orientation is meaningful
// after round rotation.
type MatchupPair struct {
	HomeTeamID string `json:"home_team_id"`
	AwayTeamID string `json:"away_team_id"`
}

// Swapped returns the pair with orientation reversed.
func (m MatchupPair) Swapped() MatchupPair {
	return MatchupPair{HomeTeamID: m.AwayTeamID, AwayTeamID: m.HomeTeamID}
}

const byeSentinel = "BYE"

// Bracket placeholder team ids used before seeding is known.
const (
	BracketSeed1   = "Seed1"
	BracketSeed2   = "Seed2"
	BracketSeed3   = "Seed3"
	BracketSeed4   = "Seed4"
	BracketWinnerA = "WinnerSF1"
	BracketWinnerB = "WinnerSF2"
)

// BuildRoundRobin generates a single round robin with the circle method. An
// odd team count is padded with a bye; bye pairs are dropped. Home/away
// alternates by round parity. Output covers every unordered pair exactly once:
// n*(n-1)/2 pairs for n teams.
func BuildRoundRobin(teams []string) []MatchupPair {
	if len(teams) < 2 {
		return nil
	}

	padded := append([]string(nil), teams...)
	if len(padded)%2 == 1 {
		padded = append(padded, byeSentinel)
	}
	n := len(padded)

	var pairs []MatchupPair
	for round := 0; round < n-1; round++ {
		// Position 0 is fixed; positions 1..n-1 rotate by the round index.
		order := make([]string, n)
		order[0] = padded[0]
		for i := 1; i < n; i++ {
			order[i] = padded[1+((i-1+round)%(n-1))]
		}
		for i := 0; i < n/2; i++ {
			home, away := order[i], order[n-1-i]
			if home == byeSentinel || away == byeSentinel {
				continue
			}
			if round%2 == 1 {
				home, away = away, home
			}
			pairs = append(pairs, MatchupPair{HomeTeamID: home, AwayTeamID: away})
		}
	}
	return pairs
}

// BuildRepeated repeats the round robin enough times to give every team at
// least gamesPerTeam pairings, swapping orientation on odd repetitions so home
// counts stay balanced across cycles.
func BuildRepeated(teams []string, gamesPerTeam int) []MatchupPair {
	if len(teams) < 2 || gamesPerTeam <= 0 {
		return nil
	}
	perRound := len(teams) - 1
	if perRound < 1 {
		perRound = 1
	}
	cycles := (gamesPerTeam + perRound - 1) / perRound

	var pairs []MatchupPair
	base := BuildRoundRobin(teams)
	for c := 0; c < cycles; c++ {
		for _, p := range base {
			if c%2 == 1 {
				p = p.Swapped()
			}
			pairs = append(pairs, p)
		}
	}
	return pairs
}

// BuildTarget emits pairs from the repeated cycle only while both teams are
// below gamesPerTeam, stopping once every team reaches the target.
func BuildTarget(teams []string, gamesPerTeam int) []MatchupPair {
	if len(teams) < 2 || gamesPerTeam <= 0 {
		return nil
	}

	counts := make(map[string]int, len(teams))
	satisfied := func() bool {
		for _, t := range teams {
			if counts[t] < gamesPerTeam {
				return false
			}
		}
		return true
	}

	var pairs []MatchupPair
	for _, p := range BuildRepeated(teams, gamesPerTeam) {
		if satisfied() {
			break
		}
		if counts[p.HomeTeamID] >= gamesPerTeam || counts[p.AwayTeamID] >= gamesPerTeam {
			continue
		}
		counts[p.HomeTeamID]++
		counts[p.AwayTeamID]++
		pairs = append(pairs, p)
	}
	return pairs
}

// BuildBracket returns the fixed semifinal and final placeholders.
func BuildBracket() []MatchupPair {
	return []MatchupPair{
		{HomeTeamID: BracketSeed1, AwayTeamID: BracketSeed4},
		{HomeTeamID: BracketSeed2, AwayTeamID: BracketSeed3},
		{HomeTeamID: BracketWinnerA, AwayTeamID: BracketWinnerB},
	}
}
