package fpl

import "fmt"

// Squad is the validated 15-player roster together with its 11-player active
// team and the two captaincy designations. Every mutation goes through a
// setter that checks the roster invariants; a failed set leaves the aggregate
// in its last valid state.
//
// A Squad is built once per selection run and is not safe for concurrent
// mutation; each instance is owned by its creator.
type Squad struct {
	squad       []Player
	team        []Player
	captain     Player
	viceCaptain Player
}

// NewSquad validates a 15-player selection and derives the active team and
// captaincy with the default rule: first keeper, first four defenders, first
// four midfielders and first two forwards in enumeration order; the first two
// team members become captain and vice-captain. Optimizer output is expected
// to be wrapped through this factory.
func NewSquad(players []Player) (*Squad, error) {
	s := &Squad{}
	if err := s.SetSquad(players); err != nil {
		return nil, err
	}

	team := defaultTeam(players)
	if err := s.SetTeam(team); err != nil {
		return nil, err
	}
	if err := s.SetCaptain(team[0]); err != nil {
		return nil, err
	}
	if err := s.SetViceCaptain(team[1]); err != nil {
		return nil, err
	}
	return s, nil
}

// NewSquadFromRows builds a Squad straight from raw candidate-pool rows.
func NewSquadFromRows(rows []PoolRow) (*Squad, error) {
	players := make([]Player, 0, len(rows))
	for _, row := range rows {
		player, err := row.Player()
		if err != nil {
			return nil, invalidRoster(err.Error())
		}
		players = append(players, player)
	}
	return NewSquad(players)
}

// defaultTeam picks a 4-4-2 starting XI in enumeration order.
func defaultTeam(players []Player) []Player {
	take := map[Position]int{Keeper: 1, Defender: 4, Midfielder: 4, Forward: 2}
	team := make([]Player, 0, TeamSize)
	for _, position := range Positions {
		remaining := take[position]
		for _, p := range players {
			if remaining == 0 {
				break
			}
			if p.Position == position {
				team = append(team, p)
				remaining--
			}
		}
	}
	return team
}

// SetSquad replaces the full roster. Checks run in a fixed order and only the
// first failing condition is reported: size, position counts, total cost,
// club cap.
func (s *Squad) SetSquad(players []Player) error {
	if len(players) != SquadSize {
		return invalidRoster(fmt.Sprintf("squad must contain %d players, got %d", SquadSize, len(players)))
	}

	counts := make(map[Position]int)
	for _, p := range players {
		counts[p.Position]++
	}
	for position, quota := range SquadQuota() {
		if counts[position] != quota {
			return invalidRoster(fmt.Sprintf("squad needs exactly %d %s players, got %d", quota, position, counts[position]))
		}
	}

	if cost := totalCost(players); cost > Budget {
		return invalidRoster(fmt.Sprintf("squad cost %d exceeds budget %d", cost, Budget))
	}

	clubs := make(map[string]int)
	for _, p := range players {
		clubs[p.Club]++
		if clubs[p.Club] > MaxPerClub {
			return invalidRoster(fmt.Sprintf("more than %d players from club %s", MaxPerClub, p.Club))
		}
	}

	s.squad = append([]Player(nil), players...)
	return nil
}

// SetTeam replaces the active team. The team must be a subset of the current
// squad, contain exactly 11 players, and satisfy the position floors
// (one keeper, at least three defenders, at least one forward).
func (s *Squad) SetTeam(team []Player) error {
	for _, p := range team {
		if !containsPlayer(s.squad, p) {
			return invalidRoster(fmt.Sprintf("team member %s is not in the squad", p.Name))
		}
	}
	if len(team) != TeamSize {
		return invalidRoster(fmt.Sprintf("team must contain %d players, got %d", TeamSize, len(team)))
	}

	counts := make(map[Position]int)
	for _, p := range team {
		counts[p.Position]++
	}
	if counts[Keeper] != 1 || counts[Defender] < 3 || counts[Forward] < 1 {
		return invalidRoster(fmt.Sprintf("team formation %d-%d-%d-%d breaks the position floors",
			counts[Keeper], counts[Defender], counts[Midfielder], counts[Forward]))
	}

	s.team = append([]Player(nil), team...)
	return nil
}

// SetCaptain designates the captain, who must be a team member.
func (s *Squad) SetCaptain(p Player) error {
	if !containsPlayer(s.team, p) {
		return invalidRoster(fmt.Sprintf("captain %s is not in the team", p.Name))
	}
	s.captain = p
	return nil
}

// SetViceCaptain designates the vice-captain, a team member distinct from the
// current captain.
func (s *Squad) SetViceCaptain(p Player) error {
	if !containsPlayer(s.team, p) {
		return invalidRoster(fmt.Sprintf("vice-captain %s is not in the team", p.Name))
	}
	if p.Name == s.captain.Name {
		return invalidRoster(fmt.Sprintf("vice-captain %s is already the captain", p.Name))
	}
	s.viceCaptain = p
	return nil
}

// Squad returns a copy of the full roster.
func (s *Squad) Squad() []Player {
	return append([]Player(nil), s.squad...)
}

// Team returns a copy of the active team.
func (s *Squad) Team() []Player {
	return append([]Player(nil), s.team...)
}

func (s *Squad) Captain() Player {
	return s.captain
}

func (s *Squad) ViceCaptain() Player {
	return s.viceCaptain
}

// SquadCost is the summed cost of the full roster.
func (s *Squad) SquadCost() int {
	return totalCost(s.squad)
}

// TeamCost is the summed cost of the active team.
func (s *Squad) TeamCost() int {
	return totalCost(s.team)
}

// SquadTotalPoints sums the points column of the given table over the squad,
// matched by full name. Members missing from the table contribute zero. This
// is a read-only projection and not part of the invariant model.
func (s *Squad) SquadTotalPoints(points PointsTable) float64 {
	return totalPoints(s.squad, points)
}

// TeamTotalPoints sums the points column of the given table over the team.
func (s *Squad) TeamTotalPoints(points PointsTable) float64 {
	return totalPoints(s.team, points)
}

// PointsTable maps a player's full name to an externally observed points
// total, e.g. last season's actual score.
type PointsTable map[string]float64

func totalPoints(players []Player, points PointsTable) float64 {
	total := 0.0
	for _, p := range players {
		total += points[p.Name]
	}
	return total
}

func totalCost(players []Player) int {
	total := 0
	for _, p := range players {
		total += p.Cost
	}
	return total
}

func containsPlayer(players []Player, target Player) bool {
	for _, p := range players {
		if p.Name == target.Name {
			return true
		}
	}
	return false
}
