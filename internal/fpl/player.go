package fpl

import "fmt"

// Position is one of the four FPL player roles.
type Position int

const (
	Keeper Position = iota + 1
	Defender
	Midfielder
	Forward
)

// Positions lists all roles in enumeration order.
var Positions = []Position{Keeper, Defender, Midfielder, Forward}

func (p Position) String() string {
	switch p {
	case Keeper:
		return "GK"
	case Defender:
		return "DEF"
	case Midfielder:
		return "MID"
	case Forward:
		return "FWD"
	}
	return fmt.Sprintf("Position(%d)", int(p))
}

// ParsePosition converts the numeric element-type code used by the
// candidate-pool data into a Position.
func ParsePosition(code int) (Position, error) {
	if code < int(Keeper) || code > int(Forward) {
		return 0, fmt.Errorf("unknown position code %d", code)
	}
	return Position(code), nil
}

// Roster constants. Costs are expressed in tenths of a million.
const (
	Budget     = 1000
	SquadSize  = 15
	TeamSize   = 11
	MaxPerClub = 3
)

// SquadQuota is the exact per-position composition of a full squad.
func SquadQuota() map[Position]int {
	return map[Position]int{
		Keeper:     2,
		Defender:   5,
		Midfielder: 5,
		Forward:    3,
	}
}

// DefaultFormation is the starting-XI target used when no formation is given.
func DefaultFormation() map[Position]int {
	return map[Position]int{
		Keeper:     1,
		Defender:   3,
		Midfielder: 4,
		Forward:    3,
	}
}

// Player is an immutable description of one candidate. Players are compared
// by Name for membership checks.
type Player struct {
	Name     string   `json:"name"`
	Position Position `json:"position"`
	Cost     int      `json:"cost"`
	Club     string   `json:"club"`
}

// NewPlayer builds a Player from the raw identity fields of a pool row.
func NewPlayer(firstName, lastName string, positionCode, cost int, club string) (Player, error) {
	position, err := ParsePosition(positionCode)
	if err != nil {
		return Player{}, err
	}
	if cost < 0 {
		return Player{}, fmt.Errorf("player %s %s has negative cost %d", firstName, lastName, cost)
	}
	return Player{
		Name:     firstName + " " + lastName,
		Position: position,
		Cost:     cost,
		Club:     club,
	}, nil
}

func (p Player) String() string {
	return p.Name
}
