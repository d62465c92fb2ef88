package components

import "fmt"

// Turn is the turning action group.
type Turn uint8

const (
	TurnWait Turn = iota
	TurnLeft
	TurnRight
	numTurn
)

// Move is the movement action group.
type Move uint8

const (
	MoveWait Move = iota
	MoveForward
	numMove
)

// Discrete is the discrete action group.
type Discrete uint8

const (
	DiscreteWait Discrete = iota
	DiscreteEat
	DiscreteBite
	DiscreteReplicate
	numDiscrete
)

// ActionWidth is the brain output width: one score per action across all groups.
const ActionWidth = int(numTurn) + int(numMove) + int(numDiscrete)

// Actions is one choice from each action group.
type Actions struct {
	Turn     Turn
	Move     Move
	Discrete Discrete
}

// DecodeActions splits raw brain scores into the three groups and picks the
// argmax of each. Ties go to the lowest index.
func DecodeActions(scores []float64) Actions {
	if len(scores) != ActionWidth {
		panic(fmt.Sprintf("components: got %d action scores, want %d", len(scores), ActionWidth))
	}
	nt, nm := int(numTurn), int(numMove)
	turn := scores[:nt]
	move := scores[nt : nt+nm]
	discrete := scores[nt+nm:]
	return Actions{
		Turn:     Turn(argmax(turn)),
		Move:     Move(argmax(move)),
		Discrete: Discrete(argmax(discrete)),
	}
}

func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

func (t Turn) String() string {
	switch t {
	case TurnWait:
		return "wait"
	case TurnLeft:
		return "left"
	case TurnRight:
		return "right"
	}
	return fmt.Sprintf("Turn(%d)", uint8(t))
}

func (m Move) String() string {
	switch m {
	case MoveWait:
		return "wait"
	case MoveForward:
		return "forward"
	}
	return fmt.Sprintf("Move(%d)", uint8(m))
}

func (d Discrete) String() string {
	switch d {
	case DiscreteWait:
		return "wait"
	case DiscreteEat:
		return "eat"
	case DiscreteBite:
		return "bite"
	case DiscreteReplicate:
		return "replicate"
	}
	return fmt.Sprintf("Discrete(%d)", uint8(d))
}
