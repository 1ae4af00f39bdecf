package textui

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fadedpez/thegame/internal/types"
	"github.com/fadedpez/thegame/pkg/entities"
	"github.com/fadedpez/thegame/pkg/games/thegame"
)

// CommandKind is what a line of input asks for
type CommandKind int

const (
	CommandPlay CommandKind = iota
	CommandEndTurn
	CommandHint
	CommandQuit
)

// Command is a parsed line of input. Action is set for plays and end of turn.
type Command struct {
	Kind   CommandKind
	Action thegame.Action
}

const (
	endTurnToken = "S"
	hintToken    = "H"
	quitToken    = "Q"
)

// playPattern matches C<card>-<stack>, e.g. C42-3
var playPattern = regexp.MustCompile(`^C([0-9]{1,2})-([0-9])$`)

// ParseAction turns one input token into a command. Anything that is not a
// well formed command is a MALFORMED_INPUT error.
func ParseAction(token string) (Command, error) {
	token = strings.ToUpper(strings.TrimSpace(token))

	switch token {
	case endTurnToken:
		return Command{Kind: CommandEndTurn, Action: thegame.EndTurn{}}, nil
	case hintToken:
		return Command{Kind: CommandHint}, nil
	case quitToken:
		return Command{Kind: CommandQuit}, nil
	}

	m := playPattern.FindStringSubmatch(token)
	if m == nil {
		return Command{}, types.NewGameError(types.ErrMalformedInput, fmt.Sprintf("unrecognized input %q", token))
	}

	// both groups are one or two digits, so Atoi cannot fail
	card, _ := strconv.Atoi(m[1])
	stack, _ := strconv.Atoi(m[2])

	play := thegame.PlayCard{Card: entities.Card(card), Stack: thegame.StackID(stack)}
	if err := play.Validate(); err != nil {
		return Command{}, err
	}
	return Command{Kind: CommandPlay, Action: play}, nil
}
