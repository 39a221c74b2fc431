package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
)

// Winner is the outcome of a game session.
type Winner uint8

const (
	WinnerNone Winner = iota
	WinnerDraw
	WinnerHost
	WinnerChallenger
)

var ErrUnknownWinner = errors.New("unknown winner")

var winnerNames = map[Winner]string{
	WinnerNone:       "none",
	WinnerDraw:       "draw",
	WinnerHost:       "host",
	WinnerChallenger: "challenger",
}

func (that Winner) String() string {
	if name, ok := winnerNames[that]; ok {
		return name
	}

	return fmt.Sprintf("winner(%d)", uint8(that))
}

func (that Winner) MarshalJSON() ([]byte, error) {
	name, ok := winnerNames[that]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWinner, uint8(that))
	}

	return json.Marshal(name)
}

func (that *Winner) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("winner must be a string: %w", err)
	}

	for winner, winnerName := range winnerNames {
		if winnerName == name {
			*that = winner
			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrUnknownWinner, name)
}

// GameKey identifies a session: the challenger under the host's namespace.
type GameKey struct {
	Host       string
	Challenger string
}

// String joins the escaped parts with ':'. Escaping keeps the separator and
// glob characters out of each part, so distinct pairs never share a string.
func (that GameKey) String() string {
	return EscapeKeyPart(that.Host) + ":" + EscapeKeyPart(that.Challenger)
}

// EscapeKeyPart escapes every byte outside [A-Za-z0-9-_.~].
func EscapeKeyPart(part string) string {
	return url.QueryEscape(part)
}

type Game struct {
	Challenger string `json:"challenger"`
	Host       string `json:"host"`
	Turn       string `json:"turn"`
	Winner     Winner `json:"winner"`
	Board      Board  `json:"board"`
}

func NewGame(challenger, host string) *Game {
	return &Game{
		Challenger: challenger,
		Host:       host,
		Turn:       host,
		Winner:     WinnerNone,
	}
}

func (that *Game) Key() GameKey {
	return GameKey{Host: that.Host, Challenger: that.Challenger}
}

// IsFinished reports whether the game no longer accepts moves.
func (that *Game) IsFinished() bool {
	return that.Winner != WinnerNone
}

func (that *Game) IsPlayer(identity string) bool {
	return identity == that.Host || identity == that.Challenger
}

// MarkOf returns the cell value the given player places.
func (that *Game) MarkOf(identity string) Cell {
	if identity == that.Host {
		return HostMark
	}

	return ChallengerMark
}

// Opponent returns the other player of the session.
func (that *Game) Opponent(identity string) string {
	if identity == that.Host {
		return that.Challenger
	}

	return that.Host
}

// Reset clears the board and hands the first move back to the host.
func (that *Game) Reset() {
	that.Board.Reset()
	that.Turn = that.Host
	that.Winner = WinnerNone
}
