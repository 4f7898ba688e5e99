package domain

import "errors"

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrEmptySessionName   = errors.New("session name is empty")
	ErrInvalidSettings    = errors.New("invalid session settings")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrCourtNotFound      = errors.New("court not found")
	ErrEmptyPlayerName    = errors.New("player name is empty")
	ErrInvalidPlayerState = errors.New("invalid player state")
	ErrNotEnoughPlayers   = errors.New("not enough eligible players")
	ErrTeamNotQueued      = errors.New("team is not queued")
	ErrTeamIncomplete     = errors.New("team roster is incomplete")
	ErrNoCourtAvailable   = errors.New("no court available")
	ErrCourtNotInUse      = errors.New("court is not in use")
	ErrInvalidSwap        = errors.New("players not eligible for swap")
)
