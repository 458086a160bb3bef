// Package transport implements the external message envelope (spec.md
// §6), the per-connection registry, and the websocket binding that carries
// it. The core rule engine never imports this package; the match
// orchestrator imports it, while transport itself imports only serialize
// from this module, never the rule engine or match.
package transport

import (
	"encoding/json"
	"errors"

	"github.com/tactics5x5/arena/internal/serialize"
)

// Tag is the message envelope's `type` discriminator.
type Tag string

// Client → Server tags.
const (
	TagJoinMatch Tag = "join_match"
	TagAction    Tag = "action"
	TagPing      Tag = "ping"

	// TagDraftSelect is not part of spec.md §6's minimum tag set (which
	// only commits to the three tags above plus server pushes); the Draft
	// Controller's hidden per-player selections still need some wire path,
	// so this tag carries them using the same envelope shape.
	TagDraftSelect Tag = "draft_select"
)

// Server → Client tags.
const (
	TagMatchJoined      Tag = "match_joined"
	TagStateUpdate      Tag = "state_update"
	TagGameOver         Tag = "game_over"
	TagValidationError  Tag = "validation_error"
	TagYourTurn         Tag = "your_turn"
	TagDeathChoice      Tag = "death_choice"
	TagDraftStart       Tag = "draft_start"
	TagTimeout          Tag = "timeout"
	TagPong             Tag = "pong"
)

// Envelope is the wire shape every message takes: `{type, payload}`. Raw is
// kept as json.RawMessage so a connection's read loop can dispatch on Type
// before committing to a concrete payload shape.
type Envelope struct {
	Type    Tag             `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ErrMalformed corresponds to the "Malformed message" wire error (spec.md
// §7 Protocol errors): the envelope itself failed to decode.
var ErrMalformed = errors.New("Malformed message")

// ErrUnknownType corresponds to "Unknown type".
var ErrUnknownType = errors.New("Unknown type")

// ErrUnknownMatch corresponds to the routing error "Unknown match".
var ErrUnknownMatch = errors.New("Unknown match")

// DecodeEnvelope parses a raw inbound frame into its envelope, returning
// ErrMalformed on any syntactic failure.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return Envelope{}, ErrMalformed
	}
	if e.Type == "" {
		return Envelope{}, ErrMalformed
	}
	return e, nil
}

// Encode wraps tag/payload into an Envelope and marshals it.
func Encode(tag Tag, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: tag, Payload: raw})
}

// --- Client -> Server payloads ---

// JoinMatchPayload is the `join_match` payload.
type JoinMatchPayload struct {
	MatchID  string `json:"matchId"`
	PlayerID string `json:"playerId"`
}

// ActionPayload is the `action` payload; Action mirrors serialize.Action's
// field set for the nested `action` object spec.md §6 describes, plus the
// envelope-level matchId/playerId.
type ActionPayload struct {
	MatchID  string           `json:"matchId"`
	PlayerID string           `json:"playerId"`
	Action   serialize.Action `json:"action"`
}

// DraftSelectPayload carries a player's hidden draft selections. Minions
// and SkillID are optional per message — a player may submit minions and
// skill in separate messages, same as the Draft Controller's
// SelectMinions/SelectSkill split.
type DraftSelectPayload struct {
	MatchID  string   `json:"matchId"`
	PlayerID string   `json:"playerId"`
	Minions  []string `json:"minions,omitempty"`
	SkillID  string   `json:"skillId,omitempty"`
}

// --- Server -> Client payloads ---

// MatchJoinedPayload is the `match_joined` payload.
type MatchJoinedPayload struct {
	MatchID  string             `json:"matchId"`
	PlayerID string             `json:"playerId"`
	State    serialize.GameState `json:"state"`
}

// StateUpdatePayload is the `state_update` payload.
type StateUpdatePayload struct {
	State serialize.GameState `json:"state"`
}

// GameOverPayload is the `game_over` payload. Winner is a pointer without
// omitempty so a draw/no-winner case serializes as JSON null via nil rather
// than an empty string, matching spec.md §6's "string or null".
type GameOverPayload struct {
	Winner *string             `json:"winner"`
	State  serialize.GameState `json:"state"`
}

// ValidationErrorPayload is the `validation_error` payload.
type ValidationErrorPayload struct {
	Message string           `json:"message"`
	Action  serialize.Action `json:"action"`
}

// YourTurnPayload is the `your_turn` payload. SpeedUnitID is a pointer so
// the "nullable" contract round-trips exactly when no SPEED unit is mid
// sequence.
type YourTurnPayload struct {
	PlayerID         string   `json:"playerId"`
	AvailableUnitIDs []string `json:"availableUnitIds"`
	SpeedUnitID      *string  `json:"speedUnitId"`
	ActionStartTime  int64    `json:"actionStartTime"`
	TimeoutMs        int64    `json:"timeoutMs"`
	TimerType        string   `json:"timerType"`
}

// DeathChoicePayload is the `death_choice` payload.
type DeathChoicePayload struct {
	PlayerID        string             `json:"playerId"`
	DeadUnitID      string             `json:"deadUnitId"`
	DeathPosition   serialize.Position `json:"deathPosition"`
	ActionStartTime int64              `json:"actionStartTime"`
	TimeoutMs       int64              `json:"timeoutMs"`
	TimerType       string             `json:"timerType"`
}

// DraftStartPayload is the `draft_start` payload.
type DraftStartPayload struct {
	DraftStartTime int64  `json:"draftStartTime"`
	TimeoutMs      int64  `json:"timeoutMs"`
	TimerType      string `json:"timerType"`
}

// TimeoutPayload is the `timeout` payload. Penalty and AutoAction are
// optional depending on which timer fired.
type TimeoutPayload struct {
	TimerType  string            `json:"timerType"`
	PlayerID   string            `json:"playerId"`
	Penalty    string            `json:"penalty,omitempty"`
	AutoAction *serialize.Action `json:"autoAction,omitempty"`
}
