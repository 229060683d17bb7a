package types

import (
	errorsmod "cosmossdk.io/errors"
)

// x/crisis module sentinel errors
var (
	ErrHalted          = errorsmod.Register(ModuleName, 2, "operations halted")
	ErrUnauthorized    = errorsmod.Register(ModuleName, 3, "unauthorized")
	ErrInvariantBroken = errorsmod.Register(ModuleName, 4, "invariant broken")
)

const (
	EventTypeHalted  = "crisis_halted"
	EventTypeResumed = "crisis_resumed"

	AttributeKeyRoute   = "route"
	AttributeKeyReason  = "reason"
	AttributeKeyHeight  = "height"
	AttributeKeyClearer = "cleared_by"
)

// HaltState records why mutating operations were frozen.
type HaltState struct {
	Active            bool   `json:"active"`
	Route             string `json:"route,omitempty"`
	Reason            string `json:"reason,omitempty"`
	TriggeredAtHeight int64  `json:"triggered_at_height,omitempty"`
	TriggeredAtUnix   int64  `json:"triggered_at_unix,omitempty"`
	ClearedBy         string `json:"cleared_by,omitempty"`
	ClearedAtUnix     int64  `json:"cleared_at_unix,omitempty"`
}
