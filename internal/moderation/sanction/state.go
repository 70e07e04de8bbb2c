// Package sanction models a member's disciplinary standing as a small state
// machine and renders transitions into role changes.
package sanction

import (
	"errors"
	"fmt"
	"slices"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/arbiter/internal/moderation/verdict"
)

// ErrMissingRole is returned when a sanction state has no configured role.
var ErrMissingRole = errors.New("sanction role not configured")

// State is one step of the escalating sanction ladder.
type State int

const (
	// StateNone means the member holds no sanction role.
	StateNone State = iota
	StateWarn1
	StateWarn2
	StateWarn3
	StateBlacklisted
)

// String returns a readable name for logs.
func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateWarn1:
		return "warn1"
	case StateWarn2:
		return "warn2"
	case StateWarn3:
		return "warn3"
	case StateBlacklisted:
		return "blacklisted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Next maps a decision to the state it moves a member into. The second return
// value is false for decisions that do not change roles. Decisions name an
// absolute target, so the result does not depend on the current state.
func Next(tag verdict.DecisionTag) (State, bool) {
	switch tag {
	case verdict.DecisionWarn1:
		return StateWarn1, true
	case verdict.DecisionWarn2:
		return StateWarn2, true
	case verdict.DecisionWarn3:
		return StateWarn3, true
	case verdict.DecisionBlacklist:
		return StateBlacklisted, true
	case verdict.DecisionUnknown, verdict.DecisionNone, verdict.DecisionWait:
		return StateNone, false
	}
	return StateNone, false
}

// RoleSet binds each sanction state to a guild role.
type RoleSet struct {
	Warn1     snowflake.ID
	Warn2     snowflake.ID
	Warn3     snowflake.ID
	Blacklist snowflake.ID
}

// RoleFor returns the role that renders a state.
func (r RoleSet) RoleFor(s State) (snowflake.ID, error) {
	var id snowflake.ID

	switch s {
	case StateWarn1:
		id = r.Warn1
	case StateWarn2:
		id = r.Warn2
	case StateWarn3:
		id = r.Warn3
	case StateBlacklisted:
		id = r.Blacklist
	case StateNone:
		return 0, fmt.Errorf("%w: state %s has no role", ErrMissingRole, s)
	}

	if id == 0 {
		return 0, fmt.Errorf("%w: %s", ErrMissingRole, s)
	}
	return id, nil
}

// IDs returns the configured sanction roles in ladder order.
func (r RoleSet) IDs() []snowflake.ID {
	return []snowflake.ID{r.Warn1, r.Warn2, r.Warn3, r.Blacklist}
}

// Contains reports whether roleID is one of the sanction roles.
func (r RoleSet) Contains(roleID snowflake.ID) bool {
	return roleID != 0 && slices.Contains(r.IDs(), roleID)
}

// StateOf derives the state from a member's roles. Members holding more than one
// sanction role (set by hand outside the bot) resolve to the most severe one.
func (r RoleSet) StateOf(roleIDs []snowflake.ID) State {
	state := StateNone

	for _, id := range roleIDs {
		var s State

		switch {
		case id == 0:
			continue
		case id == r.Blacklist:
			s = StateBlacklisted
		case id == r.Warn3:
			s = StateWarn3
		case id == r.Warn2:
			s = StateWarn2
		case id == r.Warn1:
			s = StateWarn1
		default:
			continue
		}

		if s > state {
			state = s
		}
	}

	return state
}

// Plan is the role mutation that moves a member into a target state.
type Plan struct {
	From   State
	To     State
	Grant  snowflake.ID
	Remove []snowflake.ID
}

// PlanFor computes the roles to revoke and the one to grant. Held sanction roles
// are revoked except the target itself and the bot's own top role, which the bot
// can never manage.
func (r RoleSet) PlanFor(target State, held []snowflake.ID, botTopRole snowflake.ID) (Plan, error) {
	grant, err := r.RoleFor(target)
	if err != nil {
		return Plan{}, err
	}

	remove := make([]snowflake.ID, 0, 4)
	for _, id := range held {
		if !r.Contains(id) || id == grant || id == botTopRole {
			continue
		}
		if !slices.Contains(remove, id) {
			remove = append(remove, id)
		}
	}

	return Plan{
		From:   r.StateOf(held),
		To:     target,
		Grant:  grant,
		Remove: remove,
	}, nil
}
