package verdict

// DecisionTag is the machine-actionable verdict recovered from a model reply.
//
//go:generate go tool enumer -type=DecisionTag -linecomment
type DecisionTag int

const (
	// DecisionUnknown marks a marker whose token is not a known tag.
	DecisionUnknown DecisionTag = iota // UNKNOWN
	// DecisionNone means the complaint was handled without a sanction.
	DecisionNone // NONE
	// DecisionWait means the model asked for more evidence.
	DecisionWait // WAIT
	// DecisionWarn1 grants the first warning role.
	DecisionWarn1 // WARN_1
	// DecisionWarn2 grants the second warning role.
	DecisionWarn2 // WARN_2
	// DecisionWarn3 grants the third warning role.
	DecisionWarn3 // WARN_3
	// DecisionBlacklist grants the blacklist role.
	DecisionBlacklist // BLACKLIST
)

// IsSanction reports whether the tag asks for a role change.
func (i DecisionTag) IsSanction() bool {
	switch i {
	case DecisionWarn1, DecisionWarn2, DecisionWarn3, DecisionBlacklist:
		return true
	case DecisionUnknown, DecisionNone, DecisionWait:
		return false
	}
	return false
}
