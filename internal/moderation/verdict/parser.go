package verdict

import (
	"strings"
)

// ActionMarker opens the decision tag the model appends to its reply.
const ActionMarker = "[ACTION:"

// actionTerminator closes the decision tag.
const actionTerminator = "]"

// Verdict is the decision extracted from one model reply.
type Verdict struct {
	Tag       DecisionTag
	Rationale string
	Raw       string
}

// HasSanction reports whether the verdict asks for a role change.
func (v Verdict) HasSanction() bool {
	return v.Tag.IsSanction()
}

// Parse recovers a verdict from free model text. It never fails: a missing or
// malformed marker yields DecisionNone with the whole trimmed reply as rationale,
// and an unrecognised token yields DecisionUnknown.
func Parse(raw string) Verdict {
	fallback := Verdict{
		Tag:       DecisionNone,
		Rationale: strings.TrimSpace(raw),
		Raw:       raw,
	}

	token, rationale, ok := locateMarker(raw)
	if !ok {
		return fallback
	}

	return Verdict{
		Tag:       lookupTag(token),
		Rationale: rationale,
		Raw:       raw,
	}
}

// locateMarker finds the last marker in raw and splits the reply around it.
// The last occurrence wins so a marker quoted inside the rationale is ignored.
func locateMarker(raw string) (token string, rationale string, ok bool) {
	start := strings.LastIndex(raw, ActionMarker)
	if start < 0 {
		return "", "", false
	}

	rest := raw[start+len(ActionMarker):]

	end := strings.Index(rest, actionTerminator)
	if end < 0 {
		return "", "", false
	}

	return strings.TrimSpace(rest[:end]), strings.TrimSpace(raw[:start]), true
}

// lookupTag validates a token against the enum. Matching is exact so a token
// the model mangled never turns into a sanction.
func lookupTag(token string) DecisionTag {
	tag, err := DecisionTagString(token)
	if err != nil || tag.String() != token {
		return DecisionUnknown
	}
	return tag
}
