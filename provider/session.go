package provider

import (
	"strings"

	"github.com/teranos/paddock/errors"
)

// SessionKind identifies one timed session of an event weekend.
type SessionKind int

const (
	Race SessionKind = iota
	Qualifying
	Practice1
	Practice2
	Practice3
)

// PracticeKinds lists the practice sessions in weekend order.
var PracticeKinds = []SessionKind{Practice1, Practice2, Practice3}

var sessionInfo = map[SessionKind]struct {
	label string
	name  string
}{
	Race:       {"R", "Race"},
	Qualifying: {"Q", "Qualifying"},
	Practice1:  {"FP1", "Practice 1"},
	Practice2:  {"FP2", "Practice 2"},
	Practice3:  {"FP3", "Practice 3"},
}

// Label is the short identifier (R, Q, FP1..FP3) stamped into practice rows.
func (k SessionKind) Label() string {
	if info, ok := sessionInfo[k]; ok {
		return info.label
	}
	return "unknown"
}

// Name is the full session name as published on the timing screens.
func (k SessionKind) Name() string {
	if info, ok := sessionInfo[k]; ok {
		return info.name
	}
	return "Unknown"
}

func (k SessionKind) String() string {
	return k.Label()
}

// IsPractice reports whether k is one of the free practice sessions.
func (k SessionKind) IsPractice() bool {
	return k == Practice1 || k == Practice2 || k == Practice3
}

// DefaultDetail is the sub-resource selection each session kind needs: the race
// needs laps and weather, qualifying needs neither, practice needs laps only.
func (k SessionKind) DefaultDetail() Detail {
	switch {
	case k == Race:
		return Detail{Laps: true, Weather: true}
	case k.IsPractice():
		return Detail{Laps: true}
	default:
		return Detail{}
	}
}

// ParseSessionKind accepts a label (FP2) or a full name (Practice 2), case-insensitively.
func ParseSessionKind(s string) (SessionKind, error) {
	for k, info := range sessionInfo {
		if strings.EqualFold(s, info.label) || strings.EqualFold(s, info.name) {
			return k, nil
		}
	}
	return 0, errors.Newf("unknown session kind %q", s)
}
