package application

import (
	"fmt"
	"strings"
)

// State is a screen of the application form as far as the machine can tell.
type State int

const (
	Info State = iota
	Upload
	Photo
	Questions1
	Questions2
	Review
	Submitted
	Error
	Suspended
)

// States lists every state in declaration order.
//
//nolint:gochecknoglobals
var States = []State{Info, Upload, Photo, Questions1, Questions2, Review, Submitted, Error, Suspended}

// recoveryTargets are the states a session may be sent back to from Error.
var recoveryTargets = []State{Info, Questions1, Questions2, Review} //nolint:gochecknoglobals

var stateNames = [...]string{ //nolint:gochecknoglobals
	Info:       "Info",
	Upload:     "Upload",
	Photo:      "Photo",
	Questions1: "Questions1",
	Questions2: "Questions2",
	Review:     "Review",
	Submitted:  "Submitted",
	Error:      "Error",
	Suspended:  "Suspended",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}

	return stateNames[s]
}

// ParseState resolves a state name, case-insensitively.
func ParseState(name string) (State, error) {
	for _, s := range States {
		if strings.EqualFold(s.String(), name) {
			return s, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownState, name)
}
