package support

import (
	"fmt"
	"strings"
)

// Mode selects how the backend request is built.
type Mode string

const (
	ModeReactive     Mode = "reactive"
	ModeContextAware Mode = "context_aware"
	ModeStrategic    Mode = "strategic"
)

var modeLabels = map[Mode]string{
	ModeReactive:     "Prototype 1 - Automation",
	ModeContextAware: "Prototype 2 - Context Intelligence",
	ModeStrategic:    "Prototype 3 - Business Transformation",
}

func (m Mode) Valid() bool {
	_, ok := modeLabels[m]
	return ok
}

func (m Mode) Label() string { return modeLabels[m] }

// ParseMode accepts mode names, "Prototype N - ..." labels and "1".."3".
func ParseMode(s string) (Mode, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.NewReplacer("-", "_", " ", "_").Replace(v)

	switch v {
	case "reactive", "1", "prototype_1", "prototype_1___automation":
		return ModeReactive, nil
	case "context_aware", "contextaware", "2", "prototype_2", "prototype_2___context_intelligence":
		return ModeContextAware, nil
	case "strategic", "3", "prototype_3", "prototype_3___business_transformation":
		return ModeStrategic, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}
