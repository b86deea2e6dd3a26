package collision

import (
	"fmt"
	"strings"
)

// Level is an alert severity. Levels are ordered, NORMAL lowest.
type Level int

const (
	Normal Level = iota
	Caution
	Warning
	Danger
)

// Levels lists every level from least to most severe.
var Levels = []Level{Normal, Caution, Warning, Danger}

var levelNames = [...]string{"NORMAL", "CAUTION", "WARNING", "DANGER"}

func (l Level) String() string {
	if l < Normal || l > Danger {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// MarshalText encodes the level as its upper-case name.
func (l Level) MarshalText() ([]byte, error) {
	if l < Normal || l > Danger {
		return nil, fmt.Errorf("unknown alert level %d", int(l))
	}
	return []byte(levelNames[l]), nil
}

// UnmarshalText parses a level name, case-insensitively.
func (l *Level) UnmarshalText(b []byte) error {
	v, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// ParseLevel parses a level name.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return Normal, fmt.Errorf("unknown alert level %q", s)
}

// MaxLevel returns the more severe of a and b, preferring a on ties.
func MaxLevel(a, b Level) Level {
	if b > a {
		return b
	}
	return a
}
