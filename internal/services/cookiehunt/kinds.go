package cookiehunt

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Target selects who receives a claimed cookie's points.
type Target string

const (
	// TargetClaimer awards the user who claimed the cookie.
	TargetClaimer Target = "claimer"
	// TargetLeader awards the current leaderboard leader.
	TargetLeader Target = "leader"
)

// Kind describes one cookie type that can drop.
type Kind struct {
	Name     string  `json:"name"`
	Weight   float64 `json:"weight"`
	Modifier int     `json:"modifier"`
	Target   Target  `json:"target"`
}

// LoadKinds reads cookie kinds from a JSON content file.
func LoadKinds(path string) ([]Kind, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cookie kinds: %w", err)
	}
	var kinds []Kind
	if err := json.Unmarshal(data, &kinds); err != nil {
		return nil, fmt.Errorf("parse cookie kinds: %w", err)
	}
	if len(kinds) == 0 {
		return nil, fmt.Errorf("cookie kinds file %s is empty", path)
	}
	for i, kind := range kinds {
		if strings.TrimSpace(kind.Name) == "" {
			return nil, fmt.Errorf("cookie kind %d has no name", i)
		}
		if kind.Weight <= 0 {
			return nil, fmt.Errorf("cookie kind %q has non-positive weight", kind.Name)
		}
		switch kind.Target {
		case TargetClaimer, TargetLeader:
		default:
			return nil, fmt.Errorf("cookie kind %q has unknown target %q", kind.Name, kind.Target)
		}
	}
	return kinds, nil
}
