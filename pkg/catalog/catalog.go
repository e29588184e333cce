package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"e2eharness/pkg/models"
)

// ModeFilter restricts which modes the catalog derives jobs for.
type ModeFilter int

const (
	AllModes ModeFilter = iota
	DirectOnly
	DockerOnly
)

func (f ModeFilter) modes() []models.Mode {
	switch f {
	case DirectOnly:
		return []models.Mode{models.ModeDirect}
	case DockerOnly:
		return []models.Mode{models.ModeDocker}
	default:
		return []models.Mode{models.ModeDirect, models.ModeDocker}
	}
}

// Discover enumerates the immediate subdirectories of root and derives the
// job matrix. Scenario names are sorted so repeated runs produce identical
// orderings and CI logs diff cleanly. A missing or unreadable root is fatal:
// no jobs can be derived from it. An empty root is a valid zero-job catalog.
//
// filter is a glob matched against the scenario name; empty matches all.
func Discover(root, filter string, mode ModeFilter) ([]models.Job, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read examples root %s: %w", root, err)
	}

	var scenarios []models.Scenario
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		s := models.NewScenario(filepath.Join(root, e.Name()))
		if filter != "" {
			ok, err := filepath.Match(filter, s.Name)
			if err != nil {
				return nil, fmt.Errorf("invalid scenario filter %q: %w", filter, err)
			}
			if !ok {
				continue
			}
		}
		scenarios = append(scenarios, s)
	}

	sort.Slice(scenarios, func(i, j int) bool {
		return scenarios[i].Name < scenarios[j].Name
	})

	var jobs []models.Job
	for _, s := range scenarios {
		for _, m := range mode.modes() {
			jobs = append(jobs, models.Job{Scenario: s, Mode: m})
		}
	}
	return jobs, nil
}
