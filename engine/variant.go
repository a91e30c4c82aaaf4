// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/group-verdict/models"
)

// GroupResolution is the resolver's verdict for a single group.
type GroupResolution struct {
	Status   string
	WinnerID *int64

	// EndsGame marks a role-holder victory: the whole game terminates and
	// the rest of the round is never evaluated.
	EndsGame     bool
	GameWinnerID int64
}

// Variant bundles the policy hooks that differ between the game families.
// The resolver itself only detects unanimity; what a unanimous verdict means
// and who survives a terminal group is the variant's call.
type Variant struct {
	Name string

	// FailureStatus is assigned to a group with missing or split votes.
	FailureStatus string

	// Unanimous maps a group's unanimous target to its terminal outcome.
	Unanimous func(g *models.Group, target int64) GroupResolution

	// Advancers returns the members of a terminal group that survive into
	// the next round.
	Advancers func(game *models.Game, g *models.Group) []int64
}

// VariantConfig holds the per-variant game defaults, overridable from a
// YAML file at startup.
type VariantConfig struct {
	GroupSize       int    `yaml:"group_size"`
	VotePolicy      string `yaml:"vote_policy"`
	VerdictPolicy   string `yaml:"verdict_policy"`
	AllowSelfVote   bool   `yaml:"allow_self_vote"`
	FinishThreshold int    `yaml:"finish_threshold"`
}

type variantsFile struct {
	Variants map[string]VariantConfig `yaml:"variants"`
}

// VariantSet is the registry of known variants plus their game defaults.
type VariantSet struct {
	variants map[string]*Variant
	defaults map[string]VariantConfig
}

// DefaultVariants returns the built-in registry: the plain elimination
// variant and the hidden-role variant, with compiled-in defaults.
func DefaultVariants() *VariantSet {
	return &VariantSet{
		variants: map[string]*Variant{
			models.VariantElimination: eliminationVariant(),
			models.VariantHiddenRole:  hiddenRoleVariant(),
		},
		defaults: map[string]VariantConfig{
			models.VariantElimination: {
				GroupSize:       3,
				VotePolicy:      models.VotePolicyImmutable,
				VerdictPolicy:   models.VerdictKeepChosen,
				FinishThreshold: 1,
			},
			models.VariantHiddenRole: {
				GroupSize:       3,
				VotePolicy:      models.VotePolicyMutable,
				VerdictPolicy:   models.VerdictKeepChosen,
				FinishThreshold: 1,
			},
		},
	}
}

// LoadDefaults merges per-variant defaults from a YAML file. A missing file
// is treated as "use compiled-in defaults" to simplify startup.
func (vs *VariantSet) LoadDefaults(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("variants: read %s: %w", path, err)
	}

	var file variantsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("variants: decode %s: %w", path, err)
	}

	for name, cfg := range file.Variants {
		if _, ok := vs.variants[name]; !ok {
			return fmt.Errorf("variants: %s: unknown variant %q", path, name)
		}
		merged := vs.defaults[name]
		if cfg.GroupSize != 0 {
			if cfg.GroupSize < 2 {
				return fmt.Errorf("variants: %s: %s: group_size must be at least 2", path, name)
			}
			merged.GroupSize = cfg.GroupSize
		}
		if cfg.VotePolicy != "" {
			if cfg.VotePolicy != models.VotePolicyImmutable && cfg.VotePolicy != models.VotePolicyMutable {
				return fmt.Errorf("variants: %s: %s: invalid vote_policy %q", path, name, cfg.VotePolicy)
			}
			merged.VotePolicy = cfg.VotePolicy
		}
		if cfg.VerdictPolicy != "" {
			if cfg.VerdictPolicy != models.VerdictKeepChosen && cfg.VerdictPolicy != models.VerdictDropChosen {
				return fmt.Errorf("variants: %s: %s: invalid verdict_policy %q", path, name, cfg.VerdictPolicy)
			}
			merged.VerdictPolicy = cfg.VerdictPolicy
		}
		if cfg.FinishThreshold != 0 {
			if cfg.FinishThreshold < 1 {
				return fmt.Errorf("variants: %s: %s: finish_threshold must be at least 1", path, name)
			}
			merged.FinishThreshold = cfg.FinishThreshold
		}
		merged.AllowSelfVote = cfg.AllowSelfVote
		vs.defaults[name] = merged
	}

	return nil
}

// Get returns the named variant.
func (vs *VariantSet) Get(name string) (*Variant, error) {
	v, ok := vs.variants[name]
	if !ok {
		return nil, validationf("unknown variant %q", name)
	}
	return v, nil
}

// Defaults returns the game defaults for the named variant.
func (vs *VariantSet) Defaults(name string) VariantConfig {
	return vs.defaults[name]
}

// Names returns the registered variant names, sorted.
func (vs *VariantSet) Names() []string {
	names := make([]string, 0, len(vs.variants))
	for name := range vs.variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func eliminationVariant() *Variant {
	return &Variant{
		Name:          models.VariantElimination,
		FailureStatus: models.GroupEliminated,
		Unanimous: func(g *models.Group, target int64) GroupResolution {
			t := target
			return GroupResolution{Status: models.GroupCompleted, WinnerID: &t}
		},
		Advancers: func(game *models.Game, g *models.Group) []int64 {
			if g.Status != models.GroupCompleted || g.WinnerID == nil {
				return nil
			}
			if len(g.Members) == 1 {
				// Remainder groups auto-advance their sole member under
				// either verdict policy.
				return g.Members
			}
			if game.VerdictPolicy == models.VerdictDropChosen {
				return without(g.Members, *g.WinnerID)
			}
			return []int64{*g.WinnerID}
		},
	}
}

func hiddenRoleVariant() *Variant {
	return &Variant{
		Name:          models.VariantHiddenRole,
		FailureStatus: models.GroupEliminated,
		Unanimous: func(g *models.Group, target int64) GroupResolution {
			if g.RoleHolderID != nil && target == *g.RoleHolderID {
				// The group found its role holder; everyone else advances.
				return GroupResolution{Status: models.GroupCompleted}
			}
			// Unanimous but wrong: the role holder wins the whole game.
			var winner int64
			if g.RoleHolderID != nil {
				winner = *g.RoleHolderID
			}
			w := winner
			return GroupResolution{
				Status:       models.GroupRoleHolderWon,
				WinnerID:     &w,
				EndsGame:     true,
				GameWinnerID: winner,
			}
		},
		Advancers: func(game *models.Game, g *models.Group) []int64 {
			if g.Status != models.GroupCompleted {
				return nil
			}
			if g.RoleHolderID == nil {
				// Single-member auto-advance group.
				return g.Members
			}
			return without(g.Members, *g.RoleHolderID)
		},
	}
}

// without returns members minus the excluded id, preserving order.
func without(members []int64, excluded int64) []int64 {
	out := make([]int64, 0, len(members))
	for _, id := range members {
		if id != excluded {
			out = append(out, id)
		}
	}
	return out
}
