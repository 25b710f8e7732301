package evaluator

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Kind identifies one of the fixed evaluator specialisations.
type Kind string

const (
	KindRomance    Kind = "romance"
	KindActionHero Kind = "action_hero"
	KindClassic    Kind = "classic"
)

// Role is the data that specialises an evaluator. Every role goes through
// the same dispatch path; only its instructions and tuning differ.
type Role struct {
	Kind         Kind     `yaml:"kind"`
	Name         string   `yaml:"name"`
	Instructions string   `yaml:"instructions"`
	Temperature  *float32 `yaml:"temperature,omitempty"`
	MaxTokens    int      `yaml:"max_tokens,omitempty"`
}

func float32Ptr(v float32) *float32 { return &v }

// DefaultRoles returns the three built-in experts.
func DefaultRoles() []Role {
	return []Role{
		{
			Kind: KindRomance,
			Name: "RomanceExpert",
			Instructions: "You are a romance movie specialist. Analyze the catalog and recommend ONE romance movie suitable for the user's age. " +
				"Focus on romantic themes, love stories, or strong romantic elements. Respond with ONLY the movie ID number.",
			Temperature: float32Ptr(0.4),
			MaxTokens:   4096,
		},
		{
			Kind: KindActionHero,
			Name: "ActionHeroExpert",
			Instructions: "You are an action and superhero movie specialist. Analyze the catalog and recommend ONE action or superhero movie. " +
				"Look for movies with Action category or superhero themes. Respond with ONLY the movie ID number.",
		},
		{
			Kind: KindClassic,
			Name: "ClassicCinemaExpert",
			Instructions: "You are a classic cinema specialist. Analyze the catalog and recommend ONE classic movie (released before 2010) with high ratings. " +
				"Focus on timeless films. Respond with ONLY the movie ID number.",
		},
	}
}

type roleOverride struct {
	Kind         Kind     `yaml:"kind"`
	Name         string   `yaml:"name"`
	Instructions string   `yaml:"instructions"`
	Temperature  *float32 `yaml:"temperature"`
	MaxTokens    *int     `yaml:"max_tokens"`
	Disabled     bool     `yaml:"disabled"`
}

type rolesFile struct {
	Roles []roleOverride `yaml:"roles"`
}

// LoadRoles returns DefaultRoles with the overrides from a YAML file
// applied. An empty path yields the defaults unchanged. Overrides may only
// tune or disable a known kind; they cannot introduce new ones.
func LoadRoles(path string) ([]Role, error) {
	roles := DefaultRoles()
	if path == "" {
		return roles, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roles file: %w", err)
	}
	var f rolesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse roles file: %w", err)
	}
	return applyOverrides(roles, f.Roles)
}

func applyOverrides(roles []Role, overrides []roleOverride) ([]Role, error) {
	index := make(map[Kind]int, len(roles))
	for i, r := range roles {
		index[r.Kind] = i
	}

	disabled := make(map[Kind]bool)
	for _, o := range overrides {
		i, ok := index[o.Kind]
		if !ok {
			return nil, fmt.Errorf("unknown role kind %q", o.Kind)
		}
		if o.Disabled {
			disabled[o.Kind] = true
			continue
		}
		r := &roles[i]
		if o.Name != "" {
			r.Name = o.Name
		}
		if o.Instructions != "" {
			r.Instructions = o.Instructions
		}
		if o.Temperature != nil {
			r.Temperature = o.Temperature
		}
		if o.MaxTokens != nil {
			r.MaxTokens = *o.MaxTokens
		}
	}

	out := roles[:0]
	for _, r := range roles {
		if !disabled[r.Kind] {
			out = append(out, r)
		}
	}
	return out, nil
}
