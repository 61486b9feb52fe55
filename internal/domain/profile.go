package domain

import (
	"errors"
	"fmt"
)

// Profile is a named threshold preset, usually the published operating
// limits of a reference drone.
type Profile struct {
	Name       string     `json:"name" yaml:"name"`
	Label      string     `json:"label" yaml:"label"`
	Thresholds Thresholds `json:"thresholds" yaml:"thresholds"`
}

// DefaultProfiles are the built-in presets. A precipitation limit of 0 means
// any measurable rain on a day exceeds it.
var DefaultProfiles = []Profile{
	{
		Name:       "dji-mini-4-pro",
		Label:      "DJI Mini 4 Pro",
		Thresholds: Thresholds{Temperature: 40, Precipitation: 0, Wind: 10.7},
	},
	{
		Name:       "dji-mavic-3",
		Label:      "DJI Mavic 3",
		Thresholds: Thresholds{Temperature: 40, Precipitation: 0, Wind: 12},
	},
	{
		Name:       "dji-matrice-350",
		Label:      "DJI Matrice 350 RTK",
		Thresholds: Thresholds{Temperature: 50, Precipitation: 10, Wind: 12},
	},
}

// ProfileTable is an ordered, immutable set of profiles.
type ProfileTable struct {
	profiles []Profile
	byName   map[string]int
}

// NewProfileTable validates and indexes profiles. Names must be non-empty,
// unique and distinct from CustomProfile.
func NewProfileTable(profiles []Profile) (*ProfileTable, error) {
	if len(profiles) == 0 {
		return nil, errors.New("profile table is empty")
	}
	t := &ProfileTable{
		profiles: make([]Profile, len(profiles)),
		byName:   make(map[string]int, len(profiles)),
	}
	copy(t.profiles, profiles)

	for i, p := range t.profiles {
		switch {
		case p.Name == "":
			return nil, fmt.Errorf("profile %d has no name", i)
		case p.Name == CustomProfile:
			return nil, fmt.Errorf("profile name %q is reserved", CustomProfile)
		}
		if _, dup := t.byName[p.Name]; dup {
			return nil, fmt.Errorf("duplicate profile %q", p.Name)
		}
		if err := p.Thresholds.Validate(); err != nil {
			return nil, fmt.Errorf("profile %q: %w", p.Name, err)
		}
		if p.Label == "" {
			t.profiles[i].Label = p.Name
		}
		t.byName[p.Name] = i
	}
	return t, nil
}

// Lookup returns the named profile.
func (t *ProfileTable) Lookup(name string) (Profile, error) {
	i, ok := t.byName[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return t.profiles[i], nil
}

// All returns a copy of the profiles in table order.
func (t *ProfileTable) All() []Profile {
	out := make([]Profile, len(t.profiles))
	copy(out, t.profiles)
	return out
}

// Resolve returns the thresholds a selection starts from: the profile's
// thresholds, or custom unchanged when name is CustomProfile.
func (t *ProfileTable) Resolve(name string, custom Thresholds) (Thresholds, error) {
	if name == CustomProfile {
		return custom, nil
	}
	p, err := t.Lookup(name)
	if err != nil {
		return Thresholds{}, err
	}
	return p.Thresholds, nil
}
