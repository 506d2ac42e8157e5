package dao

import (
	"context"

	"github.com/a1s/tabula/internal/aws"
	"github.com/a1s/tabula/internal/render"
	"github.com/a1s/tabula/internal/table"
)

// Profile is an AWS shared-config profile row.
type Profile struct {
	Name          string
	Source        string
	Region        string
	RoleARN       string
	SourceProfile string
	StaticKeys    bool
	Session       bool
	Active        bool
}

var profileFields = newFields(
	[]string{"active", "name", "source", "region", "role", "sourceProfile", "keys", "session"},
	field[Profile]{
		title:   "ACTIVE",
		display: func(p Profile) table.Cell { return table.CheckCell(p.Active) },
		key:     func(p Profile) table.Value { return table.Bool(p.Active) },
	},
	field[Profile]{
		title:   "NAME",
		display: func(p Profile) table.Cell { return text(p.Name) },
		key:     func(p Profile) table.Value { return table.String(p.Name) },
	},
	field[Profile]{
		title:   "SOURCE",
		display: func(p Profile) table.Cell { return text(p.Source) },
		key:     func(p Profile) table.Value { return table.String(p.Source) },
	},
	field[Profile]{
		title:   "REGION",
		display: func(p Profile) table.Cell { return text(render.NA(p.Region)) },
		key:     func(p Profile) table.Value { return table.String(p.Region) },
	},
	field[Profile]{
		title:   "ROLE",
		display: func(p Profile) table.Cell { return text(p.RoleARN) },
		key:     func(p Profile) table.Value { return table.String(p.RoleARN) },
	},
	field[Profile]{
		title:   "SOURCE-PROFILE",
		display: func(p Profile) table.Cell { return text(p.SourceProfile) },
		key:     func(p Profile) table.Value { return table.String(p.SourceProfile) },
	},
	field[Profile]{
		title:   "KEYS",
		display: func(p Profile) table.Cell { return table.CheckCell(p.StaticKeys) },
		key:     func(p Profile) table.Value { return table.Bool(p.StaticKeys) },
	},
	field[Profile]{
		title:   "SESSION",
		display: func(p Profile) table.Cell { return table.CheckCell(p.Session) },
		key:     func(p Profile) table.Value { return table.Bool(p.Session) },
	},
)

// ProfileColumns returns the default profile columns.
func ProfileColumns() table.Columns {
	return profileFields.columns()
}

// Display returns the display form of a field.
func (p Profile) Display(field string) (table.Cell, error) {
	return profileFields.display(p, field)
}

// SortKey returns the sort key of a field.
func (p Profile) SortKey(field string) (table.Value, error) {
	return profileFields.sortKey(p, field)
}

// MatchesSearch returns true if any column contains the needle.
func (p Profile) MatchesSearch(needle string) bool {
	return profileFields.matches(p, needle)
}

// ProfileLister discovers shared-config profiles.
type ProfileLister interface {
	Profiles() ([]aws.Profile, error)
}

// Profiles lists the profiles of the shared AWS files.
type Profiles struct {
	discovery ProfileLister
	active    string
}

// NewProfiles returns a new profile source. The active profile is flagged.
func NewProfiles(d ProfileLister, active string) *Profiles {
	return &Profiles{discovery: d, active: active}
}

// List returns all discovered profiles.
func (s *Profiles) List(context.Context) ([]Profile, error) {
	pp, err := s.discovery.Profiles()
	if err != nil {
		return nil, err
	}

	out := make([]Profile, 0, len(pp))
	for _, p := range pp {
		out = append(out, Profile{
			Name:          p.Name,
			Source:        p.Source.String(),
			Region:        p.Region,
			RoleARN:       p.RoleARN,
			SourceProfile: p.SourceProfile,
			StaticKeys:    p.HasAccessKey,
			Session:       p.HasSession,
			Active:        p.Name == s.active,
		})
	}

	return out, nil
}
