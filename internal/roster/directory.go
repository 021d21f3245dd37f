// Package roster provides the committee directory consulted by the option resolver.
package roster

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "embed"

	"gopkg.in/yaml.v3"
)

// Committee describes one committee and its member roster.
type Committee struct {
	Name    string   `json:"name" yaml:"name"`
	Chamber string   `json:"chamber" yaml:"chamber"`
	Members []string `json:"members" yaml:"members"`
}

// committeeConfig is the on-disk shape of the committee directory file.
type committeeConfig struct {
	Committees    []Committee `json:"committees" yaml:"committees"`
	FemaleMembers []string    `json:"femaleMembers" yaml:"femaleMembers"`
}

//go:embed default_committees.json
var defaultCommittees []byte

// Directory serves committee rosters, chamber lookups, and member-number
// lookups to the option resolver and the text constructors.
type Directory struct {
	committees []Committee
	members    []Member
	female     map[string]bool
}

// NewDirectory builds a directory from committee data, an optional parsed
// roster feed, and the known female member surnames.
func NewDirectory(committees []Committee, members []Member, femaleMembers []string) *Directory {
	female := make(map[string]bool, len(femaleMembers))
	for _, name := range femaleMembers {
		female[strings.ToLower(strings.TrimSpace(name))] = true
	}
	return &Directory{committees: committees, members: members, female: female}
}

// LoadDirectoryFile reads a committee directory file (JSON or YAML) and joins
// it with the given roster feed members.
func LoadDirectoryFile(path string, members []Member) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("Failed to read committee directory", "error", err, "path", path)
		return nil, fmt.Errorf("failed to read committee directory %s: %w", path, err)
	}
	var cfg committeeConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		slog.Error("Failed to parse committee directory", "error", err, "path", path)
		return nil, fmt.Errorf("committee directory %s: %w", path, err)
	}
	slog.Info("Committee directory loaded", "path", path, "committees", len(cfg.Committees))
	return NewDirectory(cfg.Committees, members, cfg.FemaleMembers), nil
}

// DefaultDirectory builds a directory from the embedded committee data.
func DefaultDirectory(members []Member) *Directory {
	var cfg committeeConfig
	if err := json.Unmarshal(defaultCommittees, &cfg); err != nil {
		panic(fmt.Sprintf("embedded committee directory is invalid: %v", err))
	}
	return NewDirectory(cfg.Committees, members, cfg.FemaleMembers)
}

// CommitteeMembers returns the roster of the named committee, in declared order.
func (d *Directory) CommitteeMembers(committee string) []string {
	for _, c := range d.committees {
		if strings.EqualFold(c.Name, committee) {
			return append([]string(nil), c.Members...)
		}
	}
	return nil
}

// OtherCommittees returns the names of same-chamber committees excluding the
// current one.
func (d *Directory) OtherCommittees(committee string) []string {
	chamber := d.Chamber(committee)
	var out []string
	for _, c := range d.committees {
		if strings.EqualFold(c.Name, committee) {
			continue
		}
		if chamber != "" && !strings.EqualFold(c.Chamber, chamber) {
			continue
		}
		out = append(out, c.Name)
	}
	return out
}

// AllMembers returns the full chamber roster for the chamber of the given
// committee. Feed records win; committee rosters fill in when no feed was
// loaded.
func (d *Directory) AllMembers(committee string) []string {
	chamber := d.Chamber(committee)
	title := chamberTitle(chamber)
	if len(d.members) > 0 {
		var out []string
		for _, m := range d.members {
			if title != "" && m.Title != "" && m.Title != title {
				continue
			}
			if m.FullName != "" {
				out = append(out, m.FullName)
				continue
			}
			out = append(out, strings.TrimSpace(title+" "+m.LastName))
		}
		return out
	}
	seen := make(map[string]bool)
	var out []string
	for _, c := range d.committees {
		if chamber != "" && !strings.EqualFold(c.Chamber, chamber) {
			continue
		}
		for _, m := range c.Members {
			if seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// Chamber returns the chamber ("senate" or "house") of the named committee.
func (d *Directory) Chamber(committee string) string {
	for _, c := range d.committees {
		if strings.EqualFold(c.Name, committee) {
			return strings.ToLower(c.Chamber)
		}
	}
	// Fall back to the committee name itself.
	lower := strings.ToLower(committee)
	switch {
	case strings.Contains(lower, "senate"):
		return "senate"
	case strings.Contains(lower, "house"):
		return "house"
	}
	return ""
}

// DefaultRereferTarget picks the synthetic rereferral committee used when an
// edit re-routes a path through a rereferral it never recorded: the first
// appropriations committee of the same chamber, else the first other committee.
func (d *Directory) DefaultRereferTarget(committee string) string {
	others := d.OtherCommittees(committee)
	for _, name := range others {
		if strings.Contains(strings.ToLower(name), "appropriations") {
			return name
		}
	}
	if len(others) > 0 {
		return others[0]
	}
	return ""
}

// IsFemale reports whether the surname belongs to a known female member.
func (d *Directory) IsFemale(lastName string) bool {
	return d.female[strings.ToLower(strings.TrimSpace(lastName))]
}

// LookupMemberNo finds the member number for a surname and chamber title.
// Multiple candidates sharing surname and title are disambiguated by first
// initial when one is available; if still ambiguous or absent the result is
// empty rather than a guess.
func (d *Directory) LookupMemberNo(lastName, title, firstInitial string) string {
	var candidates []Member
	for _, m := range d.members {
		if !strings.EqualFold(m.LastName, lastName) {
			continue
		}
		if title != "" && m.Title != "" && !strings.EqualFold(m.Title, title) {
			continue
		}
		candidates = append(candidates, m)
	}
	if len(candidates) == 1 {
		return candidates[0].MemberNo
	}
	if len(candidates) > 1 && firstInitial != "" {
		var narrowed []Member
		for _, m := range candidates {
			if m.FirstName != "" && strings.EqualFold(m.FirstName[:1], firstInitial[:1]) {
				narrowed = append(narrowed, m)
			}
		}
		if len(narrowed) == 1 {
			return narrowed[0].MemberNo
		}
	}
	if len(candidates) > 1 {
		slog.Debug("Ambiguous member number lookup", "last_name", lastName, "title", title, "candidates", len(candidates))
	}
	return ""
}

// chamberTitle maps a chamber to its member title.
func chamberTitle(chamber string) string {
	switch strings.ToLower(chamber) {
	case "senate":
		return "Senator"
	case "house":
		return "Representative"
	}
	return ""
}
