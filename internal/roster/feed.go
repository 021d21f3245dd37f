// Package roster parses the member roster feed and serves committee data.
//
// The feed is an XML document of repeated member records. Each record carries
// a surname, an optional title-prefixed full name, and a key/value field list
// containing the chamber's "member-no" key. The feed is parsed once at startup;
// a malformed feed is fatal to initialization.
package roster

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// MemberNoKey is the field key carrying the member number in the feed.
const MemberNoKey = "member-no"

// Member is one parsed roster record.
type Member struct {
	LastName  string
	FirstName string
	FullName  string
	Title     string
	MemberNo  string
}

type feedDocument struct {
	XMLName xml.Name     `xml:"roster"`
	Members []feedMember `xml:"member"`
}

type feedMember struct {
	LastName string      `xml:"last-name"`
	FullName string      `xml:"full-name"`
	Fields   []feedField `xml:"fields>field"`
}

type feedField struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// ParseFeed reads the roster feed from r into member records.
func ParseFeed(r io.Reader) ([]Member, error) {
	var doc feedDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse roster feed: %w", err)
	}
	members := make([]Member, 0, len(doc.Members))
	for _, rec := range doc.Members {
		m := Member{
			LastName: strings.TrimSpace(rec.LastName),
			FullName: strings.TrimSpace(rec.FullName),
		}
		if m.LastName == "" {
			slog.Warn("Roster record missing surname, skipping", "full_name", m.FullName)
			continue
		}
		m.Title, m.FirstName = splitFullName(m.FullName, m.LastName)
		for _, f := range rec.Fields {
			if strings.EqualFold(strings.TrimSpace(f.Key), MemberNoKey) {
				m.MemberNo = strings.TrimSpace(f.Value)
			}
		}
		members = append(members, m)
	}
	slog.Debug("Roster feed parsed", "members", len(members))
	return members, nil
}

// LoadFeedFile parses the roster feed at path.
func LoadFeedFile(path string) ([]Member, error) {
	f, err := os.Open(path)
	if err != nil {
		slog.Error("Failed to open roster feed", "error", err, "path", path)
		return nil, fmt.Errorf("failed to open roster feed %s: %w", path, err)
	}
	defer f.Close()
	members, err := ParseFeed(f)
	if err != nil {
		slog.Error("Failed to parse roster feed", "error", err, "path", path)
		return nil, fmt.Errorf("roster feed %s: %w", path, err)
	}
	slog.Info("Roster feed loaded", "path", path, "members", len(members))
	return members, nil
}

// splitFullName extracts the chamber title and first name from a full-name
// field like "Senator Jane Doe". The surname is stripped from the tail when it
// matches the record's surname.
func splitFullName(fullName, lastName string) (title, firstName string) {
	name := fullName
	for _, t := range []string{"Senator", "Representative"} {
		if strings.HasPrefix(name, t+" ") {
			title = t
			name = strings.TrimSpace(strings.TrimPrefix(name, t+" "))
			break
		}
	}
	if name == "" {
		return title, ""
	}
	parts := strings.Fields(name)
	if len(parts) > 1 && strings.EqualFold(parts[len(parts)-1], lastName) {
		parts = parts[:len(parts)-1]
	}
	if len(parts) > 0 && !strings.EqualFold(parts[0], lastName) {
		firstName = parts[0]
	}
	return title, firstName
}
