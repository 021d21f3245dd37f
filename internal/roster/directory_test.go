package roster

import (
	"os"
	"path/filepath"
	"testing"
)

func testMembers() []Member {
	return []Member{
		{LastName: "Smith", FirstName: "John", FullName: "Senator John Smith", Title: "Senator", MemberNo: "417"},
		{LastName: "Smith", FirstName: "Alice", FullName: "Senator Alice Smith", Title: "Senator", MemberNo: "418"},
		{LastName: "Smith", FirstName: "Carl", FullName: "Representative Carl Smith", Title: "Representative", MemberNo: "210"},
		{LastName: "Adams", FirstName: "Mary", FullName: "Representative Mary Adams", Title: "Representative", MemberNo: "108"},
	}
}

func TestDefaultDirectoryCommittees(t *testing.T) {
	d := DefaultDirectory(nil)

	members := d.CommitteeMembers("Senate Judiciary Committee")
	if len(members) == 0 {
		t.Fatal("expected built-in roster")
	}
	if members[0] != "Jane Larson - Chairman" {
		t.Errorf("expected declared order, got %q first", members[0])
	}

	if got := d.CommitteeMembers("No Such Committee"); got != nil {
		t.Errorf("expected nil roster for unknown committee, got %v", got)
	}
}

func TestOtherCommitteesSameChamber(t *testing.T) {
	d := DefaultDirectory(nil)
	others := d.OtherCommittees("Senate Judiciary Committee")
	if len(others) != 2 {
		t.Fatalf("expected 2 other senate committees, got %v", others)
	}
	for _, name := range others {
		if name == "Senate Judiciary Committee" {
			t.Error("current committee must be excluded")
		}
		if d.Chamber(name) != "senate" {
			t.Errorf("expected senate committee, got %q", name)
		}
	}
}

func TestChamberFallsBackToName(t *testing.T) {
	d := DefaultDirectory(nil)
	if got := d.Chamber("House Agriculture Committee"); got != "house" {
		t.Errorf("Chamber = %q, want house", got)
	}
	if got := d.Chamber("Joint Committee"); got != "" {
		t.Errorf("Chamber = %q, want empty", got)
	}
}

func TestDefaultRereferTargetPrefersAppropriations(t *testing.T) {
	d := DefaultDirectory(nil)
	if got := d.DefaultRereferTarget("Senate Judiciary Committee"); got != "Senate Appropriations Committee" {
		t.Errorf("DefaultRereferTarget = %q", got)
	}
	if got := d.DefaultRereferTarget("House Appropriations Committee"); got != "House Judiciary Committee" {
		t.Errorf("DefaultRereferTarget = %q", got)
	}
}

func TestAllMembersPrefersFeed(t *testing.T) {
	d := DefaultDirectory(testMembers())
	all := d.AllMembers("Senate Judiciary Committee")
	want := []string{"Senator John Smith", "Senator Alice Smith"}
	if len(all) != len(want) {
		t.Fatalf("expected %v, got %v", want, all)
	}
	for i := range want {
		if all[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, all)
		}
	}

	// Without a feed the committee rosters are pooled.
	d = DefaultDirectory(nil)
	all = d.AllMembers("Senate Judiciary Committee")
	if len(all) == 0 {
		t.Fatal("expected pooled committee rosters")
	}
}

func TestLookupMemberNo(t *testing.T) {
	d := NewDirectory(nil, testMembers(), nil)
	tests := []struct {
		name         string
		lastName     string
		title        string
		firstInitial string
		want         string
	}{
		{"unique surname", "Adams", "Representative", "", "108"},
		{"title narrows chamber", "Smith", "Representative", "", "210"},
		{"initial disambiguates", "Smith", "Senator", "J", "417"},
		{"ambiguous without initial", "Smith", "Senator", "", ""},
		{"unknown surname", "Ghost", "Senator", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.LookupMemberNo(tt.lastName, tt.title, tt.firstInitial); got != tt.want {
				t.Errorf("LookupMemberNo = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsFemale(t *testing.T) {
	d := DefaultDirectory(nil)
	if !d.IsFemale("Larson") {
		t.Error("expected Larson in the female list")
	}
	if !d.IsFemale("larson") {
		t.Error("expected case-insensitive lookup")
	}
	if d.IsFemale("Klemin") {
		t.Error("unexpected female result for Klemin")
	}
}

func TestLoadDirectoryFileYAML(t *testing.T) {
	doc := `
committees:
  - name: Senate Test Committee
    chamber: senate
    members:
      - Jane Larson - Chairman
      - Senator Paul Thompson
femaleMembers:
  - Larson
`
	path := filepath.Join(t.TempDir(), "committees.yaml")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	d, err := LoadDirectoryFile(path, nil)
	if err != nil {
		t.Fatalf("LoadDirectoryFile failed: %v", err)
	}
	members := d.CommitteeMembers("Senate Test Committee")
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %v", members)
	}
	if !d.IsFemale("Larson") {
		t.Error("expected female list loaded")
	}
}
