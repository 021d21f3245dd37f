package roster

import (
	"strings"
	"testing"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<roster>
  <member>
    <last-name>Smith</last-name>
    <full-name>Senator John Smith</full-name>
    <fields>
      <field key="member-no">417</field>
    </fields>
  </member>
  <member>
    <last-name>Adams</last-name>
    <full-name>Representative Mary Adams</full-name>
    <fields>
      <field key="member-no">108</field>
      <field key="district">12</field>
    </fields>
  </member>
  <member>
    <last-name>Jones</last-name>
    <full-name>Pat Jones</full-name>
    <fields/>
  </member>
  <member>
    <last-name></last-name>
    <full-name>Nameless Record</full-name>
  </member>
</roster>`

func TestParseFeed(t *testing.T) {
	members, err := ParseFeed(strings.NewReader(sampleFeed))
	if err != nil {
		t.Fatalf("ParseFeed failed: %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("expected 3 members (surname-less record skipped), got %d", len(members))
	}

	smith := members[0]
	if smith.LastName != "Smith" || smith.Title != "Senator" || smith.FirstName != "John" {
		t.Errorf("unexpected record %+v", smith)
	}
	if smith.MemberNo != "417" {
		t.Errorf("expected member number 417, got %q", smith.MemberNo)
	}

	adams := members[1]
	if adams.Title != "Representative" || adams.MemberNo != "108" {
		t.Errorf("unexpected record %+v", adams)
	}

	jones := members[2]
	if jones.Title != "" || jones.MemberNo != "" {
		t.Errorf("expected bare record, got %+v", jones)
	}
}

func TestParseFeedRejectsMalformedXML(t *testing.T) {
	if _, err := ParseFeed(strings.NewReader("<roster><member>")); err == nil {
		t.Fatal("expected parse error for truncated document")
	}
}

func TestSplitFullName(t *testing.T) {
	tests := []struct {
		fullName  string
		lastName  string
		wantTitle string
		wantFirst string
	}{
		{"Senator John Smith", "Smith", "Senator", "John"},
		{"Representative Mary Adams", "Adams", "Representative", "Mary"},
		{"Pat Jones", "Jones", "", "Pat"},
		{"", "Smith", "", ""},
	}
	for _, tt := range tests {
		title, first := splitFullName(tt.fullName, tt.lastName)
		if title != tt.wantTitle || first != tt.wantFirst {
			t.Errorf("splitFullName(%q, %q) = %q %q, want %q %q",
				tt.fullName, tt.lastName, title, first, tt.wantTitle, tt.wantFirst)
		}
	}
}
