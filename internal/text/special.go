// Package text implements the clipboard "special format" export.
package text

import (
	"fmt"

	"github.com/gavelworks/clerkpipe/internal/models"
)

// SpecialFormat renders a history entry as the pipe-delimited clipboard
// string: "{time} | {techStatement} | {member-no:N;Mic: or empty} |{link}".
// The member-number field is populated only when the path recorded one; the
// trailing link is appended bare after the final pipe.
func SpecialFormat(entry models.HistoryEntry) string {
	memberField := ""
	if no := pathMemberNo(entry.Path); no != "" {
		memberField = fmt.Sprintf("member-no:%s;Mic:", no)
	}
	return fmt.Sprintf("%s | %s | %s |%s", TechClock(entry.Time), entry.Text, memberField, entry.Link)
}

// pathMemberNo finds the first member number recorded anywhere on a path.
func pathMemberNo(p models.Path) string {
	for i := range p {
		if p[i].MemberNo != "" {
			return p[i].MemberNo
		}
		if p[i].Details != nil && p[i].Details.MemberNo != "" {
			return p[i].Details.MemberNo
		}
	}
	return ""
}
