package assistant

import "regexp"

// The hosted service annotates replies with citation markers like
// 【4:0†source】 when file search contributed to the answer. End users never
// want to see them.
var citationPattern = regexp.MustCompile(`【\d+:\d+†[^】]+】`)

// StripCitations removes inline citation markers from a reply.
func StripCitations(reply string) string {
	return citationPattern.ReplaceAllString(reply, "")
}
