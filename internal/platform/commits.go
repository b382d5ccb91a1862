package platform

import (
	"fmt"
	"strings"

	"github.com/aretw0/metavault/pkg/core"
)

// CommitType constants for semantic commits
const (
	CommitTypeFeat     = "feat"
	CommitTypeFix      = "fix"
	CommitTypeDocs     = "docs"
	CommitTypeRefactor = "refactor"
	CommitTypeChore    = "chore"
)

const footer = "Powered-by: Metavault"

// FormatChangeReason builds a Conventional Commit message:
//
//	<type>(<scope>): <subject>
//
//	<body>
//
//	Powered-by: Metavault
func FormatChangeReason(ctype, scope, subject, body string) string {
	var sb strings.Builder

	if ctype == "" {
		ctype = CommitTypeChore
	}
	sb.WriteString(ctype)

	if scope != "" {
		sb.WriteString("(")
		sb.WriteString(scope)
		sb.WriteString(")")
	}

	sb.WriteString(": ")
	sb.WriteString(subject)

	if body = strings.TrimSpace(body); body != "" {
		sb.WriteString("\n\n")
		sb.WriteString(body)
	}

	sb.WriteString("\n\n")
	sb.WriteString(footer)

	return sb.String()
}

// AppendFooter appends the footer to a free-form message if not present.
func AppendFooter(msg string) string {
	if strings.Contains(msg, footer) {
		return msg
	}
	msg = strings.TrimRight(msg, "\n")
	return msg + "\n\n" + footer
}

// CommitTypeFor maps a changelog entry type to a commit type.
func CommitTypeFor(t core.ChangeType) string {
	switch t {
	case core.ChangeAdded:
		return CommitTypeFeat
	case core.ChangeFixed:
		return CommitTypeFix
	case core.ChangeChanged, core.ChangeRemoved:
		return CommitTypeRefactor
	default:
		return CommitTypeChore
	}
}

// ChangelogReason formats the commit message for the latest changelog entry
// of a context version, scoped "{context}@{version}". Without an entry the
// message falls back to a chore.
func ChangelogReason(contextName, version string, entries []core.ChangelogEntry) string {
	scope := fmt.Sprintf("%s@%s", contextName, version)
	if len(entries) == 0 {
		return FormatChangeReason(CommitTypeChore, scope, "publish schema repository", "")
	}

	latest := entries[0]
	var body strings.Builder
	for _, e := range entries[1:] {
		fmt.Fprintf(&body, "- %s: %s\n", e.Type, e.Description)
	}
	return FormatChangeReason(CommitTypeFor(latest.Type), scope, latest.Description, body.String())
}
