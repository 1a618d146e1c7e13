package rules

import "github.com/reglet-dev/sst/internal/domain/rights"

// Trigger tokens. Each enables one rule vocabulary and switches its domain
// to default-deny.
const (
	TriggerFilesystem = "ENABLE_FILESYSTEM_SANDBOXING"
	TriggerNetwork    = "ENABLE_NETWORK_SANDBOXING"
)

// Network keywords.
const (
	KeywordIncomingPort = "ALLOW_INCOMING_TCP_PORT"
	KeywordOutgoingPort = "ALLOW_OUTGOING_TCP_PORT"
)

// fsKeyword is one row of the filesystem vocabulary.
type fsKeyword struct {
	canonical string
	kind      ObjectKind
	access    rights.FS
}

var (
	fileRead      = &fsKeyword{"FILE_READ", FileLike, rights.FSRead}
	fileExec      = &fsKeyword{"FILE_EXEC", FileLike, rights.FSReadExec}
	fileWrite     = &fsKeyword{"FILE_WRITE", FileLike, rights.FSReadWrite}
	fileExecWrite = &fsKeyword{"FILE_EXEC_WRITE", FileLike, rights.FSReadExecWrite}
	dirRead       = &fsKeyword{"PATH_BENEATH_READ", Directory, rights.FSRead}
	dirExec       = &fsKeyword{"PATH_BENEATH_EXEC", Directory, rights.FSReadExec}
	dirWrite      = &fsKeyword{"PATH_BENEATH_WRITE", Directory, rights.FSReadWrite}
	dirExecWrite  = &fsKeyword{"PATH_BENEATH_EXEC_WRITE", Directory, rights.FSReadExecWrite}
)

// fsKeywords maps every accepted spelling to its row. Aliases share a row.
var fsKeywords = map[string]*fsKeyword{
	"FILE_READ":               fileRead,
	"FILE_EXEC":               fileExec,
	"FILE_WRITE":              fileWrite,
	"FILE_EXEC_WRITE":         fileExecWrite,
	"FILE_WRITE_EXEC":         fileExecWrite,
	"PATH_BENEATH_READ":       dirRead,
	"PATH_BENEATH_EXEC":       dirExec,
	"PATH_BENEATH_WRITE":      dirWrite,
	"PATH_BENEATH_EXEC_WRITE": dirExecWrite,
	"PATH_BENEATH_WRITE_EXEC": dirExecWrite,
}

// canonicalRows lists each row once, in help-text order.
var canonicalRows = []*fsKeyword{
	fileRead, fileExec, fileWrite, fileExecWrite,
	dirRead, dirExec, dirWrite, dirExecWrite,
}

var netKeywords = map[string]Direction{
	KeywordIncomingPort: Incoming,
	KeywordOutgoingPort: Outgoing,
}

// FilesystemKeywords returns every accepted filesystem keyword, aliases
// included, in help-text order.
func FilesystemKeywords() []string {
	return []string{
		"FILE_READ", "FILE_EXEC", "FILE_WRITE", "FILE_EXEC_WRITE", "FILE_WRITE_EXEC",
		"PATH_BENEATH_READ", "PATH_BENEATH_EXEC", "PATH_BENEATH_WRITE",
		"PATH_BENEATH_EXEC_WRITE", "PATH_BENEATH_WRITE_EXEC",
	}
}

// NetworkKeywords returns every accepted network keyword.
func NetworkKeywords() []string {
	return []string{KeywordIncomingPort, KeywordOutgoingPort}
}

// IsFilesystemKeyword reports whether keyword names a filesystem rule.
func IsFilesystemKeyword(keyword string) bool {
	_, ok := fsKeywords[keyword]
	return ok
}

// Keyword returns the canonical keyword that produces r, or "" when r was
// not built from the keyword vocabulary.
func (r FilesystemRule) Keyword() string {
	for _, row := range canonicalRows {
		if row.kind == r.kind && row.access.Intersect(row.kind.Meaningful()) == r.requested {
			return row.canonical
		}
	}
	return ""
}

// Token renders r back into the command-line vocabulary.
func (r FilesystemRule) Token() string {
	return r.Keyword() + ":" + r.path
}
