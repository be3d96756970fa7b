package sqlutil

import "strings"

// LikeEscape is appended after a LIKE placeholder filled by ContainsPattern. Both
// sqlite and postgres accept it.
const LikeEscape = `ESCAPE '\'`

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern lowercases s and wraps it for a case-insensitive substring match,
// escaping LIKE wildcards.
func ContainsPattern(s string) string {
	return "%" + likeReplacer.Replace(strings.ToLower(s)) + "%"
}
