// Package sqlutil holds SQL helpers shared by the storage drivers.
package sqlutil

import "strings"

// LikeEscape is the escape character declared in every LIKE clause we build.
const LikeEscape = `\`

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards so s matches literally.
func EscapeLike(s string) string {
	return likeReplacer.Replace(s)
}

// ContainsPattern returns a LIKE pattern matching any value that contains s.
func ContainsPattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}
