package repositories

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching term literally anywhere in
// the column. Callers must add ESCAPE '\' to the clause.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
