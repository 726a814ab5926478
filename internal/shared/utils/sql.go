package utils

import "strings"

// JoinWithAnd builds the WHERE body for the derivative filter query.
// Every filter the API exposes narrows the result set, so clauses only
// ever combine conjunctively.
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}
