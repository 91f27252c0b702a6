package rules

import "sync"

// Built-in rule names, in catalogue order.
const (
	IfIDTruthiness    = "if-id-truthiness"
	AssignmentInIf    = "assignment-in-if"
	LegacyGet         = "legacy-get"
	ScopeIdentity     = "scope-identity"
	RowCount          = "rowcount"
	MissingEncryption = "missing-encryption"
	ConsoleLog        = "console-log"
	IDNumericCoercion = "id-numeric-coercion"
	TodoComment       = "todo-comment"
)

// ScopeIdentitySummary is the fixed notification text of the scope-identity rule.
const ScopeIdentitySummary = "SCOPE_IDENTITY() and @@IDENTITY are not safe under concurrent inserts. Use the OUTPUT clause of the INSERT statement instead."

// catalogue holds the built-in definitions. None of them carries a language
// filter: a document whose language is unknown still gets every rule.
var catalogue = []Def{
	{
		Name:    IfIDTruthiness,
		Pattern: `if ?\(([^=)]*[iI][dD](?!\.)\b) ?[^=<>\r\n]*?\)`,
		Detail:  "An ID of 0 would evaluate to false. Consider: {group1} != null",
		Summary: `ID of 0 would evaluate to false. Consider adding "!= null" for if-statements containing IDs: {joined}`,
	},
	{
		Name:    AssignmentInIf,
		Pattern: `if ?\(\s*([^=()<>!\r\n]*?)\s*=(?!=)\s*([^)\r\n]*?)\s*\)`,
		Detail:  "Should be {group1} == {group2} or {group1} === {group2}",
		Summary: "Assignment inside an if condition, probably meant a comparison: {joined}",
	},
	{
		Name:    LegacyGet,
		Pattern: `(\$|jQuery|\$http|axios)\.get\s*\(`,
		Detail:  "Legacy Internet Explorer caches GET responses. Use {group1}.post instead",
		Summary: "GET requests may be served from the Internet Explorer cache. Consider POST for: {joined}",
	},
	{
		Name:       ScopeIdentity,
		Pattern:    `SCOPE_IDENTITY\s*\(\s*\)|@@IDENTITY\b`,
		IgnoreCase: true,
		Detail:     "Not safe under concurrent inserts. Use OUTPUT INSERTED.<column> on the INSERT",
		Summary:    ScopeIdentitySummary,
	},
	{
		Name:       RowCount,
		Pattern:    `@@ROWCOUNT\b`,
		IgnoreCase: true,
		Detail:     "@@ROWCOUNT can be changed by any later statement. Use IF EXISTS (SELECT ...) instead",
		Summary:    "@@ROWCOUNT is not safe under concurrency. Use an IF EXISTS (SELECT ...) sub-query instead.",
	},
	{
		Name:       MissingEncryption,
		Pattern:    `CREATE\s+PROC(?:EDURE)?\s+([\w.\[\]]+)(?:(?!WITH\s+ENCRYPTION)[\s\S])*?\bAS\s+BEGIN\b`,
		IgnoreCase: true,
		Detail:     "Procedure {group1} is missing WITH ENCRYPTION before AS BEGIN",
		Summary:    "Stored procedures should be created WITH ENCRYPTION: {joined}",
	},
	{
		Name:    ConsoleLog,
		Pattern: `(console\.(?:log|debug|trace|dir|info))\s*\(`,
		Detail:  "Remove {group1} before shipping",
		Summary: "Debug logging left in: {joined}",
	},
	{
		Name:    IDNumericCoercion,
		Pattern: `\b(?:parseInt|parseFloat|Number)\s*\(\s*([\w$.]*[iI][dD])\s*[,)]`,
		Detail:  "{group1} silently becomes 0 when it is an empty string. Check it before converting",
		Summary: "Numeric conversion of IDs that may be empty: {joined}",
	},
	{
		Name:    TodoComment,
		Pattern: `(?://|--)[ \t]*(TODO\b[^\r\n]*)`,
		Detail:  "{group1}",
		Summary: "TODO comments left in: {joined}",
	},
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the built-in rule table. It is built once and shared.
func Default() *Table {
	defaultOnce.Do(func() {
		rs := make([]*Rule, 0, len(catalogue))
		for _, d := range catalogue {
			rs = append(rs, MustNew(d))
		}
		t, err := NewTable(rs...)
		if err != nil {
			panic(err)
		}
		defaultTable = t
	})
	return defaultTable
}

// Defs returns the built-in definitions, for listing and for tests that
// want to compile them with another engine.
func Defs() []Def {
	out := make([]Def, len(catalogue))
	copy(out, catalogue)
	return out
}
