// Package patch applies ordered, guarded regular-expression rewrites to
// seat pages that were generated before a script change.
//
// A Set is a named list of Rules. Each Rule either substitutes a template
// (with ${1}-style group references) or a literal string. A Rule can carry
// a guard string: when the page already contains it the rule is skipped,
// which is what makes every set safe to run twice. Guards are checked
// against the page as it was before the set started, so rules that share a
// guard behave as one unit.
//
// Two sets ship with hotseat: DurationSet switches the session duration
// display to HH:MM:SS, and DataSourceSet moves a page onto the
// Firestore, then MQTT, then demo-data fallback chain.
package patch
