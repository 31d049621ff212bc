package patch

import (
	_ "embed"
	"regexp"
)

var (
	//go:embed blocks/duration.js
	durationBlock string

	//go:embed blocks/datasource.js
	dataSourceBlock string
)

// Rule names as reported in Result.Applied.
const (
	RuleDurationCompute        = "duration-compute"
	RuleDurationDisplay        = "duration-display"
	RuleSessionDurationDisplay = "session-duration-display"
	RuleRemoveDailyUsage       = "remove-daily-usage"
	RuleDataSourceGlobals      = "data-source-globals"
	RuleInitDataSources        = "init-data-sources"
	RuleRemoveLegacyInit       = "remove-legacy-init"
	RuleDataSourceFunctions    = "data-source-functions"
	RuleDataSourceStatus       = "data-source-status"
)

// firestoreInitializationMark is the comment the data source functions are
// inserted in front of.
const firestoreInitializationMark = "// Firestore Initialization"

// DurationSet rewrites the minutes-only session duration into an HH:MM:SS
// string and points both duration displays at it. The element ids keep
// their seat number.
func DurationSet() Set {
	return Set{
		Name:        "durations",
		DerivedOnly: true,
		Rules: []Rule{
			{
				Name:     RuleDurationCompute,
				Pattern:  regexp.MustCompile(`const sessionDurationMinutes = Math\.round\(data\.session_duration_ms / 60000\);`),
				Template: durationBlock,
				Literal:  true,
			},
			{
				Name:     RuleDurationDisplay,
				Pattern:  regexp.MustCompile("document\\.getElementById\\(`(seat\\d+-duration)`\\)\\.textContent = sessionDurationMinutes;"),
				Template: "document.getElementById(`${1}`).textContent = formattedDuration;",
			},
			{
				Name:     RuleSessionDurationDisplay,
				Pattern:  regexp.MustCompile("document\\.getElementById\\(`(seat\\d+-session-duration)`\\)\\.textContent = `\\$\\{sessionDurationMinutes\\} min`;"),
				Template: "document.getElementById(`${1}`).textContent = formattedDuration;",
			},
		},
	}
}

// DataSourceSet moves a page from direct Firestore writes and MQTT-only
// start-up to the LiveDataService chain: Firestore first, then MQTT, then
// demo data.
func DataSourceSet() Set {
	return Set{
		Name: "datasource",
		Rules: []Rule{
			{
				Name:     RuleRemoveDailyUsage,
				Pattern:  regexp.MustCompile(`(?s)// Save to Firestore\s+if \(firestoreEnabled\) \{\s+FirestoreService\.updateDailyUsage\([^)]+\);\s+\}`),
				Template: "// Firestore data is now handled by LiveDataService",
				Literal:  true,
			},
			{
				Name:           RuleDataSourceGlobals,
				Pattern:        regexp.MustCompile(`(let currentDate = new Date\(\)\.toDateString\(\);\s+let firestoreEnabled = false;)`),
				Template:       "${1}\n        let liveDataService = null;\n        let dataSource = 'firestore'; // 'firestore' or 'mqtt' or 'demo'",
				SkipIfContains: "let liveDataService = null;",
			},
			{
				Name:           RuleInitDataSources,
				Pattern:        regexp.MustCompile(`(document\.addEventListener\('DOMContentLoaded', function\(\) \{\s+)`),
				Template:       "${1}            initializeDataSources();\n            ",
				SkipIfContains: "initializeDataSources()",
			},
			{
				Name:           RuleRemoveLegacyInit,
				Pattern:        regexp.MustCompile(`\s+initializeFirestore\(\);\s+initializeMQTT\(\);`),
				Template:       "",
				Literal:        true,
				SkipIfContains: "initializeDataSources()",
			},
			{
				Name:           RuleDataSourceFunctions,
				Pattern:        regexp.MustCompile(regexp.QuoteMeta(firestoreInitializationMark)),
				Template:       dataSourceBlock + firestoreInitializationMark,
				Literal:        true,
				SkipIfContains: "async function initializeDataSources()",
			},
			{
				Name:     RuleDataSourceStatus,
				Pattern:  regexp.MustCompile("statusEl\\.textContent = `MQTT: \\$\\{message\\}`;"),
				Template: "statusEl.textContent = `${dataSource.toUpperCase()}: ${message}`;",
				Literal:  true,
			},
		},
	}
}

// Sets returns the built-in sets by name.
func Sets() map[string]Set {
	return map[string]Set{
		"durations":  DurationSet(),
		"datasource": DataSourceSet(),
	}
}
