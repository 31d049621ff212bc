// Package estimate sizes the Firestore footprint of the seat dashboards.
//
// The live dashboards keep one document per seat holding the current
// session, a capped session history and one daily count per day. Calculate
// projects that footprint for the current retention and for a trimmed
// retention, over several years, against the free tier quota.
package estimate
