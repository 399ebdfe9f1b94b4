// Package report defines the typed game report model extracted from Asia
// League ice hockey report pages, along with the derivation rules and the
// reconciliation policy that decides which extraction pass is authoritative.
//
// A GameReport is rebuilt in full on every extraction pass and stored with a
// full-replace upsert keyed by game number. Two producers write the same
// logical record: a frequent live-score pass (coarse running score only) and
// a full game-sheet pass (complete report, published once the sheet is out).
// The policy in reconcile.go orders the two by completeness so a stale live
// pass can never overwrite an already-recorded full report.
package report
