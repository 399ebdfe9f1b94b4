// Package scraper fetches and parses Asia League ice hockey report pages.
//
// Two page variants exist for every game: the official game sheet (complete,
// published once the game ends) and the live score page (coarse per-period
// totals, available while the game is in progress). Both are Shift-JIS
// encoded and built from nested position-fragile tables, so every section is
// located by a distinctive content token first and cells are read at small
// constant offsets from that anchor, never by bare global row indices.
package scraper
