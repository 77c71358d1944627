// Package scheduler expands a building load over a calendar window. Every
// date resolves to a day schedule through the load's ruleset and every slot
// becomes a dated power entry. Plans can be exported to JSON or CSV.
package scheduler
