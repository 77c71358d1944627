// Package schedule converts normalized day-type load shapes into the value
// set consumed by a building energy model: one interval schedule per day
// type, a ruleset binding them to days of the week and design days, and an
// exterior equipment object sized to the peak load.
package schedule
