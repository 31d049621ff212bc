package seatpage

import (
	"strconv"
	"strings"
)

// SeatPlaceholder is replaced with the seat number in Rule.New.
const SeatPlaceholder = "{seat}"

// Rule is one literal replacement applied to the template.
type Rule struct {
	// Old is the exact text to replace.
	Old string
	// New is the replacement; SeatPlaceholder expands to the seat number.
	New string
}

// templateRules are the replacements in the order they are applied.
var templateRules = []Rule{
	{Old: "Seat 1", New: "Seat {seat}"},
	{Old: "seat1", New: "seat{seat}"},
	{Old: "seat1-dashboard-", New: "seat{seat}-dashboard-"},
	{Old: "seat1-count", New: "seat{seat}-count"},
	{Old: "seat1-duration", New: "seat{seat}-duration"},
	{Old: "seat1-resistance", New: "seat{seat}-resistance"},
	{Old: "person-donut-chart", New: "person-donut-chart-{seat}"},
	{Old: "seat1-start", New: "seat{seat}-start"},
	{Old: "seat1-end", New: "seat{seat}-end"},
	{Old: "seat1-session-duration", New: "seat{seat}-session-duration"},
	{Old: "seat1-last-update", New: "seat{seat}-last-update"},
	{Old: "if (seatId === '1')", New: "if (seatId === '{seat}')"},
	{Old: "if (seatId === 1)", New: "if (seatId === {seat})"},
}

// Rules returns the replacements for seat with the placeholder expanded.
//
// Once the second rule has run the later seat1-* rules can no longer match;
// the list still names every seat-specific id the dashboard uses.
func Rules(seat int) []Rule {
	n := strconv.Itoa(seat)
	rules := make([]Rule, len(templateRules))
	for i, r := range templateRules {
		rules[i] = Rule{Old: r.Old, New: strings.ReplaceAll(r.New, SeatPlaceholder, n)}
	}
	return rules
}

// Render applies Rules(seat) to template in order.
func Render(template string, seat int) string {
	out := template
	for _, r := range Rules(seat) {
		out = strings.ReplaceAll(out, r.Old, r.New)
	}
	return out
}
