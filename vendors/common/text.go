// Package common holds the text and SNMP value helpers shared by the vendor
// knowledge packages.
package common

import (
	"regexp"
	"strings"
)

// ansiRegex matches ANSI escape sequences (colors, cursor movement, erase).
// Vendor terminals color-code alarm severities, which would otherwise break
// every column-position parser downstream.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]|\x1b\][^\x07]*\x07`)

// StripANSI removes ANSI escape codes and stray carriage returns from CLI
// output before any parsing is attempted.
func StripANSI(s string) string {
	s = ansiRegex.ReplaceAllString(s, "")
	return strings.ReplaceAll(s, "\r", "")
}

// TableRows splits CLI output into trimmed non-empty lines, skipping header
// separators made of dashes/equals. Most OLT alarm tables share this shape.
func TableRows(output string) []string {
	var rows []string
	for _, line := range strings.Split(StripANSI(output), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.Trim(trimmed, "-=+ ") == "" {
			continue
		}
		rows = append(rows, trimmed)
	}
	return rows
}
