// Package addr extracts Bluetooth hardware addresses from free-form module
// replies such as "+ADDR:1234:56:ABCDEF" or "+INQ:1234:56:ABCDEF,...".
package addr

import (
	"fmt"
	"regexp"
	"strings"
)

// Modules report addresses as a 4/2/6 hex-digit triple, colon-delimited in
// query replies but comma-delimited when used as a command argument
// (AT+BIND=1234,56,ABCDEF).
var addrPattern = regexp.MustCompile(`(?i)([0-9A-F]{4}):([0-9A-F]{2}):([0-9A-F]{6})`)

// Address is one hardware address in both textual encodings.
type Address struct {
	// Colon is the display form, e.g. "1234:56:ABCDEF".
	Colon string

	// Comma is the command-argument form, e.g. "1234,56,ABCDEF".
	Comma string
}

// Parse scans text for the first hardware address, matching across lines
// and regardless of case. The second return is false when no address is
// present.
func Parse(text string) (Address, bool) {
	m := addrPattern.FindStringSubmatch(text)
	if m == nil {
		return Address{}, false
	}
	a, b, c := strings.ToUpper(m[1]), strings.ToUpper(m[2]), strings.ToUpper(m[3])
	return Address{
		Colon: fmt.Sprintf("%s:%s:%s", a, b, c),
		Comma: fmt.Sprintf("%s,%s,%s", a, b, c),
	}, true
}

// ParseAll returns every address found in text, one per match, in order of
// appearance. Used for inquiry scans where each result line carries one
// address.
func ParseAll(text string) []Address {
	var out []Address
	for _, line := range strings.Split(text, "\n") {
		if a, ok := Parse(line); ok {
			out = append(out, a)
		}
	}
	return out
}
