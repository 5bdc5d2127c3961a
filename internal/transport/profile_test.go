package transport

import (
	"bytes"
	"testing"
)

func TestLineEnding_Terminator(t *testing.T) {
	tests := []struct {
		name   string
		ending LineEnding
		want   []byte
	}{
		{name: "crlf", ending: EndingCRLF, want: []byte("\r\n")},
		{name: "none", ending: EndingNone, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.ending.Terminator()
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Terminator() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProfile_String(t *testing.T) {
	p := Profile{Baud: 38400, Ending: EndingCRLF}
	if got := p.String(); got != "38400 baud, line ending crlf" {
		t.Errorf("String() = %q", got)
	}
}
