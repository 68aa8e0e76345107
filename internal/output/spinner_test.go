package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestSpinner_NonTTYPrintsOnce(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner("Extracting app-1.0")
	s.SetWriter(&buf)

	s.Start()
	s.Start() // second Start is a no-op
	s.Stop()
	s.Stop() // second Stop is a no-op

	got := buf.String()
	if strings.Count(got, "Extracting app-1.0...") != 1 {
		t.Errorf("non-TTY spinner output = %q, want the message exactly once", got)
	}
	if strings.Contains(got, "\r") {
		t.Errorf("non-TTY spinner emitted carriage returns: %q", got)
	}
}
