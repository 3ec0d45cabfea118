package app

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ryz3006/alignzo/bulk"
)

func TestTimeLayout(t *testing.T) {
	at := time.Date(2026, time.August, 3, 14, 5, 0, 0, time.UTC)

	if got := at.Format(timeLayout(false)); got != "Aug 03, 2026 02:05 PM" {
		t.Errorf("unexpected 12-hour rendering: %s", got)
	}

	if got := at.Format(timeLayout(true)); got != "Aug 03, 2026 14:05" {
		t.Errorf("unexpected 24-hour rendering: %s", got)
	}
}

func TestPrintBulkResultSummary(t *testing.T) {
	var buf bytes.Buffer

	printBulkResult(&buf, "converted", bulk.Result{
		Succeeded: []string{"a"},
		Failed:    []bulk.Failure{{ID: "b"}},
	})

	if !strings.Contains(buf.String(), "1 of 2 item(s) converted") {
		t.Errorf("unexpected bulk summary:\n%s", buf.String())
	}
}
