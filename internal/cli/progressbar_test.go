package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/forcelayout/pkg/force"
)

func TestIterationBar(t *testing.T) {
	var buf bytes.Buffer
	bar := newIterationBar(&buf, "layout", 1000)

	for i := 1; i <= 1000; i++ {
		bar.step(force.Step{Iteration: i, Total: 1000})
	}

	if got := strings.Count(buf.String(), "\r"); got != barRedraws {
		t.Errorf("redraws = %d, want %d", got, barRedraws)
	}
	if !strings.Contains(buf.String(), "1000/1000") {
		t.Error("final iteration should be drawn")
	}

	buf.Reset()
	bar.clear()
	if !strings.HasPrefix(buf.String(), "\r") || strings.TrimSpace(buf.String()) != "" {
		t.Errorf("clear() wrote %q", buf.String())
	}

	buf.Reset()
	bar.clear()
	if buf.Len() != 0 {
		t.Error("second clear() should write nothing")
	}
}

func TestIterationBarShortRun(t *testing.T) {
	var buf bytes.Buffer
	bar := newIterationBar(&buf, "layout", 3)

	for i := 1; i <= 3; i++ {
		bar.step(force.Step{Iteration: i, Total: 3})
	}
	if got := strings.Count(buf.String(), "\r"); got != 3 {
		t.Errorf("redraws = %d, want one per iteration", got)
	}
}
