package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/matzehuels/forcelayout/pkg/force"
)

// barRedraws caps how often the bar is redrawn during one run.
const barRedraws = 100

// iterationBar draws simulation progress on a single terminal line.
// Steps arrive sequentially from the engine, so no locking is needed.
type iterationBar struct {
	w     io.Writer
	bar   progress.Model
	label string
	every int
	width int // length of the last line written
}

func newIterationBar(w io.Writer, label string, total int) *iterationBar {
	return &iterationBar{
		w:     w,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		label: label,
		every: max(total/barRedraws, 1),
	}
}

// step implements force.StepFunc.
func (b *iterationBar) step(s force.Step) {
	if s.Iteration%b.every != 0 && s.Iteration != s.Total {
		return
	}
	line := fmt.Sprintf("%s %s %s",
		StyleDim.Render(b.label),
		b.bar.ViewAs(float64(s.Iteration)/float64(s.Total)),
		StyleDim.Render(fmt.Sprintf("%d/%d", s.Iteration, s.Total)))
	fmt.Fprint(b.w, "\r"+line)
	b.width = len(line)
}

// clear erases the bar.
func (b *iterationBar) clear() {
	if b.width == 0 {
		return
	}
	fmt.Fprintf(b.w, "\r%s\r", strings.Repeat(" ", b.width))
	b.width = 0
}
