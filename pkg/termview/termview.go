// Package termview shows controller output on a terminal.
package termview

import (
	"fmt"
	"io"
	"strings"

	"github.com/papercomputeco/similicana/pkg/card"
	"github.com/papercomputeco/similicana/pkg/cliui"
	"github.com/papercomputeco/similicana/pkg/progress"
	"github.com/papercomputeco/similicana/pkg/render"
	"github.com/papercomputeco/similicana/pkg/weights"
)

// View writes results to out and alerts, spinners and progress to errOut,
// so results can be piped. It implements every session view interface.
type View struct {
	out    io.Writer
	errOut io.Writer

	markdown bool
	width    int

	spinner     *cliui.Spinner
	interactive bool
	bar         *cliui.ProgressBar
}

// Option configures a View.
type Option func(*View)

// WithMarkdown renders results as markdown through glamour instead of
// boxed text.
func WithMarkdown(markdown bool) Option {
	return func(v *View) {
		v.markdown = markdown
	}
}

// WithWidth overrides the width taken from the terminal behind out.
func WithWidth(width int) Option {
	return func(v *View) {
		if width > 0 {
			v.width = width
		}
	}
}

// New returns a View writing to out and errOut.
func New(out, errOut io.Writer, opts ...Option) *View {
	v := &View{
		out:         out,
		errOut:      errOut,
		width:       cliui.Width(out),
		spinner:     cliui.NewSpinner(errOut, "Fetching results"),
		interactive: cliui.IsTerminal(errOut),
		bar:         cliui.NewProgressBar(errOut),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *View) Alert(message string) {
	fmt.Fprintf(v.errOut, "  %s %s\n", cliui.FailMark, message)
}

// SetLoading animates a spinner on terminals and does nothing elsewhere.
func (v *View) SetLoading(loading bool) {
	if !v.interactive {
		return
	}
	if loading {
		v.spinner.Start()
		return
	}
	v.spinner.Clear()
}

func (v *View) ShowProgress(u progress.Update) {
	v.bar.Update(u.Percent(), u.Label())
}

func (v *View) HideProgress() {
	v.bar.Clear()
}

func (v *View) ShowResults(r render.ResultView) {
	if v.markdown {
		v.writeMarkdown(render.Markdown(r))
		return
	}
	fmt.Fprint(v.out, render.Text(r, v.width))
}

func (v *View) ShowBatch(b render.BatchView) {
	if v.markdown {
		v.writeMarkdown(render.BatchMarkdown(b))
		return
	}
	fmt.Fprint(v.out, render.BatchText(b, v.width))
}

func (v *View) ShowDeck(d render.DeckView) {
	fmt.Fprint(v.out, render.DeckText(d))
}

// ShowWeights prints one row per factor with the total and whether the
// vector can be applied.
func (v *View) ShowWeights(state weights.State) {
	fmt.Fprint(v.out, WeightsText(state))
}

func (v *View) writeMarkdown(md string) {
	out, err := cliui.RenderMarkdown(md, v.width)
	if err != nil {
		fmt.Fprintf(v.errOut, "  %s %s\n", cliui.WarnStyle.Render("!"), "markdown rendering failed, printing source")
	}
	fmt.Fprint(v.out, out)
}

// WeightsText formats a weights panel state.
func WeightsText(state weights.State) string {
	var b strings.Builder
	for _, f := range card.Factors {
		fmt.Fprintf(&b, "  %s %s\n",
			cliui.KeyStyle.Render(fmt.Sprintf("%-12s", f.Label())),
			cliui.ValueStyle.Render(fmt.Sprintf("%.2f", float64(state.Sliders[f])/weights.SliderMax)),
		)
	}

	total := fmt.Sprintf("%.2f", state.Total)
	if state.Valid {
		fmt.Fprintf(&b, "  %s %s %s\n", cliui.KeyStyle.Render(fmt.Sprintf("%-12s", "Total")), total, cliui.SuccessMark)
	} else {
		fmt.Fprintf(&b, "  %s %s %s %s\n", cliui.KeyStyle.Render(fmt.Sprintf("%-12s", "Total")), total, cliui.FailMark,
			cliui.DimStyle.Render("(must sum to 1.00)"))
	}
	return b.String()
}
