// Terminal implementation of the agent.Console interface: line-based stdin
// prompts with lipgloss-styled framing and glamour rendering for the longer
// advisor explanations.
package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"adpilot/cmd/adpilot/ui"
)

type terminalConsole struct {
	in       *bufio.Reader
	out      io.Writer
	styles   ui.Styles
	renderer *glamour.TermRenderer
}

func newTerminalConsole(in io.Reader, out io.Writer) *terminalConsole {
	// A nil renderer just means advisor output is printed raw.
	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	return &terminalConsole{
		in:       bufio.NewReader(in),
		out:      out,
		styles:   ui.DefaultStyles(),
		renderer: renderer,
	}
}

// Say prints one assistant message. Separator rules get their own muted
// style; multi-line or markdown-looking messages go through glamour so
// advisor explanations render readably.
func (c *terminalConsole) Say(msg string) {
	if isSeparator(msg) {
		fmt.Fprintln(c.out, c.styles.Separator.Render(msg))
		return
	}
	prefix := c.styles.AIPrefix.Render("\n AI : ")
	if c.renderer != nil && looksLikeMarkdown(msg) {
		if rendered, err := c.renderer.Render(msg); err == nil {
			fmt.Fprint(c.out, prefix+"\n"+rendered)
			return
		}
	}
	fmt.Fprintln(c.out, prefix+msg)
}

// isSeparator reports whether msg is a horizontal rule like the one framing
// the final payload dump.
func isSeparator(msg string) bool {
	if msg == "" {
		return false
	}
	for _, r := range msg {
		if r != '_' {
			return false
		}
	}
	return true
}

// Ask prints a prompt and blocks for one line of input.
func (c *terminalConsole) Ask(prompt string) string {
	fmt.Fprint(c.out, c.styles.UserPrefix.Render("\n USER : ")+prompt+": ")
	line, err := c.in.ReadString('\n')
	if err != nil {
		// EOF or a closed terminal: return what we have, validators handle
		// the empty string.
		return strings.TrimRight(line, "\r\n")
	}
	return strings.TrimRight(line, "\r\n")
}

func looksLikeMarkdown(msg string) bool {
	return strings.Contains(msg, "\n") ||
		strings.Contains(msg, "**") ||
		strings.Contains(msg, "# ") ||
		strings.Contains(msg, "- ")
}
