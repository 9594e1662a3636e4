// Package cli runs the interactive hehify prompt used for trying out
// settings and inspecting how words are split and scored.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/hehify/pkg/heh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// MaxRepeat bounds how many passes repeat mode applies to one line.
const MaxRepeat = 8

var (
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// InputHandler reads lines, transforms them and prints the result.
// Lines starting with ':' are commands:
//
//	:syllables  toggle the per-word syllable breakdown
//	:repeat     toggle re-applying the transform until the line stops changing
//	:stats      print totals for this session
type InputHandler struct {
	transformer   *heh.Transformer
	in            io.Reader
	out           io.Writer
	showSyllables bool
	repeat        bool
	maxTextLen    int
	totals        heh.Stats
	requestCount  int
}

// NewInputHandler creates a handler reading from in and writing to out.
// A maxTextLen of zero disables the length check.
func NewInputHandler(t *heh.Transformer, in io.Reader, out io.Writer, showSyllables bool, maxTextLen int) *InputHandler {
	return &InputHandler{
		transformer:   t,
		in:            in,
		out:           out,
		showSyllables: showSyllables,
		maxTextLen:    maxTextLen,
	}
}

// SetRepeat enables or disables repeat mode.
func (h *InputHandler) SetRepeat(on bool) { h.repeat = on }

// Start runs the prompt loop until the input ends.
func (h *InputHandler) Start() error {
	fmt.Fprintln(h.out, dimStyle.Render("hehify: type some Russian text and press Enter (Ctrl+D to exit)"))
	scanner := bufio.NewScanner(h.in)
	for {
		fmt.Fprint(h.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(h.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			h.handleCommand(line)
			continue
		}
		h.handleInput(line)
	}
}

func (h *InputHandler) handleCommand(cmd string) {
	switch cmd {
	case ":syllables":
		h.showSyllables = !h.showSyllables
		fmt.Fprintf(h.out, "syllables: %v\n", h.showSyllables)
	case ":repeat":
		h.repeat = !h.repeat
		fmt.Fprintf(h.out, "repeat: %v\n", h.repeat)
	case ":stats":
		fmt.Fprintf(h.out, "lines %d, words %d, changed %d, replaced %d, protected %d\n",
			h.requestCount, h.totals.Words, h.totals.Changed, h.totals.Replaced, h.totals.Protected)
	default:
		log.Warnf("Unknown command: %s", cmd)
	}
}

func (h *InputHandler) handleInput(line string) {
	if h.maxTextLen > 0 && len(line) > h.maxTextLen {
		log.Errorf("Line too long: %d bytes (max %d)", len(line), h.maxTextLen)
		return
	}
	if !heh.ValidText(line) {
		log.Errorf("Line is not valid UTF-8")
		return
	}
	h.requestCount++

	start := time.Now()
	out, st := h.transformer.Transform(line)
	passes := 1
	for h.repeat && passes < MaxRepeat {
		next, more := h.transformer.Transform(out)
		passes++
		st.Replaced += more.Replaced
		if next == out {
			break
		}
		out = next
	}
	h.totals.Words += st.Words
	h.totals.Changed += st.Changed
	h.totals.Replaced += st.Replaced
	h.totals.Protected += st.Protected
	log.Debugf("Took [ %v ] for %d words in %d passes", time.Since(start), st.Words, passes)

	fmt.Fprintln(h.out, out)
	if h.showSyllables {
		h.printSyllables(line)
	}
}

// printSyllables lists each word's syllables with its best catalog match;
// syllables a rewrite would replace are highlighted.
func (h *InputHandler) printSyllables(line string) {
	for _, sp := range heh.Tokenize(line) {
		if !sp.Word {
			continue
		}
		word := line[sp.Start:sp.End]
		choices := h.transformer.Explain(word)
		if len(choices) == 0 {
			continue
		}
		parts := make([]string, len(choices))
		for i, c := range choices {
			cell := fmt.Sprintf("%s→%s(%d)", c.Syllable, c.Match, c.Score)
			if c.Selected {
				parts[i] = selectedStyle.Render(cell)
			} else {
				parts[i] = dimStyle.Render(cell)
			}
		}
		fmt.Fprintf(h.out, "  %-20s %s\n", word, strings.Join(parts, " | "))
	}
}
