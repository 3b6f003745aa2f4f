package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"legalaid/internal/chat"
	"legalaid/internal/i18n"
	"legalaid/internal/markup"
	"legalaid/internal/model"
)

const plainHelp = `Commands:
  /1 .. /4      send a suggested question
  /lang <code>  switch language and start over (en, es, fr, zh, vi)
  /crisis       show or hide emergency contacts
  /quit         leave`

// plainPrinter writes streamed answers as deltas. It is used as the machine's
// observer, so it only ever sees snapshots in order.
type plainPrinter struct {
	mu      sync.Mutex
	out     io.Writer
	current string
	printed string
	ended   bool
}

func (p *plainPrinter) observe(s chat.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(s.Messages) == 0 {
		return
	}
	last := s.Messages[len(s.Messages)-1]
	if last.ID == chat.GreetingID || last.Role != model.RoleModel {
		return
	}
	if last.ID != p.current {
		p.current, p.printed, p.ended = last.ID, "", false
	}
	if p.ended {
		return
	}

	switch s.State {
	case chat.Sending, chat.Streaming:
		if strings.HasPrefix(last.Content, p.printed) {
			fmt.Fprint(p.out, last.Content[len(p.printed):])
			p.printed = last.Content
		}
	case chat.Errored:
		if p.printed != "" {
			fmt.Fprintln(p.out)
		}
		fmt.Fprintln(p.out, last.Content)
		p.ended = true
	case chat.Idle:
		fmt.Fprintln(p.out)
		p.ended = true
	}
}

func (p *plainPrinter) println(a ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, a...)
}

func (p *plainPrinter) intro(s chat.Snapshot) {
	var b strings.Builder
	for _, msg := range s.Messages {
		b.WriteString(plainText(msg.Content))
		b.WriteString("\n")
	}
	for i, action := range s.QuickActions {
		fmt.Fprintf(&b, "  /%d  %s\n", i+1, action)
	}
	b.WriteString(i18n.For(s.Language).Disclaimer)
	p.println(b.String())
}

func (p *plainPrinter) crisis(s chat.Snapshot) {
	if !s.CrisisPanelOpen {
		return
	}
	strs := i18n.For(s.Language)
	var b strings.Builder
	b.WriteString(strs.CrisisTitle)
	for _, r := range i18n.CrisisResources() {
		fmt.Fprintf(&b, "\n  %s  %s: %s", r.Name, strs.CallLabel, r.Number)
		if r.Website != "" {
			fmt.Fprintf(&b, "  %s: %s", strs.WebsiteLabel, r.Website)
		}
	}
	p.println(b.String())
}

// plainText drops markup, keeping list items on their own "- " lines.
func plainText(content string) string {
	var lines []string
	for _, block := range markup.Parse(content) {
		for _, line := range block.Lines {
			text := line.Plain()
			if block.Kind == markup.BlockList {
				text = "- " + text
			}
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n")
}

// runPlain is a line-oriented loop for pipes and dumb terminals. Each turn
// is waited for before the next line is read.
func runPlain(ctx context.Context, machine *chat.Machine, printer *plainPrinter, in io.Reader) error {
	printer.intro(machine.Snapshot())

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/quit":
			return nil
		case line == "/help":
			printer.println(plainHelp)
		case line == "/crisis":
			machine.ToggleCrisisPanel()
			printer.crisis(machine.Snapshot())
		case strings.HasPrefix(line, "/lang"):
			lang, err := i18n.Parse(strings.TrimSpace(strings.TrimPrefix(line, "/lang")))
			if err != nil {
				printer.println(err.Error())
				continue
			}
			machine.SetLanguage(lang)
			printer.intro(machine.Snapshot())
		case strings.HasPrefix(line, "/"):
			n, err := strconv.Atoi(line[1:])
			if err != nil || !machine.SubmitQuickAction(n-1) {
				printer.println(plainHelp)
				continue
			}
			machine.Wait()
		default:
			machine.Submit(line)
			machine.Wait()
		}
	}
	return scanner.Err()
}
