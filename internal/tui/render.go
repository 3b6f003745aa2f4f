package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"legalaid/internal/chat"
	"legalaid/internal/i18n"
	"legalaid/internal/markup"
	"legalaid/internal/model"
)

// renderLine applies span styles to one parsed line.
func renderLine(line markup.Line) string {
	var b strings.Builder
	for _, sp := range line {
		s := lipgloss.NewStyle()
		if sp.Style.Has(markup.Bold) {
			s = s.Bold(true)
		}
		if sp.Style.Has(markup.Italic) {
			s = s.Italic(true)
		}
		b.WriteString(s.Render(sp.Text))
	}
	return b.String()
}

// renderContent renders message text with its inline markup.
func renderContent(content string, st styles) string {
	var lines []string
	for _, block := range markup.Parse(content) {
		for _, line := range block.Lines {
			text := renderLine(line)
			if block.Kind == markup.BlockList {
				text = st.bullet.Render("•") + " " + text
			}
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n")
}

// renderMessages lays out the conversation for the viewport. typing is shown
// in place of an empty placeholder while a turn is loading.
func renderMessages(snap chat.Snapshot, st styles, width int, typing string) string {
	body := st.body
	if width > 4 {
		body = body.Width(width - 2)
	}

	var b strings.Builder
	for i, msg := range snap.Messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch msg.Role {
		case model.RoleUser:
			b.WriteString(st.userLabel.Render("You"))
		default:
			b.WriteString(st.modelLabel.Render("Assistant"))
		}
		b.WriteString("\n")

		last := i == len(snap.Messages)-1
		switch {
		case msg.Content == "" && last && snap.IsLoading:
			b.WriteString(body.Render(typing))
		case last && snap.LastError != "" && msg.Role == model.RoleModel:
			b.WriteString(body.Render(st.errorText.Render(msg.Content)))
		default:
			b.WriteString(body.Render(renderContent(msg.Content, st)))
		}
	}

	if len(snap.QuickActions) > 0 {
		b.WriteString("\n\n")
		for i, action := range snap.QuickActions {
			b.WriteString(st.quick.Render(fmt.Sprintf("  F%d  %s", i+1, action)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderCrisisPanel lists the emergency contacts with localized labels.
func renderCrisisPanel(lang i18n.Language, st styles, width int) string {
	strs := i18n.For(lang)
	lines := []string{st.panelTitle.Render(strs.CrisisTitle)}
	for _, r := range i18n.CrisisResources() {
		line := fmt.Sprintf("%s  %s: %s", r.Name, strs.CallLabel, r.Number)
		if r.Website != "" {
			line += fmt.Sprintf("  %s: %s", strs.WebsiteLabel, r.Website)
		}
		lines = append(lines, line)
	}
	panel := st.panel
	if width > 4 {
		panel = panel.Width(width - 2)
	}
	return panel.Render(strings.Join(lines, "\n"))
}
