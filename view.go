package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/LFroesch/duet/internal/app"
	"github.com/LFroesch/duet/internal/dialog"
	"github.com/LFroesch/duet/internal/fileops"
	"github.com/LFroesch/duet/internal/utils"
)

func (m *model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := m.renderHeader()

	var mainContent string
	if d := m.app.Dialog(); d != nil {
		mainContent = m.renderDialog(d)
	} else {
		half := m.getSafeWidth() / 2
		left := m.renderPane(app.Left, half)
		right := m.renderPane(app.Right, m.getSafeWidth()-half)
		mainContent = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		mainContent,
		m.renderStatusBar(),
		m.renderHelp(),
	)
}

func (m *model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		Background(lipgloss.Color("235")).
		Padding(0, 1).
		Width(m.getSafeWidth())

	title := fmt.Sprintf("duet - %s", m.app.Active().Path())
	if !m.app.ShowHidden() {
		title += " [hidden files off]"
	}
	return titleStyle.Render(utils.Truncate(title, m.getSafeWidth()-2))
}

// renderPane renders one pane with the given width
func (m *model) renderPane(side app.Side, width int) string {
	p := m.app.Pane(side)
	focused := side == m.app.FocusedSide()
	entries := p.Entries()
	contentHeight := m.getContentHeight()

	// Header: directory and branch
	dirName := filepath.Base(p.Path())
	if p.Path() == string(filepath.Separator) {
		dirName = p.Path()
	}
	headerText := "📁 " + dirName
	if branch := m.gitStatus[side].Branch; branch != "" {
		headerText += fmt.Sprintf(" (%s)", branch)
	}
	headerColor := lipgloss.Color("245")
	if focused {
		headerColor = lipgloss.Color("105")
	}
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(headerColor).
		Width(width - 4)
	header := headerStyle.Render(utils.Truncate(headerText, width-4))

	// Keep the focused row visible
	offset := m.scrollOffset[side]
	focus := p.FocusIndex()
	if focus >= 0 {
		if focus < offset {
			offset = focus
		}
		if focus >= offset+contentHeight {
			offset = focus - contentHeight + 1
		}
	}
	if offset > len(entries)-contentHeight {
		offset = len(entries) - contentHeight
	}
	if offset < 0 {
		offset = 0
	}
	m.scrollOffset[side] = offset

	var items []string
	end := offset + contentHeight
	if end > len(entries) {
		end = len(entries)
	}
	for i := offset; i < end; i++ {
		entry := entries[i]
		path := p.Join(entry.Name)

		marker := " "
		if entry.Real() && m.app.Selection().Contains(path) {
			marker = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true).Render("*")
		}

		gitStatus := ""
		if entry.Real() && m.gitStatus[side].Modified[path] {
			modifiedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
			gitStatus = " " + modifiedStyle.Render("[M]")
		}

		icon := utils.EntryIcon(entry.Name, entry.IsDir, entry.Placeholder)
		maxNameLen := width - 14
		if maxNameLen < 8 {
			maxNameLen = 8
		}
		name := utils.Truncate(entry.Name, maxNameLen)
		if entry.IsDir {
			name += "/"
		}

		line := fmt.Sprintf("%s %s %s%s", marker, icon, name, gitStatus)

		var style lipgloss.Style
		switch {
		case i == focus && focused:
			style = lipgloss.NewStyle().
				Background(lipgloss.Color("57")).
				Foreground(lipgloss.Color("230"))
		case i == focus:
			style = lipgloss.NewStyle().
				Background(lipgloss.Color("237")).
				Foreground(lipgloss.Color("252"))
		case entry.Placeholder:
			style = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")).
				Italic(true)
		default:
			style = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))
		}
		items = append(items, style.Render(line))
	}

	if len(entries) == 0 {
		items = append(items, lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("  (empty)"))
	}

	listStyle := lipgloss.NewStyle().Padding(0, 1)
	list := listStyle.Render(strings.Join(items, "\n"))

	borderColor := lipgloss.Color("240")
	if focused {
		borderColor = lipgloss.Color("105")
	}
	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		Width(width - 2).
		Height(contentHeight + 1)

	return borderStyle.Render(header + "\n" + list)
}

func (m *model) renderStatusBar() string {
	statusStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("240")).
		Padding(0, 1).
		Width(m.getSafeWidth())

	p := m.app.Active()
	var parts []string

	if n := len(p.Entries()); n > 0 && p.FocusIndex() >= 0 {
		parts = append(parts, fmt.Sprintf("%d/%d", p.FocusIndex()+1, n))
	}

	if path, ok := p.FocusedPath(); ok {
		if info, err := os.Lstat(path); err == nil && !info.IsDir() {
			parts = append(parts, utils.FormatFileSizeColored(info.Size()))
		}
	}

	if n := m.app.Selection().Len(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}

	if msg := m.app.Status(); msg != "" {
		parts = append(parts, msg)
	}

	statusText := utils.Truncate(strings.Join(parts, " | "), m.getSafeWidth()-2)
	return statusStyle.Render(statusText)
}

func (m *model) renderHelp() string {
	if m.app.IsModal() {
		return m.help.ShortHelpView(m.app.Keys().DialogHelp())
	}
	return m.help.View(m.app.Keys())
}

func (m *model) renderDialog(d dialog.Dialog) string {
	dialogWidth := 60
	if w := m.getSafeWidth() - 4; w < dialogWidth {
		dialogWidth = w
	}

	borderColor := lipgloss.Color("105")
	var body string

	switch d := d.(type) {
	case *dialog.Confirm:
		if d.Batch.Op == fileops.OpDelete || d.Batch.Force {
			borderColor = lipgloss.Color("196")
		}
		body = m.renderConfirm(d, borderColor, dialogWidth)
	case *dialog.TextInput:
		body = m.renderTextInput(d, borderColor)
	case *dialog.ActionMenu:
		body = m.renderActionMenu(d, borderColor, dialogWidth)
	case *dialog.Error:
		borderColor = lipgloss.Color("196")
		body = m.renderError(d, borderColor)
	}

	dialogStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(1, 2).
		Width(dialogWidth)

	// Center the dialog in the pane area
	return lipgloss.Place(m.getSafeWidth(), m.getContentHeight()+3,
		lipgloss.Center, lipgloss.Center, dialogStyle.Render(body))
}

func (m *model) renderConfirm(d *dialog.Confirm, color lipgloss.Color, width int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(color)
	contentStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Width(width-6).
		Padding(1, 0)

	button := func(label string, active bool) string {
		style := lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("252"))
		if active {
			style = style.Background(lipgloss.Color("57")).Foreground(lipgloss.Color("230")).Bold(true)
		}
		return style.Render(label)
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		button("Yes", d.Focus == dialog.ButtonYes),
		"  ",
		button("No", d.Focus == dialog.ButtonNo),
	)

	return titleStyle.Render(d.Title) + "\n" + contentStyle.Render(d.Message) + "\n" + buttons
}

func (m *model) renderTextInput(d *dialog.TextInput, color lipgloss.Color) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(color)
	contentStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(1, 0)

	var where string
	switch d.Purpose {
	case dialog.PurposeRename:
		where = "Renaming " + filepath.Base(d.Target)
	default:
		where = "In " + d.Target
	}

	return titleStyle.Render(d.Title) + "\n" +
		contentStyle.Render(where) + "\n" +
		d.Input.View()
}

func (m *model) renderActionMenu(d *dialog.ActionMenu, color lipgloss.Color, width int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(color)

	var items []string
	for i, action := range d.Actions {
		line := "  " + action.String()
		if i == d.Focus {
			line = lipgloss.NewStyle().
				Background(lipgloss.Color("57")).
				Foreground(lipgloss.Color("230")).
				Width(width - 6).
				Render("> " + action.String())
		}
		items = append(items, line)
	}

	return titleStyle.Render(d.Title) + "\n\n" + strings.Join(items, "\n")
}

func (m *model) renderError(d *dialog.Error, color lipgloss.Color) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(color)
	contentStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(1, 0)
	promptStyle := lipgloss.NewStyle().Bold(true)

	return titleStyle.Render("❌ "+d.Title) + "\n" +
		contentStyle.Render(d.Message) + "\n" +
		promptStyle.Render("Press any key to continue")
}
