package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/taskgraph/internal/document"
	"github.com/tgienger/taskgraph/internal/models"
	"github.com/tgienger/taskgraph/internal/ui/styles"
	"github.com/tgienger/taskgraph/internal/views"
)

func (a *App) View() string {
	if a.showHelpPopup {
		return a.renderHelpPopup()
	}
	if a.confirmingDelete {
		return a.renderDeleteConfirm()
	}
	if a.editing {
		return a.renderEditForm()
	}
	if a.picking {
		return a.renderPicker()
	}
	if a.viewingTask {
		return a.renderDetail()
	}

	var body string
	switch a.active {
	case views.KindBoard:
		body = a.renderBoard()
	case views.KindQueue:
		body = a.renderQueue()
	case views.KindSearch:
		body = a.renderSearch()
	case views.KindOutline:
		body = a.renderOutline()
	case views.KindFocus:
		body = a.renderFocus()
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		a.renderTabs(),
		"",
		body,
		"",
		a.renderStatusBar(),
		a.renderHelp(),
	)
	return styles.CenterView(content, a.width, a.height)
}

func (a *App) renderTabs() string {
	s := a.styles
	var tabs []string
	for k := views.KindBoard; k <= views.KindFocus; k++ {
		if k == a.active {
			tabs = append(tabs, s.TabActive.Render(k.String()))
		} else {
			tabs = append(tabs, s.Tab.Render(k.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, tabs...)
}

// taskLine renders one list entry: status glyph, name, then category,
// priority and recording markers.
func (a *App) taskLine(id models.TaskID, selected bool, width int) string {
	s := a.styles
	task, ok := a.doc.Task(id)
	if !ok {
		return ""
	}

	status := a.doc.Status(id)
	glyph := lipgloss.NewStyle().
		Foreground(styles.StatusColor(status)).
		Render(statusGlyph(status))

	line := glyph + " " + task.Name
	if task.Priority != "" {
		line += " " + s.TitleMuted.Render("["+task.Priority+"]")
	}
	if task.Category != "" {
		style, _ := a.doc.CategoryStyle(task.Category)
		line += " " + styles.CategoryText(style).Render(task.Category)
	}
	if a.doc.IsRecording(id) {
		line += " " + lipgloss.NewStyle().Foreground(styles.Current.Recording).Render("●rec")
	}

	if selected {
		return s.ListSelected.Width(width).Render(line)
	}
	return s.ListItem.Width(width).Render(line)
}

func statusGlyph(s document.Status) string {
	switch s {
	case document.StatusCompleted:
		return "✓"
	case document.StatusBlocked:
		return "⊘"
	}
	return "○"
}

func (a *App) renderBoard() string {
	s := a.styles
	contentWidth := styles.ContentWidth(a.width)
	colWidth := max(contentWidth/3-4, 16)

	titles := []string{"Ready", "Blocked", "Completed"}
	var cols []string
	for c := 0; c < 3; c++ {
		ids := a.boardColumn(c)
		header := s.ColumnTitle.Render(fmt.Sprintf("%s (%d)", titles[c], len(ids)))
		lines := []string{header, ""}
		if len(ids) == 0 {
			lines = append(lines, s.TitleMuted.Render("empty"))
		}
		for i, id := range ids {
			selected := c == a.column && i == a.cursor
			lines = append(lines, a.taskLine(id, selected, colWidth))
		}
		col := s.Column.Width(colWidth + 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
		cols = append(cols, col)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (a *App) renderQueue() string {
	s := a.styles
	contentWidth := styles.ContentWidth(a.width)
	width := max(contentWidth-4, 20)

	if len(a.queue.Ready) == 0 {
		return s.TitleMuted.Render("Nothing is ready to work on.")
	}

	var lines []string
	for i, id := range a.queue.Ready {
		weight := a.doc.TaskPriorityWeight(id)
		line := a.taskLine(id, i == a.cursor, width-8)
		badge := s.TitleMuted.Render(fmt.Sprintf("w=%d", weight))
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Center, line, " ", badge))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (a *App) renderSearch() string {
	s := a.styles
	contentWidth := styles.ContentWidth(a.width)
	width := max(contentWidth-4, 20)

	inputStyle := s.Input
	if a.searchFocused {
		inputStyle = s.InputFocused
	}
	box := inputStyle.Width(clamp(width, 20, 50)).Render(a.searchInput.View())

	var lines []string
	lines = append(lines, box, "")
	if a.searchInput.Value() == "" {
		lines = append(lines, s.TitleMuted.Render("Type to search, best match first."))
	} else if len(a.search.Matched) == 0 {
		lines = append(lines, s.TitleMuted.Render("No matches."))
	}
	for i, id := range a.search.Matched {
		lines = append(lines, a.taskLine(id, !a.searchFocused && i == a.cursor, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (a *App) renderOutline() string {
	s := a.styles
	contentWidth := styles.ContentWidth(a.width)
	width := max(contentWidth-4, 20)

	if len(a.outline.Rows) == 0 {
		return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
	}

	// The smoothed row height estimate sizes the visible window; each
	// rendered row feeds a measurement back in.
	rowEstimate := a.outline.Heights.Average()
	if rowEstimate == 0 {
		rowEstimate = 1
	}
	availableHeight := max(a.height-10, 3)
	visibleItems := max(int(float64(availableHeight)/rowEstimate), 1)
	end := min(a.scrollY+visibleItems, len(a.outline.Rows))

	var lines []string
	for i := a.scrollY; i < end; i++ {
		row := a.outline.Rows[i]
		indent := strings.Repeat("  ", row.Depth)
		line := indent + a.taskLine(row.ID, i == a.cursor, width-len(indent))
		a.outline.Heights.Record(float64(lipgloss.Height(line)))
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (a *App) renderFocus() string {
	s := a.styles
	contentWidth := styles.ContentWidth(a.width)
	width := max(contentWidth-4, 20)

	focal, ok := a.doc.Task(a.focus.FocalID)
	if !ok {
		return s.TitleMuted.Render("No focal task. Select one and press 'f'.")
	}

	rows := a.rows()
	idx := func(id models.TaskID) int {
		for i, r := range rows {
			if r == id {
				return i
			}
		}
		return -1
	}

	var lines []string
	lines = append(lines, s.Title.Render("Blocked by "+focal.Name))
	if len(a.focus.Dependents) == 0 {
		lines = append(lines, s.TitleMuted.Render("  none"))
	}
	for _, id := range a.focus.Dependents {
		lines = append(lines, a.taskLine(id, idx(id) == a.cursor, width))
	}
	lines = append(lines, "")
	lines = append(lines, a.taskLine(a.focus.FocalID, idx(a.focus.FocalID) == a.cursor, width))
	lines = append(lines, "")
	lines = append(lines, s.Title.Render("Depends on"))
	if len(a.focus.DependsOn) == 0 {
		lines = append(lines, s.TitleMuted.Render("  none"))
	}
	for _, id := range a.focus.DependsOn {
		lines = append(lines, a.taskLine(id, idx(id) == a.cursor, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (a *App) renderStatusBar() string {
	s := a.styles
	parts := []string{
		fmt.Sprintf("%d tasks", a.doc.Len()),
		"sort: " + a.sort.String(),
		"filter: " + a.filter.String(),
	}
	if a.dirty {
		parts = append(parts, "unsaved")
	}
	if a.statusMsg != "" {
		parts = append(parts, a.statusMsg)
	}
	return s.StatusBar.Render(strings.Join(parts, " • "))
}

func (a *App) renderHelp() string {
	contentWidth := styles.ContentWidth(a.width)
	if contentWidth > 0 && contentWidth < 60 {
		return a.styles.Help.Render(a.styles.HelpKey.Render("?") + " help")
	}

	s := a.styles
	return s.Help.Render(
		fmt.Sprintf("%s views • %s new • %s edit • %s complete • %s record • %s dep • %s undo • %s save • %s help • %s quit",
			s.HelpKey.Render("tab"),
			s.HelpKey.Render("n"),
			s.HelpKey.Render("e"),
			s.HelpKey.Render("c"),
			s.HelpKey.Render("r"),
			s.HelpKey.Render("a"),
			s.HelpKey.Render("u"),
			s.HelpKey.Render("ctrl+s"),
			s.HelpKey.Render("?"),
			s.HelpKey.Render("q"),
		),
	)
}

func (a *App) renderHelpPopup() string {
	s := a.styles
	contentWidth := styles.ContentWidth(a.width)

	helpItems := []string{
		s.HelpKey.Render("tab") + "     switch view",
		s.HelpKey.Render("↑↓←→") + "    move",
		s.HelpKey.Render("↵") + "       task detail",
		s.HelpKey.Render("n") + "       new task",
		s.HelpKey.Render("N") + "       new subtask of selection",
		s.HelpKey.Render("e") + "       edit task",
		s.HelpKey.Render("d") + "       delete task",
		s.HelpKey.Render("c") + "       toggle completed",
		s.HelpKey.Render("r") + "       toggle time recording",
		s.HelpKey.Render("a") + "       add dependency",
		s.HelpKey.Render("f") + "       focus on task",
		s.HelpKey.Render("/") + "       search",
		s.HelpKey.Render("s") + "       cycle sort",
		s.HelpKey.Render("x") + "       cycle completion filter",
		s.HelpKey.Render("g") + "       cycle category filter",
		s.HelpKey.Render("u") + "       undo",
		s.HelpKey.Render("ctrl+r") + "  redo",
		s.HelpKey.Render("ctrl+s") + "  save",
		s.HelpKey.Render("q") + "       quit",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, a.height,
		lipgloss.Center, lipgloss.Center,
		s.Popup.Render(content),
	)
	return styles.CenterView(centered, a.width, a.height)
}

func (a *App) renderPicker() string {
	s := a.styles
	contentWidth := styles.ContentWidth(a.width)

	parentName := ""
	if id, ok := a.selectedID(); ok {
		if task, ok := a.doc.Task(id); ok {
			parentName = task.Name
		}
	}

	var lines []string
	if len(a.pickIDs) == 0 {
		lines = append(lines, s.TitleMuted.Render("No task can be linked without a cycle."))
	}
	for i, id := range a.pickIDs {
		task, ok := a.doc.Task(id)
		if !ok {
			continue
		}
		if i == a.pickCursor {
			lines = append(lines, s.ListSelected.Render(task.Name))
		} else {
			lines = append(lines, s.ListItem.Render(task.Name))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Add dependency to: "+parentName),
		"",
		lipgloss.JoinVertical(lipgloss.Left, lines...),
		"",
		s.TitleMuted.Render("↵: link • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, a.height,
		lipgloss.Center, lipgloss.Center,
		s.Popup.Render(content),
	)
	return styles.CenterView(centered, a.width, a.height)
}

func (a *App) renderDeleteConfirm() string {
	s := a.styles
	contentWidth := styles.ContentWidth(a.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("\"%s\" will be removed from every dependency list.", a.deleteTargetName)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, a.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, a.width, a.height)
}

func (a *App) renderDetail() string {
	id, ok := a.selectedID()
	if !ok {
		return ""
	}
	task, ok := a.doc.Task(id)
	if !ok {
		return ""
	}

	s := a.styles
	contentWidth := styles.ContentWidth(a.width)
	textWidth := clamp(contentWidth-10, 20, 70)
	labelStyle := s.TitleMuted

	status := a.doc.Status(id)
	statusLine := lipgloss.NewStyle().
		Foreground(styles.StatusColor(status)).
		Bold(true).
		Render(status.String())

	categoryLine := "None"
	if task.Category != "" {
		style, _ := a.doc.CategoryStyle(task.Category)
		categoryLine = styles.CategoryText(style).Render(task.Category)
	}

	priorityLine := "None"
	if task.Priority != "" {
		priorityLine = fmt.Sprintf("%s (weight %d)", task.Priority, a.doc.PriorityWeight(task.Priority))
	}

	tagsLine := "None"
	if len(task.Tags) > 0 {
		tagsLine = strings.Join(task.Tags, ", ")
	}

	descText := task.Description
	if descText == "" {
		descText = s.TitleMuted.Render("No description")
	}

	// Time tracking summary
	timeLine := models.FormatDuration(a.doc.TotalDuration(id))
	if a.doc.IsRecording(id) {
		timeLine += " " + lipgloss.NewStyle().Foreground(styles.Current.Recording).Render("● recording")
	}

	var subtreeLines []string
	for _, sd := range a.doc.SubtreeDurations(id) {
		dep, ok := a.doc.Task(sd.ID)
		if !ok {
			continue
		}
		subtreeLines = append(subtreeLines,
			fmt.Sprintf("  %s  %s", models.FormatDuration(sd.Total), dep.Name))
	}
	subtreeContent := s.TitleMuted.Render("No dependencies")
	if len(subtreeLines) > 0 {
		subtreeContent = lipgloss.JoinVertical(lipgloss.Left, subtreeLines...)
	}

	var parentNames []string
	for _, p := range a.doc.ParentsOf(id) {
		parentNames = append(parentNames, p.Name)
	}
	parentsLine := "None"
	if len(parentNames) > 0 {
		parentsLine = strings.Join(parentNames, ", ")
	}

	subtreeSize := 0
	a.doc.WalkSubtree(id, func(models.TaskID, int) { subtreeSize++ })

	logBox := ""
	if a.logInputFocused {
		logBox = s.InputFocused.Width(clamp(textWidth, 20, 30)).Render(a.logInput.View())
	}

	helpText := s.Help.Render(
		fmt.Sprintf("%s edit • %s complete • %s record • %s log time • %s dep • %s delete • %s back",
			s.HelpKey.Render("e"),
			s.HelpKey.Render("c"),
			s.HelpKey.Render("r"),
			s.HelpKey.Render("m"),
			s.HelpKey.Render("a"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("esc"),
		),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.MarginBottom(1).Render(task.Name),
		labelStyle.Render("Status"),
		statusLine,
		"",
		labelStyle.Render("Category"),
		categoryLine,
		"",
		labelStyle.Render("Priority"),
		priorityLine,
		"",
		labelStyle.Render("Tags"),
		tagsLine,
		"",
		labelStyle.Render("Description"),
		lipgloss.NewStyle().Width(textWidth).Render(descText),
		"",
		labelStyle.Render("Blocking"),
		parentsLine,
		labelStyle.Render(fmt.Sprintf("Subtree: %d task(s)", subtreeSize)),
		"",
		labelStyle.Render("Time logged"),
		timeLine,
		"",
		labelStyle.Render("Time per dependency subtree"),
		subtreeContent,
		"",
		logBox,
		helpText,
	)

	padded := lipgloss.NewStyle().Padding(1, 2).Render(content)
	return styles.CenterView(padded, a.width, a.height)
}
