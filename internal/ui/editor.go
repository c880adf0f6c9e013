package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/taskgraph/internal/document"
	"github.com/tgienger/taskgraph/internal/models"
	"github.com/tgienger/taskgraph/internal/ui/styles"
)

// startNewTask opens the editor for a fresh task. A non-nil parent
// links the new task as a dependency of it on save.
func (a *App) startNewTask(parent *models.TaskID) {
	a.editing = true
	a.editingNew = true
	a.editParent = parent
	a.editFocusIdx = 0
	a.editName.Reset()
	a.editDesc.Reset()
	a.editCategory.Reset()
	a.editPriority.Reset()
	a.editTags.Reset()
	a.updateEditFocus()
}

func (a *App) startEditTask(id models.TaskID) {
	task, ok := a.doc.Task(id)
	if !ok {
		return
	}
	a.editing = true
	a.editingNew = false
	a.editParent = nil
	a.editID = id
	a.editFocusIdx = 0
	a.editName.SetValue(task.Name)
	a.editDesc.SetValue(task.Description)
	a.editCategory.SetValue(task.Category)
	a.editPriority.SetValue(task.Priority)
	a.editTags.SetValue(strings.Join(task.Tags, ", "))
	a.updateEditFocus()
}

func (a *App) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Back):
		a.editing = false
		return a, nil

	case key.Matches(msg, a.keys.Save):
		a.saveEdit()
		return a, nil

	case key.Matches(msg, a.keys.NextView):
		a.editFocusIdx = (a.editFocusIdx + 1) % 6
		a.updateEditFocus()
		return a, nil

	case key.Matches(msg, a.keys.PrevView):
		a.editFocusIdx = (a.editFocusIdx + 5) % 6
		a.updateEditFocus()
		return a, nil

	case key.Matches(msg, a.keys.Enter):
		// Enter on single-line fields advances, on the save button it
		// saves; the description textarea keeps it for newlines.
		switch a.editFocusIdx {
		case 0, 2, 3, 4:
			a.editFocusIdx++
			a.updateEditFocus()
			return a, nil
		case 5:
			a.saveEdit()
			return a, nil
		}
	}

	var cmd tea.Cmd
	switch a.editFocusIdx {
	case 0:
		a.editName, cmd = a.editName.Update(msg)
	case 1:
		a.editDesc, cmd = a.editDesc.Update(msg)
	case 2:
		a.editCategory, cmd = a.editCategory.Update(msg)
	case 3:
		a.editPriority, cmd = a.editPriority.Update(msg)
	case 4:
		a.editTags, cmd = a.editTags.Update(msg)
	}
	return a, cmd
}

func (a *App) updateEditFocus() {
	a.editName.Blur()
	a.editDesc.Blur()
	a.editCategory.Blur()
	a.editPriority.Blur()
	a.editTags.Blur()

	switch a.editFocusIdx {
	case 0:
		a.editName.Focus()
	case 1:
		a.editDesc.Focus()
	case 2:
		a.editCategory.Focus()
	case 3:
		a.editPriority.Focus()
	case 4:
		a.editTags.Focus()
	}
}

func parseTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// saveEdit writes the form back into the document. For a new task the
// creation and the field population are recorded as two events that the
// history coalesces into a single undo step.
func (a *App) saveEdit() {
	name := strings.TrimSpace(a.editName.Value())
	if name == "" {
		a.editing = false
		return
	}

	var task models.Task
	if a.editingNew {
		var ev document.UndoEvent
		if a.editParent != nil {
			task, ev = a.doc.CreateDependent(*a.editParent, name)
		} else {
			task, ev = a.doc.Create(name)
		}
		a.apply(ev)
	} else {
		var ok bool
		task, ok = a.doc.Task(a.editID)
		if !ok {
			a.editing = false
			return
		}
		task.Name = name
	}

	task.Description = strings.TrimSpace(a.editDesc.Value())
	if cat := strings.TrimSpace(a.editCategory.Value()); cat != "" || !a.editingNew {
		task.Category = cat
	}
	task.Priority = strings.TrimSpace(a.editPriority.Value())
	task.Tags = parseTags(a.editTags.Value())

	a.apply(a.doc.Replace(task))
	a.editing = false
	a.statusMsg = "saved task: " + task.Name
}

func (a *App) renderEditForm() string {
	s := a.styles
	contentWidth := styles.ContentWidth(a.width)

	formTitle := "Edit Task"
	if a.editingNew {
		formTitle = "New Task"
		if a.editParent != nil {
			if parent, ok := a.doc.Task(*a.editParent); ok {
				formTitle = "New Subtask of: " + parent.Name
			}
		}
	}

	nameStyle := s.Input
	descStyle := s.Input
	categoryStyle := s.Input
	priorityStyle := s.Input
	tagsStyle := s.Input
	btnStyle := s.Button

	switch a.editFocusIdx {
	case 0:
		nameStyle = s.InputFocused
	case 1:
		descStyle = s.InputFocused
	case 2:
		categoryStyle = s.InputFocused
	case 3:
		priorityStyle = s.InputFocused
	case 4:
		tagsStyle = s.InputFocused
	case 5:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	// Show the known priority names so the free-text field is not a
	// guessing game.
	var priorityNames []string
	for _, p := range a.doc.SortedPriorities() {
		priorityNames = append(priorityNames, p.Name)
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(formTitle),
		"",
		"Name:",
		nameStyle.Width(inputWidth).Render(a.editName.View()),
		"",
		"Description:",
		descStyle.Render(a.editDesc.View()),
		"",
		"Category:",
		categoryStyle.Width(inputWidth).Render(a.editCategory.View()),
		"",
		"Priority ("+strings.Join(priorityNames, ", ")+"):",
		priorityStyle.Width(inputWidth).Render(a.editPriority.View()),
		"",
		"Tags:",
		tagsStyle.Width(inputWidth).Render(a.editTags.View()),
		"",
		btnStyle.Render(" Save "),
		"",
		s.TitleMuted.Render("Tab: next field • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, a.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, a.width, a.height)
}
