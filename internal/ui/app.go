// Package ui is the terminal frontend: one bubbletea model over a
// document, its undo history and the five derived views.
package ui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/taskgraph/internal/document"
	"github.com/tgienger/taskgraph/internal/models"
	"github.com/tgienger/taskgraph/internal/persist"
	"github.com/tgienger/taskgraph/internal/ui/keys"
	"github.com/tgienger/taskgraph/internal/ui/styles"
	"github.com/tgienger/taskgraph/internal/views"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

const (
	autosaveInterval = 2 * time.Minute
	archiveKeep      = 20
)

type autosaveMsg struct{}

// App is the top-level bubbletea model
type App struct {
	doc     *document.Document
	history *document.History
	styles  *styles.Styles
	keys    keys.KeyMap

	path    string
	archive *persist.Archive
	dirty   bool

	active  views.Kind
	sort    views.Sort
	filter  views.Filter
	board   *views.Board
	queue   *views.Queue
	search  *views.Search
	outline *views.Outline
	focus   *views.Focus

	width  int
	height int

	// Cursor state. The board tracks a column and a row; every other
	// view is a single flat list.
	column  int
	cursor  int
	scrollY int

	// Search query input
	searchInput   textinput.Model
	searchFocused bool

	// Task creation/editing
	editing      bool
	editingNew   bool
	editID       models.TaskID
	editParent   *models.TaskID
	editName     textinput.Model
	editDesc     textarea.Model
	editCategory textinput.Model
	editPriority textinput.Model
	editTags     textinput.Model
	editFocusIdx int // 0=name, 1=desc, 2=category, 3=priority, 4=tags, 5=save

	// Dependency picking
	picking    bool
	pickCursor int
	pickIDs    []models.TaskID

	// Task detail view (read-only, plus manual time logging)
	viewingTask     bool
	logInput        textinput.Model
	logInputFocused bool

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   models.TaskID
	deleteTargetName string

	// Category filter cycling: -1 = no category filter
	categoryIdx int

	// Help popup
	showHelpPopup bool

	statusMsg string
}

// NewApp creates the application model over an already loaded document.
// The archive may be nil to disable snapshot autosaving.
func NewApp(doc *document.Document, history *document.History, path string, archive *persist.Archive, initial views.Kind) *App {
	searchInput := textinput.New()
	searchInput.Placeholder = "Fuzzy search..."
	searchInput.CharLimit = 100

	editName := textinput.New()
	editName.Placeholder = "Task name"
	editName.CharLimit = 200

	editDesc := textarea.New()
	editDesc.Placeholder = "Description"
	editDesc.CharLimit = 2000
	editDesc.SetWidth(50)
	editDesc.SetHeight(4)
	editDesc.ShowLineNumbers = false

	editCategory := textinput.New()
	editCategory.Placeholder = "Category"
	editCategory.CharLimit = 60

	editPriority := textinput.New()
	editPriority.Placeholder = "High / Medium / Low"
	editPriority.CharLimit = 30

	editTags := textinput.New()
	editTags.Placeholder = "Comma-separated tags"
	editTags.CharLimit = 200

	logInput := textinput.New()
	logInput.Placeholder = "e.g. 45m or 1h30m"
	logInput.CharLimit = 20

	a := &App{
		doc:          doc,
		history:      history,
		styles:       styles.NewStyles(),
		keys:         keys.DefaultKeyMap(),
		path:         path,
		archive:      archive,
		active:       initial,
		board:        views.NewBoard(),
		queue:        views.NewQueue(),
		search:       views.NewSearch(nil),
		outline:      views.NewOutline(),
		focus:        views.NewFocus(0),
		searchInput:  searchInput,
		editName:     editName,
		editDesc:     editDesc,
		editCategory: editCategory,
		editPriority: editPriority,
		editTags:     editTags,
		logInput:     logInput,
		categoryIdx:  -1,
	}
	a.rebuild()
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Tick(autosaveInterval, func(time.Time) tea.Msg { return autosaveMsg{} })
}

// rebuild recomputes the active view from the document and clamps the
// cursor back into range.
func (a *App) rebuild() {
	switch a.active {
	case views.KindBoard:
		a.board.Rebuild(a.doc, a.sort, a.filter)
	case views.KindQueue:
		a.queue.Rebuild(a.doc, a.sort, a.filter)
	case views.KindSearch:
		a.search.Query = a.searchInput.Value()
		a.search.Rebuild(a.doc, a.sort, a.filter)
	case views.KindOutline:
		a.outline.Rebuild(a.doc, a.sort, a.filter)
	case views.KindFocus:
		a.focus.Rebuild(a.doc, a.sort, a.filter)
	}
	a.clampCursor()
}

func (a *App) clampCursor() {
	if a.active == views.KindBoard {
		a.column = clamp(a.column, 0, 2)
		a.cursor = clamp(a.cursor, 0, max(0, len(a.boardColumn(a.column))-1))
		return
	}
	a.cursor = clamp(a.cursor, 0, max(0, len(a.rows())-1))
}

func (a *App) boardColumn(i int) []models.TaskID {
	switch i {
	case 0:
		return a.board.Ready
	case 1:
		return a.board.Blocked
	default:
		return a.board.Completed
	}
}

// rows returns the flat id list the cursor moves through in the active
// view. The board navigates per column instead.
func (a *App) rows() []models.TaskID {
	switch a.active {
	case views.KindBoard:
		return a.boardColumn(a.column)
	case views.KindQueue:
		return a.queue.Ready
	case views.KindSearch:
		return a.search.Matched
	case views.KindOutline:
		ids := make([]models.TaskID, len(a.outline.Rows))
		for i, row := range a.outline.Rows {
			ids[i] = row.ID
		}
		return ids
	case views.KindFocus:
		ids := append([]models.TaskID(nil), a.focus.Dependents...)
		if _, ok := a.doc.Task(a.focus.FocalID); ok {
			ids = append(ids, a.focus.FocalID)
		}
		return append(ids, a.focus.DependsOn...)
	}
	return nil
}

func (a *App) selectedID() (models.TaskID, bool) {
	rows := a.rows()
	if len(rows) == 0 || a.cursor >= len(rows) {
		return 0, false
	}
	return rows[a.cursor], true
}

// apply records the inverse event of a fresh mutation and refreshes the
// derived state. The search cache cannot see document changes on its
// own, so every mutation forces it.
func (a *App) apply(ev document.UndoEvent) {
	if ev == nil {
		return
	}
	a.history.Record(ev)
	a.dirty = true
	a.search.ForceInvalidate()
	a.rebuild()
	slog.Debug("applied mutation", "task", ev.TaskID(), "tasks", a.doc.Len())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		contentWidth := styles.ContentWidth(a.width)
		a.editDesc.SetWidth(clamp(contentWidth-10, 20, 50))
		return a, nil

	case autosaveMsg:
		if a.dirty {
			a.autosave()
		}
		return a, tea.Tick(autosaveInterval, func(time.Time) tea.Msg { return autosaveMsg{} })

	case tea.KeyMsg:
		if a.showHelpPopup {
			a.showHelpPopup = false
			return a, nil
		}
		if a.confirmingDelete {
			return a.updateConfirmDelete(msg)
		}
		if a.editing {
			return a.updateEditing(msg)
		}
		if a.picking {
			return a.updatePicking(msg)
		}
		if a.viewingTask {
			return a.updateDetail(msg)
		}
		if a.searchFocused {
			return a.updateSearchInput(msg)
		}
		return a.updateNormal(msg)
	}

	return a, nil
}

func (a *App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.statusMsg = ""

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.autosave()
		return a, tea.Quit

	case key.Matches(msg, a.keys.NextView):
		a.switchView(1)
		return a, nil

	case key.Matches(msg, a.keys.PrevView):
		a.switchView(-1)
		return a, nil

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
			a.ensureVisible()
		}
		return a, nil

	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(a.rows())-1 {
			a.cursor++
			a.ensureVisible()
		}
		return a, nil

	case key.Matches(msg, a.keys.Left):
		if a.active == views.KindBoard && a.column > 0 {
			a.column--
			a.clampCursor()
		}
		return a, nil

	case key.Matches(msg, a.keys.Right):
		if a.active == views.KindBoard && a.column < 2 {
			a.column++
			a.clampCursor()
		}
		return a, nil

	case key.Matches(msg, a.keys.Enter):
		if _, ok := a.selectedID(); ok {
			a.viewingTask = true
		}
		return a, nil

	case key.Matches(msg, a.keys.New):
		a.startNewTask(nil)
		return a, textinput.Blink

	case key.Matches(msg, a.keys.NewChild):
		if id, ok := a.selectedID(); ok {
			a.startNewTask(&id)
			return a, textinput.Blink
		}
		return a, nil

	case key.Matches(msg, a.keys.Edit):
		if id, ok := a.selectedID(); ok {
			a.startEditTask(id)
			return a, textinput.Blink
		}
		return a, nil

	case key.Matches(msg, a.keys.Delete):
		if id, ok := a.selectedID(); ok {
			task, _ := a.doc.Task(id)
			a.confirmingDelete = true
			a.deleteTargetID = id
			a.deleteTargetName = task.Name
		}
		return a, nil

	case key.Matches(msg, a.keys.Complete):
		if id, ok := a.selectedID(); ok {
			a.apply(a.doc.ToggleCompleted(id))
		}
		return a, nil

	case key.Matches(msg, a.keys.Record):
		if id, ok := a.selectedID(); ok {
			a.apply(a.doc.ToggleRecording(id, ""))
			if a.doc.IsRecording(id) {
				a.statusMsg = "recording started"
			} else {
				a.statusMsg = "recording stopped"
			}
		}
		return a, nil

	case key.Matches(msg, a.keys.Link):
		if id, ok := a.selectedID(); ok {
			a.startPicking(id)
		}
		return a, nil

	case key.Matches(msg, a.keys.Undo):
		if a.history.Undo(a.doc) {
			a.dirty = true
			a.search.ForceInvalidate()
			a.rebuild()
			a.statusMsg = "undone"
		} else {
			a.statusMsg = "nothing to undo"
		}
		return a, nil

	case key.Matches(msg, a.keys.Redo):
		if a.history.Redo(a.doc) {
			a.dirty = true
			a.search.ForceInvalidate()
			a.rebuild()
			a.statusMsg = "redone"
		} else {
			a.statusMsg = "nothing to redo"
		}
		return a, nil

	case key.Matches(msg, a.keys.Save):
		if err := a.save(); err != nil {
			a.statusMsg = "save failed: " + err.Error()
		} else {
			a.statusMsg = "saved"
		}
		return a, nil

	case key.Matches(msg, a.keys.Search):
		a.active = views.KindSearch
		a.searchFocused = true
		a.searchInput.Focus()
		a.rebuild()
		return a, textinput.Blink

	case key.Matches(msg, a.keys.Focus):
		// In the outline 'f' narrows to the selected subtree; anywhere
		// else it opens the focus neighborhood view.
		if id, ok := a.selectedID(); ok {
			if a.active == views.KindOutline {
				a.outline.SetFocus(id)
				a.cursor = 0
				a.scrollY = 0
				a.rebuild()
			} else {
				a.focus = views.NewFocus(id)
				a.active = views.KindFocus
				a.cursor = 0
				a.scrollY = 0
				a.rebuild()
			}
		}
		return a, nil

	case key.Matches(msg, a.keys.CycleSort):
		a.sort = (a.sort + 1) % 5
		a.rebuild()
		a.statusMsg = "sort: " + a.sort.String()
		return a, nil

	case key.Matches(msg, a.keys.CycleDone):
		a.cycleCompletionFilter()
		return a, nil

	case key.Matches(msg, a.keys.CycleGroup):
		a.cycleCategoryFilter()
		return a, nil

	case key.Matches(msg, a.keys.Back):
		if a.active == views.KindOutline {
			a.outline.ClearFocus()
			a.rebuild()
		}
		return a, nil

	case key.Matches(msg, a.keys.Help):
		a.showHelpPopup = true
		return a, nil
	}

	return a, nil
}

func (a *App) updateSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Back):
		a.searchFocused = false
		a.searchInput.Blur()
		return a, nil
	case key.Matches(msg, a.keys.Enter):
		a.searchFocused = false
		a.searchInput.Blur()
		a.rebuild()
		return a, nil
	default:
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		a.rebuild()
		return a, cmd
	}
}

func (a *App) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		a.apply(a.doc.Remove(a.deleteTargetID))
		a.confirmingDelete = false
		a.viewingTask = false
		return a, nil
	case "n", "N", "esc":
		a.confirmingDelete = false
		return a, nil
	}
	return a, nil
}

// startPicking enters dependency pick mode for parent: the candidate
// list is every other task that can be linked without closing a cycle.
func (a *App) startPicking(parent models.TaskID) {
	parentTask, ok := a.doc.Task(parent)
	if !ok {
		return
	}
	a.pickIDs = a.pickIDs[:0]
	for _, id := range a.doc.TaskIDs() {
		if id == parent || parentTask.DependsOnTask(id) {
			continue
		}
		candidate, ok := a.doc.Task(id)
		if !ok {
			continue
		}
		if a.doc.CanAddAsChild(parentTask, candidate) {
			a.pickIDs = append(a.pickIDs, id)
		}
	}
	a.picking = true
	a.pickCursor = 0
}

func (a *App) updatePicking(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Back):
		a.picking = false
		return a, nil

	case key.Matches(msg, a.keys.Up):
		if a.pickCursor > 0 {
			a.pickCursor--
		}
		return a, nil

	case key.Matches(msg, a.keys.Down):
		if a.pickCursor < len(a.pickIDs)-1 {
			a.pickCursor++
		}
		return a, nil

	case key.Matches(msg, a.keys.Enter):
		parent, ok := a.selectedID()
		if !ok || a.pickCursor >= len(a.pickIDs) {
			a.picking = false
			return a, nil
		}
		if ev, added := a.doc.AddDependency(parent, a.pickIDs[a.pickCursor]); added {
			a.apply(ev)
			a.statusMsg = "dependency added"
		} else {
			a.statusMsg = "dependency would form a cycle"
		}
		a.picking = false
		return a, nil
	}
	return a, nil
}

func (a *App) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.logInputFocused {
		switch {
		case key.Matches(msg, a.keys.Back):
			a.logInputFocused = false
			a.logInput.Blur()
			return a, nil
		case key.Matches(msg, a.keys.Enter):
			a.submitTimeLog()
			return a, nil
		default:
			var cmd tea.Cmd
			a.logInput, cmd = a.logInput.Update(msg)
			return a, cmd
		}
	}

	switch {
	case key.Matches(msg, a.keys.Back):
		a.viewingTask = false
		return a, nil
	case key.Matches(msg, a.keys.Edit):
		if id, ok := a.selectedID(); ok {
			a.viewingTask = false
			a.startEditTask(id)
			return a, textinput.Blink
		}
		return a, nil
	case key.Matches(msg, a.keys.Delete):
		if id, ok := a.selectedID(); ok {
			task, _ := a.doc.Task(id)
			a.confirmingDelete = true
			a.deleteTargetID = id
			a.deleteTargetName = task.Name
		}
		return a, nil
	case key.Matches(msg, a.keys.Complete):
		if id, ok := a.selectedID(); ok {
			a.apply(a.doc.ToggleCompleted(id))
		}
		return a, nil
	case key.Matches(msg, a.keys.Record):
		if id, ok := a.selectedID(); ok {
			a.apply(a.doc.ToggleRecording(id, ""))
		}
		return a, nil
	case key.Matches(msg, a.keys.Link):
		if id, ok := a.selectedID(); ok {
			a.viewingTask = false
			a.startPicking(id)
		}
		return a, nil
	case msg.String() == "m":
		a.logInputFocused = true
		a.logInput.Reset()
		a.logInput.Focus()
		return a, textinput.Blink
	case key.Matches(msg, a.keys.Quit):
		a.autosave()
		return a, tea.Quit
	}
	return a, nil
}

// submitTimeLog parses the manual duration input and appends it to the
// selected task's time log.
func (a *App) submitTimeLog() {
	a.logInputFocused = false
	a.logInput.Blur()
	id, ok := a.selectedID()
	if !ok {
		return
	}
	dur, err := time.ParseDuration(a.logInput.Value())
	if err != nil || dur <= 0 {
		a.statusMsg = "invalid duration"
		return
	}
	a.apply(a.doc.LogFixedDuration(id, dur, "manual entry"))
	a.statusMsg = "logged " + models.FormatDuration(dur)
}

func (a *App) switchView(dir int) {
	a.active = views.Kind((int(a.active) + dir + 5) % 5)
	a.cursor = 0
	a.column = 0
	a.scrollY = 0
	if a.active == views.KindSearch {
		a.search.ForceInvalidate()
	}
	a.rebuild()
}

// cycleCompletionFilter steps all -> hide completed -> completed only.
func (a *App) cycleCompletionFilter() {
	switch {
	case a.filter.Kind != views.FilterCompletion:
		a.filter = views.Filter{Kind: views.FilterCompletion, Completed: false}
	case !a.filter.Completed:
		a.filter = views.Filter{Kind: views.FilterCompletion, Completed: true}
	default:
		a.filter = views.Filter{}
	}
	a.categoryIdx = -1
	a.rebuild()
	a.statusMsg = "filter: " + a.filter.String()
}

// cycleCategoryFilter steps through every known category, then back to
// no filter.
func (a *App) cycleCategoryFilter() {
	cats := a.doc.Categories()
	a.categoryIdx++
	if a.categoryIdx >= len(cats) {
		a.categoryIdx = -1
		a.filter = views.Filter{}
		a.rebuild()
		a.statusMsg = "filter: " + a.filter.String()
		return
	}
	a.filter = views.Filter{Kind: views.FilterCategory, Text: cats[a.categoryIdx]}
	a.rebuild()
	a.statusMsg = "category: " + cats[a.categoryIdx]
}

func (a *App) ensureVisible() {
	availableHeight := max(a.height-10, 2)
	visibleItems := max(availableHeight/2, 1)

	if a.cursor < a.scrollY {
		a.scrollY = a.cursor
	} else if a.cursor >= a.scrollY+visibleItems {
		a.scrollY = a.cursor - visibleItems + 1
	}
}

// save writes the document to its JSON file and archives a snapshot.
func (a *App) save() error {
	if err := persist.Save(a.path, a.doc); err != nil {
		return err
	}
	a.dirty = false
	if a.archive != nil {
		if err := a.archive.SaveSnapshot(a.doc, "manual"); err != nil {
			slog.Warn("snapshot archive failed", "error", err)
		} else if err := a.archive.Prune(archiveKeep); err != nil {
			slog.Warn("snapshot prune failed", "error", err)
		}
	}
	return nil
}

// autosave is the best-effort variant used on timer ticks and quit;
// failures are logged, never surfaced.
func (a *App) autosave() {
	if !a.dirty {
		return
	}
	if err := a.save(); err != nil {
		slog.Error("autosave failed", "error", err)
		return
	}
	slog.Debug("autosaved", "path", a.path)
}
