package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/coursebook/internal/models"
	"github.com/desertthunder/coursebook/internal/shared"
	"github.com/desertthunder/coursebook/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CourseView ViewState = iota
	SlotView
	NameView
	ConfirmationView
)

const (
	defaultWidth  = 60
	defaultHeight = 20
)

// Model represents the TUI application state.
//
// All booking state lives in the [tasks.Session]; the model only mirrors it into widgets.
type Model struct {
	ctx        context.Context
	session    *tasks.Session
	view       ViewState
	width      int
	height     int
	courseList list.Model
	slotList   list.Model
	inputs     [2]textinput.Model
	focus      int
	notice     string
	help       help.Model
	keys       keyMap
}

// NewModel creates a new TUI model driving session.
func NewModel(ctx context.Context, session *tasks.Session) *Model {
	first := textinput.New()
	first.Placeholder = "First name"
	first.Prompt = ""
	last := textinput.New()
	last.Placeholder = "Last name"
	last.Prompt = ""

	return &Model{
		ctx:        ctx,
		session:    session,
		view:       CourseView,
		courseList: newList("Courses", defaultWidth, defaultHeight),
		slotList:   newList("Slots", defaultWidth, defaultHeight),
		inputs:     [2]textinput.Model{first, last},
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init starts the catalog load.
func (m *Model) Init() tea.Cmd {
	return m.run(m.session.Start())
}

// State returns the active view.
func (m *Model) State() ViewState { return m.view }

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.courseList.SetSize(msg.Width-4, msg.Height-8)
		m.slotList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case Msg:
		switch msg.kind {
		case MsgTaskDone:
			return m, m.apply(msg.data.(tasks.Result))
		case MsgNotice:
			m.notice = msg.data.(string)
			return m, nil
		}

	case tea.KeyMsg:
		switch m.view {
		case CourseView:
			return m.handleCourseKeys(msg)
		case SlotView:
			return m.handleSlotKeys(msg)
		case NameView:
			return m.handleNameKeys(msg)
		case ConfirmationView:
			return m.handleConfirmationKeys(msg)
		}
	}

	return m.updateLists(msg)
}

// apply hands a finished task to the session and runs whatever follows from it.
func (m *Model) apply(res tasks.Result) tea.Cmd {
	follow := m.session.Apply(res)

	switch res.Kind {
	case tasks.KindCourses:
		if courses := m.session.Courses(); courses.IsLoaded() {
			m.courseList.SetItems(courseItems(courses.Value))
		}
	case tasks.KindSlots, tasks.KindRefresh:
		if slots := m.session.Slots(); slots.IsLoaded() {
			m.slotList.SetItems(slotItems(slots.Value))
		} else {
			m.slotList.SetItems(nil)
		}
	case tasks.KindBooking:
		attempt := m.session.Attempt()
		if m.session.ConfirmationVisible() {
			m.view = ConfirmationView
			m.notice = ""
		} else if attempt.Status == models.AttemptFailed {
			m.notice = attempt.Message
		}
	}

	return m.run(follow...)
}

func (m *Model) run(ts ...*tasks.Task) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(ts))
	for _, t := range ts {
		if t == nil {
			continue
		}
		cmds = append(cmds, func() tea.Msg { return taskDoneMsg(t.Run(m.ctx)) })
	}

	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}

func (m *Model) handleCourseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		item, ok := m.courseList.SelectedItem().(courseItem)
		if !ok {
			return m, nil
		}
		m.notice = ""
		m.slotList.SetItems(nil)
		m.slotList.Title = string(item.course)
		m.view = SlotView
		return m, m.run(m.session.SelectCourse(item.course))
	}

	var cmd tea.Cmd
	m.courseList, cmd = m.courseList.Update(msg)
	return m, cmd
}

func (m *Model) handleSlotKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.notice = ""
		m.view = CourseView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		item, ok := m.slotList.SelectedItem().(slotItem)
		if !ok {
			return m, nil
		}
		if err := m.session.SelectSlot(item.slot.Key()); err != nil {
			m.notice = slotNotice(err)
			return m, nil
		}
		m.notice = ""
		m.view = NameView
		return m, m.focusInput(0)
	}

	var cmd tea.Cmd
	m.slotList, cmd = m.slotList.Update(msg)
	return m, cmd
}

func (m *Model) handleNameKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quitAnywhere):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.notice = ""
		m.view = SlotView
		return m, nil
	case key.Matches(msg, m.keys.next):
		return m, m.focusInput((m.focus + 1) % len(m.inputs))
	case key.Matches(msg, m.keys.book):
		return m, m.submit()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.session.SetRegistrant(models.Registrant{
		FirstName: m.inputs[0].Value(),
		LastName:  m.inputs[1].Value(),
	})
	return m, cmd
}

func (m *Model) handleConfirmationKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter), key.Matches(msg, m.keys.back):
		m.session.DismissConfirmation()
		m.view = SlotView
	}
	return m, nil
}

func (m *Model) submit() tea.Cmd {
	task, err := m.session.Submit()
	switch {
	case errors.Is(err, shared.ErrSubmitPending):
		return func() tea.Msg { return noticeMsg("Booking in progress...") }
	case errors.Is(err, shared.ErrNotReady):
		m.notice = "Please fill in all fields."
		return nil
	case err != nil:
		m.notice = err.Error()
		return nil
	}
	m.notice = ""
	return m.run(task)
}

func (m *Model) focusInput(i int) tea.Cmd {
	m.focus = i
	for j := range m.inputs {
		if j != i {
			m.inputs[j].Blur()
		}
	}
	return m.inputs[i].Focus()
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case CourseView:
		m.courseList, cmd = m.courseList.Update(msg)
	case SlotView:
		m.slotList, cmd = m.slotList.Update(msg)
	case NameView:
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	}
	return m, cmd
}

func slotNotice(err error) string {
	if errors.Is(err, shared.ErrSlotUnavailable) {
		return "This time slot is not available."
	}
	return err.Error()
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case CourseView:
		body = m.renderCourses()
	case SlotView:
		body = m.renderSlots()
	case NameView:
		body = m.renderNames()
	case ConfirmationView:
		body = m.renderConfirmation()
	}

	if m.notice != "" {
		body += "\n\n" + styles.warn.Render(m.notice)
	}
	return body
}

func (m *Model) renderCourses() string {
	courses := m.session.Courses()
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit})

	switch {
	case courses.IsLoading(), courses.Status == models.LoadIdle:
		return fmt.Sprintf("%s\n\nLoading courses...\n\n%s", styles.title.Render("Courses"), helpView)
	case courses.IsFailed():
		return fmt.Sprintf("%s\n\n%s\n\n%s", styles.title.Render("Courses"), styles.err.Render(courses.Err), helpView)
	}
	return fmt.Sprintf("%s\n\n%s", m.courseList.View(), helpView)
}

func (m *Model) renderSlots() string {
	slots := m.session.Slots()
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.back, m.keys.quit})
	title := styles.title.Render(m.slotList.Title)

	switch {
	case slots.IsLoading():
		return fmt.Sprintf("%s\n\nLoading slots...\n\n%s", title, helpView)
	case slots.IsFailed():
		return fmt.Sprintf("%s\n\n%s\n\n%s", title, styles.err.Render(slots.Err), helpView)
	case len(slots.Value) == 0:
		return fmt.Sprintf("%s\n\nNo slots available.\n\n%s", title, helpView)
	}
	return fmt.Sprintf("%s\n\n%s", m.slotList.View(), helpView)
}

func (m *Model) renderNames() string {
	var b strings.Builder

	course, _ := m.session.SelectedCourse()
	slot, _ := m.session.SelectedSlot()
	b.WriteString(styles.title.Render(fmt.Sprintf("%s, %s", course, slot)))
	b.WriteString("\n\n")
	b.WriteString(styles.label.Render("First name") + m.inputs[0].View() + "\n")
	b.WriteString(styles.label.Render("Last name") + m.inputs[1].View() + "\n\n")

	if m.session.Attempt().Pending() {
		b.WriteString(styles.help.Render("Booking...") + "\n\n")
	}

	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.book, m.keys.next, m.keys.back, m.keys.quitAnywhere}))
	return b.String()
}

func (m *Model) renderConfirmation() string {
	c := m.session.Attempt().Confirmation
	info := fmt.Sprintf(
		"%s\n\n%s%s\n%s%s %s\n%s%s %s",
		styles.ok.Render("✓ Booking confirmed"),
		styles.label.Render("Course"), c.Course,
		styles.label.Render("Slot"), c.Date, c.Time,
		styles.label.Render("Name"), c.FirstName, c.LastName,
	)
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", styles.box.Render(info), helpView)
}
