package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/coursebook/internal/formatter"
	"github.com/desertthunder/coursebook/internal/models"
)

var (
	_ list.Item = courseItem{}
	_ list.Item = slotItem{}
)

// courseItem wraps [models.Course] to implement [list.Item].
type courseItem struct {
	course models.Course
}

func (i courseItem) FilterValue() string { return string(i.course) }
func (i courseItem) Title() string       { return string(i.course) }
func (i courseItem) Description() string { return "" }

// slotItem wraps [models.Slot] to implement [list.Item].
type slotItem struct {
	slot models.Slot
}

func (i slotItem) FilterValue() string { return i.slot.Key().String() }
func (i slotItem) Title() string       { return i.slot.Date + " " + i.slot.Time }
func (i slotItem) Description() string { return formatter.SlotAvailability(i.slot) }

func newList(title string, width, height int) list.Model {
	delegate := list.NewDefaultDelegate()
	l := list.New(nil, delegate, width, height)
	l.Title = title
	l.KeyMap.Quit.SetEnabled(false)
	l.SetShowHelp(false)
	return l
}

func courseItems(courses []models.Course) []list.Item {
	items := make([]list.Item, len(courses))
	for i, c := range courses {
		items[i] = courseItem{course: c}
	}
	return items
}

func slotItems(slots []models.Slot) []list.Item {
	items := make([]list.Item, len(slots))
	for i, s := range slots {
		items[i] = slotItem{slot: s}
	}
	return items
}
