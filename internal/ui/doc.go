// Package ui implements an interactive terminal interface for booking a course slot using bubbletea's Elm architecture.
//
// The TUI walks through four views:
//  1. [CourseView] : Browse the course catalog
//  2. [SlotView] : Pick a date and time of the selected course, with remaining places
//  3. [NameView] : Enter the registrant's first and last name and submit
//  4. [ConfirmationView] : Show the confirmed booking
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Booking state is owned by a [tasks.Session]: key presses become session intents, the returned tasks run as tea.Cmds,
// and their results come back as [MsgTaskDone] messages that are applied to the session.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, tab, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
