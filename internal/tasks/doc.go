// Package tasks coordinates the course booking flow and the availability export.
//
// # Session
//
// [Session] owns the client-side state of one booking flow: the course catalog, the slot list of the selected course,
// the selection, the registrant's name and the current [models.BookingAttempt].
//
// Intent methods ([Session.Start], [Session.SelectCourse], [Session.Submit]) mutate state synchronously and return a
// [Task] describing the service call to make. The caller runs the task wherever it likes (a goroutine, a tea.Cmd,
// or inline through [Drain]) and hands the [Result] back to [Session.Apply], which may return follow-up tasks.
//
// Every slot fetch carries a sequence number. A result whose sequence is no longer current is discarded, so a slow
// response for a course the user has already left never overwrites the newer list.
//
// After a successful booking the slot list of the selected course is refreshed once in the background. A failed
// refresh is logged and leaves the booking and the last known slots untouched.
//
// # Messages
//
// [LoadErrorMessage] and [BookingErrorMessage] turn service errors into user-facing text. Known booking codes are
// translated through [BookingCodeMessages].
//
// # Export
//
// [AvailabilityExporter] fetches every course's slots through a worker pool and writes one report per course plus a
// manifest. Progress is reported on a [ProgressUpdate] channel without blocking.
package tasks
