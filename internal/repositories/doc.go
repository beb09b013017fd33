// Package repositories implements SQLite persistence for the local booking journal.
//
// [ReceiptRepository] stores a [models.Receipt] for every confirmed booking. Receipts are soft deleted via a
// deleted_at timestamp and excluded from queries once deleted.
//
// [ReceiptRecorder] adapts the repository to the booking session's recorder hook so that a successful booking is
// journaled without the session knowing about the database.
//
// Sequence numbers provide stable, human-readable ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
