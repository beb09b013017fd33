// Package models defines domain entities and persistence interfaces for the course booking client.
//
// The package contains two categories of types:
//
// 1. Session state: in-memory values owned by a single booking session
//   - [Course] : opaque course identifier from the catalog
//   - [Slot] : date/time offering with capacity and a server-owned remaining count
//   - [Selection] : the chosen course and slot; changing the course clears the slot
//   - [Registrant] : first and last name as typed
//   - [BookingAttempt] : the last submitted [BookingRequest] and its outcome
//   - [LoadState] : generic Idle/Loading/Loaded/Failed wrapper used by both loaders
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Receipt] : a journaled [Confirmation]
//
// Persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
