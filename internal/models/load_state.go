package models

// LoadStatus is the lifecycle of a [LoadState].
type LoadStatus int

const (
	LoadIdle LoadStatus = iota
	LoadLoading
	LoadLoaded
	LoadFailed
)

func (s LoadStatus) String() string {
	switch s {
	case LoadLoading:
		return "loading"
	case LoadLoaded:
		return "loaded"
	case LoadFailed:
		return "failed"
	default:
		return "idle"
	}
}

// LoadState tracks one asynchronous load. Value is meaningful only when Loaded, Err only when Failed.
type LoadState[T any] struct {
	Status LoadStatus
	Value  T
	Err    string
}

// Loading returns a state with no value in the Loading status.
func Loading[T any]() LoadState[T] {
	return LoadState[T]{Status: LoadLoading}
}

// Loaded returns a state holding v.
func Loaded[T any](v T) LoadState[T] {
	return LoadState[T]{Status: LoadLoaded, Value: v}
}

// Failed returns a state holding the diagnostic message.
func Failed[T any](message string) LoadState[T] {
	return LoadState[T]{Status: LoadFailed, Err: message}
}

func (s LoadState[T]) IsLoading() bool { return s.Status == LoadLoading }
func (s LoadState[T]) IsLoaded() bool  { return s.Status == LoadLoaded }
func (s LoadState[T]) IsFailed() bool  { return s.Status == LoadFailed }
