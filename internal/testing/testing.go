// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/coursebook/internal/models"
)

// FakeBookingService is an in-memory test double for services.BookingService.
//
// Responses are configured through the exported fields; calls are recorded and may be inspected with the getters.
// Safe for concurrent use.
type FakeBookingService struct {
	CourseList []models.Course
	CoursesErr error
	SlotsFor   map[models.Course][]models.Slot
	SlotsErrs  map[models.Course]error
	BookErr    error
	// BookFunc, when set, replaces BookErr.
	BookFunc func(req models.BookingRequest) error

	mu           sync.Mutex
	coursesCalls int
	slotsCalls   []models.Course
	bookCalls    []models.BookingRequest
}

// NewFakeBookingService returns a fake serving the given catalog with no slots.
func NewFakeBookingService(courses ...models.Course) *FakeBookingService {
	return &FakeBookingService{
		CourseList: courses,
		SlotsFor:   map[models.Course][]models.Slot{},
		SlotsErrs:  map[models.Course]error{},
	}
}

func (f *FakeBookingService) Courses(ctx context.Context) ([]models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.coursesCalls++
	if f.CoursesErr != nil {
		return nil, f.CoursesErr
	}
	return append([]models.Course(nil), f.CourseList...), nil
}

func (f *FakeBookingService) Slots(ctx context.Context, course models.Course) ([]models.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slotsCalls = append(f.slotsCalls, course)
	if err := f.SlotsErrs[course]; err != nil {
		return nil, err
	}
	return append([]models.Slot(nil), f.SlotsFor[course]...), nil
}

func (f *FakeBookingService) Book(ctx context.Context, req models.BookingRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookCalls = append(f.bookCalls, req)
	if f.BookFunc != nil {
		return f.BookFunc(req)
	}
	return f.BookErr
}

func (f *FakeBookingService) Name() string { return "fake" }

// SetSlots replaces the availability served for course.
func (f *FakeBookingService) SetSlots(course models.Course, slots ...models.Slot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SlotsFor[course] = slots
}

func (f *FakeBookingService) CoursesCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.coursesCalls
}

func (f *FakeBookingService) SlotsCalls() []models.Course {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Course(nil), f.slotsCalls...)
}

func (f *FakeBookingService) BookCalls() []models.BookingRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.BookingRequest(nil), f.bookCalls...)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var _ io.ReadCloser = (*FCloser)(nil)

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
