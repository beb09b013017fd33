// HTTP [BookingService] implementation
//
// The endpoint is a single URL. Reads select their function with the fn query parameter,
// bookings are POSTed to the bare endpoint. Every response is wrapped in the same envelope.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/desertthunder/coursebook/internal/models"
	"github.com/desertthunder/coursebook/internal/shared"
	"github.com/go-playground/validator/v10"
)

const (
	OpCourses = "courses"
	OpSlots   = "slots"
	OpBook    = "book"
)

// envelope is the shape of every response body. Unknown fields are ignored.
type envelope struct {
	OK      bool            `json:"ok"`
	Courses []models.Course `json:"courses"`
	Slots   []models.Slot   `json:"slots"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

// HTTPBookingService implements [BookingService] over an [APIService].
type HTTPBookingService struct {
	api      *APIService
	validate *validator.Validate
}

// NewHTTPBookingService creates a booking service that sends every request through api.
func NewHTTPBookingService(api *APIService) *HTTPBookingService {
	return &HTTPBookingService{api: api, validate: validator.New()}
}

// Name returns the endpoint the service talks to.
func (s *HTTPBookingService) Name() string {
	return s.api.BaseURL()
}

// Courses fetches GET ?fn=courses.
func (s *HTTPBookingService) Courses(ctx context.Context) ([]models.Course, error) {
	env, err := s.query(ctx, OpCourses, url.Values{"fn": {"courses"}})
	if err != nil {
		return nil, err
	}
	if env.Courses == nil {
		return []models.Course{}, nil
	}
	return env.Courses, nil
}

// Slots fetches GET ?fn=slots&course=<course>.
//
// Slots violating 0 <= remaining <= capacity are reported as a parse failure.
func (s *HTTPBookingService) Slots(ctx context.Context, course models.Course) ([]models.Slot, error) {
	params := url.Values{"fn": {"slots"}, "course": {string(course)}}
	env, err := s.query(ctx, OpSlots, params)
	if err != nil {
		return nil, err
	}

	for i, slot := range env.Slots {
		if err := s.validate.Struct(slot); err != nil {
			return nil, &ResponseError{
				Op:      OpSlots,
				Kind:    KindParse,
				Excerpt: fmt.Sprintf("slot %d (%s): %v", i, slot.Key(), err),
				Err:     err,
			}
		}
	}

	if env.Slots == nil {
		return []models.Slot{}, nil
	}
	return env.Slots, nil
}

// Book POSTs the request to the bare endpoint. Extra fields of a successful response are ignored.
func (s *HTTPBookingService) Book(ctx context.Context, req models.BookingRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	resp, err := s.api.Post(ctx, "", data)
	if err != nil {
		return &ResponseError{Op: OpBook, Kind: KindTransport, Err: err}
	}
	_, err = decode(OpBook, resp)
	return err
}

func (s *HTTPBookingService) query(ctx context.Context, op string, params url.Values) (*envelope, error) {
	resp, err := s.api.Query(ctx, "", params)
	if err != nil {
		return nil, &ResponseError{Op: op, Kind: KindTransport, Err: err}
	}
	return decode(op, resp)
}

// decode parses the envelope first, so an unparsable error page is a parse failure whatever its status.
// A parsed body with a non-2xx status counts as ok:false.
func decode(op string, resp *APIResponse) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, &ResponseError{
			Op:         op,
			Kind:       KindParse,
			StatusCode: resp.StatusCode,
			Excerpt:    shared.Excerpt(resp.Body),
			Err:        err,
		}
	}

	if !resp.OK() || !env.OK {
		return nil, &ResponseError{
			Op:         op,
			Kind:       KindApplication,
			StatusCode: resp.StatusCode,
			Code:       env.Error,
			Message:    env.Message,
		}
	}
	return &env, nil
}
