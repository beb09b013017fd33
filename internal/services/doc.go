// Package services defines the [BookingService] interface for the remote booking endpoint and implements it over HTTP.
//
// # Service Interface
//
// The booking session only sees [BookingService], so tests and the export task can swap in fakes.
//
// # HTTP Implementation
//
// [HTTPBookingService] speaks a small JSON protocol against one endpoint URL:
//
//	GET  <endpoint>?fn=courses&_ts=<ms>              {"ok":true,"courses":["Adults A", ...]}
//	GET  <endpoint>?fn=slots&course=<c>&_ts=<ms>      {"ok":true,"slots":[{"date","time","capacity","remaining"}]}
//	POST <endpoint> {"firstName","lastName","course","date","time"}  {"ok":true}
//
// Failures use {"ok":false,"error":"SLOT_FULL","message":"..."}.
//
// # Raw API
//
// [APIService] performs the raw requests. It sets the no-cache headers, appends the _ts cache-busting
// parameter to every GET and waits on an optional [rate.Limiter].
// The api get|post commands use it directly for debugging an endpoint.
//
// # Error Handling
//
// Every failure is a [*ResponseError] with one of three kinds, each matching a shared sentinel via errors.Is:
//   - [KindTransport] : [shared.ErrTransport]
//   - [KindParse] : [shared.ErrMalformedResponse], with a 200-byte body excerpt
//   - [KindApplication] : [shared.ErrApplication], with the server's error code and message
package services
