package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/coursebook/internal/models"
	"github.com/desertthunder/coursebook/internal/services"
	"github.com/desertthunder/coursebook/internal/shared"
	tu "github.com/desertthunder/coursebook/internal/testing"
	"github.com/urfave/cli/v3"
)

var (
	morning = models.Slot{Date: "12.05.2024", Time: "09:00", Capacity: 8, Remaining: 3}
	noon    = models.Slot{Date: "12.05.2024", Time: "12:00", Capacity: 8, Remaining: 0}
)

func newTestRunner(t *testing.T, svc services.BookingService, api *services.APIService) (*Runner, *bytes.Buffer) {
	t.Helper()
	config := shared.DefaultConfig()
	config.Database.Path = filepath.Join(t.TempDir(), "coursebook.db")

	output := &bytes.Buffer{}
	return NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: filepath.Join(t.TempDir(), "config.toml"),
		Service:    svc,
		API:        api,
		Logger:     shared.NewLogger(io.Discard),
		Output:     output,
	}), output
}

func run(r *Runner, args ...string) error {
	app := &cli.Command{Name: "coursebook", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"coursebook"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			svc := tu.NewFakeBookingService()
			api := services.NewAPIService("http://example.test/exec", httpClient)

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Service:    svc,
				API:        api,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.service != svc {
				t.Error("expected service to be set")
			}
			if runner.api != api {
				t.Error("expected api to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses configured timeout", func(t *testing.T) {
			config := shared.DefaultConfig()
			runner := NewRunner(RunnerOpts{Config: config})

			if runner.httpClient.Timeout != config.Service.Timeout {
				t.Errorf("expected timeout %s, got %s", config.Service.Timeout, runner.httpClient.Timeout)
			}
		})

		t.Run("with nil service builds one for the endpoint", func(t *testing.T) {
			config := shared.DefaultConfig()
			runner := NewRunner(RunnerOpts{Config: config})

			if runner.api == nil || runner.service == nil {
				t.Fatal("expected api and booking service to be built")
			}
			if runner.service.Name() != config.Service.Endpoint {
				t.Errorf("expected service for %s, got %s", config.Service.Endpoint, runner.service.Name())
			}
		})

		t.Run("with configPath sets field", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{ConfigPath: "/test/path/config.toml"})

			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}

		for _, want := range []string{"setup", "courses", "slots", "book", "export", "receipts", "api", "tui"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})
}

func TestCommands(t *testing.T) {
	newFake := func() *tu.FakeBookingService {
		fake := tu.NewFakeBookingService("Adults A", "Kids B")
		fake.SetSlots("Adults A", morning, noon)
		return fake
	}

	t.Run("courses", func(t *testing.T) {
		r, out := newTestRunner(t, newFake(), nil)

		if err := run(r, "courses"); err != nil {
			t.Fatalf("courses failed: %v", err)
		}
		if !strings.Contains(out.String(), "1. Adults A") || !strings.Contains(out.String(), "2. Kids B") {
			t.Errorf("unexpected output: %s", out.String())
		}
	})

	t.Run("courses failure", func(t *testing.T) {
		fake := newFake()
		fake.CoursesErr = &services.ResponseError{Kind: services.KindTransport, Err: errors.New("connection refused")}
		r, _ := newTestRunner(t, fake, nil)

		err := run(r, "courses")
		if err == nil || err.Error() != "courses could not be loaded: connection refused" {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("slots", func(t *testing.T) {
		r, out := newTestRunner(t, newFake(), nil)

		if err := run(r, "slots", "--course", "Adults A"); err != nil {
			t.Fatalf("slots failed: %v", err)
		}
		for _, want := range []string{"Adults A", "12.05.2024 09:00  3/8 free", "12.05.2024 12:00  full (8)"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("output missing %q: %s", want, out.String())
			}
		}
	})

	t.Run("slots json", func(t *testing.T) {
		r, out := newTestRunner(t, newFake(), nil)

		if err := run(r, "slots", "--course", "Adults A", "--json"); err != nil {
			t.Fatalf("slots failed: %v", err)
		}
		if !strings.Contains(out.String(), `"remaining": 3`) {
			t.Errorf("unexpected output: %s", out.String())
		}
	})

	t.Run("book records a receipt", func(t *testing.T) {
		fake := newFake()
		r, out := newTestRunner(t, fake, nil)

		err := run(r, "book", "--course", "Adults A", "--date", "12.05.2024", "--time", "09:00", "--first", " Ada ", "--last", "Lovelace")
		if err != nil {
			t.Fatalf("book failed: %v", err)
		}

		if !strings.Contains(out.String(), "Booking confirmed") || !strings.Contains(out.String(), "Name:   Ada Lovelace") {
			t.Errorf("unexpected output: %s", out.String())
		}
		if got := len(fake.SlotsCalls()); got != 2 {
			t.Errorf("expected initial load plus one refresh, got %d", got)
		}

		out.Reset()
		if err := run(r, "receipts", "list"); err != nil {
			t.Fatalf("receipts list failed: %v", err)
		}
		if !strings.Contains(out.String(), "#1 Adults A  12.05.2024 09:00  Ada Lovelace") {
			t.Errorf("unexpected receipts: %s", out.String())
		}
	})

	t.Run("book without recording", func(t *testing.T) {
		r, out := newTestRunner(t, newFake(), nil)

		err := run(r, "book", "--course", "Adults A", "--date", "12.05.2024", "--time", "09:00", "--first", "Ada", "--last", "Lovelace", "--no-record")
		if err != nil {
			t.Fatalf("book failed: %v", err)
		}

		out.Reset()
		if err := run(r, "receipts", "list"); err != nil {
			t.Fatalf("receipts list failed: %v", err)
		}
		if !strings.Contains(out.String(), "No receipts stored.") {
			t.Errorf("expected no receipts, got: %s", out.String())
		}
	})

	t.Run("book rejected by the service", func(t *testing.T) {
		fake := newFake()
		fake.BookErr = &services.ResponseError{Kind: services.KindApplication, StatusCode: 200, Code: "ALREADY_BOOKED"}
		r, _ := newTestRunner(t, fake, nil)

		err := run(r, "book", "--course", "Adults A", "--date", "12.05.2024", "--time", "09:00", "--first", "Ada", "--last", "Lovelace")
		if err == nil || err.Error() != "This person is already registered for this time slot." {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("book full slot", func(t *testing.T) {
		fake := newFake()
		r, _ := newTestRunner(t, fake, nil)

		err := run(r, "book", "--course", "Adults A", "--date", "12.05.2024", "--time", "12:00", "--first", "Ada", "--last", "Lovelace")
		if !errors.Is(err, shared.ErrSlotUnavailable) {
			t.Errorf("expected ErrSlotUnavailable, got %v", err)
		}
		if got := len(fake.BookCalls()); got != 0 {
			t.Errorf("expected no booking call, got %d", got)
		}
	})

	t.Run("book blank name", func(t *testing.T) {
		r, _ := newTestRunner(t, newFake(), nil)

		err := run(r, "book", "--course", "Adults A", "--date", "12.05.2024", "--time", "09:00", "--first", "   ", "--last", "Lovelace")
		if !errors.Is(err, shared.ErrNotReady) {
			t.Errorf("expected ErrNotReady, got %v", err)
		}
	})

	t.Run("receipts delete unknown", func(t *testing.T) {
		r, _ := newTestRunner(t, newFake(), nil)

		if err := run(r, "receipts", "delete", "--id", "missing"); !errors.Is(err, shared.ErrReceiptNotFound) {
			t.Errorf("expected ErrReceiptNotFound, got %v", err)
		}
	})

	t.Run("export", func(t *testing.T) {
		dir := t.TempDir()
		r, out := newTestRunner(t, newFake(), nil)

		if err := run(r, "export", "--format", "csv", "--output", dir); err != nil {
			t.Fatalf("export failed: %v", err)
		}

		if !strings.Contains(out.String(), "Exported: 2") {
			t.Errorf("unexpected output: %s", out.String())
		}
		tu.AssertDirExists(t, dir)
		tu.AssertFileExists(t, filepath.Join(dir, "adults-a_slots.csv"))
		tu.AssertFileExists(t, filepath.Join(dir, "export_manifest.json"))
	})

	t.Run("setup database", func(t *testing.T) {
		r, out := newTestRunner(t, newFake(), nil)

		if err := run(r, "setup", "database"); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		if !strings.Contains(out.String(), "migration 0000 applied") {
			t.Errorf("unexpected output: %s", out.String())
		}
	})

	t.Run("setup config", func(t *testing.T) {
		r, _ := newTestRunner(t, newFake(), nil)

		if err := run(r, "setup", "config"); err != nil {
			t.Fatalf("setup config failed: %v", err)
		}
		tu.AssertFileExists(t, r.configPath)

		if err := run(r, "setup", "config"); err == nil {
			t.Error("expected error when config already exists")
		}
	})

	t.Run("api get", func(t *testing.T) {
		var query string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			query = req.URL.Query().Get("fn")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"ok":true,"courses":["Adults A"]}`))
		}))
		defer srv.Close()

		r, out := newTestRunner(t, newFake(), services.NewAPIService(srv.URL, srv.Client()))

		if err := run(r, "api", "get", "-p", "fn=courses"); err != nil {
			t.Fatalf("api get failed: %v", err)
		}
		if query != "courses" {
			t.Errorf("expected fn=courses, got %q", query)
		}
		if !strings.Contains(out.String(), `"Adults A"`) {
			t.Errorf("unexpected output: %s", out.String())
		}
	})

	t.Run("api post rejects invalid JSON", func(t *testing.T) {
		r, _ := newTestRunner(t, newFake(), services.NewAPIService("http://127.0.0.1:1", nil))

		if err := run(r, "api", "post", "--data", "{nope"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestParseParams(t *testing.T) {
	tc := []struct {
		name    string
		pairs   []string
		want    string
		wantErr bool
	}{
		{"empty", nil, "", false},
		{"single", []string{"fn=courses"}, "fn=courses", false},
		{"escaped value", []string{"fn=slots", "course=Adults A"}, "course=Adults+A&fn=slots", false},
		{"empty value", []string{"fn="}, "fn=", false},
		{"missing separator", []string{"fn"}, "", true},
		{"missing key", []string{"=courses"}, "", true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			params, err := parseParams(tt.pairs)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := params.Encode(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		config, err := loadConfig(filepath.Join(t.TempDir(), "absent.toml"), "")
		if err != nil {
			t.Fatalf("loadConfig failed: %v", err)
		}
		if config.Service.Endpoint != shared.DefaultConfig().Service.Endpoint {
			t.Errorf("unexpected endpoint %s", config.Service.Endpoint)
		}
	})

	t.Run("file then environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("[service]\nendpoint = \"http://file.test/exec\"\n"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := loadConfig(path, "")
		if err != nil {
			t.Fatalf("loadConfig failed: %v", err)
		}
		if config.Service.Endpoint != "http://file.test/exec" {
			t.Errorf("expected file endpoint, got %s", config.Service.Endpoint)
		}

		t.Setenv("COURSEBOOK_ENDPOINT", "http://env.test/exec")
		config, err = loadConfig(path, "")
		if err != nil {
			t.Fatalf("loadConfig failed: %v", err)
		}
		if config.Service.Endpoint != "http://env.test/exec" {
			t.Errorf("expected env endpoint, got %s", config.Service.Endpoint)
		}
	})

	t.Run("invalid endpoint", func(t *testing.T) {
		t.Setenv("COURSEBOOK_ENDPOINT", "not a url")

		if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.toml"), ""); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
