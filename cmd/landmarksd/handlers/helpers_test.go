package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/opst/landmarks/pkg/events"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Logger.SetLevel(log.OFF)
	return e
}

// smallest header detected as image/png
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type fakeStore struct {
	saved   map[string][]byte
	deleted []string
	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: map[string][]byte{}}
}

func (s *fakeStore) Save(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.saved[key] = b
	return nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStore) URL(key string) string {
	return "/media/" + key
}

// the only key saved in the store.
func (s *fakeStore) onlyKey(t *testing.T) string {
	t.Helper()
	if len(s.saved) != 1 {
		t.Fatalf("saved images: %d", len(s.saved))
	}
	for k := range s.saved {
		return k
	}
	return ""
}

type fakePublisher struct {
	published []events.Event
	err       error
}

func (p *fakePublisher) Publish(_ context.Context, ev events.Event) error {
	p.published = append(p.published, ev)
	return p.err
}

func (p *fakePublisher) Close() error {
	return nil
}

// assertHTTPError checks err is *echo.HTTPError with the code and message.
func assertHTTPError(t *testing.T, err error, code int, message map[string][]string) {
	t.Helper()
	he := new(echo.HTTPError)
	if !errors.As(err, &he) {
		t.Fatalf("not an HTTPError: %+v", err)
	}
	if he.Code != code {
		t.Errorf("status code: actual = %d, expected = %d", he.Code, code)
	}
	if message == nil {
		return
	}
	actual := map[string][]string{}
	b, _ := json.Marshal(he.Message)
	if err := json.Unmarshal(b, &actual); err != nil {
		t.Fatalf("message is not a map of messages: %#v", he.Message)
	}
	if !reflect.DeepEqual(actual, message) {
		t.Errorf("message: actual = %v, expected = %v", actual, message)
	}
}

// assertJSON checks body is the same JSON as expected.
func assertJSON(t *testing.T, body []byte, expected string) {
	t.Helper()
	var a, e any
	if err := json.Unmarshal(body, &a); err != nil {
		t.Fatalf("body is not json: %s", body)
	}
	if err := json.Unmarshal([]byte(expected), &e); err != nil {
		t.Fatalf("expected is not json: %s", expected)
	}
	if !reflect.DeepEqual(a, e) {
		t.Errorf("body:\n===actual===\n%s\n===expected===\n%s", body, expected)
	}
}
