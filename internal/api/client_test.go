package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-key", "campus-test", time.Second)
}

func TestClient_Request(t *testing.T) {
	t.Parallel()

	t.Run("sends a form encoded POST with fixed headers", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if got := r.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
				t.Errorf("unexpected content type %q", got)
			}
			if got := r.Header.Get("X-API-KEY"); got != "test-key" {
				t.Errorf("unexpected API key header %q", got)
			}
			if got := r.Header.Get("User-Agent"); got != "campus-test" {
				t.Errorf("unexpected user agent %q", got)
			}
			if err := r.ParseForm(); err != nil {
				t.Errorf("failed to parse form: %v", err)
			}
			if got := r.PostForm.Get("service"); got != "thi" {
				t.Errorf("unexpected service parameter %q", got)
			}
			w.Write([]byte(`{"status":0,"data":["ok"]}`))
		})

		envelope, err := client.Request(context.Background(), map[string]string{"service": "thi"})
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		if envelope.Status != 0 {
			t.Fatalf("expected status 0, got %d", envelope.Status)
		}
	})

	t.Run("normalizes the legacy status envelope", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":0,"data":{"value":42}}`))
		})

		envelope, err := client.Request(context.Background(), nil)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		if string(envelope.Data) != `{"value":42}` {
			t.Fatalf("unexpected payload %s", envelope.Data)
		}
	})

	t.Run("normalizes the paired data envelope", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"date":"2024-05-17","data":[0,{"value":42}]}`))
		})

		envelope, err := client.Request(context.Background(), nil)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		if string(envelope.Data) != `{"value":42}` {
			t.Fatalf("unexpected payload %s", envelope.Data)
		}
	})

	t.Run("raises APIError on non-zero status in either shape", func(t *testing.T) {
		t.Parallel()

		for _, body := range []string{
			`{"status":-112,"data":"Query not possible"}`,
			`{"data":[-112,"Query not possible"]}`,
		} {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})

			_, err := client.Request(context.Background(), nil)
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError for %s, got %v", body, err)
			}
			if apiErr.Status != -112 {
				t.Fatalf("expected status -112, got %d", apiErr.Status)
			}
			if apiErr.Message() != "Query not possible" {
				t.Fatalf("unexpected message %q", apiErr.Message())
			}
		}
	})

	t.Run("raises ParseError with the raw body for invalid JSON", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>maintenance window</html>`))
		})

		_, err := client.Request(context.Background(), nil)
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected ParseError, got %v", err)
		}
		if !strings.Contains(parseErr.Raw, "maintenance window") {
			t.Fatalf("expected raw body in error, got %q", parseErr.Raw)
		}
	})
}

func TestClient_Login(t *testing.T) {
	t.Parallel()

	t.Run("maps the tri-element payload", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			r.ParseForm()
			if got := r.PostForm.Get("method"); got != "open" {
				t.Errorf("expected session open, got method %q", got)
			}
			if got := r.PostForm.Get("username"); got != "abc1234" {
				t.Errorf("unexpected username %q", got)
			}
			w.Write([]byte(`{"status":0,"data":["token-1","unused",3]}`))
		})

		result, err := client.Login(context.Background(), "abc1234", "secret")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if result.Token != "token-1" {
			t.Fatalf("unexpected token %q", result.Token)
		}
		if !result.IsStudent {
			t.Fatalf("expected role code 3 to map to a student account")
		}
	})

	t.Run("non-student role codes", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":0,"data":["token-1","unused",4]}`))
		})

		result, err := client.Login(context.Background(), "abc1234", "secret")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if result.IsStudent {
			t.Fatalf("expected role code 4 to map to a staff account")
		}
	})

	t.Run("rejects non-string tokens", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":0,"data":[12345,"unused",3]}`))
		})

		if _, err := client.Login(context.Background(), "abc1234", "secret"); err == nil {
			t.Fatalf("expected error for numeric session token")
		}
	})

	t.Run("propagates backend failures", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":-101,"data":"Wrong credentials"}`))
		})

		_, err := client.Login(context.Background(), "abc1234", "wrong")
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
	})
}

func TestClient_IsAlive(t *testing.T) {
	t.Parallel()

	t.Run("empty tokens are dead without a backend call", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("unexpected backend call for empty token")
		})

		if client.IsAlive(context.Background(), "") {
			t.Fatalf("expected empty token to be dead")
		}
	})

	t.Run("compares the literal status string", func(t *testing.T) {
		t.Parallel()

		responses := map[string]bool{
			`{"status":0,"data":"STATUS_OK"}`:      true,
			`{"status":0,"data":"STATUS_EXPIRED"}`: false,
			`{"status":-99,"data":"broken"}`:       false,
		}
		for body, want := range responses {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})
			if got := client.IsAlive(context.Background(), "token-1"); got != want {
				t.Fatalf("IsAlive for %s: expected %v, got %v", body, want, got)
			}
		}
	})
}

func TestClient_Logout(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if got := r.PostForm.Get("method"); got != "close" {
			t.Errorf("expected session close, got method %q", got)
		}
		w.Write([]byte(`{"status":0,"data":"STATUS_OK"}`))
	})

	if !client.Logout(context.Background(), "token-1") {
		t.Fatalf("expected logout to succeed")
	}
}
