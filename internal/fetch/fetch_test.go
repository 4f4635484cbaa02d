package fetch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/endpoint"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/remote"
	"github.com/life-stream-dev/life-stream-go-lcu-client/internal/schema"
)

func newServer(t *testing.T, handler http.HandlerFunc) (remote.PortToken, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.Header.Get("Authorization") != "Basic t" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	return remote.PortToken{Port: u.Port(), Token: "t"}, &hits
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestFetchStatus(t *testing.T) {
	pt, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lol-summoner/v1/status" || r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, `{"ready":true}`)
	})

	v, err := New().Fetch(context.Background(), endpoint.PathSummonerStatus, pt, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if m, ok := v.(map[string]any); !ok || m["ready"] != true {
		t.Fatalf("Fetch() = %#v", v)
	}
}

func TestFetchUnsupportedContentType(t *testing.T) {
	pt, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "{definitely not json")
	})

	_, err := New().Fetch(context.Background(), endpoint.PathSummonerStatus, pt, nil, nil, nil)
	var unsupported *UnsupportedContentTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("err = %v, want *UnsupportedContentTypeError", err)
	}
	if unsupported.ContentType != "text/plain" {
		t.Errorf("content type = %q", unsupported.ContentType)
	}
}

func TestFetchAuthorizationCannotBeOverridden(t *testing.T) {
	pt, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Trace") != "abc" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, `{"ready":false}`)
	})

	init := &Init{Header: http.Header{
		"Authorization": {"Basic evil"},
		"X-Trace":       {"abc"},
	}}
	v, err := New().Fetch(context.Background(), endpoint.PathSummonerStatus, pt, nil, nil, init)
	if err != nil {
		t.Fatal(err)
	}
	if v.(map[string]any)["ready"] != false {
		t.Fatalf("Fetch() = %#v", v)
	}
}

func TestFetchSchemaMismatch(t *testing.T) {
	pt, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"ready":"yes"}`)
	})

	_, err := New().Fetch(context.Background(), endpoint.PathSummonerStatus, pt, nil, nil, nil)
	var mismatch *schema.MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("err = %v, want *schema.MismatchError", err)
	}
	if mismatch.Value.(map[string]any)["ready"] != "yes" {
		t.Errorf("raw value not carried: %#v", mismatch.Value)
	}
}

func TestFetchRejectsBeforeIO(t *testing.T) {
	pt, hits := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	})
	f := New()

	_, err := f.Fetch(context.Background(), "/not/registered", pt, nil, nil, nil)
	if !errors.Is(err, endpoint.ErrEndpointNotFound) {
		t.Errorf("unknown endpoint: err = %v", err)
	}

	_, err = f.Fetch(context.Background(), endpoint.PathSummonerByPUUID, pt, map[string]string{"puuid": ""}, nil, nil)
	var empty *endpoint.EmptyParameterError
	if !errors.As(err, &empty) {
		t.Errorf("empty parameter: err = %v", err)
	}

	_, err = f.Fetch(context.Background(), endpoint.PathSummonerByPUUID, pt, nil, nil, nil)
	var missing *endpoint.MissingParameterError
	if !errors.As(err, &missing) {
		t.Errorf("missing parameter: err = %v", err)
	}

	if n := atomic.LoadInt32(hits); n != 0 {
		t.Fatalf("server was hit %d times", n)
	}
}

func TestFetchBlob(t *testing.T) {
	icon := []byte{0xff, 0xd8, 0xff, 0xe0}
	pt, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lol-game-data/assets/v1/profile-icons/29.jpg" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(icon)
	})

	data, err := Get(context.Background(), New(), endpoint.ProfileIcon, pt, map[string]string{"id": "29"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, icon) {
		t.Fatalf("body = %x", data)
	}
}

func TestFetchStatusError(t *testing.T) {
	pt, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"errorCode":"RPC_ERROR","httpStatus":404,"message":"You are not in a game."}`)
	})

	_, err := New().Fetch(context.Background(), endpoint.PathGameflowSession, pt, nil, nil, nil)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", statusErr.StatusCode)
	}
	if statusErr.Error() != "endpoint /lol-gameflow/v1/session: status 404: You are not in a game." {
		t.Errorf("Error() = %q", statusErr.Error())
	}
}

func TestFetchQueryAndMethod(t *testing.T) {
	table := endpoint.MustNewTable([]endpoint.Descriptor{
		{ID: "/matches/:puuid", Query: schema.MatchHistoryQuery},
		{ID: "/echo", Method: endpoint.MethodPost},
	}, nil)

	pt, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/matches/p1":
			writeJSON(w, http.StatusOK, `{"query":"`+r.URL.RawQuery+`"}`)
		case "/echo":
			body, _ := io.ReadAll(r.Body)
			writeJSON(w, http.StatusOK, `{"method":"`+r.Method+`","body":`+string(body)+`}`)
		default:
			http.NotFound(w, r)
		}
	})
	f := New(WithTable(table))

	v, err := f.Fetch(context.Background(), "/matches/:puuid", pt, map[string]string{"puuid": "p1"}, map[string]any{"begIndex": 0, "endIndex": "19", "skip": nil}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := v.(map[string]any)["query"]; got != "begIndex=0&endIndex=19" {
		t.Errorf("query = %v", got)
	}

	v, err = f.Fetch(context.Background(), "/echo", pt, nil, nil, &Init{Body: []byte(`{"a":1}`)})
	if err != nil {
		t.Fatal(err)
	}
	m := v.(map[string]any)
	if m["method"] != "POST" || m["body"].(map[string]any)["a"] != float64(1) {
		t.Errorf("echo = %#v", m)
	}

	v, err = f.Fetch(context.Background(), "/echo", pt, nil, nil, &Init{Method: "PUT", Body: []byte(`null`)})
	if err != nil {
		t.Fatal(err)
	}
	if v.(map[string]any)["method"] != "PUT" {
		t.Errorf("method override ignored: %#v", v)
	}
}

func TestGetTyped(t *testing.T) {
	pt, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"ready":true}`)
	})
	status, err := Get(context.Background(), New(), endpoint.SummonerStatus, pt, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !status.Ready {
		t.Fatal("status not ready")
	}
}

func TestRaw(t *testing.T) {
	pt, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/riotclient/region-locale" {
			writeJSON(w, http.StatusOK, `{"region":"KR"}`)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusTeapot)
		_, _ = io.WriteString(w, "short and stout")
	})
	f := New()

	resp, err := f.Raw(context.Background(), "riotclient/region-locale", pt, nil)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := resp.JSON(); !ok || v.(map[string]any)["region"] != "KR" {
		t.Fatalf("JSON() = %#v, %v", v, ok)
	}

	resp, err = f.Raw(context.Background(), "/teapot", pt, nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusTeapot || string(resp.Body) != "short and stout" {
		t.Fatalf("resp = %+v", resp)
	}
	if _, ok := resp.JSON(); ok {
		t.Fatal("text body reported as JSON")
	}
}
