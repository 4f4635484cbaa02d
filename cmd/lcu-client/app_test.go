package main

import (
	"reflect"
	"testing"
)

func TestParsePairs(t *testing.T) {
	got, err := parsePairs([]string{"id=1", "name=a=b"})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"id": "1", "name": "a=b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("parsePairs() = %v, want %v", got, want)
	}
	if got, _ := parsePairs(nil); got != nil {
		t.Fatalf("parsePairs(nil) = %v", got)
	}
	for _, bad := range []string{"novalue", "=x"} {
		if _, err := parsePairs([]string{bad}); err == nil {
			t.Errorf("parsePairs(%q) succeeded", bad)
		}
	}
}

func TestParseQuery(t *testing.T) {
	got, err := parseQuery([]string{"begIndex=0", "tag=a", "tag=b", "tag=c"})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"begIndex": "0", "tag": []string{"a", "b", "c"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("parseQuery() = %v, want %v", got, want)
	}
}

func TestEventName(t *testing.T) {
	tests := []struct {
		arg  string
		want string
	}{
		{"lol-gameflow_v1_session", "lol-gameflow_v1_session"},
		{"/lol-gameflow/v1/session", "lol-gameflow_v1_session"},
	}
	for _, tt := range tests {
		if got := eventName(tt.arg); got != tt.want {
			t.Errorf("eventName(%q) = %q, want %q", tt.arg, got, tt.want)
		}
	}
}
