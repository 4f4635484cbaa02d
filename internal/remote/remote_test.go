package remote

import (
	"context"
	"errors"
	"testing"

	c "github.com/life-stream-dev/life-stream-go-lcu-client/internal/config"
)

func TestPortTokenValidate(t *testing.T) {
	tests := []struct {
		pt      PortToken
		wantErr bool
	}{
		{PortToken{Port: "2999", Token: "t"}, false},
		{PortToken{Port: "", Token: "t"}, true},
		{PortToken{Port: "abc", Token: "t"}, true},
		{PortToken{Port: "70000", Token: "t"}, true},
		{PortToken{Port: "2999", Token: ""}, true},
	}
	for _, tt := range tests {
		if err := tt.pt.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("Validate(%+v) = %v", tt.pt, err)
		}
	}
}

func TestPortTokenURL(t *testing.T) {
	pt := PortToken{Port: "2999", Token: "dG9rZW4="}
	if got := pt.URL("https", "/lol-summoner/v1/summoners/a%2Fb"); got != "https://127.0.0.1:2999/lol-summoner/v1/summoners/a%2Fb" {
		t.Errorf("URL() = %q", got)
	}
	if got := pt.AuthorizationHeader(); got != "Basic dG9rZW4=" {
		t.Errorf("AuthorizationHeader() = %q", got)
	}
}

func TestStaticLocator(t *testing.T) {
	config := c.Default()
	config.Remote.Port = "2999"
	config.Remote.Token = "t"

	l := NewStaticLocator(config)
	if running, _ := l.Running(context.Background()); running {
		t.Fatal("running before enabled")
	}
	if _, err := l.PortToken(context.Background()); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("err = %v", err)
	}

	config.Remote.Running = true
	l = NewStaticLocator(config)
	pt, err := l.PortToken(context.Background())
	if err != nil || pt.Port != "2999" || pt.Token != "t" {
		t.Fatalf("PortToken() = %+v, %v", pt, err)
	}
}
