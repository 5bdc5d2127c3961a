package detect

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danieljhkim/hcpair/internal/clock"
	"github.com/danieljhkim/hcpair/internal/exchange"
	"github.com/danieljhkim/hcpair/internal/transport"
)

func newClock() *clock.FakeClock {
	return clock.NewFakeClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
}

func TestDetect_ClassifiesHC05(t *testing.T) {
	clk := newClock()
	port := transport.NewScriptPort(clk, map[string]string{
		"AT":       "OK\r\n",
		"AT+ROLE?": "+ROLE:0\r\nOK\r\n",
	})

	res, err := Detect(context.Background(), port.Opener(), "/dev/ttyUSB0", nil, exchange.New(clk), nil)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if res.Family != FamilyHC05 {
		t.Errorf("family = %s, want hc05", res.Family)
	}
	if res.Profile != Profiles[0] {
		t.Errorf("profile = %v, want first priority profile", res.Profile)
	}
	if !port.Closed() {
		t.Error("port left open after detection")
	}
}

func TestDetect_ClassifiesHC06(t *testing.T) {
	clk := newClock()
	// HC-06 acks the ping but errors on the role query.
	port := transport.NewScriptPort(clk, map[string]string{
		"AT":       "OK\r\n",
		"AT+ROLE?": "ERROR:(0)\r\n",
	})

	res, err := Detect(context.Background(), port.Opener(), "/dev/ttyUSB0", nil, exchange.New(clk), nil)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if res.Family != FamilyHC06 {
		t.Errorf("family = %s, want hc06", res.Family)
	}
}

func TestDetect_SilentRoleReplyIsHC06(t *testing.T) {
	clk := newClock()
	port := transport.NewScriptPort(clk, map[string]string{"AT": "OK\r\n"})

	res, err := Detect(context.Background(), port.Opener(), "/dev/ttyUSB0", nil, exchange.New(clk), nil)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if res.Family != FamilyHC06 {
		t.Errorf("family = %s, want hc06", res.Family)
	}
}

func TestDetect_TriesProfilesInOrder(t *testing.T) {
	clk := newClock()
	// Silent module: every profile gets probed, none acks.
	port := transport.NewScriptPort(clk, nil)

	var opened []transport.Profile
	opener := func(device string, profile transport.Profile) (transport.Port, error) {
		opened = append(opened, profile)
		return port, nil
	}

	_, err := Detect(context.Background(), opener, "/dev/ttyUSB0", nil, exchange.New(clk), nil)
	if !errors.Is(err, ErrNotDetected) {
		t.Fatalf("err = %v, want ErrNotDetected", err)
	}
	if len(opened) != len(Profiles) {
		t.Fatalf("opened %d profiles, want %d", len(opened), len(Profiles))
	}
	for i, p := range opened {
		if p != Profiles[i] {
			t.Errorf("profile %d = %v, want %v", i, p, Profiles[i])
		}
	}
}

func TestDetect_OpenFailure(t *testing.T) {
	clk := newClock()
	opener := func(string, transport.Profile) (transport.Port, error) {
		return nil, errors.New("no such device")
	}

	_, err := Detect(context.Background(), opener, "/dev/ttyUSB9", nil, exchange.New(clk), nil)
	if !errors.Is(err, ErrNotDetected) {
		t.Fatalf("err = %v, want ErrNotDetected", err)
	}
}

func TestDetect_Cancelled(t *testing.T) {
	clk := newClock()
	port := transport.NewScriptPort(clk, map[string]string{"AT": "OK\r\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Detect(ctx, port.Opener(), "/dev/ttyUSB0", nil, exchange.New(clk), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
