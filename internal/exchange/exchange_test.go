package exchange

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danieljhkim/hcpair/internal/clock"
	"github.com/danieljhkim/hcpair/internal/transport"
)

var testProfile = transport.Profile{Baud: 38400, Ending: transport.EndingCRLF}

func newFixture(replies map[string]string) (*Exchange, *transport.ScriptPort) {
	clk := clock.NewFakeClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	return New(clk), transport.NewScriptPort(clk, replies)
}

func TestSend_Acked(t *testing.T) {
	x, port := newFixture(map[string]string{"AT": "OK\r\n"})

	res, err := x.Send(context.Background(), port, "AT", testProfile, DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if !res.Acked {
		t.Errorf("expected ack, reply %q", res.Reply)
	}
	if len(port.Writes) != 1 || port.Writes[0] != "AT" {
		t.Errorf("writes = %v", port.Writes)
	}
}

func TestSend_AckIsCaseInsensitive(t *testing.T) {
	x, port := newFixture(map[string]string{"AT": "ok\r\n"})

	res, err := x.Send(context.Background(), port, "AT", testProfile, DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if !res.Acked {
		t.Errorf("lowercase ok not recognized, reply %q", res.Reply)
	}
}

func TestSend_RetriesThenFails(t *testing.T) {
	x, port := newFixture(nil) // silence for every command

	opts := DefaultOptions()
	opts.Retries = 3

	res, err := x.Send(context.Background(), port, "AT", testProfile, opts, nil)
	if err != nil {
		t.Fatalf("protocol fault must not be an error, got %v", err)
	}
	if res.Acked {
		t.Error("silent module reported as acked")
	}
	if len(port.Writes) != 3 {
		t.Errorf("expected 3 attempts, saw %d writes", len(port.Writes))
	}
}

func TestSend_NoAckRequired(t *testing.T) {
	x, port := newFixture(map[string]string{"AT+ADDR?": "+ADDR:1234:56:ABCDEF\r\n"})

	opts := DefaultOptions()
	opts.ExpectOK = false

	res, err := x.Send(context.Background(), port, "AT+ADDR?", testProfile, opts, nil)
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if res.Acked {
		t.Error("reply without marker reported as acked")
	}
	if res.Reply != "+ADDR:1234:56:ABCDEF\r\n" {
		t.Errorf("reply = %q", res.Reply)
	}
}

func TestSend_NoAckRequiredSilenceSucceeds(t *testing.T) {
	// AT+RESET is frequently silent; a completed read is enough.
	x, port := newFixture(nil)

	opts := DefaultOptions()
	opts.ExpectOK = false

	if _, err := x.Send(context.Background(), port, "AT+RESET", testProfile, opts, nil); err != nil {
		t.Fatalf("silent no-ack command must succeed, got %v", err)
	}
}

func TestSend_WriteFailure(t *testing.T) {
	x, port := newFixture(nil)
	port.WriteErr = errors.New("device gone")

	_, err := x.Send(context.Background(), port, "AT", testProfile, DefaultOptions(), nil)
	if err == nil {
		t.Fatal("expected I/O fault")
	}
}

func TestSend_Cancelled(t *testing.T) {
	x, port := newFixture(map[string]string{"AT": "OK\r\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := x.Send(ctx, port, "AT", testProfile, DefaultOptions(), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(port.Writes) != 0 {
		t.Errorf("cancelled send still wrote %v", port.Writes)
	}
}

func TestSend_MultiLineReplyCollected(t *testing.T) {
	x, port := newFixture(map[string]string{"AT+ROLE?": "+ROLE:0\r\nOK\r\n"})

	res, err := x.Send(context.Background(), port, "AT+ROLE?", testProfile, DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if res.Reply != "+ROLE:0\r\nOK\r\n" {
		t.Errorf("reply = %q", res.Reply)
	}
}

func TestSend_LogsAttempts(t *testing.T) {
	x, port := newFixture(map[string]string{"AT": "OK\r\n"})

	var lines []string
	sink := func(line string) { lines = append(lines, line) }

	if _, err := x.Send(context.Background(), port, "AT", testProfile, DefaultOptions(), sink); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected command + reply lines, got %v", lines)
	}
	if lines[0] != ">> AT (38400 baud, line ending crlf)" {
		t.Errorf("command line = %q", lines[0])
	}
	if lines[1] != "<< OK" {
		t.Errorf("reply line = %q", lines[1])
	}
}

func TestDecode_DropsInvalidBytes(t *testing.T) {
	got := decode([]byte{'O', 0xFF, 'K'})
	if got != "OK" {
		t.Errorf("decode = %q, want %q", got, "OK")
	}
}
