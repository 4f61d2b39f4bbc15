package bridge

import (
	"io"
	"strings"
	"testing"
	"time"
)

func openPipe(t *testing.T) *Bridge {
	t.Helper()
	b, err := Open(Options{Transport: TransportPipe})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func TestParseTransport(t *testing.T) {
	tests := []struct {
		input   string
		want    Transport
		wantErr bool
	}{
		{"", TransportAuto, false},
		{"auto", TransportAuto, false},
		{"PTY", TransportPTY, false},
		{"pipe", TransportPipe, false},
		{"socket", "", true},
	}

	for _, tt := range tests {
		got, err := ParseTransport(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTransport(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTransport(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestBridge_Feed(t *testing.T) {
	b := openPipe(t)

	if err := b.SendLines([]string{"one", "two"}); err != nil {
		t.Fatalf("SendLines() error = %v", err)
	}
	b.CloseFeed()

	data, err := io.ReadAll(b.EngineInput())
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(data) != "one\ntwo\n" {
		t.Errorf("engine input = %q, want %q", data, "one\ntwo\n")
	}
}

func TestBridge_DrainOrdering(t *testing.T) {
	b := openPipe(t)

	out := b.EngineOutput()
	for i := 0; i < 100; i++ {
		io.WriteString(out, "line\r\n")
	}
	io.WriteString(out, "last")

	b.CloseInput()
	b.Join()

	got := b.Output()
	if !strings.HasSuffix(got, "last") {
		t.Errorf("output should end with the last write, got %q", got[max(0, len(got)-20):])
	}
	if want := 100*len("line\r\n") + len("last"); len(got) != want {
		t.Errorf("len(Output()) = %d, want %d", len(got), want)
	}
}

func TestBridge_IdempotentShutdown(t *testing.T) {
	b := openPipe(t)

	b.CloseInput()
	b.Join()

	finished := make(chan struct{})
	go func() {
		b.CloseInput()
		b.Join()
		b.Join()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("second CloseInput/Join deadlocked")
	}

	if err := b.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestBridge_PTY(t *testing.T) {
	b, err := Open(Options{Transport: TransportPTY, Rows: 10, Cols: 40, Screen: true})
	if err != nil {
		t.Skipf("pty not available: %v", err)
	}
	defer b.Close()

	if b.Transport() != TransportPTY {
		t.Fatalf("Transport() = %q, want %q", b.Transport(), TransportPTY)
	}

	io.WriteString(b.EngineOutput(), "> hello\r\n> world")
	b.CloseInput()
	b.Join()

	if got := b.Output(); got != "> hello\r\n> world" {
		t.Errorf("Output() = %q, want %q", got, "> hello\r\n> world")
	}
	if got := b.Screen().Row(1); got != "> world" {
		t.Errorf("Screen().Row(1) = %q, want %q", got, "> world")
	}
}

func TestBridge_Auto(t *testing.T) {
	b, err := Open(Options{})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer b.Close()

	if tr := b.Transport(); tr != TransportPTY && tr != TransportPipe {
		t.Errorf("Transport() = %q, want pty or pipe", tr)
	}
	if b.Screen() != nil {
		t.Error("Screen() should be nil without Options.Screen")
	}
}
