package event

import (
	"errors"
	"testing"

	"github.com/rickgao/danmaku-overlay/internal/danmaku"
)

func TestKind_Signal(t *testing.T) {
	cases := []struct {
		kind Kind
		want string
	}{
		{KindSucceeded, "connection-succeed"},
		{KindFailed, "connection-failed"},
		{KindMessage, "new-danmaku"},
		{KindClosed, "connection-closed"},
		{Kind(0), ""},
	}
	for _, c := range cases {
		if got := c.kind.Signal(); got != c.want {
			t.Errorf("%v.Signal() = %q, want %q", c.kind, got, c.want)
		}
	}
}

func TestEvent_Payload(t *testing.T) {
	d := danmaku.Danmaku{User: "alice", Text: "hi"}
	if got := Message("c", "ws://x", d).Payload(); got != d {
		t.Errorf("Message payload = %v, want %v", got, d)
	}

	if got := Failed("c", "ws://x", errors.New("dial tcp: refused")).Payload(); got != "dial tcp: refused" {
		t.Errorf("Failed payload = %v", got)
	}

	if got := Failed("c", "ws://x", nil).Payload(); got != "unknown error" {
		t.Errorf("Failed(nil) payload = %v", got)
	}

	if _, ok := Succeeded("c", "ws://x").Payload().(string); !ok {
		t.Error("Succeeded payload should be a string")
	}
	if _, ok := Closed("c", "ws://x").Payload().(string); !ok {
		t.Error("Closed payload should be a string")
	}
}

func TestSinkFunc(t *testing.T) {
	var got []Kind
	sink := SinkFunc(func(e Event) { got = append(got, e.Kind) })

	sink.Emit(Succeeded("c", "u"))
	sink.Emit(Closed("c", "u"))
	Discard.Emit(Closed("c", "u"))

	if len(got) != 2 || got[0] != KindSucceeded || got[1] != KindClosed {
		t.Errorf("got %v", got)
	}
}
