package amqp

import (
	"testing"
)

func TestExpenseEventMessageRoundTrip(t *testing.T) {
	msg := NewExpenseEventMessage(42, ActionStatusChanged)

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := ExpenseEventMessageFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != 42 || got.Action != ActionStatusChanged {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Fatalf("timestamp not carried")
	}
}

func TestExpenseEventMessageRejectsUnknownAction(t *testing.T) {
	if _, err := ExpenseEventMessageFromJSON([]byte(`{"id":1,"action":"exploded"}`)); err == nil {
		t.Fatalf("expected error for unknown action")
	}
	if _, err := ExpenseEventMessageFromJSON([]byte(`not json`)); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
