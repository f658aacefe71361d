package events

import "testing"

func TestEmitRunsHandlersInOrder(t *testing.T) {
	var seen []uint64
	Register("test.ordered", func(event Event) {
		seen = append(seen, event.VaultID)
	})
	Register("test.ordered", func(event Event) {
		seen = append(seen, event.VaultID*10)
	})
	Emit(Event{Name: "test.ordered", VaultID: 7})
	if len(seen) != 2 || seen[0] != 7 || seen[1] != 70 {
		t.Errorf("handlers ran wrong: %v", seen)
	}
}

func TestEmitSurvivesPanickingHandler(t *testing.T) {
	ran := false
	Register("test.panic", func(event Event) {
		panic("boom")
	})
	Register("test.panic", func(event Event) {
		ran = true
	})
	Emit(Event{Name: "test.panic"})
	if !ran {
		t.Error("a panicking handler must not stop the rest")
	}
}

func TestEmitWithoutHandlers(t *testing.T) {
	Emit(Event{Name: "test.nobody"})
}
