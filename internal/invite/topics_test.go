package invite

import (
	"reflect"
	"testing"
)

func TestTopicListAddRejectsEmptyAndDuplicates(t *testing.T) {
	l := NewTopicList()
	if !l.Add("  Future of Text ") {
		t.Fatal("expected first add to succeed")
	}
	if l.Add("Future of Text") {
		t.Error("duplicate topic was accepted")
	}
	if l.Add("   ") {
		t.Error("blank topic was accepted")
	}
	if got := l.Items(); !reflect.DeepEqual(got, []string{"Future of Text"}) {
		t.Errorf("unexpected items %v", got)
	}
	if main, ok := l.Main(); !ok || main != "Future of Text" {
		t.Errorf("first topic should be main, got %q", main)
	}
}

func TestTopicListAddThenRemoveRestoresState(t *testing.T) {
	cases := [][]string{
		nil,
		{"A"},
		{"A", "B", "C"},
	}
	for _, initial := range cases {
		l := NewTopicList(initial...)
		before := l.Items()
		beforeMain := l.MainIndex()

		if !l.Add("Fresh topic") {
			t.Fatalf("add failed for %v", initial)
		}
		if !l.Remove("Fresh topic") {
			t.Fatalf("remove failed for %v", initial)
		}
		if got := l.Items(); !reflect.DeepEqual(got, before) && !(len(got) == 0 && len(before) == 0) {
			t.Errorf("items %v, want %v", got, before)
		}
		if l.MainIndex() != beforeMain {
			t.Errorf("main index %d, want %d", l.MainIndex(), beforeMain)
		}
	}
}

func TestTopicListEdit(t *testing.T) {
	l := NewTopicList("A", "B")

	if l.Edit(0, "B") {
		t.Error("edit to a duplicate should be rejected")
	}
	if l.Edit(1, " ") {
		t.Error("edit to blank should be rejected")
	}
	if !l.Edit(1, " C ") {
		t.Fatal("edit should succeed")
	}
	if got := l.Items(); !reflect.DeepEqual(got, []string{"A", "C"}) {
		t.Errorf("unexpected items %v", got)
	}
	if l.Edit(5, "D") {
		t.Error("edit out of range should fail")
	}
}

func TestTopicListMainFollowsRemovals(t *testing.T) {
	l := NewTopicList("A", "B", "C")
	l.SetMain(2)

	l.RemoveAt(0)
	if main, _ := l.Main(); main != "C" {
		t.Errorf("main should still be C, got %q", main)
	}

	l.Remove("C")
	if main, _ := l.Main(); main != "B" {
		t.Errorf("main should fall back to first topic, got %q", main)
	}

	l.Remove("B")
	if _, ok := l.Main(); ok {
		t.Error("empty list should have no main topic")
	}
}
