package selection

import (
	"encoding/json"
	"testing"
)

func TestToggle_SameIDTwiceClears(t *testing.T) {
	var c Controller

	if !c.Toggle(7) {
		t.Fatal("First toggle should select")
	}
	if c.Toggle(7) {
		t.Fatal("Second toggle should deselect")
	}
	if _, ok := c.Selected(); ok {
		t.Error("Selection should be empty")
	}
}

func TestToggle_ReplacesSelection(t *testing.T) {
	var c Controller

	c.Toggle(1)
	c.Toggle(2)

	id, ok := c.Selected()
	if !ok || id != 2 {
		t.Fatalf("Incorrect selection, got %d (%v), want 2", id, ok)
	}
	if c.IsSelected(1) {
		t.Error("Previous id must not stay selected")
	}
}

func TestToggle_UnknownIDAccepted(t *testing.T) {
	var c Controller
	c.Toggle(-42)
	if !c.IsSelected(-42) {
		t.Error("Any id should be accepted")
	}
}

func TestClear(t *testing.T) {
	var c Controller
	c.Toggle(3)
	c.Clear()
	if _, ok := c.Selected(); ok {
		t.Error("Clear should drop the selection")
	}
}

func TestJSON(t *testing.T) {
	var c Controller
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"selected_id":null}` {
		t.Errorf("Incorrect empty encoding: %s", data)
	}

	c.Toggle(17934)
	data, _ = json.Marshal(c)

	var back Controller
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !back.IsSelected(17934) {
		t.Errorf("Selection lost in round trip: %s", data)
	}
}
