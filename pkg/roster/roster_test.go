package roster

import (
	"reflect"
	"testing"
)

func TestNew(t *testing.T) {
	r := New([]Record{
		{ID: " E1 ", Name: " Alice ", Role: "CEO"},
		{ID: "E2", SupervisorID: "E1", Name: "Bob"},
		{ID: "", SupervisorID: "E1", Name: "Nobody"},
		{ID: "E2", SupervisorID: "E1", Name: "Bob again"},
		{ID: "E3", SupervisorID: "E3", Name: "Self"},
		{ID: "E4", SupervisorID: "E99", Name: "Orphan"},
	})

	if r.Len() != 4 {
		t.Errorf("Len() = %d, want 4", r.Len())
	}
	if r.Skipped() != 2 {
		t.Errorf("Skipped() = %d, want 2", r.Skipped())
	}

	e1, ok := r.Get("E1")
	if !ok {
		t.Fatal("E1 not found")
	}
	if e1.Name != "Alice" {
		t.Errorf("E1.Name = %q, want trimmed %q", e1.Name, "Alice")
	}

	e2, _ := r.Get("E2")
	if e2.Name != "Bob" {
		t.Errorf("duplicate id: Name = %q, want first occurrence %q", e2.Name, "Bob")
	}

	e3, _ := r.Get("E3")
	if e3.SupervisorID != "" || !e3.IsRoot() {
		t.Errorf("self supervisor should become a root, got SupervisorID %q", e3.SupervisorID)
	}

	if got := r.Orphans(); !reflect.DeepEqual(got, []string{"E4"}) {
		t.Errorf("Orphans() = %v, want [E4]", got)
	}

	if r.Has("missing") {
		t.Error("Has(missing) = true")
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get(missing) ok = true")
	}
}

func TestRecordsOrder(t *testing.T) {
	r := New([]Record{{ID: "c"}, {ID: "a"}, {ID: "b"}})
	var ids []string
	for _, rec := range r.Records() {
		ids = append(ids, rec.ID)
	}
	if !reflect.DeepEqual(ids, []string{"c", "a", "b"}) {
		t.Errorf("Records() order = %v, want load order", ids)
	}
}

func TestRecordIsRoot(t *testing.T) {
	tests := []struct {
		rec  Record
		want bool
	}{
		{Record{ID: "a"}, true},
		{Record{ID: "a", SupervisorID: "a"}, true},
		{Record{ID: "a", SupervisorID: "b"}, false},
	}
	for _, tt := range tests {
		if got := tt.rec.IsRoot(); got != tt.want {
			t.Errorf("%+v.IsRoot() = %v, want %v", tt.rec, got, tt.want)
		}
	}
}
