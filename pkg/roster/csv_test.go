package roster

import (
	"strings"
	"testing"

	"github.com/matzehuels/orgchart/pkg/errors"
)

const sample = "\ufeffEmployee ID,Supervisor ID,Name,Role,Image URL left,Image URL right\n" +
	"E1,,Alice,CEO,https://img/a.png,https://img/logo.png\n" +
	"\n" +
	"E2,E1,Bob,CTO\n" +
	" E3 , E1 , Carol , CFO ,,\n" +
	",E1,Ghost,Intern,,\n"

func TestRead(t *testing.T) {
	r, err := Read(strings.NewReader(sample), DefaultColumns())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
	if r.Skipped() != 1 {
		t.Errorf("Skipped() = %d, want 1", r.Skipped())
	}

	e1, _ := r.Get("E1")
	if e1.LeftImageURL != "https://img/a.png" || e1.RightImageURL != "https://img/logo.png" {
		t.Errorf("E1 images = %q, %q", e1.LeftImageURL, e1.RightImageURL)
	}

	// short row is padded
	e2, _ := r.Get("E2")
	if e2.Role != "CTO" || e2.LeftImageURL != "" {
		t.Errorf("E2 = %+v", e2)
	}

	e3, ok := r.Get("E3")
	if !ok {
		t.Fatal("trimmed id E3 not found")
	}
	if e3.SupervisorID != "E1" || e3.Name != "Carol" {
		t.Errorf("E3 = %+v", e3)
	}
}

func TestReadTabDelimited(t *testing.T) {
	in := "Name\tRole\tEmployee ID\tSupervisor ID\n" +
		"Alice\tCEO\t1\t\n" +
		"Bob\tCTO\t2\t1\n"

	cols := DefaultColumns()
	cols.Comma = '\t'
	r, err := Read(strings.NewReader(in), cols)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	bob, ok := r.Get("2")
	if !ok || bob.SupervisorID != "1" || bob.Name != "Bob" {
		t.Errorf("Get(2) = %+v, %v", bob, ok)
	}
}

func TestReadCustomHeaders(t *testing.T) {
	in := "id,boss,who,what\n1,,Alice,CEO\n"
	cols := Columns{ID: "id", Supervisor: "boss", Name: "who", Role: "what"}

	r, err := Read(strings.NewReader(in), cols)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if rec, _ := r.Get("1"); rec.Name != "Alice" {
		t.Errorf("Name = %q, want Alice", rec.Name)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"missing role", "Employee ID,Supervisor ID,Name\n1,,A\n"},
		{"missing id", "Supervisor ID,Name,Role\n,A,B\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.in), DefaultColumns())
			if !errors.Is(err, errors.ErrCodeInvalidRoster) {
				t.Errorf("Read() error = %v, want INVALID_ROSTER", err)
			}
		})
	}
}

func TestParse(t *testing.T) {
	r, err := Parse([]byte("Employee ID,Supervisor ID,Name,Role\n1,,A,B\n"), DefaultColumns())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}
