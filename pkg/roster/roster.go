package roster

// Roster is the ordered set of records plus an id index built once at load.
type Roster struct {
	records []Record
	index   map[string]int
	skipped int
}

// New builds a roster from raw records. Records are trimmed; records with an
// empty id and repeated ids (after the first) are dropped and counted.
// A record naming itself as supervisor is stored as a root.
func New(records []Record) *Roster {
	r := &Roster{
		records: make([]Record, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}
	for _, rec := range records {
		r.add(rec)
	}
	return r
}

func (r *Roster) add(rec Record) {
	rec = rec.trimmed()
	if rec.ID == "" {
		r.skipped++
		return
	}
	if _, dup := r.index[rec.ID]; dup {
		r.skipped++
		return
	}
	if rec.SupervisorID == rec.ID {
		rec.SupervisorID = ""
	}
	r.index[rec.ID] = len(r.records)
	r.records = append(r.records, rec)
}

// Records returns the records in load order. The slice must not be modified.
func (r *Roster) Records() []Record {
	return r.records
}

// Get returns the record with the given id.
func (r *Roster) Get(id string) (Record, bool) {
	i, ok := r.index[id]
	if !ok {
		return Record{}, false
	}
	return r.records[i], true
}

// Has reports whether id is present.
func (r *Roster) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}

// Len returns the number of loaded records.
func (r *Roster) Len() int {
	return len(r.records)
}

// Skipped returns how many input rows were dropped (empty or repeated id).
func (r *Roster) Skipped() int {
	return r.skipped
}

// Orphans returns ids whose supervisor id is set but matches no record,
// in load order.
func (r *Roster) Orphans() []string {
	var out []string
	for _, rec := range r.records {
		if rec.SupervisorID != "" && !r.Has(rec.SupervisorID) {
			out = append(out, rec.ID)
		}
	}
	return out
}
