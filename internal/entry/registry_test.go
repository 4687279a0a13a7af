package entry

import "testing"

func TestRegistry_AddAndLookup(t *testing.T) {
	r := NewRegistry()
	e := &Entry{ID: "2009-theobald"}
	if err := r.Add(e); err != nil {
		t.Fatalf("Add(): %v", err)
	}

	got, ok := r.Lookup("2009-theobald")
	if !ok || got != e {
		t.Errorf("Lookup() = %v, %v", got, ok)
	}
	if !r.Has("2009-theobald") {
		t.Error("Has() = false")
	}
	if r.Has("absent") {
		t.Error("Has(absent) = true")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d", r.Len())
	}
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	if err := r.Add(&Entry{ID: "dup"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Add(&Entry{ID: "dup"}); err == nil {
		t.Error("Add() duplicate = nil error")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d after rejected add", r.Len())
	}
}

func TestRegistry_RejectsInvalidIdentifiers(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"", "Has-Caps", "under_score", "spa ce", "doi:10.1/x"} {
		if err := r.Add(&Entry{ID: id}); err == nil {
			t.Errorf("Add(%q) = nil error", id)
		}
	}
}

func TestRegistry_EntriesPreserveInsertionOrder(t *testing.T) {
	r := NewRegistry()
	ids := []string{"zulu", "alpha", "mike", "bravo"}
	for _, id := range ids {
		if err := r.Add(&Entry{ID: id}); err != nil {
			t.Fatal(err)
		}
	}

	entries := r.Entries()
	if len(entries) != len(ids) {
		t.Fatalf("Entries() len = %d", len(entries))
	}
	for i, id := range ids {
		if entries[i].ID != id {
			t.Errorf("entries[%d].ID = %q, want %q", i, entries[i].ID, id)
		}
	}
}

func TestValidID(t *testing.T) {
	valid := []string{"2009-theobald-rmsd", "a", "qaoa", "x-1-2-3"}
	for _, id := range valid {
		if !ValidID(id) {
			t.Errorf("ValidID(%q) = false", id)
		}
	}
	invalid := []string{"", "UPPER", "with space", "dot.sep", "trailing!", "ünïcode"}
	for _, id := range invalid {
		if ValidID(id) {
			t.Errorf("ValidID(%q) = true", id)
		}
	}
}

func TestExternalIDString(t *testing.T) {
	if got := (ExternalID{Kind: KindDOI, Value: "10.1/x"}).String(); got != "doi:10.1/x" {
		t.Errorf("String() = %q", got)
	}
	if got := (ExternalID{Kind: KindArxiv, Value: "1411.4028"}).String(); got != "arxiv:1411.4028" {
		t.Errorf("String() = %q", got)
	}
}

func TestDateString(t *testing.T) {
	tests := []struct {
		date Date
		want string
	}{
		{Date{Year: 2009}, "2009"},
		{Date{Year: 2009, Month: 7}, "2009-07"},
		{Date{Year: 2009, Month: 7, Day: 30}, "2009-07-30"},
	}
	for _, tt := range tests {
		if got := tt.date.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestMetadataIsZero(t *testing.T) {
	if !(Metadata{}).IsZero() {
		t.Error("empty Metadata not zero")
	}
	if (Metadata{Title: "t"}).IsZero() {
		t.Error("titled Metadata reported zero")
	}
	if (Metadata{PublishedOnline: &Date{Year: 2020}}).IsZero() {
		t.Error("dated Metadata reported zero")
	}
}
