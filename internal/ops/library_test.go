package ops

import (
	"encoding/json"
	"testing"

	"github.com/hpungsan/clickr/internal/db"
	"github.com/hpungsan/clickr/internal/errors"
)

func TestFetch(t *testing.T) {
	database := openTestDB(t)
	saved := saveTestProfile(t, database, macProfile("Work"))

	out, err := Fetch(database, FetchInput{Name: " WORK "})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if out.ID != saved.ID || out.Name != "Work" || out.Active {
		t.Errorf("summary = %+v", out.ProfileSummary)
	}
	var body map[string]any
	if err := json.Unmarshal(out.Profile, &body); err != nil {
		t.Fatalf("profile is not JSON: %v", err)
	}
	if body["profile_name"] != "Work" {
		t.Errorf("profile_name = %v", body["profile_name"])
	}
}

func TestFetch_Errors(t *testing.T) {
	database := openTestDB(t)

	tests := []struct {
		name  string
		input FetchInput
		code  errors.ErrorCode
	}{
		{"no name", FetchInput{}, errors.ErrInvalidRequest},
		{"both", FetchInput{Name: "x", Active: true}, errors.ErrInvalidRequest},
		{"missing", FetchInput{Name: "missing"}, errors.ErrNotFound},
		{"no active", FetchInput{Active: true}, errors.ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Fetch(database, tc.input); !errors.Is(err, tc.code) {
				t.Errorf("error = %v, want %s", err, tc.code)
			}
		})
	}
}

func TestFetch_Active(t *testing.T) {
	database := openTestDB(t)
	saved := saveTestProfile(t, database, macProfile("Work"))
	if err := db.SetActive(database, saved.ID); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}

	out, err := Fetch(database, FetchInput{Active: true})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if out.ID != saved.ID || !out.Active {
		t.Errorf("active = %+v", out.ProfileSummary)
	}
}

func TestList_Pagination(t *testing.T) {
	database := openTestDB(t)
	for _, name := range []string{"a", "b", "c"} {
		saveTestProfile(t, database, macProfile(name))
	}

	out, err := List(database, ListInput{Limit: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out.Items) != 2 || !out.Pagination.HasMore || out.Pagination.Total != 3 {
		t.Errorf("first page = %d items, pagination %+v", len(out.Items), out.Pagination)
	}
	if out.Sort != "updated_at_desc" {
		t.Errorf("Sort = %q", out.Sort)
	}

	out, err = List(database, ListInput{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out.Items) != 1 || out.Pagination.HasMore {
		t.Errorf("second page = %d items, pagination %+v", len(out.Items), out.Pagination)
	}
}

func TestList_LimitBounds(t *testing.T) {
	database := openTestDB(t)

	tests := []struct {
		in, want int
	}{
		{0, DefaultListLimit},
		{-5, DefaultListLimit},
		{500, MaxListLimit},
		{7, 7},
	}
	for _, tc := range tests {
		out, err := List(database, ListInput{Limit: tc.in, Offset: -1})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if out.Pagination.Limit != tc.want || out.Pagination.Offset != 0 {
			t.Errorf("Limit %d: pagination = %+v, want limit %d", tc.in, out.Pagination, tc.want)
		}
		if out.Items == nil {
			t.Error("Items should be an empty slice, not nil")
		}
	}
}

func TestDelete(t *testing.T) {
	database := openTestDB(t)
	saved := saveTestProfile(t, database, macProfile("Work"))

	out, err := Delete(database, DeleteInput{Name: "work"})
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !out.Deleted || out.ID != saved.ID || out.Name != "Work" {
		t.Errorf("output = %+v", out)
	}

	if _, err := Delete(database, DeleteInput{Name: "work"}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second delete = %v, want NOT_FOUND", err)
	}
	if _, err := Delete(database, DeleteInput{}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("empty name = %v, want INVALID_REQUEST", err)
	}
}
