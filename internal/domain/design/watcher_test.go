package design

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseSnapshotSortsAscending(t *testing.T) {
	payload, _ := json.Marshal(&Snapshot{
		Designs: []*Design{
			{ID: 3, BackingKey: "designs/3.jpg"},
			{ID: 1, BackingKey: "designs/1.jpg"},
			{ID: 2, BackingKey: "designs/2.jpg"},
		},
		Likes: map[int64]int64{1: 5},
	})

	snap, err := ParseSnapshot(payload)
	if err != nil {
		t.Fatalf("ParseSnapshot: %v", err)
	}

	for i, want := range []int64{1, 2, 3} {
		if snap.Designs[i].ID != want {
			t.Errorf("position %d: id %d, want %d", i, snap.Designs[i].ID, want)
		}
	}
	if snap.Likes[1] != 5 {
		t.Errorf("likes lost in parse: %v", snap.Likes)
	}
}

func TestParseSnapshotRejectsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `{{{`},
		{"null record", `{"designs":[null],"likes":{}}`},
		{"zero id", `{"designs":[{"id":0,"backing_key":"designs/0.jpg"}],"likes":{}}`},
		{"negative id", `{"designs":[{"id":-4,"backing_key":"designs/4.jpg"}],"likes":{}}`},
		{"missing backing key", `{"designs":[{"id":1}],"likes":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSnapshot([]byte(tt.payload)); err == nil {
				t.Error("malformed snapshot accepted")
			}
		})
	}
}

func TestParseSnapshotEmptyCatalog(t *testing.T) {
	snap, err := ParseSnapshot([]byte(`{"designs":[],"likes":null}`))
	if err != nil {
		t.Fatalf("ParseSnapshot: %v", err)
	}
	if snap.Designs == nil || len(snap.Designs) != 0 {
		t.Errorf("empty catalog should parse to empty slice: %+v", snap.Designs)
	}
	if snap.Likes == nil {
		t.Error("nil likes should normalize to empty map")
	}
}

func TestTitleFallsBackToFilenameStem(t *testing.T) {
	d := &Design{ID: 4, BackingKey: "designs/4.jpg", CreatedAt: time.Now()}
	if got := d.Title(); got != "4" {
		t.Errorf("Title() = %q, want filename stem", got)
	}

	d.DisplayName = "Ruby chrome"
	if got := d.Title(); got != "Ruby chrome" {
		t.Errorf("Title() = %q, want display name", got)
	}
}
