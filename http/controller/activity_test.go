package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/tnqbao/gau-bucket-list/entity"
	"github.com/tnqbao/gau-bucket-list/repository"
)

type fakeActivityReader struct {
	limit     int64
	requested int64
	entries   []entity.ItemActivity
	err       error
}

func (f *fakeActivityReader) Recent(_ context.Context, n int64) ([]entity.ItemActivity, error) {
	f.requested = n
	if f.err != nil {
		return nil, f.err
	}
	if int64(len(f.entries)) > n {
		return f.entries[:n], nil
	}
	return f.entries, nil
}

func (f *fakeActivityReader) Limit() int64 { return f.limit }

func TestListActivity(t *testing.T) {
	title := "Skydiving"
	entries := []entity.ItemActivity{
		{Type: entity.ActivityItemDeleted, ItemID: 1},
		{Type: entity.ActivityItemCreated, ItemID: 1, Title: &title},
	}

	tests := []struct {
		name          string
		query         string
		readerErr     error
		wantStatus    int
		wantRequested int64
	}{
		{name: "default limit", query: "", wantStatus: http.StatusOK, wantRequested: 20},
		{name: "explicit limit", query: "?limit=5", wantStatus: http.StatusOK, wantRequested: 5},
		{name: "clamped to feed limit", query: "?limit=500", wantStatus: http.StatusOK, wantRequested: 50},
		{name: "clamped to one", query: "?limit=0", wantStatus: http.StatusOK, wantRequested: 1},
		{name: "invalid limit", query: "?limit=ten", wantStatus: http.StatusBadRequest},
		{name: "feed failure", query: "", readerErr: errors.New("redis down"), wantStatus: http.StatusInternalServerError, wantRequested: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, repository.NewMemoryBucketItemStore())
			reader := &fakeActivityReader{limit: 50, entries: entries, err: tt.readerErr}
			env.ctrl.Activity = reader

			w := env.do(http.MethodGet, "/api/items/activity"+tt.query, "")
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if reader.requested != tt.wantRequested {
				t.Errorf("requested %d entries, want %d", reader.requested, tt.wantRequested)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var got []entity.ItemActivity
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("body is not an activity list: %s", w.Body.String())
			}
			if want := min(int64(len(entries)), tt.wantRequested); int64(len(got)) != want {
				t.Errorf("got %d entries, want %d", len(got), want)
			}
		})
	}
}

func TestListActivity_Disabled(t *testing.T) {
	env := newTestEnv(t, repository.NewMemoryBucketItemStore())

	if w := env.do(http.MethodGet, "/api/items/activity", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}
