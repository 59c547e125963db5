package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	errs "github.com/mavinms/prism-project/client/internal/errors"
	"github.com/mavinms/prism-project/client/internal/types"
)

func TestListTerms_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/terms" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"term":"Cell","subject":"Biology"},{"term":"Ohm's Law","subject":"Physics"}]`))
	}))
	defer srv.Close()
	got, err := ListTerms(context.Background(), srv.Client(), srv.URL)
	if err != nil || len(got) != 2 || got[1].Name != "Ohm's Law" || got[1].Subject != "Physics" {
		t.Fatalf("ListTerms unexpected: got=%+v err=%v", got, err)
	}
}

func TestListSubjects_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]types.Subject{{Name: "Biology", Count: 2}})
	}))
	defer srv.Close()
	got, err := ListSubjects(context.Background(), srv.Client(), srv.URL)
	if err != nil || len(got) != 1 || got[0].Count != 2 {
		t.Fatalf("ListSubjects unexpected: got=%+v err=%v", got, err)
	}
}

func TestTermsBySubject_EscapesPath(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/terms/subject/Earth Science" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"term":"Plate","subject":"Earth Science"}]`))
	}))
	defer srv.Close()
	got, err := TermsBySubject(context.Background(), srv.Client(), srv.URL, "Earth Science")
	if err != nil || len(got) != 1 {
		t.Fatalf("TermsBySubject unexpected: got=%+v err=%v", got, err)
	}
}

func TestGetTerm_DecodesDetail(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/term/Ohm's Law" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"term":"Ohm's Law","subject":"Physics","definition":"V=IR","keyPoints":["a","b"],
			"quiz_data":[{"question_text":"Q?","options":{"A":"x","B":"y"},"correct_answer_key":"B"}],
			"meta":{"favorite":1,"bookmark":0,"difficulty":"hard","rating":4,"notes":"n","last_viewed":null}}`))
	}))
	defer srv.Close()
	got, err := GetTerm(context.Background(), srv.Client(), srv.URL, "Ohm's Law")
	if err != nil {
		t.Fatalf("GetTerm: %v", err)
	}
	if got.Name != "Ohm's Law" || len(got.KeyPoints) != 2 || !bool(got.Meta.Favorite) || got.Meta.Rating != 4 {
		t.Fatalf("unexpected detail: %+v", got)
	}
	if len(got.Quiz) != 1 || got.Quiz[0].Prompt() != "Q?" || got.Quiz[0].Answer() != "B" {
		t.Fatalf("unexpected quiz: %+v", got.Quiz)
	}
	if got.Meta.LastViewed != nil {
		t.Fatalf("expected nil last_viewed, got %v", got.Meta.LastViewed)
	}
}

func TestGetTerm_NotFound(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Term \"Nope\" not found in database"}`))
	}))
	defer srv.Close()
	_, err := GetTerm(context.Background(), srv.Client(), srv.URL, "Nope")
	if !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !errs.IsIrrecoverable(err) {
		t.Fatalf("404 should be irrecoverable: %v", err)
	}
}

func TestListTerms_ServerErrorIsRecoverable(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Database not found"}`))
	}))
	defer srv.Close()
	_, err := ListTerms(context.Background(), srv.Client(), srv.URL)
	var ce *errs.ClassifiedError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ClassifiedError, got %T %v", err, err)
	}
	if ce.Category != errs.Recoverable || ce.StatusCode != 500 || ce.Body != `{"error":"Database not found"}` {
		t.Fatalf("unexpected classification: %+v", ce)
	}
}

func TestListTerms_CanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ListTerms(ctx, http.DefaultClient, "http://127.0.0.1:0"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
