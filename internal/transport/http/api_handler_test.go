package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"yokomoji-service/internal/app"
	"yokomoji-service/internal/domain"
	"yokomoji-service/internal/infra/memory"
)

func newAPIServer(t *testing.T, service *app.GameService) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	NewAPIHandler(service).Register(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestListQuestionsReturnsShuffledSet(t *testing.T) {
	server := newAPIServer(t, newTestService())

	resp, err := http.Get(server.URL + "/api/questions")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var questions []domain.Question
	if err := json.NewDecoder(resp.Body).Decode(&questions); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	for _, q := range questions {
		if q.ID == 0 || len(q.Choices) != 4 {
			t.Fatalf("expected assigned id and 4 choices, got %+v", q)
		}
	}
}

func TestListQuestionsSurfacesStoreFailure(t *testing.T) {
	repo := memory.NewQuestionRepository(failingLoader{}, time.Minute)
	service := app.NewGameService(memory.NewSessionStore(), repo)
	server := newAPIServer(t, service)

	resp, err := http.Get(server.URL + "/api/questions")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}

func TestCheckAnswerStatusCodes(t *testing.T) {
	server := newAPIServer(t, newTestService())

	cases := []struct {
		name string
		body string
		want int
	}{
		{"correct", `{"questionId":1,"userAnswer":" 証拠 "}`, http.StatusOK},
		{"missing answer", `{"questionId":1}`, http.StatusBadRequest},
		{"missing id", `{"userAnswer":"証拠"}`, http.StatusBadRequest},
		{"unknown id", `{"questionId":42,"userAnswer":"証拠"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		resp, err := http.Post(server.URL+"/api/check-answer", "application/json", strings.NewReader(tc.body))
		if err != nil {
			t.Fatalf("%s: post: %v", tc.name, err)
		}
		if resp.StatusCode != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, resp.StatusCode)
		}
		if tc.want == http.StatusOK {
			var out checkAnswerResponse
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				t.Fatalf("%s: decode: %v", tc.name, err)
			}
			if !out.Correct {
				t.Fatalf("%s: expected correct grading", tc.name)
			}
		}
		resp.Body.Close()
	}
}

func TestListCategories(t *testing.T) {
	server := newAPIServer(t, newTestService())

	resp, err := http.Get(server.URL + "/api/categories")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var categories []string
	if err := json.NewDecoder(resp.Body).Decode(&categories); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// sample questions carry no category tags
	if len(categories) != 0 {
		t.Fatalf("expected no categories, got %v", categories)
	}
}

type failingLoader struct{}

func (failingLoader) LoadQuestions(context.Context) ([]domain.Question, error) {
	return nil, errors.New("backing store unreachable")
}
