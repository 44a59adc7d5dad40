package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"yokomoji-service/internal/app"
	"yokomoji-service/internal/domain"
)

// APIHandler serves the stateless REST contracts: a shuffled question
// listing and an out-of-process grading endpoint.
type APIHandler struct {
	service *app.GameService
}

func NewAPIHandler(service *app.GameService) *APIHandler {
	return &APIHandler{service: service}
}

// Register mounts the REST routes on the mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/questions", h.listQuestions)
	mux.HandleFunc("/api/check-answer", h.checkAnswer)
	mux.HandleFunc("/api/categories", h.listCategories)
}

func (h *APIHandler) listQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	questions, err := h.service.ListShuffled(r.Context())
	if err != nil {
		log.Printf("list questions: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch questions"})
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *APIHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		log.Printf("list categories: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch questions"})
		return
	}
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, categories)
}

type checkAnswerRequest struct {
	QuestionID int    `json:"questionId"`
	UserAnswer string `json:"userAnswer"`
}

type checkAnswerResponse struct {
	Correct bool `json:"correct"`
}

func (h *APIHandler) checkAnswer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req checkAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.QuestionID == 0 || req.UserAnswer == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing required fields"})
		return
	}
	correct, err := h.service.CheckAnswer(r.Context(), req.QuestionID, req.UserAnswer)
	if err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "question not found"})
			return
		}
		log.Printf("check answer: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check answer"})
		return
	}
	writeJSON(w, http.StatusOK, checkAnswerResponse{Correct: correct})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
