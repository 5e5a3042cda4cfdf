package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"learnweave/internal/models"
	"learnweave/internal/services"

	"github.com/gin-gonic/gin"
)

type stubRunner struct {
	result *services.RunResult
	calls  int
}

func (s *stubRunner) Run(ctx context.Context, req services.RunRequest) (*services.RunResult, error) {
	s.calls++
	return s.result, nil
}

type stubChallenges struct {
	challenge *models.Challenge
	testCases []models.TestCase
	getErr    error
}

func (s *stubChallenges) GetByID(ctx context.Context, id int64) (*models.Challenge, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.challenge, nil
}

func (s *stubChallenges) GetTestCases(ctx context.Context, challengeID int64) ([]models.TestCase, error) {
	return s.testCases, nil
}

type stubSolutions struct {
	solved  bool
	created *models.Solution
}

func (s *stubSolutions) Exists(ctx context.Context, challengeID, userID int64) (bool, error) {
	return s.solved, nil
}

func (s *stubSolutions) Create(ctx context.Context, solution *models.Solution) error {
	s.created = solution
	return nil
}

func newEvaluationRouter(runner services.CodeRunner, challenges services.ChallengeSource,
	solutions services.SolutionStore) *gin.Engine {

	router := gin.New()
	evaluator := services.NewEvaluator(runner, challenges, solutions)
	NewEvaluationHandler(evaluator).RegisterRoutes(router, testAuth(42))
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestCompileSuccess(t *testing.T) {
	runner := &stubRunner{result: &services.RunResult{Stdout: "3\n"}}
	challenges := &stubChallenges{
		challenge: &models.Challenge{ID: 1, Difficulty: "Basic"},
		testCases: []models.TestCase{{Input: "1 2", Output: "3"}},
	}
	solutions := &stubSolutions{}
	router := newEvaluationRouter(runner, challenges, solutions)

	w := postJSON(router, "/compile", `{"language":"python","code":"print(3)","challengeId":1,"userId":42}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Results   []models.TestCaseResult `json:"results"`
		AllPassed bool                    `json:"allPassed"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.AllPassed || len(resp.Results) != 1 {
		t.Fatalf("unexpected report: %+v", resp)
	}
	if solutions.created == nil {
		t.Fatal("passing submission should persist a solution")
	}
}

func TestCompileAlreadySolved(t *testing.T) {
	runner := &stubRunner{}
	router := newEvaluationRouter(runner, &stubChallenges{}, &stubSolutions{solved: true})

	w := postJSON(router, "/compile", `{"language":"python","code":"x","challengeId":1,"userId":42}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["message"] != "You already solved this challenge. Please try other challenges." {
		t.Fatalf("unexpected message: %q", resp["message"])
	}
	if runner.calls != 0 {
		t.Fatal("already-solved submission must not reach the compiler")
	}
}

func TestCompileChallengeNotFound(t *testing.T) {
	router := newEvaluationRouter(&stubRunner{},
		&stubChallenges{getErr: services.ErrChallengeNotFound}, &stubSolutions{})

	w := postJSON(router, "/compile", `{"language":"python","code":"x","challengeId":99,"userId":42}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestCompileUnsupportedLanguage(t *testing.T) {
	router := newEvaluationRouter(&stubRunner{}, &stubChallenges{}, &stubSolutions{})

	w := postJSON(router, "/compile", `{"language":"fortran","code":"x","challengeId":1,"userId":42}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCompileRejectsIncompleteBody(t *testing.T) {
	router := newEvaluationRouter(&stubRunner{}, &stubChallenges{}, &stubSolutions{})

	w := postJSON(router, "/compile", `{"language":"python"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSandboxRunsWithoutPersisting(t *testing.T) {
	runner := &stubRunner{result: &services.RunResult{Stdout: "ok"}}
	solutions := &stubSolutions{}
	router := newEvaluationRouter(runner, &stubChallenges{}, solutions)

	w := postJSON(router, "/geminicompiler",
		`{"language":"python","code":"print('ok')","testCases":[{"input":"","output":"ok"}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if solutions.created != nil {
		t.Fatal("sandbox run must not persist a solution")
	}
}
