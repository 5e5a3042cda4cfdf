package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"learnweave/internal/logger"
	"learnweave/internal/models"

	"go.uber.org/zap"
)

var (
	ErrAlreadySolved       = errors.New("challenge already solved by this user")
	ErrChallengeNotFound   = errors.New("challenge not found")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// LanguageSpec maps a submission language to the identifier the compiler
// API expects and the file extension the source should carry.
type LanguageSpec struct {
	APIName   string
	Extension string
}

var languageSpecs = map[string]LanguageSpec{
	"java":       {APIName: "java", Extension: "java"},
	"cpp":        {APIName: "cpp", Extension: "cpp"},
	"c":          {APIName: "c", Extension: "c"},
	"python":     {APIName: "python", Extension: "py"},
	"javascript": {APIName: "nodejs", Extension: "js"},
	"typescript": {APIName: "typescript", Extension: "ts"},
	"go":         {APIName: "go", Extension: "go"},
	"ruby":       {APIName: "ruby", Extension: "rb"},
	"php":        {APIName: "php", Extension: "php"},
}

// SupportedLanguageCount reports how many languages submissions may use.
func SupportedLanguageCount() int {
	return len(languageSpecs)
}

var (
	javaClassRegex    = regexp.MustCompile(`public\s+class\s+(\w+)`)
	codeTemplateRegex = regexp.MustCompile(`^#\s*Write your code here\s*\n?`)
)

const noOutputSentinel = "No output"

// ChallengeSource provides the challenge and its ordered test cases.
type ChallengeSource interface {
	GetByID(ctx context.Context, id int64) (*models.Challenge, error)
	GetTestCases(ctx context.Context, challengeID int64) ([]models.TestCase, error)
}

// SolutionStore persists graded solutions. Create must write the solution,
// its results and the user's reward atomically, and return ErrAlreadySolved
// when a solution for the same (challenge, user) pair already exists.
type SolutionStore interface {
	Exists(ctx context.Context, challengeID, userID int64) (bool, error)
	Create(ctx context.Context, solution *models.Solution) error
}

// EvaluationReport is the ordered outcome of a graded or sandbox run.
type EvaluationReport struct {
	Results   []models.TestCaseResult `json:"results"`
	AllPassed bool                    `json:"allPassed"`
}

// Evaluator grades code submissions against a challenge's test cases by
// calling the external compiler once per case, in order.
type Evaluator struct {
	runner     CodeRunner
	challenges ChallengeSource
	solutions  SolutionStore

	// Per-test-case deadlines against the external compiler. Graded runs
	// get a little more headroom than the sandbox.
	submitTimeout  time.Duration
	sandboxTimeout time.Duration
}

func NewEvaluator(runner CodeRunner, challenges ChallengeSource, solutions SolutionStore) *Evaluator {
	return &Evaluator{
		runner:         runner,
		challenges:     challenges,
		solutions:      solutions,
		submitTimeout:  15 * time.Second,
		sandboxTimeout: 10 * time.Second,
	}
}

// Evaluate runs the full graded pipeline for one submission: the
// already-solved guard, the challenge lookup, the sequential per-test-case
// execution loop and, on a full pass, the atomic solution-plus-reward write.
// The user is graded at most once per challenge.
func (e *Evaluator) Evaluate(ctx context.Context, req models.CompileRequest) (*EvaluationReport, error) {
	spec, ok := languageSpecs[strings.ToLower(req.Language)]
	if !ok {
		return nil, ErrUnsupportedLanguage
	}

	solved, err := e.solutions.Exists(ctx, req.ChallengeID, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing solution: %w", err)
	}
	if solved {
		return nil, ErrAlreadySolved
	}

	challenge, err := e.challenges.GetByID(ctx, req.ChallengeID)
	if err != nil {
		return nil, err
	}

	testCases, err := e.challenges.GetTestCases(ctx, req.ChallengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load test cases: %w", err)
	}

	report := e.runTestCases(ctx, spec, req.Language, req.Code, testCases, e.submitTimeout)

	if report.AllPassed {
		solution := &models.Solution{
			ChallengeID: req.ChallengeID,
			UserID:      req.UserID,
			Code:        req.Code,
			Results:     report.Results,
			Supercoins:  models.RewardForDifficulty(challenge.Difficulty),
		}
		if err := e.solutions.Create(ctx, solution); err != nil {
			// A concurrent submission beat us to the unique (challenge, user)
			// slot; the reward was credited exactly once either way.
			if errors.Is(err, ErrAlreadySolved) {
				return nil, ErrAlreadySolved
			}
			return nil, fmt.Errorf("failed to persist solution: %w", err)
		}
	}

	return report, nil
}

// RunSandbox executes code against caller-supplied test cases with no
// challenge linkage, no already-solved guard and no persistence.
func (e *Evaluator) RunSandbox(ctx context.Context, req models.SandboxRequest) (*EvaluationReport, error) {
	spec, ok := languageSpecs[strings.ToLower(req.Language)]
	if !ok {
		return nil, ErrUnsupportedLanguage
	}

	code := codeTemplateRegex.ReplaceAllString(req.Code, "")
	report := e.runTestCases(ctx, spec, req.Language, code, req.TestCases, e.sandboxTimeout)
	return report, nil
}

// runTestCases is the sequential execution loop shared by graded and
// sandbox runs. Test cases run in order, one at a time; an adapter failure
// becomes a failing result and the loop continues with the next case.
func (e *Evaluator) runTestCases(ctx context.Context, spec LanguageSpec, language, code string,
	testCases []models.TestCase, timeout time.Duration) *EvaluationReport {

	results := make([]models.TestCaseResult, 0, len(testCases))
	allPassed := true

	fileName := sourceFileName(language, spec, code)

	for _, tc := range testCases {
		runCtx, cancel := context.WithTimeout(ctx, timeout)
		runResult, err := e.runner.Run(runCtx, RunRequest{
			Language: spec.APIName,
			Stdin:    tc.Input,
			Files:    []SourceFile{{Name: fileName, Content: code}},
		})
		cancel()

		if err != nil {
			logger.Log.Warn("Compiler call failed for test case",
				zap.String("language", language),
				zap.Error(err))
			results = append(results, models.TestCaseResult{
				Input:          tc.Input,
				ExpectedOutput: tc.Output,
				ActualOutput:   fmt.Sprintf("Execution Error: %v", err),
				Passed:         false,
			})
			allPassed = false
			continue
		}

		actual := normalizeOutput(runResult)
		passed := actual == strings.TrimSpace(tc.Output)

		results = append(results, models.TestCaseResult{
			Input:          tc.Input,
			ExpectedOutput: tc.Output,
			ActualOutput:   actual,
			Passed:         passed,
		})
		if !passed {
			allPassed = false
		}
	}

	return &EvaluationReport{Results: results, AllPassed: allPassed}
}

// sourceFileName picks the filename for the submitted source. Java is the
// special case: the public class name decides the file name, falling back
// to Main when no public class is declared.
func sourceFileName(language string, spec LanguageSpec, code string) string {
	if strings.ToLower(language) == "java" {
		if m := javaClassRegex.FindStringSubmatch(code); m != nil {
			return m[1] + ".java"
		}
		return "Main.java"
	}
	return "main." + spec.Extension
}

// normalizeOutput collapses stdout, stderr and the adapter-reported error
// into one trimmed string, substituting a sentinel when all are empty.
func normalizeOutput(result *RunResult) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{result.Stdout, result.Stderr, result.Error} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	out := strings.TrimSpace(strings.Join(parts, "\n"))
	if out == "" {
		return noOutputSentinel
	}
	return out
}
