package models

import "testing"

func validSubmitRequest() SubmitChallengeRequest {
	return SubmitChallengeRequest{
		Language:   "python",
		Difficulty: "basic",
		Topic:      "Arrays",
		Question:   "Sum two numbers",
		TestCases:  []TestCase{{Input: "1 2", Output: "3"}},
		Steps:      []string{"Read the input", "Print the sum"},
	}
}

func TestSubmitChallengeRequestValidate(t *testing.T) {
	req := validSubmitRequest()
	if err := req.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	req = validSubmitRequest()
	req.Topic = "   "
	if err := req.Validate(); err == nil {
		t.Fatal("blank topic must be rejected")
	}

	req = validSubmitRequest()
	req.TestCases = nil
	if err := req.Validate(); err == nil {
		t.Fatal("missing test cases must be rejected")
	}

	req = validSubmitRequest()
	req.TestCases = []TestCase{{Input: "1", Output: "  "}}
	if err := req.Validate(); err == nil {
		t.Fatal("blank expected output must be rejected")
	}

	req = validSubmitRequest()
	req.Steps = nil
	if err := req.Validate(); err == nil {
		t.Fatal("missing steps must be rejected")
	}

	req = validSubmitRequest()
	req.Difficulty = "Impossible"
	if err := req.Validate(); err == nil {
		t.Fatal("unknown difficulty must be rejected")
	}

	req = validSubmitRequest()
	req.Language = "COBOL"
	if err := req.Validate(); err == nil {
		t.Fatal("unknown language must be rejected")
	}

	// Language matching is case-insensitive.
	req = validSubmitRequest()
	req.Language = "JaVa"
	if err := req.Validate(); err != nil {
		t.Fatalf("mixed-case language rejected: %v", err)
	}
}

func TestRewardForDifficulty(t *testing.T) {
	tests := []struct {
		difficulty string
		want       int
	}{
		{"Basic", 3},
		{"basic", 3},
		{"Intermediate", 5},
		{"INTERMEDIATE", 5},
		{"Advanced", 7},
		{"unknown", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := RewardForDifficulty(tt.difficulty); got != tt.want {
			t.Errorf("RewardForDifficulty(%q) = %d, want %d", tt.difficulty, got, tt.want)
		}
	}
}

func TestNormalizeDifficulty(t *testing.T) {
	if got := NormalizeDifficulty("bASIC"); got != "Basic" {
		t.Fatalf("NormalizeDifficulty(bASIC) = %q", got)
	}
	if got := NormalizeDifficulty(""); got != "" {
		t.Fatalf("NormalizeDifficulty(\"\") = %q", got)
	}
}

func TestNormalizedType(t *testing.T) {
	req := SubmitChallengeRequest{ChallengeType: "placement"}
	if got := req.NormalizedType(); got != ChallengeTypePlacement {
		t.Fatalf("expected placement, got %q", got)
	}
	req.ChallengeType = "anything-else"
	if got := req.NormalizedType(); got != ChallengeTypeNormal {
		t.Fatalf("expected normal fallback, got %q", got)
	}
}

func TestAttemptRequestValidate(t *testing.T) {
	n := func(v int) *int { return &v }

	req := AttemptRequest{Company: "Acme", QuizCorrect: n(8), QuizTotal: n(10), CodingPts: n(30), Total: n(46)}
	if err := req.Validate(); err != nil {
		t.Fatalf("valid attempt rejected: %v", err)
	}

	req.Company = " "
	if err := req.Validate(); err == nil {
		t.Fatal("blank company must be rejected")
	}

	req = AttemptRequest{Company: "Acme", QuizCorrect: n(8), QuizTotal: nil, CodingPts: n(30), Total: n(46)}
	if err := req.Validate(); err == nil {
		t.Fatal("missing quizTotal must be rejected")
	}

	req = AttemptRequest{Company: "Acme", QuizCorrect: n(-1), QuizTotal: n(10), CodingPts: n(0), Total: n(0)}
	if err := req.Validate(); err == nil {
		t.Fatal("negative score must be rejected")
	}
}
