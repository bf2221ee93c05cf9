package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kompasshr/kompasshr/internal/pipeline"
)

type scriptedAnswerer struct {
	results   map[string]pipeline.Result
	err       error
	questions []string
}

func (s *scriptedAnswerer) Answer(_ context.Context, question string) (pipeline.Result, error) {
	s.questions = append(s.questions, question)
	if s.err != nil {
		return pipeline.Result{}, s.err
	}
	return s.results[question], nil
}

func TestSessionAnswersAndExits(t *testing.T) {
	answerer := &scriptedAnswerer{results: map[string]pipeline.Result{
		"who joined last month": {Statement: "SELECT 1", Answer: "Two people joined."},
	}}
	out := &strings.Builder{}
	session := &Session{
		Pipeline: answerer,
		In:       strings.NewReader("who joined last month\nexit\n"),
		Out:      out,
	}

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(answerer.questions) != 1 || answerer.questions[0] != "who joined last month" {
		t.Fatalf("unexpected questions asked: %v", answerer.questions)
	}
	if !strings.Contains(out.String(), "Two people joined.") {
		t.Fatalf("answer missing from output: %q", out.String())
	}
	if strings.Contains(out.String(), "SELECT 1") {
		t.Fatalf("SQL printed without ShowSQL: %q", out.String())
	}
}

func TestSessionShowSQL(t *testing.T) {
	answerer := &scriptedAnswerer{results: map[string]pipeline.Result{
		"headcount": {Statement: "SELECT COUNT(*) FROM dbo.EmployeeDetails", Answer: "42 employees."},
	}}
	out := &strings.Builder{}
	session := &Session{
		Pipeline: answerer,
		In:       strings.NewReader("headcount\nquit\n"),
		Out:      out,
		ShowSQL:  true,
	}

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !strings.Contains(out.String(), "SELECT COUNT(*) FROM dbo.EmployeeDetails") {
		t.Fatalf("SQL missing from output: %q", out.String())
	}
}

func TestSessionContinuesAfterFailure(t *testing.T) {
	answerer := &scriptedAnswerer{err: errors.New("model unavailable")}
	out := &strings.Builder{}
	session := &Session{
		Pipeline: answerer,
		In:       strings.NewReader("first\nsecond\nexit\n"),
		Out:      out,
	}

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(answerer.questions) != 2 {
		t.Fatalf("expected both questions attempted, got %v", answerer.questions)
	}
	if !strings.Contains(out.String(), "model unavailable") {
		t.Fatalf("failure not reported: %q", out.String())
	}
}

func TestSessionSkipsBlankLinesAndStopsAtEOF(t *testing.T) {
	answerer := &scriptedAnswerer{}
	session := &Session{
		Pipeline: answerer,
		In:       strings.NewReader("\n   \n"),
		Out:      &strings.Builder{},
	}

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(answerer.questions) != 0 {
		t.Fatalf("blank lines should not reach the pipeline: %v", answerer.questions)
	}
}

func TestSessionExitIsCaseInsensitive(t *testing.T) {
	answerer := &scriptedAnswerer{}
	session := &Session{
		Pipeline: answerer,
		In:       strings.NewReader("QUIT\nnever asked\n"),
		Out:      &strings.Builder{},
	}

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(answerer.questions) != 0 {
		t.Fatalf("no question should follow the sentinel: %v", answerer.questions)
	}
}
