// Package chat implements the interactive line-based surface: one question
// per line, one prose answer back.
package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kompasshr/kompasshr/internal/pipeline"
)

type Answerer interface {
	Answer(ctx context.Context, question string) (pipeline.Result, error)
}

type Session struct {
	Pipeline Answerer
	In       io.Reader
	Out      io.Writer
	ShowSQL  bool
	// TypingDelay paces the word-at-a-time answer rendering. Zero prints
	// the answer in one write.
	TypingDelay time.Duration
}

// Run reads questions until EOF or an exit sentinel. Failures are printed
// and the loop continues; only context cancellation or a read error ends it
// early.
func (s *Session) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.In)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := fmt.Fprint(s.Out, "\nAsk: "); err != nil {
			return err
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read question: %w", err)
			}
			return nil
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if isExit(question) {
			return nil
		}

		result, err := s.Pipeline.Answer(ctx, question)
		if err != nil {
			_, _ = fmt.Fprintf(s.Out, "\nError: %v\n", err)
			continue
		}

		if s.ShowSQL {
			_, _ = fmt.Fprintf(s.Out, "\nSQL:\n%s\n", result.Statement)
		}
		_, _ = fmt.Fprint(s.Out, "\nAnswer:\n")
		s.typeOut(result.Answer)
		_, _ = fmt.Fprintln(s.Out)
	}
}

func (s *Session) typeOut(text string) {
	if s.TypingDelay <= 0 {
		_, _ = fmt.Fprint(s.Out, text)
		return
	}
	words := strings.Fields(text)
	for i, word := range words {
		if i > 0 {
			_, _ = fmt.Fprint(s.Out, " ")
		}
		_, _ = fmt.Fprint(s.Out, word)
		time.Sleep(s.TypingDelay)
	}
}

func isExit(input string) bool {
	switch strings.ToLower(input) {
	case "exit", "quit":
		return true
	default:
		return false
	}
}
