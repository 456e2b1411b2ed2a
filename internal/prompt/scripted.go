package prompt

import (
	"fmt"
)

// Scripted is a Prompter that replays canned answers, for tests.
// An empty answer picks the default, like pressing enter.
type Scripted struct {
	Answers []string
	// Questions records every question asked, in order.
	Questions []string
}

// NewScripted creates a Scripted prompter with the given answers.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{Answers: answers}
}

func (s *Scripted) next(question string) (string, error) {
	s.Questions = append(s.Questions, question)
	if len(s.Answers) == 0 {
		return "", fmt.Errorf("no scripted answer for %q", question)
	}
	answer := s.Answers[0]
	s.Answers = s.Answers[1:]
	return answer, nil
}

func (s *Scripted) Confirm(question string, defaultYes bool) (bool, error) {
	answer, err := s.next(question)
	if err != nil {
		return false, err
	}
	return ParseYesNo(answer, defaultYes), nil
}

func (s *Scripted) Input(question, defaultValue string) (string, error) {
	answer, err := s.next(question)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return defaultValue, nil
	}
	return answer, nil
}

func (s *Scripted) Secret(question string) (string, error) {
	return s.next(question)
}

var _ Prompter = (*Scripted)(nil)
