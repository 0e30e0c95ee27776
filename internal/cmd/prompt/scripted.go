package prompt

import (
	"fmt"
	"sync"

	"github.com/sideko-inc/sideko/pkg/errors"
)

// Answer is one scripted reply. Exactly one field is used, matching the
// prompt kind that consumes it.
type Answer struct {
	Text    string
	Choice  string
	Choices []string
	Yes     bool
}

// Scripted replays answers in order. It runs the same validators the
// terminal would and fails when an answer is rejected or the script runs out.
type Scripted struct {
	mu      sync.Mutex
	answers []Answer
	// Asked records every title in the order prompted.
	Asked []string
	// Offered records the options shown by each Select and MultiSelect.
	Offered map[string][]Option
}

// NewScripted creates a Scripted prompter.
func NewScripted(answers ...Answer) *Scripted {
	return &Scripted{answers: answers, Offered: map[string][]Option{}}
}

func (s *Scripted) next(title string) (Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Asked = append(s.Asked, title)
	if len(s.answers) == 0 {
		return Answer{}, errors.WrapPrompt(title, fmt.Errorf("no scripted answer"))
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

// Input implements Prompter.
func (s *Scripted) Input(title, _, initial string, validate func(string) error) (string, error) {
	a, err := s.next(title)
	if err != nil {
		return "", err
	}
	value := a.Text
	if value == "" {
		value = initial
	}
	if validate != nil {
		if err := validate(value); err != nil {
			return "", errors.WrapPrompt(title, err)
		}
	}
	return value, nil
}

// Select implements Prompter.
func (s *Scripted) Select(title string, options []Option) (string, error) {
	s.mu.Lock()
	s.Offered[title] = options
	s.mu.Unlock()
	a, err := s.next(title)
	if err != nil {
		return "", err
	}
	for _, o := range options {
		if o.Value == a.Choice {
			return a.Choice, nil
		}
	}
	return "", errors.WrapPrompt(title, fmt.Errorf("%q is not an option", a.Choice))
}

// MultiSelect implements Prompter.
func (s *Scripted) MultiSelect(title string, options []Option, validate func([]string) error) ([]string, error) {
	s.mu.Lock()
	s.Offered[title] = options
	s.mu.Unlock()
	a, err := s.next(title)
	if err != nil {
		return nil, err
	}
	if validate != nil {
		if err := validate(a.Choices); err != nil {
			return nil, errors.WrapPrompt(title, err)
		}
	}
	return a.Choices, nil
}

// Confirm implements Prompter.
func (s *Scripted) Confirm(title, _ string, _ bool) (bool, error) {
	a, err := s.next(title)
	if err != nil {
		return false, err
	}
	return a.Yes, nil
}
