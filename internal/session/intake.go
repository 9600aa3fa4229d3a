package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"abxkit/internal/abx"
)

// DateLayout is the accepted date of birth format.
const DateLayout = "02/01/2006"

// Genders lists the accepted gender answers.
var Genders = []string{"Man", "Woman", "Other"}

// Intake prompts for participant metadata. Non-empty fields of defaults are
// offered as the answer for an empty line. A fresh session ID is assigned.
func (r *Runner) Intake(ctx context.Context, defaults abx.Participant) (abx.Participant, error) {
	fmt.Fprintln(r.out, r.heading("Participant"))

	var p abx.Participant
	var err error
	if p.FirstName, err = r.ask(ctx, "First name", defaults.FirstName, requireText); err != nil {
		return abx.Participant{}, err
	}
	if p.SecondName, err = r.ask(ctx, "Second name", defaults.SecondName, requireText); err != nil {
		return abx.Participant{}, err
	}
	if p.DateOfBirth, err = r.ask(ctx, "Date of birth (DD/MM/YYYY)", defaults.DateOfBirth, r.parseBirthDate); err != nil {
		return abx.Participant{}, err
	}
	if p.Gender, err = r.ask(ctx, "Gender ("+strings.Join(Genders, "/")+")", defaults.Gender, ParseGender); err != nil {
		return abx.Participant{}, err
	}
	impaired, err := r.ask(ctx, "Hearing impaired (y/n)", yesNo(defaults.HearingImpaired), parseYesNo)
	if err != nil {
		return abx.Participant{}, err
	}
	p.HearingImpaired = impaired == "y"
	p.SessionID = uuid.NewString()
	return p, nil
}

// ask prompts until parse accepts the answer. parse returns the normalized
// value or an error message shown to the participant.
func (r *Runner) ask(ctx context.Context, label, fallback string, parse func(string) (string, error)) (string, error) {
	for {
		if fallback != "" {
			fmt.Fprintf(r.out, "%s [%s]: ", label, fallback)
		} else {
			fmt.Fprintf(r.out, "%s: ", label)
		}
		line, err := r.input.next(ctx)
		if err != nil {
			return "", inputError(err)
		}
		if line == "" {
			line = fallback
		}
		value, err := parse(line)
		if err != nil {
			fmt.Fprintf(r.out, "  %v\n", err)
			continue
		}
		return value, nil
	}
}

func inputError(err error) error {
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: input closed", ErrAborted)
	}
	return err
}

func requireText(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New("a value is required")
	}
	return s, nil
}

func (r *Runner) parseBirthDate(s string) (string, error) {
	date, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", errors.New("use the DD/MM/YYYY format")
	}
	if date.After(r.now()) {
		return "", errors.New("date of birth lies in the future")
	}
	return date.Format(DateLayout), nil
}

// ParseGender accepts one of Genders case-insensitively and returns it
// title-cased.
func ParseGender(s string) (string, error) {
	value := cases.Title(language.Und).String(strings.ToLower(strings.TrimSpace(s)))
	for _, g := range Genders {
		if value == g {
			return value, nil
		}
	}
	return "", fmt.Errorf("answer one of %s", strings.Join(Genders, ", "))
}

func parseYesNo(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return "y", nil
	case "n", "no":
		return "n", nil
	}
	return "", errors.New("answer y or n")
}

func yesNo(v bool) string {
	if v {
		return "y"
	}
	return "n"
}
