// Package prompt provides the yes/no and free-text questions workflow
// operations ask. Operations receive a Prompter so tests can script answers
// and --yes can auto-confirm without a separate code path.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// ErrAborted is returned when the user cancels a prompt (Ctrl-C or EOF).
var ErrAborted = errors.New("aborted")

// Prompter asks the user questions.
type Prompter interface {
	Confirm(question string, defaultYes bool) (bool, error)
	Input(question, defaultValue string) (string, error)
	Secret(question string) (string, error)
}

// Terminal prompts on the controlling terminal, using huh forms when stdin
// is a TTY and plain line reads otherwise.
type Terminal struct {
	in          *os.File
	out         io.Writer
	reader      *bufio.Reader
	interactive bool
}

// NewTerminal creates a Terminal reading stdin and writing questions to stderr.
func NewTerminal() *Terminal {
	return &Terminal{
		in:          os.Stdin,
		out:         os.Stderr,
		reader:      bufio.NewReader(os.Stdin),
		interactive: isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
	}
}

// Interactive reports whether stdin is a terminal.
func (t *Terminal) Interactive() bool {
	return t.interactive
}

func (t *Terminal) Confirm(question string, defaultYes bool) (bool, error) {
	if t.interactive {
		answer := defaultYes
		err := huh.NewConfirm().
			Title(question).
			Affirmative("Yes").
			Negative("No").
			Value(&answer).
			Run()
		if err != nil {
			return false, mapHuhError(err)
		}
		return answer, nil
	}

	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Fprintf(t.out, "%s %s ", question, hint)
	line, err := t.readLine()
	if err != nil {
		return false, err
	}
	return ParseYesNo(line, defaultYes), nil
}

func (t *Terminal) Input(question, defaultValue string) (string, error) {
	if t.interactive {
		answer := defaultValue
		err := huh.NewInput().
			Title(question).
			Value(&answer).
			Run()
		if err != nil {
			return "", mapHuhError(err)
		}
		return strings.TrimSpace(answer), nil
	}

	if defaultValue != "" {
		fmt.Fprintf(t.out, "%s [%s]: ", question, defaultValue)
	} else {
		fmt.Fprintf(t.out, "%s: ", question)
	}
	line, err := t.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return defaultValue, nil
	}
	return line, nil
}

// Secret reads a value without echoing it when stdin is a terminal.
func (t *Terminal) Secret(question string) (string, error) {
	fmt.Fprint(t.out, color.New(color.Bold).Sprint(question)+": ")
	fd := int(t.in.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(t.out)
		if err != nil {
			return "", fmt.Errorf("read secret: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	return t.readLine()
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.reader.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		if errors.Is(err, io.EOF) {
			return "", ErrAborted
		}
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func mapHuhError(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}

// ParseYesNo interprets a typed answer. Anything unrecognised, including an
// empty line, yields the default.
func ParseYesNo(answer string, defaultYes bool) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return defaultYes
	}
}

// AutoYes answers every confirmation with yes and accepts non-empty defaults
// for inputs. Secrets and inputs without a default still go to the inner prompter.
type AutoYes struct {
	Inner Prompter
}

func (a AutoYes) Confirm(question string, defaultYes bool) (bool, error) {
	return true, nil
}

func (a AutoYes) Input(question, defaultValue string) (string, error) {
	if defaultValue != "" {
		return defaultValue, nil
	}
	return a.Inner.Input(question, defaultValue)
}

func (a AutoYes) Secret(question string) (string, error) {
	return a.Inner.Secret(question)
}

var (
	_ Prompter = (*Terminal)(nil)
	_ Prompter = AutoYes{}
)
