package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// maxPageSize caps how many entries a choice shows at once.
const maxPageSize = 15

// Question is a single prompt. Check, when set, rejects an answer before the
// prompt returns.
type Question struct {
	Message string
	Default string
	Help    string
	Check   func(string) error
}

// Choice offers a fixed list of entries. Default is an index into Entries.
type Choice struct {
	Message string
	Entries []string
	Default int
	Help    string
}

// PromptDriver is the terminal seen by the console. Choose returns an index
// into the entries; Compose reads multi-line text such as schema JSON or
// option lists.
type PromptDriver interface {
	Ask(ctx context.Context, q Question) (string, error)
	Compose(ctx context.Context, q Question) (string, error)
	Confirm(ctx context.Context, message string, def bool) (bool, error)
	Choose(ctx context.Context, c Choice) (int, error)
	Say(ctx context.Context, message string) error
}

type surveyDriver struct {
	out io.Writer
}

// NewSurveyDriver returns a driver on survey prompts. Messages go to out, or
// stdout when out is nil.
func NewSurveyDriver(out io.Writer) PromptDriver {
	if out == nil {
		out = os.Stdout
	}
	return &surveyDriver{out: out}
}

func (d *surveyDriver) Ask(ctx context.Context, q Question) (string, error) {
	return ask[string](ctx, &survey.Input{Message: q.Message, Default: q.Default, Help: q.Help}, q.Check)
}

func (d *surveyDriver) Compose(ctx context.Context, q Question) (string, error) {
	return ask[string](ctx, &survey.Multiline{Message: q.Message, Default: q.Default, Help: q.Help}, q.Check)
}

func (d *surveyDriver) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	return ask[bool](ctx, &survey.Confirm{Message: message, Default: def}, nil)
}

func (d *surveyDriver) Choose(ctx context.Context, c Choice) (int, error) {
	if len(c.Entries) == 0 {
		return -1, fmt.Errorf("console: %q has nothing to choose from", c.Message)
	}
	prompt := &survey.Select{
		Message:  c.Message,
		Options:  c.Entries,
		Help:     c.Help,
		PageSize: min(len(c.Entries), maxPageSize),
	}
	if c.Default > 0 && c.Default < len(c.Entries) {
		prompt.Default = c.Entries[c.Default]
	}
	return ask[int](ctx, prompt, nil)
}

func (d *surveyDriver) Say(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, message)
	return err
}

// ask runs one survey prompt. Select answers are written as the chosen
// index when T is int.
func ask[T any](ctx context.Context, prompt survey.Prompt, check func(string) error) (T, error) {
	var answer T
	if err := ctx.Err(); err != nil {
		return answer, err
	}
	var opts []survey.AskOpt
	if check != nil {
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			text, _ := ans.(string)
			return check(text)
		}))
	}
	if err := survey.AskOne(prompt, &answer, opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return answer, ErrAborted
		}
		return answer, err
	}
	return answer, nil
}
