package internal

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/coveooss/gotemplate/v3/collections"
)

// ErrPromptUnavailable means a question had to be asked but the terminal
// could not render it.
var ErrPromptUnavailable = errors.New("interactive prompt unavailable")

// AskQuestions asks every question not already answered in seed and returns
// seed extended with the answers. defaults pre-fill questions by name. A
// user interrupt is returned as terminal.InterruptErr.
func AskQuestions(questions []Question, seed collections.IDictionary, defaults map[string]interface{}, stdio terminal.Stdio) (collections.IDictionary, error) {
	values := collections.CreateDictionary()
	if seed != nil {
		values = values.Merge(seed)
	}

	for _, q := range questions {
		if values.Has(q.Name) {
			continue
		}

		def := q.Default
		if v, ok := defaults[q.Name]; ok {
			def = fmt.Sprint(v)
		}

		answer, err := ask(q, def, stdio)
		if err != nil {
			return nil, err
		}
		values.Set(q.Name, answer)
	}
	return values, nil
}

func ask(q Question, def string, stdio terminal.Stdio) (string, error) {
	var prompt survey.Prompt
	if len(q.Choices) == 0 {
		prompt = &survey.Input{Message: q.Prompt, Default: def, Help: q.Help}
	} else {
		sel := &survey.Select{Message: q.Prompt, Options: q.Choices, Help: q.Help}
		if def != "" && contains(q.Choices, def) {
			sel.Default = def
		}
		prompt = sel
	}

	opts := []survey.AskOpt{survey.WithStdio(stdio.In, stdio.Out, stdio.Err)}
	if q.Required {
		opts = append(opts, survey.WithValidator(survey.Required))
	}
	if q.Validate != nil {
		validate := q.Validate
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			s, _ := ans.(string)
			return validate(s)
		}))
	}

	var answer string
	if err := survey.AskOne(prompt, &answer, opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrPromptUnavailable, err)
	}
	return answer, nil
}
