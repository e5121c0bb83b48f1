package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alphalever/backend/internal/domain/scoring"
)

func (a *app) surveyCmd() *cobra.Command {
	var save string
	cmd := &cobra.Command{
		Use:   "survey",
		Short: "Answer the questionnaire interactively and see your score",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.factors()
			if err != nil {
				return err
			}
			answers, err := runSurvey(cfg, a.in, a.out)
			if err != nil {
				return err
			}
			if err := a.printResult(cfg, scoring.Compute(cfg, answers), false); err != nil {
				return err
			}
			if save == "" {
				return nil
			}

			sb, closeDB, err := a.openScoreboard()
			if err != nil {
				return err
			}
			defer closeDB()
			su, err := sb.SaveAnswers(cmd.Context(), save, answers)
			if err != nil {
				return fmt.Errorf("failed to save answers for %s: %w", save, err)
			}
			_, err = fmt.Fprintf(a.out, "Saved answers for %s (stored score %d)\n", su.User.Email, su.Result.Score)
			return err
		},
	}
	cmd.Flags().StringVar(&save, "save", "", "Store the answers for this registered user email")
	return cmd
}

// byteReader hands out one byte per Read. Accessible prompts each wrap the
// input in a fresh line scanner, which would otherwise buffer answers meant
// for the prompts after it.
type byteReader struct{ r io.Reader }

func (b byteReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return b.r.Read(p[:1])
}

// surveyField binds one factor to the form value huh writes into.
type surveyField struct {
	factor  scoring.Factor
	text    string
	choice  float64
	checked []string
}

func (f *surveyField) answer() (any, bool) {
	switch f.factor.Kind {
	case scoring.KindNumber:
		s := strings.TrimSpace(f.text)
		return s, s != ""
	case scoring.KindSelect:
		return f.choice, f.choice >= 0
	case scoring.KindChecklist:
		return f.checked, len(f.checked) > 0
	}
	return nil, false
}

// runSurvey walks every self-reported factor, one form group per section.
func runSurvey(cfg *scoring.Config, in io.Reader, out io.Writer) (scoring.Answers, error) {
	var (
		fields []*surveyField
		groups []*huh.Group
	)
	for _, section := range cfg.Sections() {
		var inputs []huh.Field
		for _, f := range cfg.Factors {
			if f.Section != section || f.ReadOnly {
				continue
			}
			sf := &surveyField{factor: f, choice: -1}
			fields = append(fields, sf)
			inputs = append(inputs, surveyInput(sf))
		}
		if len(inputs) > 0 {
			groups = append(groups, huh.NewGroup(inputs...).Title(section))
		}
	}
	if len(groups) == 0 {
		return nil, errors.New("no self-reported factors to ask about")
	}

	form := huh.NewForm(groups...).WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithInput(byteReader{in}).WithAccessible(true)
	} else {
		form = form.WithInput(in)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("survey failed: %w", err)
	}

	answers := scoring.Answers{}
	for _, sf := range fields {
		if v, ok := sf.answer(); ok {
			answers[sf.factor.ID] = v
		}
	}
	return answers, nil
}

func surveyInput(sf *surveyField) huh.Field {
	f := sf.factor
	title := f.Label
	if title == "" {
		title = f.ID
	}

	switch f.Kind {
	case scoring.KindSelect:
		opts := []huh.Option[float64]{huh.NewOption("Skip", -1.0)}
		for _, o := range f.Options {
			opts = append(opts, huh.NewOption(o.Label, o.Value))
		}
		return huh.NewSelect[float64]().
			Title(title).
			Options(opts...).
			Value(&sf.choice)

	case scoring.KindChecklist:
		opts := make([]huh.Option[string], 0, len(f.Items))
		for _, it := range f.Items {
			label := it.Label
			if label == "" {
				label = it.ID
			}
			opts = append(opts, huh.NewOption(fmt.Sprintf("%s (+%s)", label, strconv.FormatFloat(it.Points, 'f', -1, 64)), it.ID))
		}
		return huh.NewMultiSelect[string]().
			Title(title).
			Options(opts...).
			Value(&sf.checked)

	default:
		desc := "Leave blank to skip"
		placeholder := ""
		if f.Unit != "" {
			desc = "In " + f.Unit + ". " + desc
		}
		if f.Format == scoring.FormatDuration {
			placeholder = "6.30"
			desc = "Minutes.seconds, e.g. 6.30. Leave blank to skip"
		}
		return huh.NewInput().
			Title(title).
			Description(desc).
			Placeholder(placeholder).
			Value(&sf.text).
			Validate(func(s string) error {
				s = strings.TrimSpace(s)
				if s == "" {
					return nil
				}
				var ok bool
				if f.Format == scoring.FormatDuration {
					_, ok = scoring.ParseDuration(s)
				} else {
					_, ok = scoring.ParseNumber(s)
				}
				if !ok {
					return fmt.Errorf("%q is not a number", s)
				}
				return nil
			})
	}
}
