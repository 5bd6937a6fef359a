package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/session"
)

func newQuizCmd(app *App) *cobra.Command {
	var topic, difficulty string

	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Generate a multiple-choice quiz and take it",
		Example: `  studyctl quiz --topic "Cell biology" --difficulty Intermediate
  studyctl quiz --topic "Linear algebra" --year "2nd Year" --department Math`,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := domain.ParseDifficulty(difficulty)
			if err != nil {
				return err
			}
			return app.runQuiz(cmd, topic, level)
		},
	}

	cmd.Flags().StringVarP(&topic, "topic", "t", "", "Quiz topic (required)")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", string(domain.DifficultyIntermediate),
		"Beginner, Intermediate or Advanced")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

func (app *App) runQuiz(cmd *cobra.Command, topic string, difficulty domain.Difficulty) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	s, err := session.NewQuizSession(app.backend,
		session.WithLogger(app.logger),
		session.WithProfile(app.profile))
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	fmt.Fprintf(out, "Generating %s quiz on %q...\n", difficulty, topic)
	if err := s.Generate(ctx, topic, difficulty); err != nil {
		return err
	}

	in := newPrompter(cmd.InOrStdin(), out, app.interactive)
	questions := s.Questions()
	for {
		q, ok := s.Current()
		if !ok {
			return session.ErrNotReady
		}
		fmt.Fprintf(out, "\nQuestion %d of %d\n%s\n", s.Cursor()+1, len(questions), q.Question)
		for i, opt := range q.Options {
			fmt.Fprintf(out, "  %s) %s\n", optionLabel(i), opt)
		}

		if err := q.Validate(); err != nil {
			// Counted as unanswered.
			fmt.Fprintf(out, "This question cannot be answered (%v). Skipping.\n", err)
		} else if err := askAndGrade(s, in, out, q); err != nil {
			return quitErr(err)
		}

		completed, err := s.Advance(ctx)
		if err != nil {
			return err
		}
		if completed {
			break
		}
	}

	score, err := s.Score()
	if err != nil {
		return err
	}
	verdict := "Keep practicing."
	if score >= domain.PassingScore {
		verdict = "Passed!"
	}
	fmt.Fprintf(out, "\nScore: %.0f%% (%s) in %s\n", score, verdict, s.Elapsed().Round(time.Second))
	return nil
}

// askAndGrade reads an answer for q, records it and prints the verdict.
func askAndGrade(s *session.QuizSession, in *prompter, out io.Writer, q domain.QuizQuestion) error {
	choice, err := askOption(in, out, len(q.Options))
	if err != nil {
		return err
	}
	if err := s.Select(choice); err != nil {
		return err
	}
	if choice == q.CorrectAnswer {
		fmt.Fprintln(out, "Correct!")
	} else {
		fmt.Fprintf(out, "Incorrect. The answer is %s) %s\n",
			optionLabel(q.CorrectAnswer), optionText(q))
	}
	if q.Explanation != "" {
		fmt.Fprintln(out, q.Explanation)
	}
	return nil
}

func askOption(in *prompter, out io.Writer, count int) (int, error) {
	for {
		line, err := in.readLine("Your answer: ")
		if err != nil {
			return 0, err
		}
		if choice, ok := parseOption(line, count); ok {
			return choice, nil
		}
		fmt.Fprintf(out, "Enter a letter A-%s or a number 1-%d.\n", optionLabel(count-1), count)
	}
}

// optionText returns the text of the correct option, or "" if the model
// produced an out-of-range answer index.
func optionText(q domain.QuizQuestion) string {
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectAnswer]
}

// quitErr turns a deliberate quit or end of input into a clean exit.
func quitErr(err error) error {
	if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
