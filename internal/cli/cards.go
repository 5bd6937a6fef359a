package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/session"
)

const cardsHelp = "n: next  p: previous  f: flip  again|hard|good|easy: review  q: quit"

func newCardsCmd(app *App) *cobra.Command {
	var file, text string

	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Generate a flashcard deck from text and study it",
		Example: `  studyctl cards --file lecture-notes.md
  studyctl cards --text "Mitochondria produce ATP through oxidative phosphorylation."`,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(file, text)
			if err != nil {
				return err
			}
			return app.runCards(cmd, source)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Text file to generate cards from")
	cmd.Flags().StringVar(&text, "text", "", "Text to generate cards from")
	cmd.MarkFlagsOneRequired("file", "text")
	cmd.MarkFlagsMutuallyExclusive("file", "text")
	return cmd
}

func readSource(file, text string) (string, error) {
	if file == "" {
		return text, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", file, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s is not a text file", file)
	}
	return string(data), nil
}

func (app *App) runCards(cmd *cobra.Command, source string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	s, err := session.NewFlashcardSession(app.backend,
		session.WithLogger(app.logger),
		session.WithProfile(app.profile))
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	fmt.Fprintln(out, "Generating flashcards...")
	if err := s.Generate(ctx, source); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d cards ready. %s\n", len(s.Cards()), cardsHelp)

	in := newPrompter(cmd.InOrStdin(), out, app.interactive)
	show := true
	for {
		if show {
			printCard(out, s)
		}
		show = true

		line, err := in.readLine("> ")
		if err != nil {
			return quitErr(err)
		}

		var completed bool
		switch cmdName := strings.ToLower(line); cmdName {
		case "n", "next":
			completed, err = s.Advance(ctx)
		case "p", "prev", "previous":
			err = s.Retreat()
		case "f", "flip", "":
			_, err = s.Flip()
		default:
			outcome, perr := domain.ParseReviewOutcome(cmdName)
			if perr != nil {
				fmt.Fprintln(out, cardsHelp)
				show = false
				continue
			}
			var card domain.Flashcard
			card, completed, err = s.Review(ctx, outcome)
			if err == nil {
				fmt.Fprintf(out, "Mastery %d/%d\n", card.Mastery, domain.MaxMastery)
			}
		}
		if err != nil {
			return err
		}
		if completed {
			fmt.Fprintln(out, "Deck complete!")
			printMastery(out, s.Cards())
			return nil
		}
	}
}

func printCard(out io.Writer, s *session.FlashcardSession) {
	card, ok := s.Current()
	if !ok {
		return
	}
	face, text := "Front", card.Front
	if s.Flipped() {
		face, text = "Back", card.Back
	}
	fmt.Fprintf(out, "\n[%d/%d %.0f%%] %s: %s\n", s.Cursor()+1, len(s.Cards()), s.Progress(), face, text)
}

func printMastery(out io.Writer, cards []domain.Flashcard) {
	for _, c := range cards {
		bar := strings.Repeat("#", c.Mastery) + strings.Repeat(".", domain.MaxMastery-c.Mastery)
		fmt.Fprintf(out, "  %s %s\n", bar, c.Front)
	}
}
