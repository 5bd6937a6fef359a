package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/phrazzld/scry-tutor/internal/generation"
	"github.com/phrazzld/scry-tutor/internal/session"
)

const tutorHelp = "/attach <path>: analyze a text file  /reset: start over  /quit: exit"

func newTutorCmd(app *App) *cobra.Command {
	var greeting bool

	cmd := &cobra.Command{
		Use:   "tutor",
		Short: "Chat with a streaming study tutor",
		Example: `  studyctl tutor --name "Ada Lovelace" --department Mathematics --year "2nd Year"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runTutor(cmd, greeting)
		},
	}
	cmd.Flags().BoolVar(&greeting, "greeting", true, "Open with a greeting when a name is given")
	return cmd
}

func (app *App) runTutor(cmd *cobra.Command, greeting bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	s, err := session.NewChatSession(app.backend,
		session.WithLogger(app.logger),
		session.WithPrompter(app.backend),
		session.WithGreeting(greeting),
		session.WithProfile(app.profile))
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	if app.interactive {
		fmt.Fprintln(out, tutorHelp)
	}
	for _, t := range s.History() {
		fmt.Fprintf(out, "\n%s\n", t.Text)
	}

	in := newPrompter(cmd.InOrStdin(), out, app.interactive)
	for {
		line, err := in.readLine("\nyou> ")
		if err != nil {
			return quitErr(err)
		}

		var turn *session.Turn
		switch {
		case line == "":
			continue
		case line == "/reset":
			s.Reset(ctx)
			fmt.Fprintln(out, "Conversation cleared.")
			continue
		case line == "/help":
			fmt.Fprintln(out, tutorHelp)
			continue
		case strings.HasPrefix(line, "/attach"):
			path := strings.TrimSpace(strings.TrimPrefix(line, "/attach"))
			content, rerr := readAttachment(path)
			if rerr != nil {
				fmt.Fprintln(out, rerr)
				continue
			}
			turn, err = s.SubmitFile(ctx, filepath.Base(path), content)
		default:
			turn, err = s.Submit(ctx, line)
		}
		if err != nil {
			if errors.Is(err, generation.ErrValidationRejected) {
				fmt.Fprintln(out, err)
				continue
			}
			return err
		}

		streamTurn(out, turn)
	}
}

// streamTurn prints each fragment as it arrives.
func streamTurn(out io.Writer, turn *session.Turn) {
	fmt.Fprintln(out)
	for delta := range turn.Fragments() {
		fmt.Fprint(out, delta)
	}
	fmt.Fprintln(out)

	if err := turn.Err(); err != nil {
		switch {
		case turn.Truncated() && turn.Text() != "":
			fmt.Fprintln(out, "[response interrupted, partial answer kept]")
		case errors.Is(err, generation.ErrStreamInterrupted):
			fmt.Fprintln(out, "[response interrupted, try again]")
		default:
			fmt.Fprintf(out, "[%v]\n", err)
		}
	}
}

func readAttachment(path string) (string, error) {
	if path == "" {
		return "", errors.New("usage: /attach <path>")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s is not a text file", path)
	}
	return string(data), nil
}
