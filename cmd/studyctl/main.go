// Command studyctl runs quizzes, flashcard decks and the study tutor in a
// terminal.
package main

import "github.com/phrazzld/scry-tutor/internal/cli"

func main() {
	cli.Execute()
}
