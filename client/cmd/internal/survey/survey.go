package survey

import (
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
)

// IsInteractive reports whether stdin is a terminal a prompt can read from
func IsInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// AskToConfirmRemoval lists the jobs about to be removed and asks for a go
func AskToConfirmRemoval(names []string) (bool, error) {
	var output bool
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Remove %d job(s)?", len(names)),
		Help:    "If yes, the tasks of these jobs are killed and the jobs are deleted:\n  " + strings.Join(names, "\n  "),
	}
	if err := survey.AskOne(prompt, &output); err != nil {
		return output, err
	}
	return output, nil
}
