package launcher

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// URLPlaceholder is replaced with the record URL in the browser command
const URLPlaceholder = "%%URL%%"

const DefaultBrowserCommand = "xdg-open"

type BrowserLauncher struct {
	Enabled bool
	command []string
}

func NewBrowserLauncher(command string) (BrowserLauncher, error) {
	launcher := BrowserLauncher{
		command: strings.Fields(command),
	}

	err := launcher.validate()
	if err != nil {
		return BrowserLauncher{}, err
	}

	return launcher, nil
}

func (l *BrowserLauncher) validate() error {
	errs := []error{}

	if len(l.command) == 0 {
		errs = append(errs, fmt.Errorf("browser command is not set"))
	}

	if len(l.command) > 0 && strings.Contains(l.command[0], "%%") {
		errs = append(errs, fmt.Errorf("first browser argument cannot have a replaceable"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("launcher error: %w", errors.Join(errs...))
	}

	l.Enabled = true
	return nil
}

// BuildOpenCommand returns the argv used to open url. If no argument holds the
// placeholder, the url is appended as the last argument.
func (l *BrowserLauncher) BuildOpenCommand(url string) []string {
	if len(l.command) == 0 {
		return nil
	}

	// The first arg is never replaced, as checked in validate
	command := []string{l.command[0]}

	replaced := false
	for _, arg := range l.command[1:] {
		if strings.Contains(arg, URLPlaceholder) {
			replaced = true
			arg = strings.ReplaceAll(arg, URLPlaceholder, url)
		}
		command = append(command, arg)
	}

	if !replaced {
		command = append(command, url)
	}

	return command
}

// Command returns an unstarted exec.Cmd opening url
func (l *BrowserLauncher) Command(url string) (*exec.Cmd, error) {
	if !l.Enabled {
		return nil, errors.New("browser launcher is not enabled")
	}
	argv := l.BuildOpenCommand(url)
	return exec.Command(argv[0], argv[1:]...), nil
}
