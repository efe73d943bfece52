// Package cli holds the interactive operator prompts.
package cli

import (
	"errors"
	"io"
	"os"

	"github.com/manifoldco/promptui"
)

// PromptConfirm asks a y/N question on the terminal. Declining is not an error.
func PromptConfirm(label string) (bool, error) {
	return Confirm(label, os.Stdin, os.Stdout)
}

// Confirm asks a y/N question on the given streams.
func Confirm(label string, in io.ReadCloser, out io.WriteCloser) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     in,
		Stdout:    out,
	}

	_, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}
