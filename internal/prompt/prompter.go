package prompt

import (
	"bufio"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var affirmativeResponses = map[string]struct{}{
	"y":   {},
	"yes": {},
	"ㅇ":   {},
	"예":   {},
}

var questionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

// IOConfirmationPrompter reads confirmation responses from an io.Reader.
type IOConfirmationPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewIOConfirmationPrompter constructs a prompter from the provided reader and writer.
func NewIOConfirmationPrompter(input io.Reader, output io.Writer) *IOConfirmationPrompter {
	return &IOConfirmationPrompter{reader: bufio.NewReader(input), writer: output}
}

// Confirm writes the prompt and interprets affirmative responses (y/yes/ㅇ/예).
// Any other answer, including end of input, declines.
func (prompter *IOConfirmationPrompter) Confirm(prompt string) (bool, error) {
	if prompter.writer != nil {
		if _, writeError := io.WriteString(prompter.writer, questionStyle.Render(prompt)); writeError != nil {
			return false, writeError
		}
	}

	response, readError := prompter.reader.ReadString('\n')
	if readError != nil && readError != io.EOF {
		return false, readError
	}

	return IsAffirmative(response), nil
}

// IsAffirmative reports whether a typed answer accepts the question.
func IsAffirmative(response string) bool {
	_, affirmative := affirmativeResponses[strings.TrimSpace(strings.ToLower(response))]
	return affirmative
}
