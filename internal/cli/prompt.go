package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"ragclass/internal/quiz"
)

// readLine reads a line from the reader, trimming line endings. The last line of an
// input without a trailing newline is returned together with io.EOF.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return strings.TrimRight(line, "\r\n"), io.EOF
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptString asks for a string value with an optional default.
func promptString(reader *bufio.Reader, out io.Writer, label, defaultValue string) (string, error) {
	for {
		if defaultValue != "" {
			fmt.Fprintf(out, "%s [%s]: ", label, defaultValue)
		} else {
			fmt.Fprintf(out, "%s: ", label)
		}
		line, err := readLine(reader)
		if err != nil && err != io.EOF {
			return "", err
		}
		line = strings.TrimSpace(line)
		switch {
		case line != "":
			return line, nil
		case defaultValue != "":
			return defaultValue, nil
		case err == io.EOF:
			return "", fmt.Errorf("missing input for %s", label)
		}
	}
}

// promptYesNo prompts for a yes/no response with a default.
func promptYesNo(reader *bufio.Reader, out io.Writer, label string, defaultYes bool) (bool, error) {
	suffix := "y/N"
	if defaultYes {
		suffix = "Y/n"
	}
	for {
		fmt.Fprintf(out, "%s [%s]: ", label, suffix)
		line, err := readLine(reader)
		if err != nil && err != io.EOF {
			return false, err
		}
		switch strings.TrimSpace(strings.ToLower(line)) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			if err == io.EOF {
				return false, fmt.Errorf("invalid response %q", line)
			}
			fmt.Fprintln(out, "Please answer yes or no.")
		}
	}
}

// promptAnswers asks for each question's letter in turn. A blank line skips a question
// and end of input stops prompting.
func promptAnswers(reader *bufio.Reader, out io.Writer, session *quiz.Session) error {
	for _, q := range session.Questions() {
		done, err := promptAnswer(reader, out, session, q)
		if err != nil || done {
			return err
		}
	}
	return nil
}

// promptAnswer reads one answer, re-asking on letters the question does not offer.
func promptAnswer(reader *bufio.Reader, out io.Writer, session *quiz.Session, q quiz.Question) (bool, error) {
	for {
		fmt.Fprintf(out, "Answer for question %d (%s, blank to skip): ", q.ID, optionRange(q))
		line, err := readLine(reader)
		if err != nil && err != io.EOF {
			return false, err
		}
		eof := err == io.EOF
		letter := strings.ToUpper(strings.TrimSpace(line))
		if letter != "" {
			if selectErr := session.Select(q.ID, letter); selectErr != nil {
				if eof {
					return true, selectErr
				}
				fmt.Fprintf(out, "Question %d has no option %s.\n", q.ID, letter)
				continue
			}
		}
		if eof {
			fmt.Fprintln(out)
		}
		return eof, nil
	}
}
