package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/agbru/picalc/internal/errors"
)

// DigitsPrompt is printed when no digit count was given on the command line.
const DigitsPrompt = "Enter number of digits to calculate for Pi: "

// PromptDigits asks for a digit count on in. The answer must be a positive
// integer no larger than maxDigits.
func PromptDigits(in io.Reader, out io.Writer, maxDigits int) (int, error) {
	fmt.Fprint(out, DigitsPrompt)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return 0, apperrors.ValidationError{Field: "digits", Message: "no input"}
	}
	line = strings.TrimSpace(line)

	digits, convErr := strconv.Atoi(line)
	if convErr != nil {
		return 0, apperrors.ValidationError{Field: "digits", Message: fmt.Sprintf("%q is not an integer", line)}
	}
	if digits <= 0 {
		return 0, apperrors.ValidationError{Field: "digits", Message: fmt.Sprintf("must be at least 1, got %d", digits)}
	}
	if maxDigits > 0 && digits > maxDigits {
		return 0, apperrors.ValidationError{Field: "digits", Message: fmt.Sprintf("%d exceeds the maximum of %d", digits, maxDigits)}
	}
	return digits, nil
}
