package tokenizer

import (
	"errors"

	"github.com/mcochner/codegrab/internal/utils"
)

// CountResult captures the outcome of counting a byte slice or string.
type CountResult struct {
	Tokens  int
	Counted bool
}

// CountBytes estimates tokens for the provided data using counter. Binary data
// is not counted; the result reports Counted=false instead of an error.
func CountBytes(counter Counter, data []byte) (CountResult, error) {
	if counter == nil {
		return CountResult{}, errors.New("nil tokenizer counter")
	}
	if len(data) == 0 {
		tokens, countError := counter.CountString("")
		if countError != nil {
			return CountResult{}, countError
		}
		return CountResult{Tokens: tokens, Counted: true}, nil
	}
	if utils.IsBinary(data) {
		return CountResult{Counted: false}, nil
	}
	tokens, countError := counter.CountString(string(data))
	if countError != nil {
		return CountResult{}, countError
	}
	return CountResult{Tokens: tokens, Counted: true}, nil
}

// CountText estimates tokens for already-rendered text.
func CountText(counter Counter, text string) (CountResult, error) {
	return CountBytes(counter, []byte(text))
}
