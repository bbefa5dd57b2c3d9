package actor

import "fmt"

// BudgetError implements errors arising when a prompt leaves no room
// for generated tokens under the configured sequence-length budget.
// A BudgetError is not retryable without shortening the prompt or
// changing the configuration.
type BudgetError struct {
	Op                string
	PromptLength      int
	MaxSequenceLength int
	MaxNewTokens      int
}

// Error satisfies the error interface
func (e *BudgetError) Error() string {
	return fmt.Sprintf("%v: generation budget exhausted: prompt of length "+
		"%d leaves min(%d, %d - %d) <= 0 tokens to generate", e.Op,
		e.PromptLength, e.MaxNewTokens, e.MaxSequenceLength, e.PromptLength)
}

// IsBudgetExhausted returns whether or not an error reports that the
// generation budget for a prompt is exhausted.
func IsBudgetExhausted(err error) bool {
	_, ok := err.(*BudgetError)
	return ok
}
