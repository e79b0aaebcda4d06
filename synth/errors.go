package synth

import "fmt"

type panicError struct {
	value interface{}
}

// Error implements the error interface
func (p *panicError) Error() string {
	return fmt.Sprintf("generator panicked: %v", p.value)
}
