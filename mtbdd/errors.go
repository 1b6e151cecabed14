// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtbdd

import "fmt"

// Error returns the error status of the dictionary. We return an
// empty string if there are no errors.
func (b *Dict) Error() string {
	if b.error == nil {
		return ""
	}
	return b.error.Error()
}

// Errored returns true if there was an error during a computation.
func (b *Dict) Errored() bool {
	return b.error != nil
}

func (b *Dict) seterror(format string, a ...interface{}) Node {
	if b.error != nil {
		format = format + "; " + b.Error()
		b.error = fmt.Errorf(format, a...)
		return False
	}
	b.error = fmt.Errorf(format, a...)
	return False
}
