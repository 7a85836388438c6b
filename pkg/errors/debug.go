package errors

import stdErrors "errors"

// Dump flattens an error chain for structured logging.
type Dump struct {
	Code       Code
	TopMessage string
	Chain      []string
}

// DumpError walks the chain and collects every message for log output.
func DumpError(err error) Dump {
	if err == nil {
		return Dump{}
	}

	dump := Dump{TopMessage: err.Error()}
	if typed := As(err); typed != nil {
		dump.Code = typed.Code()
	}

	for cursor := err; cursor != nil; cursor = stdErrors.Unwrap(cursor) {
		dump.Chain = append(dump.Chain, cursor.Error())
	}
	return dump
}
