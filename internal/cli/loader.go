package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/itf"
)

// GenericTrace is a trace decoded without a typed state shape: every
// state stays a generic ordered value tree.
type GenericTrace = itf.Trace[*itf.Record]

// LoadTrace reads and decodes a trace file. File errors map to
// ExitCommandError; decode errors map to ExitFailure so scripts can
// distinguish a bad path from a bad trace.
func LoadTrace(path string) (*GenericTrace, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, fmt.Sprintf("reading %s", path), err)
	}

	trace, err := itf.DecodeTrace[*itf.Record](data)
	if err != nil {
		return nil, data, WrapExitError(ExitFailure, fmt.Sprintf("decoding %s", path), err)
	}
	return trace, data, nil
}

// decodeErrorParts extracts the code and path from a decode error for
// structured output.
func decodeErrorParts(err error) (code, path, message string) {
	var de *itf.DecodeError
	if errors.As(err, &de) {
		return string(de.Code), de.Path.String(), de.Message
	}
	return "DECODE_ERROR", "", err.Error()
}
