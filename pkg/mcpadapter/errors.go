package mcpadapter

import (
	"errors"
	"fmt"
)

var errNoSession = errors.New("mcpadapter: no session started — call xsltdbg/start first")

func unknownEngineError(name string) error {
	return fmt.Errorf("mcpadapter: unknown engine %q — use \"legacy\" or \"modern\"", name)
}
