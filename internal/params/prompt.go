package params

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/roach88/motorbench/internal/bench"
)

// Prompt asks for each value on an interactive terminal, one line per value.
type Prompt struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompt creates a Prompt reading from in and writing questions to out.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out}
}

// Int writes "Enter <label> [<unit>]: " and parses the reply.
// End of input before any reply yields a *MissingError.
func (p *Prompt) Int(name string) (int64, error) {
	label, unit := name, ""
	if spec, ok := bench.LookupParam(name); ok {
		label, unit = spec.Label, spec.Unit
	}
	if unit != "" {
		fmt.Fprintf(p.out, "Enter %s [%s]: ", label, unit)
	} else {
		fmt.Fprintf(p.out, "Enter %s: ", label)
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		if err == io.EOF {
			return 0, &MissingError{Name: name}
		}
		return 0, errors.Wrapf(err, "reading %s", name)
	}

	v, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parameter %s", name)
	}
	return v, nil
}
