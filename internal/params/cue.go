package params

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"github.com/pkg/errors"

	"github.com/roach88/motorbench/internal/bench"
)

//go:embed schema.cue
var schemaCUE string

// CUEError is a schema or syntax error in a CUE parameter file.
type CUEError struct {
	Message string
	Pos     token.Pos
}

func (e *CUEError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return e.Message
}

// LoadCUE reads a CUE parameter file and checks it against the parameter schema.
func LoadCUE(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read parameter file")
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, errors.Wrap(err, "compiling parameter schema")
	}

	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	if err := checkKnownFields(v); err != nil {
		return nil, err
	}

	unified := schema.LookupPath(cue.ParsePath("#Params")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var doc document
	if err := unified.Decode(&doc); err != nil {
		return nil, formatCUEError(err)
	}
	return doc.toFile(path), nil
}

// checkKnownFields rejects labels that are not bench parameters.
func checkKnownFields(v cue.Value) error {
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		label := iter.Selector().String()
		if label == "scenario" {
			continue
		}
		if _, ok := bench.LookupParam(label); !ok {
			return &CUEError{
				Message: fmt.Sprintf("%s: field not allowed", label),
				Pos:     iter.Value().Pos(),
			}
		}
	}
	return nil
}

// formatCUEError keeps the first error and its source position.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	ce := &CUEError{Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	return ce
}
