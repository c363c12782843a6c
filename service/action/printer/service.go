package printer

import (
	"context"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/viant/flow/model/types"
)

const name = "printer"

// Service prints step messages, primarily used by examples and tests.
type Service struct {
	writer io.Writer
}

type Input struct {
	Message string
}

type Output struct {
	Message string
}

// New creates a new printer service
func New() *Service {
	return &Service{writer: os.Stdout}
}

// NewWithWriter creates a printer service writing to the supplied writer.
func NewWithWriter(writer io.Writer) *Service {
	return &Service{writer: writer}
}

// Name returns the service name
func (s *Service) Name() string {
	return name
}

// Methods returns the service methods
func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "print",
			Description: "Prints the given message to standard output.",
			Input:       reflect.TypeOf(&Input{}),
			Output:      reflect.TypeOf(&Output{}),
		},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "print":
		return s.print, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) print(_ context.Context, in, out interface{}) error {
	input, ok := in.(*Input)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	if _, err := fmt.Fprintln(s.writer, input.Message); err != nil {
		return err
	}
	output.Message = input.Message
	return nil
}
