// Package command implements the command collection primitive of
// §4.7: invoke the sandboxed executor with whitelisted argv, and
// record the literal invocation as the collection method.
package command

import (
	"context"
	"time"

	"github.com/scanset/ESP-Agent-SDK/internal/model"
	"github.com/scanset/ESP-Agent-SDK/internal/sandbox"
)

// Parser turns a command's stdout into collected fields, per the
// contract of a concrete collector built on this primitive.
type Parser func(stdout string) (map[string]model.Value, error)

// Primitive is the generic command collector: it knows nothing about
// any particular contract's field shape, only how to run a whitelisted
// command and hand its stdout to a Parser.
type Primitive struct {
	executor *sandbox.Executor
}

// New returns a command Primitive bound to executor.
func New(executor *sandbox.Executor) *Primitive {
	return &Primitive{executor: executor}
}

// Collect runs argv under timeout (0 for the executor's default),
// parses stdout with parse, and frames CollectionMethod = command(cmd,
// target) with the literal argv, per §4.7.
func (p *Primitive) Collect(ctx context.Context, argv []string, target string, timeout time.Duration, parse Parser) (model.CollectedData, error) {
	result, err := p.executor.Run(ctx, argv, timeout)
	if err != nil {
		return model.CollectedData{}, err
	}

	fields, err := parse(result.Stdout)
	if err != nil {
		return model.CollectedData{}, model.Wrap(model.ErrCollectionFailed, "failed to parse command output", err)
	}

	return model.CollectedData{
		Fields: fields,
		Method: model.CollectionMethod{
			Type:    "command",
			Target:  target,
			Command: append([]string(nil), argv...),
		},
		Exists: true,
	}, nil
}
