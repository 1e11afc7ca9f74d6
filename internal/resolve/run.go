package resolve

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/scanset/ESP-Agent-SDK/internal/model"
	"github.com/scanset/ESP-Agent-SDK/internal/recordpath"
)

// EvaluateRuns executes each RUN block in source order, binding its
// output into env so later RUNs (and later object/state resolution)
// can see it, per §4.2 step 2.
func EvaluateRuns(runs []RunOp, env Environment, declared map[string]bool) error {
	for _, op := range runs {
		inputs := make([]model.Value, len(op.Inputs))
		for i, fv := range op.Inputs {
			v, err := resolveFieldValue(fv, env, declared)
			if err != nil {
				return err
			}
			inputs[i] = v
		}

		result, err := evalRun(op, inputs)
		if err != nil {
			return err
		}
		env[op.Output] = result
		declared[op.Output] = true
	}
	return nil
}

func evalRun(op RunOp, inputs []model.Value) (model.Value, error) {
	switch op.Operation {
	case RunConcat:
		return runConcat(inputs)
	case RunSplit:
		return runSplit(inputs)
	case RunSubstring:
		return runSubstring(inputs)
	case RunRegexCapture:
		return runRegexCapture(inputs)
	case RunArithmetic:
		return runArithmetic(inputs, op.Operators)
	case RunCount:
		return runCount(inputs)
	case RunExtract:
		return runExtract(inputs, op.FieldPath)
	default:
		return model.Value{}, model.NewError(model.ErrRunConcat, fmt.Sprintf("unknown RUN operation %q", op.Operation))
	}
}

func runConcat(inputs []model.Value) (model.Value, error) {
	var sb strings.Builder
	for _, in := range inputs {
		if in.Kind != model.KindString {
			return model.Value{}, model.NewError(model.ErrRunConcat, "concat requires string inputs")
		}
		sb.WriteString(in.Str)
	}
	return model.NewString(sb.String()), nil
}

func runSplit(inputs []model.Value) (model.Value, error) {
	if len(inputs) < 2 || inputs[0].Kind != model.KindString || inputs[1].Kind != model.KindString {
		return model.Value{}, model.NewError(model.ErrRunSplit, "split requires (string, string literal separator)")
	}
	parts := strings.Split(inputs[0].Str, inputs[1].Str)
	values := make([]model.Value, len(parts))
	for i, p := range parts {
		values[i] = model.NewString(p)
	}
	return model.NewRecord(model.NewRecordSeq(values...)), nil
}

func runSubstring(inputs []model.Value) (model.Value, error) {
	if len(inputs) < 3 || inputs[0].Kind != model.KindString ||
		inputs[1].Kind != model.KindInt || inputs[2].Kind != model.KindInt {
		return model.Value{}, model.NewError(model.ErrRunSubstring, "substring requires (string, int start, int end)")
	}
	s := inputs[0].Str
	start, end := int(inputs[1].Int), int(inputs[2].Int)
	runes := []rune(s)
	if start < 0 || end > len(runes) || start > end {
		return model.Value{}, model.NewError(model.ErrRunSubstring,
			fmt.Sprintf("substring range [%d,%d) out of bounds for length %d", start, end, len(runes)))
	}
	return model.NewString(string(runes[start:end])), nil
}

func runRegexCapture(inputs []model.Value) (model.Value, error) {
	if len(inputs) < 2 || inputs[0].Kind != model.KindString || inputs[1].Kind != model.KindString {
		return model.Value{}, model.NewError(model.ErrRunRegex, "regex_capture requires (string, string pattern)")
	}
	re, err := regexp.Compile(inputs[1].Str)
	if err != nil {
		return model.Value{}, model.Wrap(model.ErrRunRegex, "invalid pattern", err)
	}

	match := re.FindStringSubmatch(inputs[0].Str)
	if match == nil {
		return model.NewString(""), nil
	}

	if len(inputs) >= 3 && inputs[2].Kind == model.KindString {
		names := re.SubexpNames()
		for i, name := range names {
			if name == inputs[2].Str && i < len(match) {
				return model.NewString(match[i]), nil
			}
		}
		return model.NewString(""), nil
	}

	return model.NewString(match[0]), nil
}

func runArithmetic(inputs []model.Value, operators []string) (model.Value, error) {
	if len(inputs) == 0 {
		return model.Value{}, model.NewError(model.ErrRunArithmetic, "arithmetic requires at least one operand")
	}
	if len(operators) != len(inputs)-1 {
		return model.Value{}, model.NewError(model.ErrRunArithmetic, "arithmetic operator count must be operand count minus one")
	}

	isFloat := inputs[0].Kind == model.KindFloat
	var acc float64
	var accInt int64
	switch inputs[0].Kind {
	case model.KindInt:
		accInt = inputs[0].Int
		acc = float64(accInt)
	case model.KindFloat:
		acc = inputs[0].Float
	default:
		return model.Value{}, model.NewError(model.ErrRunArithmetic, "arithmetic requires numeric operands")
	}

	for i, op := range operators {
		next := inputs[i+1]
		var nf float64
		switch next.Kind {
		case model.KindInt:
			nf = float64(next.Int)
		case model.KindFloat:
			isFloat = true
			nf = next.Float
		default:
			return model.Value{}, model.NewError(model.ErrRunArithmetic, "arithmetic requires numeric operands")
		}

		switch op {
		case "+":
			acc += nf
		case "-":
			acc -= nf
		case "*":
			acc *= nf
		case "/":
			if nf == 0 {
				return model.Value{}, model.NewError(model.ErrRunArithmetic, "division by zero")
			}
			acc /= nf
		case "%":
			if nf == 0 {
				return model.Value{}, model.NewError(model.ErrRunArithmetic, "modulo by zero")
			}
			acc = float64(int64(acc) % int64(nf))
		default:
			return model.Value{}, model.NewError(model.ErrRunArithmetic, fmt.Sprintf("unknown operator %q", op))
		}
	}

	if isFloat {
		return model.NewFloat(acc), nil
	}
	return model.NewInt(int64(acc)), nil
}

func runCount(inputs []model.Value) (model.Value, error) {
	if len(inputs) == 0 || inputs[0].Kind != model.KindRecord {
		return model.Value{}, model.NewError(model.ErrRunCount, "count requires a sequence or record-data input")
	}
	return model.NewInt(int64(inputs[0].Record.Len())), nil
}

func runExtract(inputs []model.Value, path []model.PathSegment) (model.Value, error) {
	if len(inputs) == 0 || inputs[0].Kind != model.KindRecord {
		return model.Value{}, model.NewError(model.ErrRunExtract, "extract requires a record-data input")
	}
	results := recordpath.Evaluate(inputs[0], path)
	if len(results) == 0 {
		return model.NewString(""), nil
	}
	return results[0], nil
}

// parseInt is a small helper kept for RUN operand literals supplied as
// raw strings by the compiler front-end (not exercised by the AST
// types above, which carry typed FieldValues, but retained for
// compiler-adjacent callers that parse indices out of policy text).
func parseInt(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
