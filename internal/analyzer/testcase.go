package analyzer

import (
	"fmt"
	"strconv"
	"strings"

	"idl-testgen-sol/internal/consts"
	"idl-testgen-sol/internal/idl"
	"idl-testgen-sol/internal/metadata"
)

// u128 的最大可表示值，strconv 表达不了，单独列常量。
const maxUint128 = "340282366920938463463374607431768211455"

// Synthesize 为一条指令生成有序用例列表：
// 先是一条全参数采样值的正向用例，随后按参数声明顺序给出各自的负向/边界用例，
// 参数多于一个时再补一条 "全部参数非法" 的组合用例。
// 合成器从不执行目标程序，只产出给下游执行器的结构化预期。
func Synthesize(inst *idl.InstructionSpec, model *idl.Interface) ([]metadata.TestCase, error) {
	cases := make([]metadata.TestCase, 0, 1+4*len(inst.Args))

	positive, err := positiveCase(inst)
	if err != nil {
		return nil, err
	}
	cases = append(cases, positive)

	for i := range inst.Args {
		argCases, err := argumentCases(inst, &inst.Args[i], model)
		if err != nil {
			return nil, err
		}
		cases = append(cases, argCases...)
	}

	if len(inst.Args) > 1 {
		cases = append(cases, combinedCase(inst))
	}

	return cases, nil
}

func positiveCase(inst *idl.InstructionSpec) (metadata.TestCase, error) {
	values := make([]metadata.ArgumentValue, 0, len(inst.Args))
	for i := range inst.Args {
		arg := &inst.Args[i]
		sample, err := sampleValue(inst.Name, arg)
		if err != nil {
			return metadata.TestCase{}, err
		}
		values = append(values, metadata.ArgumentValue{Name: arg.Name, Value: sample, Valid: true})
	}
	return metadata.TestCase{
		Kind:        metadata.Positive,
		Description: fmt.Sprintf("%s - valid inputs", inst.Name),
		Arguments:   values,
		Expected:    metadata.Outcome{Success: true},
	}, nil
}

func sampleValue(instName string, arg *idl.ArgumentSpec) (string, error) {
	switch arg.Type.Kind {
	case idl.KindString:
		return consts.SampleString, nil
	case idl.KindUint:
		return strconv.Itoa(consts.SampleUint), nil
	case idl.KindInt:
		return strconv.Itoa(consts.SampleInt), nil
	case idl.KindBool:
		return "true", nil
	case idl.KindPubkey:
		return "authority.publicKey", nil
	case idl.KindComposite:
		return "/* valid value */", nil
	default:
		return "", &UnsupportedTypeError{
			Instruction: instName,
			Argument:    arg.Name,
			Type:        fmt.Sprintf("kind(%d)", arg.Type.Kind),
		}
	}
}

func argumentCases(inst *idl.InstructionSpec, arg *idl.ArgumentSpec, model *idl.Interface) ([]metadata.TestCase, error) {
	switch arg.Type.Kind {
	case idl.KindString:
		return stringCases(inst, arg, model), nil
	case idl.KindUint:
		return uintCases(inst, arg, model), nil
	case idl.KindInt, idl.KindBool, idl.KindPubkey, idl.KindComposite:
		// 仅在显式声明 min/max 约束时生成边界负例
		return boundaryCases(inst, arg, model), nil
	default:
		return nil, &UnsupportedTypeError{
			Instruction: inst.Name,
			Argument:    arg.Name,
			Type:        fmt.Sprintf("kind(%d)", arg.Type.Kind),
		}
	}
}

func stringCases(inst *idl.InstructionSpec, arg *idl.ArgumentSpec, model *idl.Interface) []metadata.TestCase {
	var msgEmpty, msgLong string
	if c, ok := arg.Constraint(idl.ConstraintMinLength); ok {
		msgEmpty = c.Message
	}
	if c, ok := arg.Constraint(idl.ConstraintMaxLength); ok {
		msgLong = c.Message
	}

	probeLen := consts.StringProbeLength
	if arg.Type.MaxLen > 0 {
		probeLen = int(arg.Type.MaxLen) + 1
	}

	return []metadata.TestCase{
		{
			Kind:        metadata.NegativeEmpty,
			Description: fmt.Sprintf("%s - %s empty string", inst.Name, arg.Name),
			Arguments: []metadata.ArgumentValue{{
				Name: arg.Name, Value: "", Reason: "string cannot be empty",
			}},
			Expected: failure(model, "EmptyString", msgEmpty),
		},
		{
			Kind:        metadata.NegativeTooLong,
			Description: fmt.Sprintf("%s - %s too long", inst.Name, arg.Name),
			Arguments: []metadata.ArgumentValue{{
				Name: arg.Name, Value: strings.Repeat("a", probeLen), Reason: "exceeds maximum length",
			}},
			Expected: failure(model, "StringTooLong", msgLong),
		},
	}
}

func uintCases(inst *idl.InstructionSpec, arg *idl.ArgumentSpec, model *idl.Interface) []metadata.TestCase {
	var cases []metadata.TestCase

	minC, hasMin := arg.Constraint(idl.ConstraintMin)
	_, hasNonZero := arg.Constraint(idl.ConstraintNonZero)
	zeroDisallowed := hasNonZero || (hasMin && minC.Value > 0)

	if hasMin && minC.Value > 0 {
		below := minC.Value - 1
		if below == 0 && zeroDisallowed {
			// 零值单独由 NegativeZero 覆盖，低于下界的探针改取 -1
			below = -1
		}
		cases = append(cases, metadata.TestCase{
			Kind:        metadata.NegativeConstraint,
			Description: fmt.Sprintf("%s - %s below minimum", inst.Name, arg.Name),
			Arguments: []metadata.ArgumentValue{{
				Name: arg.Name, Value: strconv.FormatInt(below, 10),
				Reason: fmt.Sprintf("below minimum value of %d", minC.Value),
			}},
			Expected: failure(model, "ConstraintViolation", minC.Message),
		})
	}

	if maxC, ok := arg.Constraint(idl.ConstraintMax); ok {
		cases = append(cases, metadata.TestCase{
			Kind:        metadata.NegativeConstraint,
			Description: fmt.Sprintf("%s - %s above maximum", inst.Name, arg.Name),
			Arguments: []metadata.ArgumentValue{{
				Name: arg.Name, Value: strconv.FormatInt(maxC.Value+1, 10),
				Reason: fmt.Sprintf("above maximum value of %d", maxC.Value),
			}},
			Expected: failure(model, "ConstraintViolation", maxC.Message),
		})
	}

	if zeroDisallowed {
		var msg string
		if hasNonZero {
			c, _ := arg.Constraint(idl.ConstraintNonZero)
			msg = c.Message
		}
		cases = append(cases, metadata.TestCase{
			Kind:        metadata.NegativeZero,
			Description: fmt.Sprintf("%s - %s is zero", inst.Name, arg.Name),
			Arguments: []metadata.ArgumentValue{{
				Name: arg.Name, Value: "0", Reason: "must be non-zero",
			}},
			Expected: failure(model, "ZeroAmount", msg),
		})
	}

	cases = append(cases,
		metadata.TestCase{
			Kind:        metadata.NegativeOverflow,
			Description: fmt.Sprintf("%s - %s overflow", inst.Name, arg.Name),
			Arguments: []metadata.ArgumentValue{{
				Name: arg.Name, Value: maxRepresentable(arg.Type.Width),
				Reason: "potential arithmetic overflow",
			}},
			Expected: failure(model, "Overflow", ""),
		},
		metadata.TestCase{
			Kind:        metadata.NegativeNegative,
			Description: fmt.Sprintf("%s - %s negative value", inst.Name, arg.Name),
			Arguments: []metadata.ArgumentValue{{
				Name: arg.Name, Value: "-1", Reason: "unsigned type cannot be negative",
			}},
			Expected: failure(model, "InvalidType", ""),
		},
	)

	return cases
}

// boundaryCases 对有符号整数等类型仅在显式声明了 min/max 时生成边界负例，
// 策略与无符号一致。
func boundaryCases(inst *idl.InstructionSpec, arg *idl.ArgumentSpec, model *idl.Interface) []metadata.TestCase {
	var cases []metadata.TestCase

	if minC, ok := arg.Constraint(idl.ConstraintMin); ok {
		cases = append(cases, metadata.TestCase{
			Kind:        metadata.NegativeConstraint,
			Description: fmt.Sprintf("%s - %s below minimum", inst.Name, arg.Name),
			Arguments: []metadata.ArgumentValue{{
				Name: arg.Name, Value: strconv.FormatInt(minC.Value-1, 10),
				Reason: fmt.Sprintf("below minimum value of %d", minC.Value),
			}},
			Expected: failure(model, "ConstraintViolation", minC.Message),
		})
	}
	if maxC, ok := arg.Constraint(idl.ConstraintMax); ok {
		cases = append(cases, metadata.TestCase{
			Kind:        metadata.NegativeConstraint,
			Description: fmt.Sprintf("%s - %s above maximum", inst.Name, arg.Name),
			Arguments: []metadata.ArgumentValue{{
				Name: arg.Name, Value: strconv.FormatInt(maxC.Value+1, 10),
				Reason: fmt.Sprintf("above maximum value of %d", maxC.Value),
			}},
			Expected: failure(model, "ConstraintViolation", maxC.Message),
		})
	}

	return cases
}

func combinedCase(inst *idl.InstructionSpec) metadata.TestCase {
	values := make([]metadata.ArgumentValue, 0, len(inst.Args))
	for i := range inst.Args {
		values = append(values, metadata.ArgumentValue{
			Name: inst.Args[i].Name, Value: "invalid", Reason: "multiple validation failures",
		})
	}
	return metadata.TestCase{
		Kind:        metadata.NegativeConstraint,
		Description: fmt.Sprintf("%s - all arguments invalid", inst.Name),
		Arguments:   values,
		Expected:    metadata.Outcome{FailureContains: "ConstraintViolation"},
	}
}

// failure 组装预期失败结果：优先取参数声明的约束文案，
// 其次取 IDL errors 中同名错误的 message，最后回退为错误码本身。
func failure(model *idl.Interface, code, constraintMsg string) metadata.Outcome {
	if constraintMsg != "" {
		return metadata.Outcome{FailureContains: constraintMsg}
	}
	if msg, ok := model.ErrorMessage(code); ok && msg != "" {
		return metadata.Outcome{FailureContains: msg}
	}
	return metadata.Outcome{FailureContains: code}
}

func maxRepresentable(width int) string {
	switch width {
	case 8:
		return "255"
	case 16:
		return "65535"
	case 32:
		return "4294967295"
	case 128:
		return maxUint128
	default:
		return "18446744073709551615"
	}
}
