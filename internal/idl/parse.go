package idl

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"idl-testgen-sol/internal/types"
)

// ParseError 表示接口模型输入不合法（JSON 损坏或结构不符）。
type ParseError struct {
	Detail string
}

func (e *ParseError) Error() string {
	return "idl parse error: " + e.Detail
}

func parseErrorf(format string, args ...any) error {
	return &ParseError{Detail: fmt.Sprintf(format, args...)}
}

// 原始 JSON 结构，兼容 Anchor 0.30 形态（metadata 嵌套）与旧版（顶层 name/version）。
type rawIdl struct {
	Address  string `json:"address"`
	Name     string `json:"name"`
	Version  string `json:"version"`
	Metadata struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"metadata"`
	Instructions []rawInstruction `json:"instructions"`
	Errors       []rawError       `json:"errors"`
}

type rawInstruction struct {
	Name     string       `json:"name"`
	Docs     []string     `json:"docs"`
	Accounts []rawAccount `json:"accounts"`
	Args     []rawArg     `json:"args"`
}

type rawAccount struct {
	Name     string   `json:"name"`
	Writable bool     `json:"writable"`
	IsMut    bool     `json:"isMut"`
	Signer   bool     `json:"signer"`
	IsSigner bool     `json:"isSigner"`
	Optional bool     `json:"optional"`
	Docs     []string `json:"docs"`
	Pda      *rawPda  `json:"pda"`
}

type rawPda struct {
	Seeds   []rawSeed `json:"seeds"`
	Program *rawSeed  `json:"program"`
}

type rawSeed struct {
	Kind  string `json:"kind"`
	Path  string `json:"path"`
	Value []int  `json:"value"`
}

type rawArg struct {
	Name string          `json:"name"`
	Docs []string        `json:"docs"`
	Type json.RawMessage `json:"type"`
}

type rawError struct {
	Code uint32 `json:"code"`
	Name string `json:"name"`
	Msg  string `json:"msg"`
}

// ParseFile 从磁盘读取并解析 IDL JSON。
func ParseFile(path string) (*Interface, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, parseErrorf("read %q: %v", path, err)
	}
	return Parse(data)
}

// Parse 将 Anchor 形态的 IDL JSON 解析为只读接口模型。
func Parse(data []byte) (*Interface, error) {
	var raw rawIdl
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, parseErrorf("invalid json: %v", err)
	}
	if len(raw.Instructions) == 0 {
		return nil, parseErrorf("idl must declare at least one instruction")
	}

	name, version := raw.Metadata.Name, raw.Metadata.Version
	if name == "" {
		name = raw.Name
	}
	if version == "" {
		version = raw.Version
	}

	var programID types.Pubkey
	if raw.Address != "" {
		pk, err := types.TryPubkeyFromBase58(raw.Address)
		if err != nil {
			return nil, parseErrorf("invalid program address: %v", err)
		}
		programID = pk
	}

	model := &Interface{
		Name:      name,
		Version:   version,
		ProgramID: programID,
	}

	for _, ri := range raw.Instructions {
		inst, err := parseInstruction(ri)
		if err != nil {
			return nil, err
		}
		model.Instructions = append(model.Instructions, inst)
	}

	for _, re := range raw.Errors {
		model.Errors = append(model.Errors, ErrorDef{Code: re.Code, Name: re.Name, Message: re.Msg})
	}

	return model, nil
}

func parseInstruction(ri rawInstruction) (InstructionSpec, error) {
	if ri.Name == "" {
		return InstructionSpec{}, parseErrorf("instruction without name")
	}
	inst := InstructionSpec{Name: ri.Name, Docs: ri.Docs}

	for _, ra := range ri.Accounts {
		acc, err := parseAccount(ri.Name, ra)
		if err != nil {
			return InstructionSpec{}, err
		}
		inst.Accounts = append(inst.Accounts, acc)
	}

	for _, rg := range ri.Args {
		arg, err := parseArgument(ri.Name, rg)
		if err != nil {
			return InstructionSpec{}, err
		}
		inst.Args = append(inst.Args, arg)
	}

	return inst, nil
}

func parseAccount(instName string, ra rawAccount) (AccountUsage, error) {
	if ra.Name == "" {
		return AccountUsage{}, parseErrorf("instruction %q: account without name", instName)
	}
	acc := AccountUsage{
		Name:       ra.Name,
		IsMut:      ra.Writable || ra.IsMut,
		IsSigner:   ra.Signer || ra.IsSigner,
		IsOptional: ra.Optional,
		Docs:       ra.Docs,
	}
	if ra.Pda != nil {
		derived, err := parseDerived(instName, ra.Name, ra.Pda)
		if err != nil {
			return AccountUsage{}, err
		}
		acc.Derived = derived
	}
	return acc, nil
}

func parseDerived(instName, accName string, rp *rawPda) (*DerivedAddressSpec, error) {
	spec := &DerivedAddressSpec{}
	for _, rs := range rp.Seeds {
		switch rs.Kind {
		case "const", "constant":
			spec.Seeds = append(spec.Seeds, SeedSource{Kind: SeedLiteral, Value: intsToBytes(rs.Value)})
		case "arg", "argument":
			spec.Seeds = append(spec.Seeds, SeedSource{Kind: SeedArgument, Path: rootPathSegment(rs.Path)})
		case "account":
			spec.Seeds = append(spec.Seeds, SeedSource{Kind: SeedAccount, Path: rootPathSegment(rs.Path)})
		default:
			return nil, parseErrorf("instruction %q account %q: unknown seed kind %q", instName, accName, rs.Kind)
		}
	}
	if rp.Program != nil && rp.Program.Kind == "const" {
		b := intsToBytes(rp.Program.Value)
		if len(b) != 32 {
			return nil, parseErrorf("instruction %q account %q: pda program must be 32 bytes, got %d", instName, accName, len(b))
		}
		copy(spec.Program[:], b)
	}
	return spec, nil
}

func parseArgument(instName string, rg rawArg) (ArgumentSpec, error) {
	if rg.Name == "" {
		return ArgumentSpec{}, parseErrorf("instruction %q: argument without name", instName)
	}
	dt, err := parseDataType(instName, rg.Name, rg.Type)
	if err != nil {
		return ArgumentSpec{}, err
	}
	arg := ArgumentSpec{Name: rg.Name, Type: dt}
	arg.Constraints = parseConstraints(rg.Docs, dt)
	if ml, ok := arg.Constraint(ConstraintMaxLength); ok && dt.Kind == KindString {
		arg.Type.MaxLen = uint32(ml.Value)
	}
	return arg, nil
}

// parseDataType 支持字符串原语（"u64"、"string"）与对象形态（vec/option/defined 等）。
// 非原语类型统一归为 Composite，由合成器按声明约束生成用例。
func parseDataType(instName, argName string, raw json.RawMessage) (DataType, error) {
	if len(raw) == 0 {
		return DataType{}, parseErrorf("instruction %q argument %q: missing type", instName, argName)
	}

	var prim string
	if err := json.Unmarshal(raw, &prim); err == nil {
		return primitiveDataType(prim), nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return DataType{}, parseErrorf("instruction %q argument %q: unreadable type: %v", instName, argName, err)
	}
	for key := range obj {
		return DataType{Kind: KindComposite, Name: key}, nil
	}
	return DataType{}, parseErrorf("instruction %q argument %q: empty type object", instName, argName)
}

func primitiveDataType(s string) DataType {
	switch s {
	case "string":
		return DataType{Kind: KindString}
	case "bool":
		return DataType{Kind: KindBool}
	case "pubkey", "publicKey":
		return DataType{Kind: KindPubkey}
	case "u8", "u16", "u32", "u64", "u128":
		return DataType{Kind: KindUint, Width: intWidth(s)}
	case "i8", "i16", "i32", "i64", "i128":
		return DataType{Kind: KindInt, Width: intWidth(s)}
	default:
		return DataType{Kind: KindComposite, Name: s}
	}
}

func intWidth(s string) int {
	w, _ := strconv.Atoi(s[1:])
	return w
}

// parseConstraints 将文档标记显式化为约束集合。支持的标记：
// min=N / max=N / nonzero / max_len=N / min_len=N，可选的 "msg=..." 作为声明文案。
// 未声明任何约束的无符号整数默认附加 nonzero（金额类参数通常不允许为零）。
func parseConstraints(docs []string, dt DataType) []Constraint {
	var out []Constraint
	for _, doc := range docs {
		msg := ""
		if idx := strings.Index(doc, "msg="); idx >= 0 {
			msg = strings.TrimSpace(doc[idx+4:])
			doc = doc[:idx]
		}
		for _, tok := range strings.Fields(strings.ReplaceAll(doc, ",", " ")) {
			switch {
			case strings.HasPrefix(tok, "min="):
				if v, err := strconv.ParseInt(tok[4:], 10, 64); err == nil {
					out = append(out, Constraint{Kind: ConstraintMin, Value: v, Message: msg})
				}
			case strings.HasPrefix(tok, "max="):
				if v, err := strconv.ParseInt(tok[4:], 10, 64); err == nil {
					out = append(out, Constraint{Kind: ConstraintMax, Value: v, Message: msg})
				}
			case strings.HasPrefix(tok, "max_len="):
				if v, err := strconv.ParseInt(tok[8:], 10, 64); err == nil {
					out = append(out, Constraint{Kind: ConstraintMaxLength, Value: v, Message: msg})
				}
			case strings.HasPrefix(tok, "min_len="):
				if v, err := strconv.ParseInt(tok[8:], 10, 64); err == nil {
					out = append(out, Constraint{Kind: ConstraintMinLength, Value: v, Message: msg})
				}
			case tok == "nonzero":
				out = append(out, Constraint{Kind: ConstraintNonZero, Message: msg})
			}
		}
	}
	if dt.Kind == KindUint && len(out) == 0 {
		out = append(out, Constraint{Kind: ConstraintNonZero})
	}
	return out
}

func intsToBytes(v []int) []byte {
	b := make([]byte, len(v))
	for i, n := range v {
		b[i] = byte(n)
	}
	return b
}

// rootPathSegment 取引用路径的首段实体名，如 "owner.key" → "owner"。
func rootPathSegment(path string) string {
	if idx := strings.Index(path, "."); idx >= 0 {
		return path[:idx]
	}
	return path
}
