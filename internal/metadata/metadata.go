package metadata

// 本包定义测试套件产物（TestSuiteMetadata）：纯数据、可序列化、不含任何行为。
// 它是与渲染器 / 链上持久化协作方之间唯一的契约，装配完成后不可变。

// CaseKind 表示用例种类。
type CaseKind uint8

const (
	Positive CaseKind = iota
	NegativeEmpty
	NegativeTooLong
	NegativeZero
	NegativeNegative
	NegativeOverflow
	NegativeConstraint
)

var caseKindNames = [...]string{
	"positive",
	"negative_empty",
	"negative_too_long",
	"negative_zero",
	"negative_negative",
	"negative_overflow",
	"negative_constraint",
}

func (k CaseKind) String() string {
	if int(k) < len(caseKindNames) {
		return caseKindNames[k]
	}
	return "unknown"
}

// ArgumentValue 表示一个参数的具体取值（字面表示，渲染层按类型展开）。
type ArgumentValue struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"` // 非法取值的原因说明
}

// Outcome 表示用例的预期结果：成功，或失败且错误信息包含指定子串。
type Outcome struct {
	Success         bool   `json:"success"`
	FailureContains string `json:"failureContains,omitempty"`
}

// TestCase 表示一条合成用例。
type TestCase struct {
	Kind        CaseKind        `json:"kind"`
	Description string          `json:"description"`
	Arguments   []ArgumentValue `json:"arguments"`
	Expected    Outcome         `json:"expected"`
}

// SetupKind 表示依赖推导出的准备步骤种类。
type SetupKind uint8

const (
	SetupCreateKeypair SetupKind = iota
	SetupFundAccount
	SetupInitializeDerived
)

// SetupStep 表示执行用例前必须完成的一个准备步骤。
type SetupStep struct {
	Kind        SetupKind `json:"kind"`
	Account     string    `json:"account"`
	Description string    `json:"description"`
	DependsOn   []string  `json:"dependsOn,omitempty"`
}

// InstructionPlan 表示单条指令的测试计划：账户初始化顺序、准备步骤与用例列表。
type InstructionPlan struct {
	Name         string      `json:"name"`
	AccountOrder []string    `json:"accountOrder"`
	SetupSteps   []SetupStep `json:"setupSteps"`
	TestCases    []TestCase  `json:"testCases"`
}

// TestSuite 是装配产物的根结构。
// 同一 (程序, 执行顺序, label) 三元组装配结果逐字节一致：不含随机数与时间戳。
type TestSuite struct {
	ProgramID      string            `json:"programId"`
	ProgramName    string            `json:"programName"`
	Label          string            `json:"label"`
	ExecutionOrder []string          `json:"executionOrder"`
	PerInstruction []InstructionPlan `json:"perInstruction"`
}
