package analyzer

import (
	"idl-testgen-sol/internal/idl"
	"idl-testgen-sol/internal/metadata"
)

// Assemble 把全局初始化顺序、各指令的合成用例与准备步骤装配为一份
// TestSuiteMetadata。装配是幂等的：相同 (接口模型, 执行顺序, label)
// 输入总是产出结构一致的产物，过程不引入随机数或时钟值。
// 任一校验失败都不产出部分结果。
func Assemble(model *idl.Interface, executionOrder []string, label string) (*metadata.TestSuite, error) {
	if len(executionOrder) == 0 {
		executionOrder = model.InstructionNames()
	}

	if err := validateOrder(model, executionOrder); err != nil {
		return nil, err
	}

	graph := BuildGraph(model)
	deps, err := graph.Dependencies()
	if err != nil {
		return nil, err
	}

	suite := &metadata.TestSuite{
		ProgramID:      model.ProgramID.String(),
		ProgramName:    model.Name,
		Label:          label,
		ExecutionOrder: append([]string(nil), executionOrder...),
	}

	for _, name := range executionOrder {
		inst, _ := model.Instruction(name)
		plan, err := assembleInstruction(model, inst, deps)
		if err != nil {
			return nil, err
		}
		suite.PerInstruction = append(suite.PerInstruction, *plan)
	}

	return suite, nil
}

// AssembleInstruction 装配单条指令的计划，供链上持久化方按指令分片、
// 在固定算力/空间预算内逐块提交。与整套装配共享全部校验。
func AssembleInstruction(model *idl.Interface, executionOrder []string, name, label string) (*metadata.InstructionPlan, error) {
	if len(executionOrder) == 0 {
		executionOrder = model.InstructionNames()
	}
	if err := validateOrder(model, executionOrder); err != nil {
		return nil, err
	}

	inst, ok := model.Instruction(name)
	if !ok {
		return nil, &UnknownInstructionError{Name: name}
	}

	graph := BuildGraph(model)
	deps, err := graph.Dependencies()
	if err != nil {
		return nil, err
	}

	return assembleInstruction(model, inst, deps)
}

func validateOrder(model *idl.Interface, executionOrder []string) error {
	for _, name := range executionOrder {
		inst, ok := model.Instruction(name)
		if !ok {
			return &UnknownInstructionError{Name: name}
		}
		if err := validateSeedBindings(inst); err != nil {
			return err
		}
	}
	return nil
}

// validateSeedBindings 确认派生种子引用的参数确实声明在所属指令上。
func validateSeedBindings(inst *idl.InstructionSpec) error {
	for i := range inst.Accounts {
		acc := &inst.Accounts[i]
		if acc.Derived == nil {
			continue
		}
		for _, seed := range acc.Derived.Seeds {
			if seed.Kind != idl.SeedArgument {
				continue
			}
			if _, ok := inst.Argument(seed.Path); !ok {
				return &MissingAccountBindingError{
					Instruction: inst.Name,
					Account:     acc.Name,
					Argument:    seed.Path,
				}
			}
		}
	}
	return nil
}

func assembleInstruction(model *idl.Interface, inst *idl.InstructionSpec, deps []AccountDependency) (*metadata.InstructionPlan, error) {
	cases, err := Synthesize(inst, model)
	if err != nil {
		return nil, err
	}

	// 全局初始化顺序裁剪到该指令触达的账户与依赖
	used := instructionDeps(inst, deps)

	order := make([]string, 0, len(used))
	for _, d := range used {
		order = append(order, d.Name)
	}

	return &metadata.InstructionPlan{
		Name:         inst.Name,
		AccountOrder: order,
		SetupSteps:   SetupSteps(used),
		TestCases:    cases,
	}, nil
}

// instructionDeps 返回全局拓扑序中与该指令相关的账户：
// 指令直接触达的账户及其传递依赖，保持全局顺序。
func instructionDeps(inst *idl.InstructionSpec, deps []AccountDependency) []AccountDependency {
	needed := make(map[string]bool, len(inst.Accounts))
	for i := range inst.Accounts {
		needed[inst.Accounts[i].Name] = true
	}

	// 传递闭包：依赖链上的账户也要保留。deps 是拓扑序，倒序扫描一遍即可。
	for i := len(deps) - 1; i >= 0; i-- {
		if !needed[deps[i].Name] {
			continue
		}
		for _, dep := range deps[i].DependsOn {
			needed[dep] = true
		}
	}

	var used []AccountDependency
	for _, d := range deps {
		if needed[d.Name] {
			used = append(used, d)
		}
	}
	return used
}
