package analyzer

import (
	"idl-testgen-sol/internal/idl"
	"idl-testgen-sol/pkg/logger"
)

// Graph 是账户依赖图：节点为归并后的账户/签名者，边表示 "必须先初始化"。
// 图只在产出初始化顺序期间存活，之后即可丢弃。
type Graph struct {
	registry *AccountRegistry
	edges    map[string]map[string]bool // from → set(to)，from 必须先于 to
}

// AccountDependency 是拓扑排序后单个账户的依赖视图，供装配与准备步骤生成使用。
type AccountDependency struct {
	Name      string
	DependsOn []string
	IsPda     bool
	IsSigner  bool
	IsMut     bool
	MustInit  bool
	Order     int
}

// BuildGraph 基于全部指令构建依赖图。
// 边来源有二：派生地址的 AccountRef 种子（被引用账户先行），
// 以及每条指令的出资签名者（先于该指令触达的其余账户）。
func BuildGraph(model *idl.Interface) *Graph {
	g := &Graph{
		registry: BuildRegistry(model),
		edges:    make(map[string]map[string]bool),
	}

	for i := range model.Instructions {
		inst := &model.Instructions[i]

		for j := range inst.Accounts {
			acc := &inst.Accounts[j]
			if acc.Derived == nil {
				continue
			}
			for _, seed := range acc.Derived.Seeds {
				if seed.Kind != idl.SeedAccount {
					continue
				}
				if _, ok := g.registry.Lookup(seed.Path); ok {
					g.addEdge(seed.Path, acc.Name)
				}
			}
		}

		if signer, ok := g.fundingSigner(inst); ok {
			for j := range inst.Accounts {
				acc := &inst.Accounts[j]
				if acc.Name != signer.Name && !acc.IsSigner {
					g.addEdge(signer.Name, acc.Name)
				}
			}
		}
	}

	return g
}

func (g *Graph) addEdge(from, to string) {
	if from == to {
		return
	}
	// Lookup 可能把子串匹配结果映射回规范名
	if info, ok := g.registry.Lookup(from); ok {
		from = info.Name
	}
	set, ok := g.edges[from]
	if !ok {
		set = make(map[string]bool)
		g.edges[from] = set
	}
	set[to] = true
}

// fundingSigner 选取一条指令的出资签名者：取首个带 signer 标记的账户。
// 指令未声明任何 signer 时退化为名称启发式（最后手段，需告警）。
func (g *Graph) fundingSigner(inst *idl.InstructionSpec) (*AccountInfo, bool) {
	for i := range inst.Accounts {
		if inst.Accounts[i].IsSigner {
			info, _ := g.registry.Get(inst.Accounts[i].Name)
			return info, info != nil
		}
	}
	for _, candidate := range []string{"authority", "payer", "owner"} {
		if info, ok := g.registry.Lookup(candidate); ok && info.IsSigner {
			logger.Warnf("instruction %q declares no signer, heuristically using %q as funding signer",
				inst.Name, info.Name)
			return info, true
		}
	}
	return nil, false
}

// InitOrder 产出全局初始化顺序：Kahn 拓扑排序，入度相同者按跨指令首见顺序
// 取先者，保证同一输入的输出稳定。存在环时返回 DependencyCycleError。
func (g *Graph) InitOrder() ([]string, error) {
	nodes := g.registry.Accounts()
	inDegree := make(map[string]int, len(nodes))
	for _, n := range nodes {
		inDegree[n.Name] = 0
	}
	for _, tos := range g.edges {
		for to := range tos {
			inDegree[to]++
		}
	}

	order := make([]string, 0, len(nodes))
	emitted := make(map[string]bool, len(nodes))
	for len(order) < len(nodes) {
		progressed := false
		for _, n := range nodes {
			if emitted[n.Name] || inDegree[n.Name] != 0 {
				continue
			}
			emitted[n.Name] = true
			order = append(order, n.Name)
			for to := range g.edges[n.Name] {
				inDegree[to]--
			}
			progressed = true
			break
		}
		if !progressed {
			var cyclic []string
			for _, n := range nodes {
				if !emitted[n.Name] {
					cyclic = append(cyclic, n.Name)
				}
			}
			return nil, &DependencyCycleError{Names: cyclic}
		}
	}
	return order, nil
}

// Dependencies 返回拓扑序下每个账户的依赖视图。
func (g *Graph) Dependencies() ([]AccountDependency, error) {
	order, err := g.InitOrder()
	if err != nil {
		return nil, err
	}

	deps := make([]AccountDependency, 0, len(order))
	for i, name := range order {
		info, _ := g.registry.Get(name)
		var dependsOn []string
		for from, tos := range g.edges {
			if tos[name] {
				dependsOn = append(dependsOn, from)
			}
		}
		// map 遍历无序，按首见顺序重排保证确定性
		dependsOn = g.sortByFirstSeen(dependsOn)

		deps = append(deps, AccountDependency{
			Name:      name,
			DependsOn: dependsOn,
			IsPda:     info.IsPda,
			IsSigner:  info.IsSigner,
			IsMut:     info.IsMut,
			MustInit:  info.InitializedBy != "",
			Order:     i,
		})
	}
	return deps, nil
}

func (g *Graph) sortByFirstSeen(names []string) []string {
	if len(names) < 2 {
		return names
	}
	var sorted []string
	for _, n := range g.registry.Accounts() {
		for _, name := range names {
			if name == n.Name {
				sorted = append(sorted, name)
				break
			}
		}
	}
	return sorted
}

// Registry 暴露归并后的账户注册表（装配器需要）。
func (g *Graph) Registry() *AccountRegistry {
	return g.registry
}
