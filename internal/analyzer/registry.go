package analyzer

import (
	"strings"

	"idl-testgen-sol/internal/idl"
	"idl-testgen-sol/pkg/logger"
)

// AccountInfo 是跨指令归并后的账户节点（按声明名精确去重）。
type AccountInfo struct {
	Name          string
	IsPda         bool
	IsSigner      bool
	IsMut         bool
	InitializedBy string // 推断出的初始化指令名，空表示外部账户
	Derived       *idl.DerivedAddressSpec
	UsedIn        []string // 引用该账户的指令名，保持首见顺序
}

// AccountRegistry 持有全部账户节点，保持跨指令的首见顺序。
type AccountRegistry struct {
	accounts []*AccountInfo
	index    map[string]*AccountInfo
}

// BuildRegistry 扫描全部指令，把同名 AccountUsage 归并为一个节点。
// 归并键是精确的声明名；信号（signer/mut/pda）取并集。
func BuildRegistry(model *idl.Interface) *AccountRegistry {
	r := &AccountRegistry{index: make(map[string]*AccountInfo)}
	for i := range model.Instructions {
		inst := &model.Instructions[i]
		for j := range inst.Accounts {
			r.merge(inst, &inst.Accounts[j])
		}
	}
	return r
}

func (r *AccountRegistry) merge(inst *idl.InstructionSpec, usage *idl.AccountUsage) {
	info, ok := r.index[usage.Name]
	if !ok {
		info = &AccountInfo{Name: usage.Name}
		r.index[usage.Name] = info
		r.accounts = append(r.accounts, info)
	}

	info.IsSigner = info.IsSigner || usage.IsSigner
	info.IsMut = info.IsMut || usage.IsMut
	if usage.Derived != nil {
		info.IsPda = true
		info.Derived = usage.Derived
	}
	info.UsedIn = append(info.UsedIn, inst.Name)

	// 指令名含 init/create 且账户可写时，推断该指令负责初始化此账户。
	if info.InitializedBy == "" && usage.IsMut && isInitializerName(inst.Name) {
		info.InitializedBy = inst.Name
	}
}

func isInitializerName(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "init") || strings.Contains(lower, "create")
}

// Get 按精确声明名查找。
func (r *AccountRegistry) Get(name string) (*AccountInfo, bool) {
	info, ok := r.index[name]
	return info, ok
}

// Lookup 先按精确名查找；未命中时退化为子串匹配（最后手段）。
// 子串匹配可能选错实体（如把自由文本 "fund authority" 归到 "authority"），
// 因此一旦触发必须告警留痕。
func (r *AccountRegistry) Lookup(name string) (*AccountInfo, bool) {
	if info, ok := r.index[name]; ok {
		return info, true
	}
	needle := strings.ToLower(name)
	for _, info := range r.accounts {
		if strings.Contains(needle, strings.ToLower(info.Name)) ||
			strings.Contains(strings.ToLower(info.Name), needle) {
			logger.Warnf("account lookup fell back to substring match: %q -> %q", name, info.Name)
			return info, true
		}
	}
	return nil, false
}

// Accounts 返回全部节点（首见顺序）。
func (r *AccountRegistry) Accounts() []*AccountInfo {
	return r.accounts
}
