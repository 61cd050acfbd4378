package analyzer

import (
	"fmt"

	"idl-testgen-sol/internal/metadata"
)

// SetupSteps 把依赖视图转换为有序准备步骤：
// 非派生签名者先建密钥对并注资，派生账户按依赖顺序初始化。
// 入参 deps 已是拓扑序，产物顺序直接继承，保证确定性。
func SetupSteps(deps []AccountDependency) []metadata.SetupStep {
	steps := make([]metadata.SetupStep, 0, len(deps))

	for _, d := range deps {
		if d.IsSigner && !d.IsPda {
			steps = append(steps,
				metadata.SetupStep{
					Kind:        metadata.SetupCreateKeypair,
					Account:     d.Name,
					Description: fmt.Sprintf("create keypair for %s", d.Name),
				},
				metadata.SetupStep{
					Kind:        metadata.SetupFundAccount,
					Account:     d.Name,
					Description: fmt.Sprintf("fund %s with SOL for transactions", d.Name),
					DependsOn:   []string{d.Name},
				},
			)
		}
	}

	for _, d := range deps {
		if d.IsPda && d.MustInit {
			steps = append(steps, metadata.SetupStep{
				Kind:        metadata.SetupInitializeDerived,
				Account:     d.Name,
				Description: fmt.Sprintf("initialize %s derived account", d.Name),
				DependsOn:   d.DependsOn,
			})
		}
	}

	return steps
}
