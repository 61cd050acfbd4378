package utils

import (
	"sync"
)

// ParallelMap 以最多 workers 个并发 goroutine 对 items 逐个应用 fn，
// 结果保持与输入相同的顺序。单元素输入直接同步处理，不起 goroutine。
// fn 必须无共享可变状态：各任务之间零协调。
func ParallelMap[T, R any](items []T, workers int, fn func(T) R) []R {
	if len(items) == 0 {
		return nil
	}
	if len(items) == 1 {
		return []R{fn(items[0])}
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	results := make([]R, len(items))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer func() {
				<-sem
				wg.Done()
			}()
			results[idx] = fn(items[idx])
		}(i)
	}
	wg.Wait()

	return results
}
