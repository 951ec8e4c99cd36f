package batch

import (
	"context"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/ByLCY/slidecap/binding"
	"github.com/ByLCY/slidecap/renderer"
)

// Result 是单个任务的结果，按清单顺序排列。
type Result struct {
	Index    int
	In       string
	Out      string
	Err      error
	Duration time.Duration
}

// Run 用共享 c 的有限工作池执行 m 的全部任务。单个任务失败不影响其他任务；
// ctx 取消时尚未开始的任务返回 ctx.Err()。
func Run(ctx context.Context, c renderer.Compositor, m *Manifest) ([]Result, error) {
	styles, err := m.Styles()
	if err != nil {
		return nil, err
	}

	workers := m.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(m.Jobs) {
		workers = len(m.Jobs)
	}

	results := make([]Result, len(m.Jobs))
	indexes := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				job := m.Jobs[i]
				res := Result{Index: i, In: m.Resolve(job.In)}
				if err := ctx.Err(); err != nil {
					res.Err = err
					results[i] = res
					continue
				}

				data := m.data(job)
				for _, path := range binding.Unresolved(job.Caption, data) {
					log.Printf("batch: %s: caption placeholder ${%s} has no value", job.In, path)
				}
				caption := binding.Interpolate(job.Caption, data)

				start := time.Now()
				res.Out, res.Err = Burn(c, res.In, m.Resolve(job.Out), caption, styles[i])
				res.Duration = time.Since(start)
				results[i] = res
			}
		}()
	}

	for i := range m.Jobs {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
	return results, nil
}

// Failed 统计出错的结果数。
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
