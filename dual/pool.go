package dual

import (
	"sync"
)

// batchJob 单个批处理任务，run 收到 worker 编号以复用 per-worker 缓冲
type batchJob struct {
	idx int
	run func(worker, idx int)
	wg  *sync.WaitGroup
}

// workerPool 常驻 worker 池，每 worker 独立 channel
type workerPool struct {
	chans []chan batchJob
	wg    sync.WaitGroup
}

// newWorkerPool 创建并启动 worker 池
func newWorkerPool(nWorkers, bufSize int) *workerPool {
	p := &workerPool{
		chans: make([]chan batchJob, nWorkers),
	}
	for i := 0; i < nWorkers; i++ {
		p.chans[i] = make(chan batchJob, bufSize)
		p.wg.Add(1)
		go p.worker(i)
	}
	return p
}

func (p *workerPool) worker(idx int) {
	defer p.wg.Done()
	for job := range p.chans[idx] {
		job.run(idx, job.idx)
		job.wg.Done()
	}
}

// Submit 按 idx 路由到对应 worker
func (p *workerPool) Submit(job batchJob) {
	w := job.idx % len(p.chans)
	p.chans[w] <- job
}

// Run 对 [0, n) 每个下标执行 fn 并等待全部完成
func (p *workerPool) Run(n int, fn func(worker, idx int)) {
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		p.Submit(batchJob{idx: i, run: fn, wg: &wg})
	}
	wg.Wait()
}

// Size returns the number of workers.
func (p *workerPool) Size() int {
	return len(p.chans)
}

// Close 关闭池，等待所有 worker 退出
func (p *workerPool) Close() {
	for i := range p.chans {
		close(p.chans[i])
	}
	p.wg.Wait()
}
