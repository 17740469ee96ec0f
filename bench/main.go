// 压测入口：-stage a|b|c|d
package main

import (
	"flag"
	"fmt"
	"log"

	"go.uber.org/zap"
)

type stageOpts struct {
	points  int
	workers int
	logger  *zap.Logger
}

func main() {
	stage := flag.String("stage", "", "压测阶段: a(规模 vs 区域延迟) | b(批量外心/胞体积 vs worker 数) | c(高并发) | d(内存vs mmap)")
	points := flag.Int("points", 20_000, "点集规模（stage b/c/d 生效）")
	workers := flag.Int("workers", 0, "Engine worker 数，<=0 时取 NumCPU")
	verbose := flag.Bool("v", false, "输出 debug 日志")
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			log.Fatalf("初始化日志失败: %v", err)
		}
		logger = l
	}
	defer logger.Sync()

	opts := stageOpts{points: *points, workers: *workers, logger: logger}
	switch *stage {
	case "a":
		runStageA(opts)
	case "b":
		runStageB(opts)
	case "c":
		runStageC(opts)
	case "d":
		runStageD(opts)
	default:
		log.Fatalf("请指定 -stage a|b|c|d")
	}
	fmt.Println("压测完成")
}
