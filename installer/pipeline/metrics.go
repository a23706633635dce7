package pipeline

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Cloud-Foundations/tricorder/go/tricorder"
	"github.com/Cloud-Foundations/tricorder/go/tricorder/units"
)

var (
	metricsOnce            sync.Once
	numFailedRuns          uint64
	numPayloadFiles        uint64
	numRuns                uint64
	stageTimeDistributions map[Stage]*tricorder.CumulativeDistribution
)

func setupMetrics() {
	metricsOnce.Do(func() {
		dir, err := tricorder.RegisterDirectory("installer")
		if err != nil {
			panic(err)
		}
		registerCounter(dir, "num-runs", &numRuns,
			"number of runs which finished")
		registerCounter(dir, "num-failed-runs", &numFailedRuns,
			"number of runs which failed")
		registerCounter(dir, "num-payload-files", &numPayloadFiles,
			"number of payload files installed")
		stagesDir, err := dir.RegisterDirectory("stages")
		if err != nil {
			panic(err)
		}
		latencyBucketer := tricorder.NewGeometricBucketer(0.1, 1e6)
		stageTimeDistributions = make(
			map[Stage]*tricorder.CumulativeDistribution)
		for _, stage := range stages() {
			distribution := latencyBucketer.NewCumulativeDistribution()
			err := stagesDir.RegisterMetric(stage.String()+"/duration",
				distribution, units.Millisecond, stage.Description()+" time")
			if err != nil {
				panic(err)
			}
			stageTimeDistributions[stage] = distribution
		}
	})
}

func registerCounter(dir *tricorder.DirectorySpec, name string,
	counter *uint64, comment string) {
	if err := dir.RegisterMetric(name, counter, units.None,
		comment); err != nil {
		panic(err)
	}
}

func countRun(failed bool, payloadFiles uint) {
	atomic.AddUint64(&numRuns, 1)
	if failed {
		atomic.AddUint64(&numFailedRuns, 1)
	}
	atomic.AddUint64(&numPayloadFiles, uint64(payloadFiles))
}

func recordStageTime(stage Stage, duration time.Duration) {
	if distribution, ok := stageTimeDistributions[stage]; ok {
		distribution.Add(duration)
	}
}
