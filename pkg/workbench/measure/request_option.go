package measure

import (
	"fmt"
	"time"

	"github.com/carlosphillips/cjworkbench/pkg/workbench/model"
)

// ModuleMetricName is the name of the metric collecting the requests aimed at a module.
func ModuleMetricName(id model.ModuleID) string {
	return fmt.Sprintf("module/%d", id)
}

type requestMeasure struct {
	Measure
}

func (rm *requestMeasure) names(req *model.RequestInfo) []string {
	if req.ModuleID == 0 {
		return []string{req.Name}
	}

	return []string{req.Name, ModuleMetricName(req.ModuleID)}
}

func (rm *requestMeasure) OnEnqueue(req *model.RequestInfo) error {
	for _, name := range rm.names(req) {
		rm.AddMetric(name)
	}

	return nil
}

func (rm *requestMeasure) OnStart(req *model.RequestInfo, waitDuration time.Duration) error {
	for _, name := range rm.names(req) {
		rm.AddMetric(name).AddWaitDuration(waitDuration)
	}

	return nil
}

func (rm *requestMeasure) OnFinish(req *model.RequestInfo, runDuration time.Duration, err error) error {
	for _, name := range rm.names(req) {
		mt := rm.AddMetric(name)
		mt.AddDuration(runDuration)

		if err != nil {
			mt.AddFailure()
		}
	}

	return nil
}

// RequestMeasure records every serialized request in measure, by request name and, for
// requests aimed at a module, by ModuleMetricName.
func RequestMeasure(measure Measure) model.RequestOption {
	return &requestMeasure{measure}
}
