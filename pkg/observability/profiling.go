package observability

import (
	"os"

	pyroscope "github.com/grafana/pyroscope-go"

	"video-aggregation-service/pkg/logger"
)

// StartProfiling 当PYROSCOPE_SERVER_ADDRESS设置时启用持续性能剖析
func StartProfiling(appName string) {
	addr := os.Getenv("PYROSCOPE_SERVER_ADDRESS")
	if addr == "" {
		return
	}

	_, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: appName,
		ServerAddress:   addr,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
		},
	})
	if err != nil {
		logger.Warnf("pyroscope start failed address=%s error=%v", addr, err)
	}
}
