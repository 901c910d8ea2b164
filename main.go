package main

import (
	"video-aggregation-service/app"
	"video-aggregation-service/pkg/observability"
)

func main() {
	observability.StartProfiling("video-aggregation-service")
	app.Run()
}
