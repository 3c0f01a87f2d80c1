package main

import (
	"github.com/architeacher/svc-trip-planner/internal/runtime"
)

func main() {
	runtime.NewSubscriber().Run()
}
