// Package statsview serves live runtime statistics (goroutines, heap, GC
// pauses) over HTTP while an emulator runs. Charts are at
//
//	http://<addr>/debug/statsview
//
// and the standard pprof handlers at /debug/pprof/.
package statsview

import (
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/retroenv/retrogolib/log"
)

const path = "/debug/statsview"

// Launch starts the statistics server on a new goroutine. It returns a
// function that shuts the server down.
func Launch(addr string, logger *log.Logger) (stop func()) {
	viewer.SetConfiguration(viewer.WithAddr(addr))
	mgr := statsview.New()
	go mgr.Start()

	logger.Info("Stats server started", log.String("url", "http://"+addr+path))
	return mgr.Stop
}
