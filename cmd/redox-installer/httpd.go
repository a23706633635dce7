package main

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/redox-os-tools/disk-installer/installer/pipeline"
	"github.com/redox-os-tools/disk-installer/lib/constants"
	"github.com/redox-os-tools/disk-installer/lib/version"
)

var (
	lastReportMutex sync.RWMutex
	lastReport      *pipeline.Report
)

func setLastReport(report *pipeline.Report) {
	lastReportMutex.Lock()
	defer lastReportMutex.Unlock()
	lastReport = report
}

func startHttpServer(portNum uint) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", portNum))
	if err != nil {
		return err
	}
	http.HandleFunc("/", statusHandler)
	go http.Serve(listener, nil)
	return nil
}

func statusHandler(w http.ResponseWriter, req *http.Request) {
	if req.URL.Path != "/" {
		http.NotFound(w, req)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	writer := bufio.NewWriter(w)
	defer writer.Flush()
	lastReportMutex.RLock()
	report := lastReport
	lastReportMutex.RUnlock()
	fmt.Fprintf(writer, "%s %s\n\n", constants.ProgramName, version.Get())
	if report == nil {
		fmt.Fprintln(writer, "No installation has run")
	} else {
		report.WriteSummary(writer)
	}
	fmt.Fprintln(writer, "\nMetrics: /metrics")
}
