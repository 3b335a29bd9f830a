package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dd0wney/cluso-clusterconf/pkg/corosync/qdevice"
	"github.com/dd0wney/cluso-clusterconf/pkg/logging"
	"github.com/dd0wney/cluso-clusterconf/pkg/report"
)

func handleQdeviceStatus(args []string) {
	fs := flag.NewFlagSet("qdevice-status", flag.ExitOnError)
	qnetd := fs.Bool("qnetd", false, "Query corosync-qnetd instead of the local qdevice client")
	listClusters := fs.Bool("clusters", false, "List the clusters connected to qnetd, one per line")
	cluster := fs.String("cluster", "", "Restrict the qnetd listing to one cluster")
	verbose := fs.Bool("verbose", false, "Request verbose tool output")
	timeout := fs.Duration("timeout", 10*time.Second, "Tool execution timeout")

	fs.Parse(args)

	logger := logging.DefaultLogger()

	config := qdevice.DefaultConfig()
	config.StatusTimeout = *timeout
	client, err := qdevice.NewClient(nil, config)
	if err != nil {
		logger.Error("invalid quorum device configuration", logging.Error(err))
		os.Exit(1)
	}

	ctx := context.Background()

	var text string
	switch {
	case *listClusters, *cluster != "":
		text, err = client.ClusterStatusText(ctx, *cluster, *verbose)
	case *qnetd:
		text, err = client.QnetdStatusText(ctx, *verbose)
	default:
		text, err = client.StatusText(ctx, *verbose)
	}

	if err != nil {
		if errors.Is(err, qdevice.ErrQnetdNotRunning) {
			logger.Error("corosync-qnetd is not running")
			os.Exit(1)
		}
		encoder := json.NewEncoder(os.Stdout)
		for _, item := range report.ItemsFromError(err) {
			encoder.Encode(item)
		}
		logger.Error("querying quorum device status failed", logging.Error(err))
		os.Exit(1)
	}

	if *listClusters {
		for _, name := range qdevice.ConnectedClusters(text) {
			fmt.Println(name)
		}
		return
	}
	fmt.Print(text)
}
