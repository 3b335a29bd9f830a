package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "validate":
		handleValidate(os.Args[2:])
	case "qdevice-status":
		handleQdeviceStatus(os.Args[2:])
	case "help", "--help", "-h":
		printUsage()
	case "version", "--version", "-v":
		printVersion()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	usage := `clusterconf - corosync configuration validation

Usage:
  clusterconf <command> [options]

Available Commands:
  validate        Validate a cluster-setup request document
  qdevice-status  Show quorum device runtime status
  help            Show this help message
  version         Show version information

Use "clusterconf <command> --help" for more information about a command.
`
	fmt.Print(usage)
}

func printVersion() {
	fmt.Println("clusterconf v1.0.0")
}
