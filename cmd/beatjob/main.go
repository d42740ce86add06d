// Command beatjob renders the configuration files of the metricbeat job.
package main

import "github.com/cameronsjo/beatjob/internal/cmd"

func main() {
	cmd.Execute()
}
