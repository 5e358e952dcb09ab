package main

import (
	"os"

	"github.com/spf13/cobra"

	"simhost/internal/dashboard"
)

var dashboardOut string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render Grafana dashboards for the GreptimeDB tables",
	Long:  "dashboard renders Grafana dashboard JSON; GREPTIMEDB_DATASOURCE_UID must be set.",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := dashboard.DefaultParams()
		if v := os.Getenv("CAPTURE_TABLE"); v != "" {
			p.CaptureTable = v
		}
		if v := os.Getenv("STATE_TABLE"); v != "" {
			p.StateTable = v
		}
		return dashboard.Render(dashboardOut, p)
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardOut, "out", "build", "Output directory for rendered dashboards")
}
