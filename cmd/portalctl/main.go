package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/esgdesk/pkg/client"
	"github.com/esgdesk/pkg/version"
	"github.com/spf13/cobra"
)

var (
	teamURL  string
	esgddURL string
	token    string
	timeout  time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "portalctl",
	Short: "portalctl is a command line tool for the ESG portal services",
	Long:  "portalctl talks to team-service and esgdd-service over their HTTP APIs",
	Run: func(cmd *cobra.Command, args []string) {
		if err := cmd.Help(); err != nil {
			return
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&teamURL, "team", envOr("PORTAL_TEAM_URL", "http://127.0.0.1:8081"), "team-service base url")
	pf.StringVar(&esgddURL, "esgdd", envOr("PORTAL_ESGDD_URL", "http://127.0.0.1:8082"), "esgdd-service base url")
	pf.StringVarP(&token, "token", "t", os.Getenv("PORTAL_TOKEN"), "bearer token")
	pf.DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")

	rootCmd.AddCommand(version.Cmd)
	rootCmd.AddCommand(TokenCmd())
	rootCmd.AddCommand(HealthCmd())
	rootCmd.AddCommand(SubUserCmd())
	rootCmd.AddCommand(PermCmd())
	rootCmd.AddCommand(FeatureCmd())
	rootCmd.AddCommand(CapCmd())
	rootCmd.AddCommand(GhgCmd())
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func teamClient() *client.Client {
	return client.New(teamURL, token, timeout)
}

func esgddClient() *client.Client {
	return client.New(esgddURL, token, timeout)
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
