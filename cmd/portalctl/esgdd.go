package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// CapCmd 整改计划
func CapCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cap", Short: "Corrective action plans"}

	show := &cobra.Command{
		Use:   "show <entityId>",
		Short: "Show a plan with progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := esgddClient().Plan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			var v any
			if err := json.Unmarshal(raw, &v); err != nil {
				return err
			}
			return printJSON(cmd, v)
		},
	}

	accept := &cobra.Command{
		Use:   "accept <entityId>",
		Short: "Accept a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := esgddClient().AcceptPlan(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "plan %s accepted\n", args[0])
			return err
		},
	}

	var comment string
	change := &cobra.Command{
		Use:   "change-request <entityId>",
		Short: "Request changes to a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := esgddClient().RequestChange(cmd.Context(), args[0], comment); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "change requested for plan %s\n", args[0])
			return err
		},
	}
	change.Flags().StringVarP(&comment, "comment", "m", "", "change request comment")
	_ = change.MarkFlagRequired("comment")

	cmd.AddCommand(show, accept, change)
	return cmd
}

// GhgCmd GHG 数据导入导出
func GhgCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "ghg", Short: "GHG data import and export"}

	imp := &cobra.Command{
		Use:   "import <templateId> <file.xlsx>",
		Short: "Import activity data from a workbook",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !strings.EqualFold(filepath.Ext(args[1]), ".xlsx") {
				return fmt.Errorf("only .xlsx files are supported")
			}
			res, err := esgddClient().ImportGHG(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}

	var period, output string
	exp := &cobra.Command{
		Use:   "export <templateId>",
		Short: "Export activity data to a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := output
			if dest == "" {
				dest = args[0] + "-ghg.xlsx"
			}
			if err := esgddClient().ExportGHG(cmd.Context(), args[0], period, dest); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", dest)
			return err
		},
	}
	exp.Flags().StringVarP(&period, "period", "p", "", "YYYY-MM")
	exp.Flags().StringVarP(&output, "output", "o", "", "output file")

	cmd.AddCommand(imp, exp)
	return cmd
}
