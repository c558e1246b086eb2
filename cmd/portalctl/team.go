package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/esgdesk/pkg/client"
	"github.com/spf13/cobra"
)

func health(cmd *cobra.Command, c *client.Client) any {
	h, err := c.Health(cmd.Context())
	if err != nil {
		return map[string]string{"error": err.Error()}
	}
	return h
}

// SubUserCmd 子用户管理
func SubUserCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "subuser", Short: "Manage sub-users"}

	var (
		keyword        string
		page, pageSize int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List sub-users",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := teamClient().ListSubUsers(cmd.Context(), keyword, page, pageSize)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	list.Flags().StringVarP(&keyword, "keyword", "k", "", "name or email keyword")
	list.Flags().IntVar(&page, "page", 1, "page")
	list.Flags().IntVar(&pageSize, "page-size", 20, "page size")

	var (
		id                                   int64
		name, email, designation, department string
		disable                              bool
	)
	activate := &cobra.Command{
		Use:   "activate",
		Short: "Create or update a sub-user",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"id":          id,
				"name":        name,
				"email":       email,
				"designation": designation,
				"department":  department,
			}
			if disable {
				req["status"] = 0
			}
			u, err := teamClient().Activate(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd, u)
		},
	}
	activate.Flags().Int64Var(&id, "id", 0, "existing sub-user id")
	activate.Flags().StringVarP(&name, "name", "n", "", "name")
	activate.Flags().StringVarP(&email, "email", "e", "", "email")
	activate.Flags().StringVar(&designation, "designation", "", "designation")
	activate.Flags().StringVar(&department, "department", "", "department")
	activate.Flags().BoolVar(&disable, "disable", false, "deactivate the sub-user")
	_ = activate.MarkFlagRequired("name")
	_ = activate.MarkFlagRequired("email")

	cmd.AddCommand(list, activate)
	return cmd
}

// PermCmd 权限查看与授予/撤销
func PermCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "perm", Short: "Inspect and change sub-user permissions"}

	show := &cobra.Command{
		Use:   "show <userId>",
		Short: "Show saved permissions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			st, err := teamClient().Permissions(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return printJSON(cmd, st)
		},
	}

	cmd.AddCommand(show, setPermCmd("grant", true), setPermCmd("revoke", false))
	return cmd
}

// 读取已保存状态, 逐项切换后整体保存
func setPermCmd(use string, granted bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <userId> <itemId>...",
		Short: strings.ToUpper(use[:1]) + use[1:] + " menu items and save",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			c := teamClient()
			st, err := c.Permissions(cmd.Context(), userID)
			if err != nil {
				return err
			}
			state := st.State
			for _, item := range args[1:] {
				next, err := c.Toggle(cmd.Context(), userID, item, granted, state)
				if err != nil {
					return err
				}
				state = next.State
			}
			saved, err := c.SavePermissions(cmd.Context(), userID, state)
			if err != nil {
				return err
			}
			return printJSON(cmd, saved)
		},
	}
}

// FeatureCmd 公司功能开关
func FeatureCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "feature", Short: "Company feature access"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List feature switches",
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := teamClient().Features(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, fs)
		},
	}

	set := &cobra.Command{
		Use:   "set <feature=true|false>...",
		Short: "Enable or disable features",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			features, err := parseFeatures(args)
			if err != nil {
				return err
			}
			fs, err := teamClient().SetFeatures(cmd.Context(), features)
			if err != nil {
				return err
			}
			return printJSON(cmd, fs)
		},
	}

	cmd.AddCommand(list, set)
	return cmd
}

func parseFeatures(args []string) (map[string]bool, error) {
	out := make(map[string]bool, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("expected feature=bool, got %q", a)
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("feature %s: %w", k, err)
		}
		out[k] = b
	}
	return out, nil
}
