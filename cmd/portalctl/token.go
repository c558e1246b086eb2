package main

import (
	"fmt"

	"github.com/esgdesk/pkg/auth"
	"github.com/esgdesk/pkg/config"
	"github.com/spf13/cobra"
)

// TokenCmd 用服务端同一份 JWT 配置签发令牌, 仅用于开发联调
func TokenCmd() *cobra.Command {
	var (
		configPath string
		userID     int64
		username   string
		role       string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development token signed with the configured JWT secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Init(configPath); err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			info, err := auth.NewJWTManager(&config.Get().JWT).CreateTokenInfo(userID, username, role)
			if err != nil {
				return err
			}
			return printJSON(cmd, info)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file path")
	cmd.Flags().Int64Var(&userID, "user-id", 1, "user id")
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVar(&role, "role", "admin", "role")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

// HealthCmd 检查两个服务的健康状态
func HealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check service health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, map[string]any{
				"team":  health(cmd, teamClient()),
				"esgdd": health(cmd, esgddClient()),
			})
		},
	}
}
