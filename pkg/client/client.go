package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// Envelope 服务端统一响应
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// APIError 服务端返回的业务错误
type APIError struct {
	Status  int
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (http %d, code %d): %s", e.Status, e.Code, e.Message)
}

// Client 门户 API 客户端
type Client struct {
	http *resty.Client
}

// New 创建客户端, token 为空时不携带认证头
func New(baseURL, token string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if token != "" {
		c.SetAuthToken(token)
	}
	return &Client{http: c}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return err
	}
	return decode(resp, out)
}

func decode(resp *resty.Response, out any) error {
	var env Envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return &APIError{Status: resp.StatusCode(), Code: -1, Message: resp.String()}
	}
	if resp.IsError() || env.Code != 0 {
		return &APIError{Status: resp.StatusCode(), Code: env.Code, Message: env.Message}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

// Health 健康检查
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/health")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &APIError{Status: resp.StatusCode(), Message: resp.String()}
	}
	return out, nil
}

// SubUser 子用户
type SubUser struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Designation string   `json:"designation"`
	Department  string   `json:"department"`
	Status      int8     `json:"status"`
	FeatureURLs []string `json:"featureUrls"`
}

// Page 分页数据
type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

// ListSubUsers 子用户列表
func (c *Client) ListSubUsers(ctx context.Context, keyword string, page, pageSize int) (*Page[SubUser], error) {
	req := c.http.R().SetContext(ctx).SetQueryParams(map[string]string{
		"page":     strconv.Itoa(page),
		"pageSize": strconv.Itoa(pageSize),
	})
	if keyword != "" {
		req.SetQueryParam("keyword", keyword)
	}
	resp, err := req.Get("/subuser")
	if err != nil {
		return nil, err
	}
	var out Page[SubUser]
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Activate 新增或更新子用户
func (c *Client) Activate(ctx context.Context, req map[string]any) (*SubUser, error) {
	var out SubUser
	if err := c.do(ctx, http.MethodPost, "/subuser/activate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PermissionState 用户权限状态
type PermissionState struct {
	UserID  int64           `json:"userId"`
	State   map[string]bool `json:"state"`
	Granted []string        `json:"granted"`
}

func permissionsPath(userID int64) string {
	return "/subuser/" + strconv.FormatInt(userID, 10) + "/permissions"
}

// Permissions 读取已保存的权限
func (c *Client) Permissions(ctx context.Context, userID int64) (*PermissionState, error) {
	var out PermissionState
	if err := c.do(ctx, http.MethodGet, permissionsPath(userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Toggle 在给定状态上切换菜单项, 不落库
func (c *Client) Toggle(ctx context.Context, userID int64, itemID string, granted bool, state map[string]bool) (*PermissionState, error) {
	var out PermissionState
	body := map[string]any{"itemId": itemID, "granted": granted, "state": state}
	if err := c.do(ctx, http.MethodPost, permissionsPath(userID)+"/toggle", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SavePermissions 保存权限
func (c *Client) SavePermissions(ctx context.Context, userID int64, state map[string]bool) (*PermissionState, error) {
	var out PermissionState
	if err := c.do(ctx, http.MethodPut, permissionsPath(userID), map[string]any{"state": state}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Plan 读取整改计划
func (c *Client) Plan(ctx context.Context, entityID string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/esgdd/escap/"+entityID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AcceptPlan 接受整改计划
func (c *Client) AcceptPlan(ctx context.Context, entityID string) error {
	return c.do(ctx, http.MethodPost, "/esgdd/escap/accept-plan", map[string]any{"entityId": entityID}, nil)
}

// RequestChange 提出变更意见
func (c *Client) RequestChange(ctx context.Context, entityID, comment string) error {
	return c.do(ctx, http.MethodPost, "/esgdd/escap/change-request", map[string]any{"entityId": entityID, "comment": comment}, nil)
}

// ImportResult GHG 导入结果
type ImportResult struct {
	BatchID  string `json:"batchId"`
	Imported int    `json:"imported"`
	Errors   []struct {
		Row     int    `json:"row"`
		Message string `json:"message"`
	} `json:"errors"`
	Archive string `json:"archive"`
}

// ImportGHG 上传 xlsx
func (c *Client) ImportGHG(ctx context.Context, templateID, path string) (*ImportResult, error) {
	resp, err := c.http.R().SetContext(ctx).
		SetFile("file", path).
		Post("/ghg-accounting/" + templateID + "/import")
	if err != nil {
		return nil, err
	}
	var out ImportResult
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportGHG 下载 xlsx 到 dest
func (c *Client) ExportGHG(ctx context.Context, templateID, period, dest string) error {
	req := c.http.R().SetContext(ctx).SetOutput(dest)
	if period != "" {
		req.SetQueryParam("period", period)
	}
	resp, err := req.Get("/ghg-accounting/" + templateID + "/export")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return &APIError{Status: resp.StatusCode(), Message: "export failed"}
	}
	return nil
}

// Features 读取公司功能开关
func (c *Client) Features(ctx context.Context) (map[string]bool, error) {
	var out map[string]bool
	if err := c.do(ctx, http.MethodGet, "/auth/feature-access", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetFeatures 更新公司功能开关
func (c *Client) SetFeatures(ctx context.Context, features map[string]bool) (map[string]bool, error) {
	var out map[string]bool
	if err := c.do(ctx, http.MethodPost, "/auth/feature-access", map[string]any{"features": features}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
