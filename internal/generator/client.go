package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/shiftloop-dev/shiftloop/backend/internal/config"
	"github.com/shiftloop-dev/shiftloop/backend/internal/scheduler"
)

// Client 调用外部 AI 排班服务。超时完全由调用方传入的 ctx 控制，
// 这里不再额外设置客户端级别的超时。
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
	}
}

func (c *Client) Generate(ctx context.Context, req *scheduler.GenerationRequest) (*scheduler.GenerationResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Generator.BaseURL+"/v1/schedules/generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.Generator.Token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// 错误响应的正文里通常带着生成器给出的原因，截断后放进错误信息
		message, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("生成器返回了状态码 %d: %s", resp.StatusCode, string(message))
	}

	result := &scheduler.GenerationResult{}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, fmt.Errorf("无法解析生成器的响应: %w", err)
	}

	return result, nil
}
