// Package health は起動前に外部サービス（Ollama・TTSサーバー）への疎通を確認する。
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// CheckFunc は1項目の確認を実行し、成否とメッセージを返す
type CheckFunc func(ctx context.Context) (bool, string)

// Check は名前付きの確認項目
type Check struct {
	Name string
	Fn   CheckFunc
}

// Result は確認結果
type Result struct {
	Name    string
	OK      bool
	Message string
}

// Run は確認項目を順に実行
func Run(ctx context.Context, checks []Check) []Result {
	results := make([]Result, 0, len(checks))
	for _, c := range checks {
		ok, msg := c.Fn(ctx)
		results = append(results, Result{Name: c.Name, OK: ok, Message: msg})
	}
	return results
}

// AllOK はすべての確認が成功したかを判定
func AllOK(results []Result) bool {
	for _, r := range results {
		if !r.OK {
			return false
		}
	}
	return true
}

// ReachableCheck はURLにHTTPで到達できるかを確認（5xx以外は到達とみなす）
func ReachableCheck(url string, timeout time.Duration) CheckFunc {
	client := &http.Client{Timeout: timeout}
	return func(ctx context.Context) (bool, string) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return false, fmt.Sprintf("invalid url: %v", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return false, fmt.Sprintf("unreachable: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode >= http.StatusInternalServerError {
			return false, fmt.Sprintf("status %d", resp.StatusCode)
		}
		return true, "ok"
	}
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// OllamaModelCheck はOllamaにモデルがインストールされているかを確認
// タグ省略時は ":latest" とみなす
func OllamaModelCheck(baseURL, model string, timeout time.Duration) CheckFunc {
	client := &http.Client{Timeout: timeout}
	tagsURL := strings.TrimSuffix(baseURL, "/") + "/api/tags"

	want := model
	if !strings.Contains(want, ":") {
		want += ":latest"
	}

	return func(ctx context.Context) (bool, string) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, tagsURL, nil)
		if err != nil {
			return false, fmt.Sprintf("invalid url: %v", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return false, fmt.Sprintf("unreachable: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return false, fmt.Sprintf("status %d", resp.StatusCode)
		}

		var tags ollamaTagsResponse
		if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
			return false, fmt.Sprintf("decode error: %v", err)
		}

		for _, m := range tags.Models {
			if m.Name == want || m.Name == model {
				return true, fmt.Sprintf("%s installed", model)
			}
		}
		return false, fmt.Sprintf("not installed: %s (run: ollama pull %s)", model, model)
	}
}
