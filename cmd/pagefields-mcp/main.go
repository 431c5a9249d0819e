package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// errorResponse mirrors the error body of the pagefields API.
type errorResponse struct {
	Error string `json:"error"`
}

func main() {
	apiURL := os.Getenv("PAGEFIELDS_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}

	s := server.NewMCPServer(
		"pagefields",
		"0.1.0",
		server.WithToolCapabilities(false),
	)
	s.AddTool(extractFieldsTool(), handleExtractFields(apiURL, &http.Client{Timeout: 120 * time.Second}))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func extractFieldsTool() mcp.Tool {
	return mcp.NewTool("extract_fields",
		mcp.WithDescription("Fetch a web page and extract named fields with CSS selectors. "+
			"The reserved field \"meta\" takes a list of <meta> names or properties. "+
			"Returns a JSON object keyed by field name; unmatched selectors yield \"\" and missing meta tags yield null."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the web page"),
		),
		mcp.WithString("fields",
			mcp.Required(),
			mcp.Description(`JSON object mapping field names to CSS selectors, e.g. {"title":"h1","price":".price","meta":["description","og:image"]}`),
		),
	)
}

func handleExtractFields(apiURL string, client *http.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		pageURL, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}
		fields, err := request.RequireString("fields")
		if err != nil {
			return mcp.NewToolResultError("fields is required"), nil
		}

		q := url.Values{}
		q.Set("url", pageURL)
		q.Set("fields", fields)

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"/api/v1/data?"+q.Encode(), nil)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
		}

		resp, err := client.Do(httpReq)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read response: %v", err)), nil
		}

		if resp.StatusCode != http.StatusOK {
			var errResp errorResponse
			if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == "" {
				return mcp.NewToolResultError(fmt.Sprintf("API returned status %d", resp.StatusCode)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("[%d] %s", resp.StatusCode, errResp.Error)), nil
		}

		return mcp.NewToolResultText(string(body)), nil
	}
}
