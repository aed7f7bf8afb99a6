// apicheck exercises each Tempo AI endpoint with the configured API key.
// It is a manual diagnostic for API access outside the MCP loop:
//
//	API_KEY=... go run ./cmd/apicheck
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

const defaultBaseURL = "https://api.jointempo.ai/api/v1"

func main() {
	apiKey := os.Getenv("API_KEY")
	if apiKey == "" {
		fmt.Println("❌ API_KEY not found in environment")
		os.Exit(1)
	}

	baseURL := os.Getenv("TEMPO_AI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	fmt.Println("🔗 Testing Tempo AI API endpoints...")
	fmt.Println()

	end := time.Now().UTC().AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -8) // last 7 days
	params := url.Values{}
	params.Set("limit", "5")
	params.Set("start_date", start.Format("2006-01-02"))
	params.Set("end_date", end.Format("2006-01-02"))

	fmt.Println("1️⃣ Testing Workouts...")
	checkEndpoint(baseURL+"/mcp/workouts", apiKey, params)

	fmt.Println("\n2️⃣ Testing Events...")
	checkEndpoint(baseURL+"/mcp/events", apiKey, params)

	fmt.Println("\n3️⃣ Testing Wellness...")
	wellnessParams := url.Values{}
	wellnessParams.Set("start_date", params.Get("start_date"))
	wellnessParams.Set("end_date", params.Get("end_date"))
	checkEndpoint(baseURL+"/mcp/wellness", apiKey, wellnessParams)
}

func checkEndpoint(baseURL string, apiKey string, params url.Values) {
	requestURL := baseURL
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	fmt.Printf("   📡 GET %s\n", requestURL)

	req, err := http.NewRequest("GET", requestURL, nil)
	if err != nil {
		fmt.Printf("   ❌ Error creating request: %v\n", err)
		return
	}

	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "tempoai-mcp-server/1.0")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("   ❌ Request failed: %v\n", err)
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Printf("   ❌ Error reading response: %v\n", err)
		return
	}

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("   ❌ Status %d: %s\n", resp.StatusCode, string(body))
		return
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		fmt.Printf("   ❌ Invalid JSON: %v\n", err)
		return
	}

	pretty, _ := json.MarshalIndent(payload, "   ", "  ")
	fmt.Printf("   ✅ Status %d\n", resp.StatusCode)
	if len(pretty) > 800 {
		pretty = append(pretty[:800], []byte("...")...)
	}
	fmt.Printf("   %s\n", pretty)
}
