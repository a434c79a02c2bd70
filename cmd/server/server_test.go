// cmd/server/server_test.go
package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pricelens/scrapex/internal/retailer"
	"github.com/pricelens/scrapex/pkg/scrapex"
)

func testServer() *Server {
	catalog := retailer.Catalog{Retailers: []retailer.Config{
		{
			Key:               "shopone",
			Name:              "Shop One",
			Domain:            "shopone.nonexistent.invalid",
			SearchURLTemplate: "https://shopone.nonexistent.invalid/search?q={query}",
			Status:            retailer.StatusActive,
		},
	}}
	client := scrapex.NewClient(catalog, nil, nil)
	return NewServer(client, "")
}

func setupTestServer() *httptest.Server {
	return httptest.NewServer(testServer().Routes())
}

func setupTestServerWithAuth() *httptest.Server {
	s := testServer()
	s.apiKey = "valid_api_key_123"
	return httptest.NewServer(s.Routes())
}

func TestHealthEndpoint(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("health check failed: %v", err)
	}
	defer resp.Body.Close()

	// No health checks have run yet (Start/Stop is driven by main, not
	// the test server), so GetHealth reports the zero-check default of
	// healthy rather than any particular check's status.
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	resp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestCreateScraperJobRejectsEmptyQuery(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/v1/scrapers", "application/json", bytes.NewBufferString(`{}`))
	if err != nil {
		t.Fatalf("create scraper request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400 for an empty query, got %d", resp.StatusCode)
	}
}

func TestCreateScraperJobRunsAgainstFacade(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	body := map[string]interface{}{
		"query":     "wireless mouse",
		"retailers": []string{"shopone"},
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	resp, err := http.Post(server.URL+"/api/v1/scrapers", "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		t.Fatalf("create scraper request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected status 201, got %d. Body: %s", resp.StatusCode, b)
	}

	var job scrapeJob
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if job.ID == "" {
		t.Error("expected a non-empty job ID")
	}
	if len(job.Results) != 1 {
		t.Errorf("expected one result for the single requested retailer, got %d", len(job.Results))
	}
}

func TestListAndGetScraperJob(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	jsonBody, _ := json.Marshal(map[string]interface{}{"query": "wireless mouse"})
	createResp, err := http.Post(server.URL+"/api/v1/scrapers", "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		t.Fatalf("create scraper request failed: %v", err)
	}
	var created scrapeJob
	json.NewDecoder(createResp.Body).Decode(&created)
	createResp.Body.Close()

	listResp, err := http.Get(server.URL + "/api/v1/scrapers")
	if err != nil {
		t.Fatalf("list scrapers request failed: %v", err)
	}
	defer listResp.Body.Close()
	if listResp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200 from list, got %d", listResp.StatusCode)
	}

	getResp, err := http.Get(server.URL + "/api/v1/scrapers/" + created.ID)
	if err != nil {
		t.Fatalf("get scraper request failed: %v", err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200 from get, got %d", getResp.StatusCode)
	}

	missingResp, err := http.Get(server.URL + "/api/v1/scrapers/does-not-exist")
	if err != nil {
		t.Fatalf("get scraper request failed: %v", err)
	}
	defer missingResp.Body.Close()
	if missingResp.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404 for an unknown job ID, got %d", missingResp.StatusCode)
	}
}

func TestAuthMiddlewareRejectsMissingOrInvalidToken(t *testing.T) {
	server := setupTestServerWithAuth()
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/scrapers")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401 without a token, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest("GET", server.URL+"/api/v1/scrapers", nil)
	req.Header.Set("Authorization", "Bearer wrong_key")
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401 with an invalid token, got %d", resp2.StatusCode)
	}

	req.Header.Set("Authorization", "Bearer valid_api_key_123")
	resp3, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp3.Body.Close()
	if resp3.StatusCode != http.StatusOK {
		t.Errorf("expected status 200 with a valid token, got %d", resp3.StatusCode)
	}
}
