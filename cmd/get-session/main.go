package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
)

func makeRequest(httpClient *http.Client, url string) ([]byte, int, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		log.Println(err)
		return []byte{}, -1, fmt.Errorf("Constructing request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		log.Println(err)
		return []byte{}, -1, fmt.Errorf("Making request: %w", err)
	}

	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Println(err)
		return []byte{}, -1, fmt.Errorf("ReadAll: %w", err)
	}

	return data, resp.StatusCode, nil
}

func main() {
	apiURL := os.Getenv("COURTFLOW_API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080"
	}
	apiURL = strings.TrimSuffix(apiURL, "/")

	httpClient := &http.Client{}

	if len(os.Args) < 2 {
		// No session id -> list all sessions
		data, statusCode, err := makeRequest(httpClient, fmt.Sprintf("%s/v1/sessions", apiURL))
		if err != nil {
			log.Fatalf("Failed making request to courtflow: %v", err)
		}

		if statusCode != 200 {
			log.Printf("courtflow returned non-200 status code: %d - %s\n", statusCode, string(data))
		}

		fmt.Println(string(data))
		fmt.Println(statusCode)
		return
	}

	sessionID := os.Args[1]
	if sessionID == "" {
		log.Fatal("No session id provided")
	}

	url := fmt.Sprintf("%s/v1/sessions/%s", apiURL, sessionID)
	if len(os.Args) > 2 && os.Args[2] == "audit" {
		url = fmt.Sprintf("%s/v1/sessions/%s/audit", apiURL, sessionID)
	}

	data, statusCode, err := makeRequest(httpClient, url)
	if err != nil {
		log.Fatalf("Failed making request to courtflow: %v", err)
	}

	if statusCode != 200 {
		log.Printf("courtflow returned non-200 status code: %d - %s\n", statusCode, string(data))
	}

	fmt.Println(string(data))
	fmt.Println(statusCode)
}
