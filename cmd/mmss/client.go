package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// apiClient allows campaigns to run to completion before timing out.
var apiClient = &http.Client{Timeout: 5 * time.Minute}

func apiURL(path string) string {
	return strings.TrimRight(serverURL, "/") + path
}

func apiGet(path string, out any) error {
	resp, err := apiClient.Get(apiURL(path))
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	return decodeAPIResponse(resp, path, out)
}

func apiPost(path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	resp, err := apiClient.Post(apiURL(path), "application/json", reader)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	return decodeAPIResponse(resp, path, out)
}

func apiDelete(path string, out any) error {
	req, err := http.NewRequest(http.MethodDelete, apiURL(path), nil)
	if err != nil {
		return err
	}
	resp, err := apiClient.Do(req)
	if err != nil {
		return fmt.Errorf("DELETE %s: %w", path, err)
	}
	return decodeAPIResponse(resp, path, out)
}

func decodeAPIResponse(resp *http.Response, path string, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s (%s)", path, apiErr.Error, resp.Status)
		}
		return fmt.Errorf("%s: %s", path, resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
