// internal/provider/client.go
package provider

import (
    "bytes"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "os"
    "time"
)

const defaultBaseURL = "https://graph.facebook.com/v19.0"

// APIError carries the provider's HTTP status and error code so the delivery
// pipeline can classify the failure as transient or permanent.
type APIError struct {
    StatusCode int
    Code       int
    Detail     string
}

func (e *APIError) Error() string {
    return fmt.Sprintf("whatsapp api error: http %d, code %d: %s", e.StatusCode, e.Code, e.Detail)
}

// Client is a narrow WhatsApp Cloud API poster. The only operation the
// pipeline needs is POST /{phone_number_id}/messages.
type Client struct {
    BaseURL     string
    AccessToken string
    HTTPClient  *http.Client
}

func NewClient() *Client {
    base := os.Getenv("WA_API_BASE_URL")
    if base == "" {
        base = defaultBaseURL
    }
    return &Client{
        BaseURL:     base,
        AccessToken: os.Getenv("WA_ACCESS_TOKEN"),
        HTTPClient:  &http.Client{Timeout: 15 * time.Second},
    }
}

type sendResponse struct {
    Messages []struct {
        ID string `json:"id"`
    } `json:"messages"`
}

type errorResponse struct {
    Error struct {
        Message string `json:"message"`
        Code    int    `json:"code"`
    } `json:"error"`
}

// Post sends payload to BaseURL+path and returns the provider message id.
// Non-2xx responses come back as *APIError; transport failures come back as-is.
func (c *Client) Post(path string, payload any) (string, error) {
    body, err := json.Marshal(payload)
    if err != nil {
        return "", err
    }

    req, err := http.NewRequest(http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
    if err != nil {
        return "", err
    }
    req.Header.Set("Content-Type", "application/json")
    req.Header.Set("Authorization", "Bearer "+c.AccessToken)

    resp, err := c.HTTPClient.Do(req)
    if err != nil {
        return "", err
    }
    defer resp.Body.Close()

    respBody, err := io.ReadAll(resp.Body)
    if err != nil {
        return "", err
    }

    if resp.StatusCode < 200 || resp.StatusCode >= 300 {
        apiErr := &APIError{StatusCode: resp.StatusCode, Detail: string(respBody)}
        var parsed errorResponse
        if json.Unmarshal(respBody, &parsed) == nil && parsed.Error.Message != "" {
            apiErr.Code = parsed.Error.Code
            apiErr.Detail = parsed.Error.Message
        }
        return "", apiErr
    }

    var parsed sendResponse
    if err := json.Unmarshal(respBody, &parsed); err != nil {
        return "", err
    }
    if len(parsed.Messages) == 0 {
        return "", fmt.Errorf("provider accepted the send but returned no message id")
    }
    return parsed.Messages[0].ID, nil
}
