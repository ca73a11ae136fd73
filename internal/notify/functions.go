package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"marketplace-admin/internal/model"
)

const (
	storeFunction = "sendNotificationToStore"
	userFunction  = "sendNotificationToUser"
)

// FunctionsClient llama a las funciones HTTP que envían el push.
type FunctionsClient struct {
	baseURL string
	client  *http.Client
}

func NewFunctionsClient(baseURL string, timeout time.Duration) *FunctionsClient {
	return &FunctionsClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type callRequest struct {
	Data callPayload `json:"data"`
}

type callPayload struct {
	StoreID string            `json:"storeId,omitempty"`
	UserID  string            `json:"userId,omitempty"`
	Title   string            `json:"title"`
	Body    string            `json:"body"`
	Data    map[string]string `json:"data,omitempty"`
}

func (c *FunctionsClient) Name() string { return "functions" }

func (c *FunctionsClient) Dispatch(ctx context.Context, n model.Notification) error {
	payload := callPayload{Title: n.Title, Body: n.Body, Data: n.Data}
	var fn string
	switch n.Target {
	case model.TargetBusiness:
		fn, payload.StoreID = storeFunction, n.TargetID
	case model.TargetUser:
		fn, payload.UserID = userFunction, n.TargetID
	default:
		return fmt.Errorf("%w: unknown target %q", ErrPermanent, n.Target)
	}

	body, err := json.Marshal(callRequest{Data: payload})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPermanent, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+fn, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", fn, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s returned %d", ErrPermanent, fn, resp.StatusCode)
	default:
		return fmt.Errorf("%s returned %d", fn, resp.StatusCode)
	}
}
