package tryon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"
)

// Client talks to a FitRoom-style try-on API. Every request carries the
// account API key in the X-API-KEY header.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient builds a provider client. A zero timeout falls back to 30s so
// submissions never rely on the transport's unbounded default.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// CheckModelImage runs the provider's model-photo validation.
func (c *Client) CheckModelImage(ctx context.Context, image ImageUpload) (*InputCheckResult, error) {
	return c.inputCheck(ctx, "/tryon/input_check/v1/model", "input_image", image)
}

// CheckClothImage runs the provider's garment-photo validation.
func (c *Client) CheckClothImage(ctx context.Context, image ImageUpload) (*InputCheckResult, error) {
	return c.inputCheck(ctx, "/tryon/input_check/v1/cloth", "input_image", image)
}

func (c *Client) inputCheck(ctx context.Context, path, field string, image ImageUpload) (*InputCheckResult, error) {
	body, contentType, err := encodeMultipart(func(w *multipart.Writer) error {
		return writeImagePart(w, field, image)
	})
	if err != nil {
		return nil, err
	}

	var result InputCheckResult
	if err := c.post(ctx, path, contentType, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateTask submits a try-on job and returns the provider-assigned task id.
func (c *Client) CreateTask(ctx context.Context, input CreateTaskInput) (string, error) {
	body, contentType, err := encodeMultipart(func(w *multipart.Writer) error {
		if err := writeImagePart(w, "cloth_image", input.ClothImage); err != nil {
			return err
		}
		if err := writeImagePart(w, "model_image", input.ModelImage); err != nil {
			return err
		}
		if input.ClothType != "" {
			if err := w.WriteField("cloth_type", input.ClothType); err != nil {
				return err
			}
		}
		return w.WriteField("hd_mode", strconv.FormatBool(input.HDMode))
	})
	if err != nil {
		return "", err
	}

	var created struct {
		TaskID string `json:"task_id"`
	}
	if err := c.post(ctx, "/tryon/v2/tasks", contentType, body, &created); err != nil {
		return "", err
	}
	if created.TaskID == "" {
		return "", fmt.Errorf("provider response missing task_id")
	}
	return created.TaskID, nil
}

// GetTask fetches the current state of a task.
func (c *Client) GetTask(ctx context.Context, taskID string) (*TaskState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tryon/v2/tasks/"+taskID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status check failed: %s", resp.Status)
	}

	var state TaskState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("decode task state: %w", err)
	}
	if state.TaskID == "" {
		state.TaskID = taskID
	}
	return &state, nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("provider error: %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode provider response: %w", err)
	}
	return nil
}

func encodeMultipart(fill func(w *multipart.Writer) error) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := fill(writer); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}

func writeImagePart(w *multipart.Writer, field string, image ImageUpload) error {
	contentType := image.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, image.FileName))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = part.Write(image.Data)
	return err
}
