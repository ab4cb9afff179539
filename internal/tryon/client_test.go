package tryon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCreateTaskSendsMultipartFields(t *testing.T) {
	var gotAPIKey string
	var gotClothType, gotHDMode string
	var clothName, modelName string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/tryon/v2/tasks", r.URL.Path)
		gotAPIKey = r.Header.Get("X-API-KEY")

		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotClothType = r.FormValue("cloth_type")
		gotHDMode = r.FormValue("hd_mode")
		if headers := r.MultipartForm.File["cloth_image"]; len(headers) > 0 {
			clothName = headers[0].Filename
		}
		if headers := r.MultipartForm.File["model_image"]; len(headers) > 0 {
			modelName = headers[0].Filename
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"task_id":"abc123"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-key", time.Second)
	taskID, err := client.CreateTask(context.Background(), CreateTaskInput{
		ModelImage: ImageUpload{FileName: "person.jpg", ContentType: "image/jpeg", Data: []byte("m")},
		ClothImage: ImageUpload{FileName: "shirt.png", ContentType: "image/png", Data: []byte("c")},
		ClothType:  "upper",
		HDMode:     true,
	})

	require.NoError(t, err)
	assert.Equal(t, "abc123", taskID)
	assert.Equal(t, "secret-key", gotAPIKey)
	assert.Equal(t, "upper", gotClothType)
	assert.Equal(t, "true", gotHDMode)
	assert.Equal(t, "shirt.png", clothName)
	assert.Equal(t, "person.jpg", modelName)
}

func TestClientCreateTaskRejectsMissingTaskID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", time.Second)
	_, err := client.CreateTask(context.Background(), CreateTaskInput{
		ModelImage: ImageUpload{FileName: "m.jpg", Data: []byte("m")},
		ClothImage: ImageUpload{FileName: "c.jpg", Data: []byte("c")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task_id")
}

func TestClientCreateTaskSurfacesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", time.Second)
	_, err := client.CreateTask(context.Background(), CreateTaskInput{
		ModelImage: ImageUpload{FileName: "m.jpg", Data: []byte("m")},
		ClothImage: ImageUpload{FileName: "c.jpg", Data: []byte("c")},
	})
	require.Error(t, err)
}

func TestClientGetTaskDecodesState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tryon/v2/tasks/abc123", r.URL.Path)
		require.Equal(t, "k", r.Header.Get("X-API-KEY"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"PROCESSING","progress":42}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", time.Second)
	state, err := client.GetTask(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", state.TaskID)
	assert.Equal(t, StatusProcessing, state.Status)
	assert.Equal(t, 42, state.Progress)
}

func TestClientInputCheckDecodesVerdict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tryon/input_check/v1/cloth", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.NotEmpty(t, r.MultipartForm.File["input_image"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"is_good":false,"error_message":"low resolution"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", time.Second)
	result, err := client.CheckClothImage(context.Background(), ImageUpload{
		FileName: "c.jpg", ContentType: "image/jpeg", Data: []byte("c"),
	})
	require.NoError(t, err)
	assert.False(t, result.Good)
	assert.Equal(t, "low resolution", result.Reason)
}
