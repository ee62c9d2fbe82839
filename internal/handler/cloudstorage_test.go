package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/polarisfn/Polaris_Go/internal/cloudstorage"
	"github.com/polarisfn/Polaris_Go/internal/domain"
)

// MockStorageService mocks the cloudstorage.Service interface
type MockStorageService struct {
	mock.Mock
}

func (m *MockStorageService) ListSystemFiles(ctx context.Context) ([]cloudstorage.FileEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cloudstorage.FileEntry), args.Error(1)
}

func (m *MockStorageService) ReadSystemFile(ctx context.Context, filename string) ([]byte, error) {
	args := m.Called(ctx, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStorageService) ListUserFiles(ctx context.Context, accountID string) ([]cloudstorage.FileEntry, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cloudstorage.FileEntry), args.Error(1)
}

func (m *MockStorageService) ReadUserFile(ctx context.Context, accountID, filename string) ([]byte, error) {
	args := m.Called(ctx, accountID, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStorageService) WriteUserFile(ctx context.Context, accountID, filename string, data []byte) error {
	args := m.Called(ctx, accountID, filename, data)
	return args.Error(0)
}

func newStorageRouter(svc *MockStorageService) http.Handler {
	r := chi.NewRouter()
	h := NewCloudStorageHandler(svc)
	r.Get("/api/cloudstorage/system", h.ListSystemFiles)
	r.Get("/api/cloudstorage/system/{filename}", h.GetSystemFile)
	r.Get("/api/cloudstorage/user/{accountId}", h.ListUserFiles)
	r.Get("/api/cloudstorage/user/{accountId}/{filename}", h.GetUserFile)
	r.Put("/api/cloudstorage/user/{accountId}/{filename}", h.PutUserFile)
	return r
}

func TestListSystemFilesHandler(t *testing.T) {
	mockSvc := &MockStorageService{}
	mockSvc.On("ListSystemFiles", mock.Anything).Return([]cloudstorage.FileEntry{
		{UniqueFilename: "DefaultGame.ini", Filename: "DefaultGame.ini", Hash: "abc", Length: 10},
	}, nil)

	req := httptest.NewRequest("GET", "/api/cloudstorage/system", nil)
	w := httptest.NewRecorder()
	newStorageRouter(mockSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"uniqueFilename":"DefaultGame.ini"`)
	mockSvc.AssertExpectations(t)
}

func TestGetSystemFileHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockSvc := &MockStorageService{}
		mockSvc.On("ReadSystemFile", mock.Anything, "DefaultGame.ini").Return([]byte("[Core]"), nil)

		req := httptest.NewRequest("GET", "/api/cloudstorage/system/DefaultGame.ini", nil)
		w := httptest.NewRecorder()
		newStorageRouter(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[Core]", w.Body.String())
		assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	})

	t.Run("Not Found", func(t *testing.T) {
		mockSvc := &MockStorageService{}
		mockSvc.On("ReadSystemFile", mock.Anything, "missing.ini").
			Return(nil, fmt.Errorf("read: %w", domain.ErrItemNotFound))

		req := httptest.NewRequest("GET", "/api/cloudstorage/system/missing.ini", nil)
		w := httptest.NewRecorder()
		newStorageRouter(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "File not found.")
	})
}

func TestPutUserFileHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockSvc := &MockStorageService{}
		mockSvc.On("WriteUserFile", mock.Anything, "acct-1", "ClientSettings.Sav", []byte("blob")).Return(nil)

		req := httptest.NewRequest("PUT", "/api/cloudstorage/user/acct-1/ClientSettings.Sav",
			bytes.NewBufferString("blob"))
		w := httptest.NewRecorder()
		newStorageRouter(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
		mockSvc.AssertExpectations(t)
	})

	t.Run("Too Large", func(t *testing.T) {
		mockSvc := &MockStorageService{}
		mockSvc.On("WriteUserFile", mock.Anything, "acct-1", "ClientSettings.Sav", mock.Anything).
			Return(fmt.Errorf("write: %w", domain.ErrSettingsTooLarge))

		req := httptest.NewRequest("PUT", "/api/cloudstorage/user/acct-1/ClientSettings.Sav",
			bytes.NewBuffer(make([]byte, 16)))
		w := httptest.NewRecorder()
		newStorageRouter(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "File size exceeds the allowed limit.")
	})

	t.Run("Invalid Filename", func(t *testing.T) {
		mockSvc := &MockStorageService{}
		mockSvc.On("WriteUserFile", mock.Anything, "acct-1", "Other.Sav", mock.Anything).
			Return(fmt.Errorf("write: %w", domain.ErrInvalidInput))

		req := httptest.NewRequest("PUT", "/api/cloudstorage/user/acct-1/Other.Sav",
			bytes.NewBufferString("x"))
		w := httptest.NewRecorder()
		newStorageRouter(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetUserFileHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockSvc := &MockStorageService{}
		mockSvc.On("ReadUserFile", mock.Anything, "acct-1", "ClientSettings.Sav").Return([]byte{1, 2, 3}, nil)

		req := httptest.NewRequest("GET", "/api/cloudstorage/user/acct-1/ClientSettings.Sav", nil)
		w := httptest.NewRecorder()
		newStorageRouter(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []byte{1, 2, 3}, w.Body.Bytes())
	})

	t.Run("No Settings Stored Returns No Content", func(t *testing.T) {
		mockSvc := &MockStorageService{}
		mockSvc.On("ReadUserFile", mock.Anything, "acct-1", "ClientSettings.Sav").
			Return(nil, fmt.Errorf("read: %w", domain.ErrItemNotFound))

		req := httptest.NewRequest("GET", "/api/cloudstorage/user/acct-1/ClientSettings.Sav", nil)
		w := httptest.NewRecorder()
		newStorageRouter(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("Unrecognized Filename Returns No Content", func(t *testing.T) {
		mockSvc := &MockStorageService{}
		mockSvc.On("ReadUserFile", mock.Anything, "acct-1", "Other.Sav").
			Return(nil, fmt.Errorf("read: %w", domain.ErrItemNotFound))

		req := httptest.NewRequest("GET", "/api/cloudstorage/user/acct-1/Other.Sav", nil)
		w := httptest.NewRecorder()
		newStorageRouter(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestListUserFilesHandler(t *testing.T) {
	mockSvc := &MockStorageService{}
	mockSvc.On("ListUserFiles", mock.Anything, "acct-1").Return([]cloudstorage.FileEntry{}, nil)

	req := httptest.NewRequest("GET", "/api/cloudstorage/user/acct-1", nil)
	w := httptest.NewRecorder()
	newStorageRouter(mockSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]\n", w.Body.String())
}
