package services

import (
	"fmt"
	"mime/multipart"
)

// MockStorage is an in-memory StorageInterface for tests
type MockStorage struct {
	Objects     map[string][]byte
	UploadErr   error
	PresignErr  error
	DeleteErr   error
	UploadCalls int
}

// NewMockStorage creates an empty mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{Objects: make(map[string][]byte)}
}

func (m *MockStorage) UploadProductImage(fileHeader *multipart.FileHeader, productID uint) (string, error) {
	m.UploadCalls++
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	key := fmt.Sprintf("products/%d/%s", productID, fileHeader.Filename)
	m.Objects[key] = nil
	return key, nil
}

func (m *MockStorage) GetPresignedURL(key string) (string, error) {
	if m.PresignErr != nil {
		return "", m.PresignErr
	}
	return "https://mock-bucket.example.com/" + key, nil
}

func (m *MockStorage) DeleteObject(key string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.Objects, key)
	return nil
}
