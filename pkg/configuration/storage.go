package configuration

import (
	"encoding/json"
	"os"
)

type Storage interface {
	Set(key string, value any) error
	Delete(key string) error
}

type EmptyStorage struct{}

func (e *EmptyStorage) Set(_ string, _ any) error {
	return nil
}

func (e *EmptyStorage) Delete(_ string) error {
	return nil
}

type JsonStorage struct {
	path string
}

func NewJsonStorage(path string) *JsonStorage {
	return &JsonStorage{
		path: path,
	}
}

func (s *JsonStorage) load() map[string]any {
	config := make(map[string]any)
	fileBytes, err := os.ReadFile(s.path)
	if err == nil {
		_ = json.Unmarshal(fileBytes, &config)
	}
	return config
}

func (s *JsonStorage) Set(key string, value any) error {
	config := s.load()
	config[key] = value
	configJson, err := json.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, configJson, 0666)
}

func (s *JsonStorage) Delete(key string) error {
	config := s.load()
	delete(config, key)
	configJson, err := json.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, configJson, 0666)
}
