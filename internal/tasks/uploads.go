package tasks

import (
	"context"

	"github.com/google/uuid"

	"example.com/eduwork-tracker/internal/models"
	"example.com/eduwork-tracker/internal/store"
)

type uploadMap map[string][]models.UploadRecord

// AddUpload добавляет метаданные симулированной загрузки к задаче.
func (s *Service) AddUpload(ctx context.Context, taskID uuid.UUID, record models.UploadRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	uploads, err := s.readUploads(ctx)
	if err != nil {
		return err
	}

	key := taskID.String()
	uploads[key] = append(uploads[key], record)
	return store.SetJSON(ctx, s.store, store.KeyUploadedContent, uploads)
}

// Uploads возвращает метаданные загрузок задачи в порядке добавления.
func (s *Service) Uploads(ctx context.Context, taskID uuid.UUID) ([]models.UploadRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uploads, err := s.readUploads(ctx)
	if err != nil {
		return nil, err
	}

	return uploads[taskID.String()], nil
}

// DeleteUpload удаляет запись по индексу. Индекс вне диапазона — тихий
// no-op. Последняя удаленная запись убирает ключ задачи целиком, без
// пустого списка-остатка.
func (s *Service) DeleteUpload(ctx context.Context, taskID uuid.UUID, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	uploads, err := s.readUploads(ctx)
	if err != nil {
		return err
	}

	key := taskID.String()
	records, ok := uploads[key]
	if !ok || index < 0 || index >= len(records) {
		return nil
	}

	records = append(records[:index], records[index+1:]...)
	if len(records) == 0 {
		delete(uploads, key)
	} else {
		uploads[key] = records
	}

	return store.SetJSON(ctx, s.store, store.KeyUploadedContent, uploads)
}

func (s *Service) readUploads(ctx context.Context) (uploadMap, error) {
	uploads := make(uploadMap)
	if _, err := store.GetJSON(ctx, s.store, store.KeyUploadedContent, &uploads); err != nil {
		return nil, err
	}
	if uploads == nil {
		uploads = make(uploadMap)
	}
	return uploads, nil
}
