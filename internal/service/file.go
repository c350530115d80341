package service

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/dakflow/dakflow/internal/model"
	"github.com/dakflow/dakflow/internal/repository"
	"github.com/dakflow/dakflow/internal/storage"
	"github.com/dakflow/dakflow/internal/validation"
	"github.com/google/uuid"
)

var (
	ErrFileNotFound        = errors.New("file not found")
	ErrDuplicateFileNumber = errors.New("file number already exists")
	ErrStatusRequired      = errors.New("status is required")
	ErrFileFieldsRequired  = errors.New("file_number, title, type, department and date are required")
)

// FileInput carries caller-supplied file fields. The owner is never
// part of the input; it always comes from the authenticated identity.
type FileInput struct {
	FileNumber  string  `json:"file_number"`
	Title       string  `json:"title"`
	Type        string  `json:"type"`
	Department  string  `json:"department"`
	Date        string  `json:"date"`
	Description *string `json:"description"`
	Remarks     *string `json:"remarks"`
	NeedsReturn bool    `json:"needs_return"`
	StoragePath *string `json:"storage_path"`
}

type FileService struct {
	fileRepo    repository.FileRepository
	historyRepo repository.StatusHistoryRepository
	storage     storage.Storage
}

func NewFileService(fileRepo repository.FileRepository, historyRepo repository.StatusHistoryRepository, storage storage.Storage) *FileService {
	return &FileService{
		fileRepo:    fileRepo,
		historyRepo: historyRepo,
		storage:     storage,
	}
}

// Create registers a new tracked file for the given owner. The file
// starts in "Pending" with a matching initial ledger entry.
func (s *FileService) Create(userID string, in FileInput) (*model.File, error) {
	err := validateInput(in)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	file := &model.File{
		ID:          uuid.New().String(),
		FileNumber:  strings.TrimSpace(in.FileNumber),
		Title:       in.Title,
		Type:        in.Type,
		Department:  in.Department,
		Date:        in.Date,
		Status:      model.StatusPending,
		Description: in.Description,
		Remarks:     in.Remarks,
		NeedsReturn: in.NeedsReturn,
		StoragePath: in.StoragePath,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err = s.fileRepo.Create(file)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateFileNumber) {
			return nil, ErrDuplicateFileNumber
		}
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	slog.Info("file created", "file_id", file.ID, "file_number", file.FileNumber, "user_id", userID)
	return file, nil
}

func (s *FileService) List(userID string) ([]*model.File, error) {
	return s.fileRepo.ByUser(userID)
}

func (s *FileService) Get(userID, id string) (*model.File, error) {
	file, err := s.fileRepo.ByID(userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return file, nil
}

func (s *FileService) Update(userID, id string, in FileInput) (*model.File, error) {
	err := validateInput(in)
	if err != nil {
		return nil, err
	}

	file, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}

	file.FileNumber = strings.TrimSpace(in.FileNumber)
	file.Title = in.Title
	file.Type = in.Type
	file.Department = in.Department
	file.Date = in.Date
	file.Description = in.Description
	file.Remarks = in.Remarks
	file.NeedsReturn = in.NeedsReturn
	file.StoragePath = in.StoragePath
	file.UpdatedAt = time.Now()

	err = s.fileRepo.Update(file)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateFileNumber) {
			return nil, ErrDuplicateFileNumber
		}
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to update file: %w", err)
	}

	return file, nil
}

func (s *FileService) Delete(userID, id string) error {
	err := s.fileRepo.Delete(userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return ErrFileNotFound
		}
		return err
	}

	slog.Info("file deleted", "file_id", id, "user_id", userID)
	return nil
}

// UpdateStatus records a status transition: the file's status field
// and the new ledger entry are written atomically. An empty status
// leaves everything untouched.
func (s *FileService) UpdateStatus(userID, id, status string, reason *string) (*model.StatusHistory, error) {
	if strings.TrimSpace(status) == "" {
		return nil, ErrStatusRequired
	}

	entry, err := s.fileRepo.UpdateStatus(userID, id, status, reason)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	slog.Info("file status changed", "file_id", id, "status", status, "user_id", userID)
	return entry, nil
}

// History lists a file's ledger entries newest first. The file
// lookup doubles as the ownership check.
func (s *FileService) History(userID, fileID string) ([]*model.StatusHistory, error) {
	_, err := s.Get(userID, fileID)
	if err != nil {
		return nil, err
	}

	return s.historyRepo.ByFile(userID, fileID)
}

func (s *FileService) HistoryForUser(userID string) ([]*model.StatusHistory, error) {
	return s.historyRepo.ByUser(userID)
}

// Upload stores an attachment under a server-chosen name and
// returns the storage path for later linking to a file record.
func (s *FileService) Upload(file multipart.File, header *multipart.FileHeader) (string, error) {
	err := validation.ValidateFile(header, validation.AttachmentConstraints)
	if err != nil {
		return "", err
	}

	ext := filepath.Ext(header.Filename)
	storagePath := fmt.Sprintf("%s%s", uuid.New().String(), ext)

	err = s.storage.Save(storagePath, file)
	if err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	slog.Info("attachment uploaded", "storage_path", storagePath, "original_name", header.Filename, "size", header.Size)
	return storagePath, nil
}

func validateInput(in FileInput) error {
	if strings.TrimSpace(in.FileNumber) == "" ||
		strings.TrimSpace(in.Title) == "" ||
		strings.TrimSpace(in.Type) == "" ||
		strings.TrimSpace(in.Department) == "" ||
		strings.TrimSpace(in.Date) == "" {
		return ErrFileFieldsRequired
	}
	return nil
}
