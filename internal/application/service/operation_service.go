package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/garyjia/pt-logbook/internal/application/port"
	"github.com/garyjia/pt-logbook/internal/domain/entity"
)

// OperationRequest holds the fields of a main job
type OperationRequest struct {
	Operation string `json:"operation"`
	Machinery string `json:"machinery"`
}

// OperationService manages the main jobs of a logbook
type OperationService interface {
	List(ctx context.Context, user *entity.User, logbookID int64) ([]*entity.Operation, error)
	Create(ctx context.Context, user *entity.User, logbookID int64, req OperationRequest) (*entity.Operation, error)
	Update(ctx context.Context, user *entity.User, logbookID, operationID int64, req OperationRequest) (*entity.Operation, error)
	Delete(ctx context.Context, user *entity.User, logbookID, operationID int64) error
}

type operationServiceImpl struct {
	owner
	operationRepo port.OperationRepository
	logger        Logger
}

// NewOperationService creates a new OperationService
func NewOperationService(
	studentRepo port.StudentRepository,
	logbookRepo port.LogbookRepository,
	operationRepo port.OperationRepository,
	logger Logger,
) OperationService {
	return &operationServiceImpl{
		owner:         owner{students: studentRepo, logbooks: logbookRepo},
		operationRepo: operationRepo,
		logger:        logger,
	}
}

// List returns a logbook's operations in insertion order
func (s *operationServiceImpl) List(ctx context.Context, user *entity.User, logbookID int64) ([]*entity.Operation, error) {
	_, lb, err := s.logbook(ctx, user, logbookID)
	if err != nil {
		return nil, err
	}
	return s.operationRepo.ListByLogbook(ctx, lb.ID)
}

// Create adds an operation to a logbook
func (s *operationServiceImpl) Create(ctx context.Context, user *entity.User, logbookID int64, req OperationRequest) (*entity.Operation, error) {
	req, err := normalizeOperation(req)
	if err != nil {
		return nil, err
	}
	_, lb, err := s.logbook(ctx, user, logbookID)
	if err != nil {
		return nil, err
	}

	op := &entity.Operation{
		LogbookID: lb.ID,
		Operation: req.Operation,
		Machinery: req.Machinery,
		IsUpdated: true,
	}
	if err := s.operationRepo.Create(ctx, op); err != nil {
		s.logger.Error("Failed to create operation", "error", err, "logbook_id", lb.ID)
		return nil, err
	}

	s.logger.Info("Operation created", "id", op.ID, "logbook_id", lb.ID)
	return op, nil
}

// Update rewrites an operation
func (s *operationServiceImpl) Update(ctx context.Context, user *entity.User, logbookID, operationID int64, req OperationRequest) (*entity.Operation, error) {
	req, err := normalizeOperation(req)
	if err != nil {
		return nil, err
	}
	op, err := s.owned(ctx, user, logbookID, operationID)
	if err != nil {
		return nil, err
	}

	op.Operation = req.Operation
	op.Machinery = req.Machinery
	op.IsUpdated = true
	if err := s.operationRepo.Update(ctx, op); err != nil {
		s.logger.Error("Failed to update operation", "error", err, "id", op.ID)
		return nil, err
	}
	return op, nil
}

// Delete removes an operation
func (s *operationServiceImpl) Delete(ctx context.Context, user *entity.User, logbookID, operationID int64) error {
	op, err := s.owned(ctx, user, logbookID, operationID)
	if err != nil {
		return err
	}
	if err := s.operationRepo.Delete(ctx, op.ID); err != nil {
		s.logger.Error("Failed to delete operation", "error", err, "id", op.ID)
		return err
	}
	s.logger.Info("Operation deleted", "id", op.ID, "logbook_id", op.LogbookID)
	return nil
}

func (s *operationServiceImpl) owned(ctx context.Context, user *entity.User, logbookID, operationID int64) (*entity.Operation, error) {
	_, lb, err := s.logbook(ctx, user, logbookID)
	if err != nil {
		return nil, err
	}
	op, err := s.operationRepo.GetByID(ctx, operationID)
	if err != nil {
		return nil, err
	}
	if op == nil || op.LogbookID != lb.ID {
		return nil, ErrNotFound
	}
	return op, nil
}

func normalizeOperation(req OperationRequest) (OperationRequest, error) {
	req.Operation = strings.TrimSpace(req.Operation)
	req.Machinery = strings.TrimSpace(req.Machinery)
	if req.Operation == "" || req.Machinery == "" {
		return req, fmt.Errorf("%w: operation and machinery are required", ErrInvalidInput)
	}
	return req, nil
}
