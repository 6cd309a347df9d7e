package services

import (
	"context"

	"todo-manager/internal/domain"
)

// reportingServiceImpl implements the ReportingService interface
type reportingServiceImpl struct {
	todoService TodoService
}

// NewReportingService creates a new ReportingService instance
func NewReportingService(todoService TodoService) ReportingService {
	return &reportingServiceImpl{todoService: todoService}
}

// GetStats summarizes the stored todos; today decides which are overdue
func (r *reportingServiceImpl) GetStats(ctx context.Context, today domain.Date) (domain.Stats, error) {
	tasks, err := r.todoService.ListTodos(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.ComputeStats(tasks, today), nil
}

// GetGroups returns the distinct groups in use, sorted
func (r *reportingServiceImpl) GetGroups(ctx context.Context) ([]string, error) {
	tasks, err := r.todoService.ListTodos(ctx)
	if err != nil {
		return nil, err
	}
	groups := domain.Groups(tasks)
	if groups == nil {
		groups = []string{}
	}
	return groups, nil
}
