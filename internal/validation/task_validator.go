package validation

import (
	"todo-manager/internal/domain"
)

// TaskValidator provides validation for Task-related operations
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// NewTaskValidatorWithLimits creates a task validator with custom limits
func NewTaskValidatorWithLimits(limits Limits) *TaskValidator {
	return &TaskValidator{
		validator: NewValidatorWithLimits(limits),
	}
}

// ValidateTitle validates a task title for creation or update
func (tv *TaskValidator) ValidateTitle(title string) error {
	validationError := NewValidationError()
	tv.checkTitle(validationError, title)
	return validationError.ErrOrNil()
}

func (tv *TaskValidator) checkTitle(ve *ValidationError, title string) {
	trimmed := tv.validator.TrimAndValidateString(title)
	if !tv.validator.IsNonEmptyString(trimmed) {
		ve.AddRequiredError("title")
		return
	}
	limit := tv.validator.Limits().TitleMaxLength
	if !tv.validator.IsValidStringLength(trimmed, 1, limit) {
		ve.AddInvalidLengthError("title", trimmed, 0, limit)
	}
}

func (tv *TaskValidator) checkDescription(ve *ValidationError, description string) {
	limit := tv.validator.Limits().DescriptionMaxLength
	if !tv.validator.IsValidStringLength(description, 0, limit) {
		ve.AddInvalidLengthError("description", nil, 0, limit)
	}
}

func (tv *TaskValidator) checkGroup(ve *ValidationError, group string) {
	limit := tv.validator.Limits().GroupMaxLength
	if !tv.validator.IsValidStringLength(group, 0, limit) {
		ve.AddInvalidLengthError("group", group, 0, limit)
	}
}

func (tv *TaskValidator) checkPriority(ve *ValidationError, p domain.Priority) {
	if !tv.validator.IsValidPriority(p) {
		ve.AddInvalidValueError("priority", string(p), "must be high, medium or low")
	}
}

func (tv *TaskValidator) checkStatus(ve *ValidationError, s domain.Status) {
	if !tv.validator.IsValidStatus(s) {
		ve.AddInvalidValueError("status", string(s), "must be pending or completed")
	}
}

// ValidateTaskForCreation validates a candidate task. Blank priority, group and
// status are accepted because defaults fill them in; the id may be blank when
// the caller generates one.
func (tv *TaskValidator) ValidateTaskForCreation(task domain.Task) error {
	validationError := NewValidationError()

	tv.checkTitle(validationError, task.Title)
	tv.checkDescription(validationError, task.Description)
	tv.checkGroup(validationError, task.Group)
	if task.Priority != "" {
		tv.checkPriority(validationError, task.Priority)
	}
	if task.Status != "" {
		tv.checkStatus(validationError, task.Status)
	}
	if task.ID != "" && !tv.validator.IsValidID(task.ID) {
		validationError.AddInvalidValueError("id", task.ID, "must be a non-blank token without whitespace or slashes")
	}

	return validationError.ErrOrNil()
}

// ValidateTask validates a fully populated task, as stored or imported
func (tv *TaskValidator) ValidateTask(task domain.Task) error {
	validationError := NewValidationError()

	if err := tv.ValidateTaskID(task.ID); err != nil {
		validationError.Merge(err)
	}
	tv.checkTitle(validationError, task.Title)
	tv.checkDescription(validationError, task.Description)
	tv.checkGroup(validationError, task.Group)
	tv.checkPriority(validationError, task.Priority)
	tv.checkStatus(validationError, task.Status)

	return validationError.ErrOrNil()
}

// ValidatePatch validates the fields a patch sets
func (tv *TaskValidator) ValidatePatch(patch domain.Patch) error {
	validationError := NewValidationError()

	if patch.Title != nil {
		tv.checkTitle(validationError, *patch.Title)
	}
	if patch.Description != nil {
		tv.checkDescription(validationError, *patch.Description)
	}
	if patch.Group != nil {
		tv.checkGroup(validationError, *patch.Group)
	}
	if patch.Priority != nil {
		tv.checkPriority(validationError, *patch.Priority)
	}
	if patch.Status != nil {
		tv.checkStatus(validationError, *patch.Status)
	}

	return validationError.ErrOrNil()
}

// ValidateTaskID validates a task ID
func (tv *TaskValidator) ValidateTaskID(id string) error {
	if id == "" {
		validationError := NewValidationError()
		validationError.AddRequiredError("id")
		return validationError
	}
	if !tv.validator.IsValidID(id) {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("id", id, "must be a non-blank token without whitespace or slashes")
		return validationError
	}
	return nil
}

// GetValidTitle returns a cleaned title if valid
func (tv *TaskValidator) GetValidTitle(title string) (string, error) {
	if err := tv.ValidateTitle(title); err != nil {
		return "", err
	}
	return tv.validator.TrimAndValidateString(title), nil
}
