package metadata

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validation error codes (E200-E299)
const (
	ErrInvalidStruct    = "E200" // struct constraint failed (ids, names)
	ErrDuplicateFieldID = "E201" // two fields share an id
	ErrForeignOwnField  = "E202" // own field belongs to another table
	ErrNoFields         = "E203" // source table has no fields
	ErrDanglingFKTarget = "E204" // FK target id not present in lookup
)

// ValidationError represents a metadata validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks table metadata and returns every problem found.
// Does not fail fast.
func Validate(md *TableMetadata) []ValidationError {
	if md == nil {
		return []ValidationError{{Field: "metadata", Message: "metadata is required", Code: ErrInvalidStruct}}
	}

	var errs []ValidationError

	if err := structValidator.Struct(md); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				errs = append(errs, ValidationError{
					Field:   fe.Namespace(),
					Message: fmt.Sprintf("failed %q constraint (value %v)", fe.Tag(), fe.Value()),
					Code:    ErrInvalidStruct,
				})
			}
		} else {
			errs = append(errs, ValidationError{Field: "metadata", Message: err.Error(), Code: ErrInvalidStruct})
		}
	}

	if len(md.Fields) == 0 {
		errs = append(errs, ValidationError{
			Field:   "fields",
			Message: fmt.Sprintf("table %q has no fields", md.Name),
			Code:    ErrNoFields,
		})
	}

	seen := make(map[int64]string)
	check := func(path string, f *Field) {
		if f == nil {
			return
		}
		if prev, dup := seen[f.ID]; dup {
			errs = append(errs, ValidationError{
				Field:   path,
				Message: fmt.Sprintf("field id %d already used by %s", f.ID, prev),
				Code:    ErrDuplicateFieldID,
			})
			return
		}
		seen[f.ID] = path
	}

	for i, f := range md.Fields {
		path := fmt.Sprintf("fields[%d]", i)
		check(path, f)
		if f != nil && f.TableID != md.ID {
			errs = append(errs, ValidationError{
				Field:   path,
				Message: fmt.Sprintf("field %q belongs to table %d, not %d", f.Name, f.TableID, md.ID),
				Code:    ErrForeignOwnField,
			})
		}
	}
	for ti, t := range md.Related {
		if t == nil {
			continue
		}
		for i, f := range t.Fields {
			check(fmt.Sprintf("related[%d].fields[%d]", ti, i), f)
		}
	}

	for i, f := range md.Fields {
		if f == nil || f.TargetID == 0 {
			continue
		}
		if _, ok := seen[f.TargetID]; !ok {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("fields[%d].fk_target_field_id", i),
				Message: fmt.Sprintf("target field %d not found in metadata", f.TargetID),
				Code:    ErrDanglingFKTarget,
			})
		}
	}

	return errs
}
