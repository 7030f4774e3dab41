package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/imged/layout-service/internal/editor"
	"github.com/imged/layout-service/internal/imaging"
	"github.com/imged/layout-service/internal/models"
)

// Validator wraps struct tag validation with the custom rules used by the
// layout request types
type Validator struct {
	structValidator *validator.Validate
}

// New creates a new validator instance
func New() *Validator {
	structValidator := validator.New()

	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
	}
}

// ValidateStruct validates struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate performs complete validation and converts failures to ValidationErrors
func (v *Validator) Validate(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("placeholder_type", validatePlaceholderType)
	validate.RegisterValidation("layout_role", validateLayoutRole)
	validate.RegisterValidation("tool_mode", validateToolMode)
	validate.RegisterValidation("image_extension", validateImageExtension)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validation functions

func validatePlaceholderType(fl validator.FieldLevel) bool {
	validTypes := []models.PlaceholderType{
		models.PlaceholderImage,
		models.PlaceholderText,
	}

	value := fl.Field().String()
	for _, validType := range validTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}

func validateLayoutRole(fl validator.FieldLevel) bool {
	validRoles := []models.Role{
		models.RoleEditor,
		models.RoleQuestion,
		models.RoleSolution,
		models.RoleAnswer,
	}

	value := fl.Field().String()
	for _, validRole := range validRoles {
		if string(validRole) == value {
			return true
		}
	}
	return false
}

func validateToolMode(fl validator.FieldLevel) bool {
	return editor.ValidMode(editor.Mode(fl.Field().String()))
}

func validateImageExtension(fl validator.FieldLevel) bool {
	_, ok := imaging.Extension(fl.Field().String())
	return ok
}
