package middleware

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/logistics-platform/shipment-engine/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// InitValidator initializes the validator with custom validators
func InitValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()

		registerCustom(validate)

		validate.RegisterTagNameFunc(jsonTagName)

		// Set as Gin's default validator
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			registerCustom(v)
			v.RegisterTagNameFunc(jsonTagName)
		}
	})

	return validate
}

// GetValidator returns the singleton validator instance
func GetValidator() *validator.Validate {
	if validate == nil {
		return InitValidator()
	}
	return validate
}

func registerCustom(v *validator.Validate) {
	_ = v.RegisterValidation("pincode", validatePincode)
	_ = v.RegisterValidation("phone_digits", validatePhoneDigits)
	_ = v.RegisterValidation("awb", validateAwb)
	_ = v.RegisterValidation("party_role", validatePartyRole)
	_ = v.RegisterValidation("return_reason", validateReturnReason)
	_ = v.RegisterValidation("priority", validatePriority)
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return fld.Name
	}
	return name
}

// Custom validators

var (
	pincodeRegex = regexp.MustCompile(`^\d{6}$`)
	awbRegex     = regexp.MustCompile(`^[A-Z0-9-]{8,30}$`)
	digitRegex   = regexp.MustCompile(`\D`)
)

func validatePincode(fl validator.FieldLevel) bool {
	return pincodeRegex.MatchString(fl.Field().String())
}

func validatePhoneDigits(fl validator.FieldLevel) bool {
	digits := digitRegex.ReplaceAllString(fl.Field().String(), "")
	return len(digits) >= 10
}

func validateAwb(fl validator.FieldLevel) bool {
	return awbRegex.MatchString(strings.ToUpper(fl.Field().String()))
}

func validatePartyRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "BRAND", "SERVICE_CENTER", "DISTRIBUTOR", "CUSTOMER":
		return true
	}
	return false
}

func validateReturnReason(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "DEFECTIVE", "EXCESS", "WARRANTY_RETURN", "WRONG_PART":
		return true
	}
	return false
}

func validatePriority(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "LOW", "MEDIUM", "HIGH", "CRITICAL":
		return true
	}
	return false
}

// ValidationErrorFormatter formats validation errors into a map
func ValidationErrorFormatter(err error) map[string]string {
	fields := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			fields[e.Field()] = formatValidationError(e)
		}
	}

	return fields
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "pincode":
		return "must be a 6-digit pincode"
	case "phone_digits":
		return "must contain at least 10 digits"
	case "awb":
		return "must be a valid AWB number (8-30 characters)"
	case "party_role":
		return "must be one of: BRAND, SERVICE_CENTER, DISTRIBUTOR, CUSTOMER"
	case "return_reason":
		return "must be one of: DEFECTIVE, EXCESS, WARRANTY_RETURN, WRONG_PART"
	case "priority":
		return "must be one of: LOW, MEDIUM, HIGH, CRITICAL"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}

// BindAndValidate binds request body and validates it
func BindAndValidate(c *gin.Context, obj interface{}) *errors.AppError {
	if err := c.ShouldBindJSON(obj); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			fields := ValidationErrorFormatter(validationErrors)
			return errors.ErrValidationWithFields("validation failed", fields)
		}
		return errors.ErrBadRequest("invalid request body: " + err.Error())
	}
	return nil
}

// ValidateStruct validates a struct using the validator
func ValidateStruct(obj interface{}) *errors.AppError {
	v := GetValidator()
	if err := v.Struct(obj); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			fields := ValidationErrorFormatter(validationErrors)
			return errors.ErrValidationWithFields("validation failed", fields)
		}
		return errors.ErrBadRequest("validation failed: " + err.Error())
	}
	return nil
}
