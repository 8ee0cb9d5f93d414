package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	bookingDomain "github.com/UsmanRajput1111/SolarRevive/internal/domain/booking"
	"github.com/UsmanRajput1111/SolarRevive/internal/platform/response"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators adds the booking validation tags to gin's binding engine and makes
// validation errors report JSON field names. Call it once at startup.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin binding engine is not go-playground/validator")
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		if err := v.RegisterValidation("service_type", validateServiceType); err != nil {
			registerErr = fmt.Errorf("register service_type validator: %w", err)
			return
		}
		if err := v.RegisterValidation("payment_method", validatePaymentMethod); err != nil {
			registerErr = fmt.Errorf("register payment_method validator: %w", err)
		}
	})
	return registerErr
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func validateServiceType(fl validator.FieldLevel) bool {
	return bookingDomain.ServiceType(fl.Field().String()).IsValid()
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	_, err := bookingDomain.ParsePaymentMethod(fl.Field().String())
	return err == nil
}

// bindError writes a 400 for a failed ShouldBindJSON, naming the offending fields.
func bindError(c *gin.Context, err error) {
	response.BadRequest(c, bindingMessage(err))
}

func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "uuid":
		return field + " must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "service_type":
		return field + " must be a supported service type"
	case "payment_method":
		return field + " must be a supported payment method"
	default:
		return field + " is invalid"
	}
}
