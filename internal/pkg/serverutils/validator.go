package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest checks struct tags and flattens failures into one message
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		messages = append(messages, fmt.Sprintf("%s failed on '%s'", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return &RequestValidationError{Messages: messages}
}

type RequestValidationError struct {
	Messages []string
}

func (e *RequestValidationError) Error() string {
	return "invalid request: " + strings.Join(e.Messages, "; ")
}
