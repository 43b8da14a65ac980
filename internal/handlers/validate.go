// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"zuva/internal/models"
)

// fieldLabels are the human names used in validation messages, keyed by
// form field name.
var fieldLabels = map[string]string{
	"title":       "Title",
	"excerpt":     "Excerpt",
	"content":     "Content",
	"image_url":   "Image URL",
	"category":    "Category",
	"button_text": "Button text",
	"action_url":  "Action URL",
	"reward":      "Reward",
	"order":       "Sort order",
	"email":       "Email",
	"code":        "Code",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report form and JSON field names so errors line up with the inputs.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})

	v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.TaskCategory(fl.Field().String()).Valid()
	})
	v.RegisterValidation("integer", func(fl validator.FieldLevel) bool {
		_, err := strconv.Atoi(fl.Field().String())
		return err == nil
	})
	// int32 bounds a numeric string to what an INTEGER column holds.
	v.RegisterValidation("int32", func(fl validator.FieldLevel) bool {
		_, err := strconv.ParseInt(fl.Field().String(), 10, 32)
		return err == nil
	})
	return v
}

// validateForm checks v against its struct tags and returns one message
// per invalid field. A nil map means the input is valid.
func validateForm(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = fieldMessage(fe)
		}
	}
	return out
}

// fieldMessage turns one validation failure into display text.
func fieldMessage(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "max":
		return fmt.Sprintf("%s is too long (max %s characters)", label, fe.Param())
	case "url", "http_url":
		return label + " must be a valid URL"
	case "email":
		return label + " must be a valid email address"
	case "number":
		return label + " must be a whole number of zero or more"
	case "integer":
		return label + " must be a whole number"
	case "int32":
		if v, _ := fe.Value().(string); strings.HasPrefix(v, "-") {
			return fmt.Sprintf("%s must be %d or more", label, math.MinInt32)
		}
		return fmt.Sprintf("%s must be %d or less", label, math.MaxInt32)
	case "category":
		return "Choose one of the listed categories"
	default:
		return label + " is invalid"
	}
}
