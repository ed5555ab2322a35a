package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// fieldLabels maps struct field names to the labels used in validation messages.
var fieldLabels = map[string]string{
	"EmployeeID":   "Employee ID",
	"FullName":     "Full name",
	"Username":     "Username",
	"Password":     "Password",
	"Role":         "Role",
	"JobTitle":     "Job title",
	"DepartmentID": "Department",
	"HireDate":     "Hire date",
	"Status":       "Status",
	"Email":        "Email",
	"Phone":        "Phone",
	"Address":      "Address",
	"Name":         "Name",
	"EntityType":   "Entity type",
	"Action":       "Action",
}

// validationMessages converts validator failures into human-readable messages,
// one per violated rule.
func validationMessages(err error) []string {
	var failures validator.ValidationErrors
	if !errors.As(err, &failures) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(failures))
	for _, failure := range failures {
		label := fieldLabels[failure.Field()]
		if label == "" {
			label = failure.Field()
		}

		switch failure.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", label))
		case "max":
			messages = append(messages, fmt.Sprintf("%s cannot be longer than %s characters", label, failure.Param()))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", label, failure.Param()))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", label))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(failure.Param(), " ", ", ")))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", label))
		}
	}
	return messages
}

// parseHireDate validates the calendar-date payload field. Hire dates may not
// lie in the future.
func parseHireDate(value string, messages []string) (time.Time, []string) {
	hireDate, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, append(messages, "Hire date must be a valid date in YYYY-MM-DD format")
	}
	if hireDate.After(time.Now()) {
		return time.Time{}, append(messages, "Hire date cannot be in the future")
	}
	return hireDate, messages
}
