package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

func FormatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, fieldError := range validationErrors {
			message := getFieldErrorMessage(fieldError)
			messages = append(messages, message)
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is not valid", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Username":                     "Username",
		"Email":                        "Email",
		"Password":                     "Password",
		"EmployeeID":                   "Employee ID",
		"FirstName":                    "First name",
		"LastName":                     "Last name",
		"Phone":                        "Phone",
		"DateOfBirth":                  "Date of birth",
		"HireDate":                     "Hire date",
		"Department":                   "Department",
		"Position":                     "Position",
		"Salary":                       "Salary",
		"AddressLine1":                 "Address line 1",
		"City":                         "City",
		"State":                        "State",
		"PostalCode":                   "Postal code",
		"EmergencyContactName":         "Emergency contact name",
		"EmergencyContactPhone":        "Emergency contact phone",
		"EmergencyContactRelationship": "Emergency contact relationship",
		"Name":                         "Name",
		"Label":                        "Label",
		"FieldType":                    "Field type",
		"Title":                        "Title",
		"DocumentType":                 "Document type",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
