package student

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var matricNoPattern = regexp.MustCompile(`^ADUN/[A-Z]{2,6}/[A-Z]{2,6}/[0-9]{2}/[0-9]{3}$`)

// Validator checks a raw payload and produces either a normalized draft or a
// consolidated map of field errors. Malformed input is a normal, reportable
// outcome, never a panic or a 500.
type Validator struct {
	validate *validator.Validate
	genders  []string
}

// NewValidator builds the field rule set. genderLabels is the fixed
// three-value enumeration configured by the deployment.
func NewValidator(genderLabels []string) *Validator {
	v := validator.New()

	// Report errors under the JSON field names clients submit
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("matricno", func(fl validator.FieldLevel) bool {
		return matricNoPattern.MatchString(fl.Field().String())
	})

	genderSet := make(map[string]bool, len(genderLabels))
	for _, label := range genderLabels {
		genderSet[label] = true
	}
	v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		return genderSet[fl.Field().String()]
	})

	return &Validator{
		validate: v,
		genders:  genderLabels,
	}
}

// Validate normalizes then checks the payload. Normalization happens as part
// of validation because the store's uniqueness indexes are defined on the
// normalized form. Returns the draft and nil on success, or the draft and a
// field→messages map covering every failing field at once.
func (v *Validator) Validate(in Input) (Input, map[string][]string) {
	in.Firstname = strings.TrimSpace(in.Firstname)
	in.Lastname = strings.TrimSpace(in.Lastname)
	in.Gender = strings.TrimSpace(in.Gender)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.MatricNo = strings.ToUpper(strings.TrimSpace(in.MatricNo))

	err := v.validate.Struct(&in)
	if err == nil {
		return in, nil
	}

	fieldErrors := make(map[string][]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fieldErrors["payload"] = []string{"Invalid request payload"}
		return in, fieldErrors
	}
	for _, fe := range verrs {
		fieldErrors[fe.Field()] = append(fieldErrors[fe.Field()], v.message(fe))
	}
	return in, fieldErrors
}

func (v *Validator) message(fe validator.FieldError) string {
	switch fe.Field() {
	case "firstname":
		switch fe.Tag() {
		case "min":
			return "First name must be at least 3 characters"
		case "max":
			return "First name cannot exceed 20 characters"
		}
		return "First name is required"
	case "lastname":
		switch fe.Tag() {
		case "min":
			return "Last name must be at least 3 characters"
		case "max":
			return "Last name cannot exceed 20 characters"
		}
		return "Last name is required"
	case "gender":
		return fmt.Sprintf("Gender must be %s, %s, or %s", v.genders[0], v.genders[1], v.genders[2])
	case "email":
		if fe.Tag() == "required" {
			return "Email is required"
		}
		return "Invalid email address"
	case "matric_no":
		if fe.Tag() == "required" {
			return "Matric number is required"
		}
		return "Invalid matric number format"
	}
	return "Invalid value"
}
