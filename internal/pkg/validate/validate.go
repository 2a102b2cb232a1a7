package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	mobileRe = regexp.MustCompile(`^[6-9]\d{9}$`)
	emailRe  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	codeRe   = regexp.MustCompile(`^\d{4,6}$`)
)

// v is the package-level singleton validator. Custom tags are registered in init()
// before the first call to Struct.
var v = validator.New()

func init() {
	mustRegister("mobile", func(fl validator.FieldLevel) bool { return Mobile(fl.Field().String()) })
	mustRegister("simpleemail", func(fl validator.FieldLevel) bool { return Email(fl.Field().String()) })
	mustRegister("otpcode", func(fl validator.FieldLevel) bool { return Code(fl.Field().String()) })
}

func mustRegister(tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validate: register %q: %v", tag, err))
	}
}

// Mobile reports whether s (ignoring surrounding whitespace) is a 10-digit mobile starting with 6-9.
func Mobile(s string) bool {
	return mobileRe.MatchString(strings.TrimSpace(s))
}

// Email reports whether s (ignoring surrounding whitespace) looks like local@domain.tld.
func Email(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

// Code reports whether s (ignoring surrounding whitespace) is a 4 to 6 digit code.
func Code(s string) bool {
	return codeRe.MatchString(strings.TrimSpace(s))
}

// Struct validates the given struct using its validate tags.
// Returns a human-readable error string or nil.
func Struct(s interface{}) error {
	if err := v.Struct(s); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var msgs []string
		for _, fe := range ve {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}
