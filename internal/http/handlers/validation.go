package handlers

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// personNameRE allows letters, spaces, hyphens, apostrophes and periods.
var personNameRE = regexp.MustCompile(`^[A-Za-z\s\-'.]+$`)

var registerOnce sync.Once

// RegisterValidators installs the "personname" tag on gin's validator and
// makes field errors report JSON names ("name", not "Name"). Safe to call
// more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
			return personNameRE.MatchString(fl.Field().String())
		})
	})
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}
