package handler

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"tutor-marketplace-api/internal/schedule"
)

var (
	validatorOnce sync.Once
	trans         ut.Translator
)

// setupValidator hooks the hhmm tag and English messages into gin's
// validator engine.
func setupValidator() {
	validatorOnce.Do(func() {
		uni := ut.New(en.New())
		trans, _ = uni.GetTranslator("en")

		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		// report json names instead of struct field names
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			_, err := schedule.ToMinutes(fl.Field().String())
			return err == nil
		})
		_ = en_translations.RegisterDefaultTranslations(v, trans)
		_ = v.RegisterTranslation("hhmm", trans,
			func(ut ut.Translator) error {
				return ut.Add("hhmm", "{0} must be a time formatted as HH:MM", true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				t, _ := ut.T("hhmm", fe.Field())
				return t
			},
		)
	})
}

// bindMessage turns a binding error into the message sent to the client.
func bindMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Translate(trans)
	}
	return "malformed request body"
}
