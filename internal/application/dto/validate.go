package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("unitkind", func(fl validator.FieldLevel) bool {
		_, err := entity.ParseKind(fl.Field().String())
		return err == nil
	})
}

// Validate aplica las etiquetas `validate` de la petición. El primer campo inválido
// se devuelve como *domain.ValidationError.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		return domain.NewValidationError("", fmt.Sprintf("%s no cumple %q", fieldPath(f), f.Tag()))
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
}

// fieldPath quita el nombre del struct raíz: "items[0].price".
func fieldPath(f validator.FieldError) string {
	ns := f.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
