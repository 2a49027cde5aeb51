package validation

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/daap14/teamroster/internal/i18n"
)

// ImageField is the form field carrying the team image.
const ImageField = "image"

// allowedImageTypes are the accepted content types; subtypes such as
// animated PNG match their parent.
var allowedImageTypes = []string{"image/jpeg", "image/png"}

const allowedImageList = "jpeg, jpg, png"

// TeamInput mirrors the fields needed for create and update team validation.
// Name and Role are expected to be trimmed already.
type TeamInput struct {
	Name  string  `form:"name" validate:"required,max=255"`
	Role  string  `form:"role" validate:"required,max=255"`
	Image *Upload `form:"-" validate:"-"`
	// ImageNotFile is set when the image field was sent as a plain value.
	ImageNotFile bool `form:"-" validate:"-"`
}

// TeamValidator checks team form input. Messages are localized through the
// printer stored in the context.
type TeamValidator struct {
	validate   *validator.Validate
	maxImageKB int64
}

// NewTeamValidator creates a TeamValidator rejecting images above maxImageKB kilobytes.
func NewTeamValidator(maxImageKB int64) *TeamValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	return &TeamValidator{validate: v, maxImageKB: maxImageKB}
}

// ValidateCreate requires name, role and an image. Returns field -> messages;
// an empty map means valid.
func (v *TeamValidator) ValidateCreate(ctx context.Context, in TeamInput) map[string][]string {
	errs := v.validateFields(ctx, in)
	if in.ImageNotFile {
		errs[ImageField] = append(errs[ImageField], i18n.T(ctx, "validation.file", ImageField))
		return errs
	}
	if in.Image == nil {
		errs[ImageField] = append(errs[ImageField], i18n.T(ctx, "validation.required", ImageField))
		return errs
	}
	v.validateImage(ctx, in.Image, errs)
	return errs
}

// ValidateUpdate requires name and role; the image is checked only when present.
func (v *TeamValidator) ValidateUpdate(ctx context.Context, in TeamInput) map[string][]string {
	errs := v.validateFields(ctx, in)
	if in.ImageNotFile {
		errs[ImageField] = append(errs[ImageField], i18n.T(ctx, "validation.file", ImageField))
		return errs
	}
	if in.Image != nil {
		v.validateImage(ctx, in.Image, errs)
	}
	return errs
}

func (v *TeamValidator) validateFields(ctx context.Context, in TeamInput) map[string][]string {
	errs := map[string][]string{}

	err := v.validate.StructCtx(ctx, in)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errs
	}

	for _, fe := range fieldErrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			errs[field] = append(errs[field], i18n.T(ctx, "validation.required", field))
		case "max":
			n, _ := strconv.Atoi(fe.Param())
			errs[field] = append(errs[field], i18n.T(ctx, "validation.max_chars", field, n))
		default:
			errs[field] = append(errs[field], fe.Error())
		}
	}
	return errs
}

func (v *TeamValidator) validateImage(ctx context.Context, img *Upload, errs map[string][]string) {
	if img.Size <= 0 {
		errs[ImageField] = append(errs[ImageField], i18n.T(ctx, "validation.file", ImageField))
		return
	}
	if !slices.ContainsFunc(allowedImageTypes, img.IsA) {
		errs[ImageField] = append(errs[ImageField], i18n.T(ctx, "validation.mimes", ImageField, allowedImageList))
	}
	if img.Size > v.maxImageKB*1024 {
		errs[ImageField] = append(errs[ImageField], i18n.T(ctx, "validation.max_kb", ImageField, v.maxImageKB))
	}
}
