package assembler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"garment-designlab/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	minFontSize  = 1
	maxFontSize  = 200
	minDimension = 1
	maxDimension = 2000
)

// Rule sets checked by the validator. Values are trimmed and dimensions
// parsed before validation; a dimension that does not parse becomes 0.

type createProjectRules struct {
	Title         string `json:"title" validate:"required"`
	UserID        string `json:"userId" validate:"required,uuid36"`
	GarmentColor  string `json:"garmentColor" validate:"required"`
	GarmentSize   string `json:"garmentSize" validate:"required"`
	GarmentGender string `json:"garmentGender" validate:"required"`
}

type textLayerRules struct {
	Text      string `json:"text" validate:"required"`
	FontSize  int    `json:"fontSize" validate:"min=1,max=200"`
	FontColor string `json:"fontColor" validate:"hexcolor,len=7"`
}

type imageLayerRules struct {
	ImageURL string `json:"imageUrl" validate:"required,url"`
	Width    int    `json:"width" validate:"min=1,max=2000"`
	Height   int    `json:"height" validate:"min=1,max=2000"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	if err := v.RegisterValidation("uuid36", func(fl validator.FieldLevel) bool {
		return isUUID(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("failed to register uuid36 validation: %v", err))
	}
	return v
}

// ValidateCreateProjectData reports every missing required field at once,
// then checks that userId is a hyphenated UUID.
func ValidateCreateProjectData(r models.CreateProjectRequest) error {
	fieldErrs := fieldErrors(validate.Struct(createProjectRules{
		Title:         strings.TrimSpace(r.Title),
		UserID:        strings.TrimSpace(r.UserID),
		GarmentColor:  strings.TrimSpace(r.GarmentColor),
		GarmentSize:   strings.TrimSpace(r.GarmentSize),
		GarmentGender: strings.TrimSpace(r.GarmentGender),
	}))
	if len(fieldErrs) == 0 {
		return nil
	}

	var missing []string
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) > 0 {
		return models.NewValidationError("Missing required fields: %s", strings.Join(missing, ", "))
	}
	return models.NewValidationError("%s", ruleMessage(fieldErrs[0]))
}

func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// ValidateTextLayerData stops at the first violated rule.
func ValidateTextLayerData(d models.TextDetails) error {
	return firstViolation(validate.Struct(textLayerRules{
		Text:      strings.TrimSpace(d.Text),
		FontSize:  d.FontSize,
		FontColor: d.FontColor,
	}))
}

// ValidateImageLayerData stops at the first violated rule.
func ValidateImageLayerData(d models.ImageDetails) error {
	width, _ := models.ParseDimension(d.Width)
	height, _ := models.ParseDimension(d.Height)
	return firstViolation(validate.Struct(imageLayerRules{
		ImageURL: strings.TrimSpace(d.ImageURL),
		Width:    width,
		Height:   height,
	}))
}

// fieldErrors returns the failed fields in declaration order.
func fieldErrors(err error) validator.ValidationErrors {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs
	}
	return nil
}

func firstViolation(err error) error {
	if err == nil {
		return nil
	}
	fieldErrs := fieldErrors(err)
	if len(fieldErrs) == 0 {
		return models.NewValidationError("%v", err)
	}
	return models.NewValidationError("%s", ruleMessage(fieldErrs[0]))
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "text":
		return "Text content is required"
	case "fontSize":
		return fmt.Sprintf("Font size must be between %d and %d", minFontSize, maxFontSize)
	case "fontColor":
		return "Font color must be a valid hex color (e.g., #000000)"
	case "imageUrl":
		if fe.Tag() == "required" {
			return "Image URL is required"
		}
		return "Invalid image URL format"
	case "width":
		return fmt.Sprintf("Width must be a number between %d and %d", minDimension, maxDimension)
	case "height":
		return fmt.Sprintf("Height must be a number between %d and %d", minDimension, maxDimension)
	case "userId":
		return "Invalid userId format (must be UUID)"
	}
	return fmt.Sprintf("Invalid %s", fe.Field())
}

// SanitizeString strips angle brackets and surrounding whitespace.
func SanitizeString(s string) string {
	return strings.TrimSpace(strings.NewReplacer("<", "", ">", "").Replace(s))
}
