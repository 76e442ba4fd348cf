package store

import (
	"strings"

	"garment-designlab/internal/assembler"
	"garment-designlab/internal/models"
)

// FormOption is one choice in a create-project select box.
type FormOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type FormOptions struct {
	Genders []FormOption `json:"genders"`
	Sizes   []FormOption `json:"sizes"`
	Colors  []FormOption `json:"colors"`
}

// DefaultFormOptions uses the garment color palette and the standard size
// and gender ranges.
func DefaultFormOptions() FormOptions {
	colors := make([]FormOption, 0, len(models.GarmentColors))
	for _, c := range models.GarmentColors {
		colors = append(colors, FormOption{Label: c.Label, Value: c.Value})
	}
	return FormOptions{
		Genders: []FormOption{{"Men", "MEN"}, {"Women", "WOMEN"}, {"Unisex", "UNISEX"}, {"Kids", "KIDS"}},
		Sizes:   []FormOption{{"XS", "XS"}, {"S", "S"}, {"M", "M"}, {"L", "L"}, {"XL", "XL"}, {"XXL", "XXL"}},
		Colors:  colors,
	}
}

// ProjectForm is the draft state of the create-project dialog.
type ProjectForm struct {
	Title  string
	Gender string
	Size   string
	Color  string

	options FormOptions
}

func NewProjectForm(opts FormOptions) *ProjectForm {
	f := &ProjectForm{options: opts}
	f.applyDefaults()
	return f
}

func (f *ProjectForm) Options() FormOptions { return f.options }

// applyDefaults fills empty choices: the first gender, size M, and black.
func (f *ProjectForm) applyDefaults() {
	if f.Gender == "" && len(f.options.Genders) > 0 {
		f.Gender = f.options.Genders[0].Value
	}
	if f.Size == "" && len(f.options.Sizes) > 0 {
		f.Size = f.options.Sizes[0].Value
		for _, s := range f.options.Sizes {
			if s.Value == "M" {
				f.Size = s.Value
				break
			}
		}
	}
	if f.Color == "" && len(f.options.Colors) > 0 {
		f.Color = f.options.Colors[0].Value
		for _, c := range f.options.Colors {
			if strings.EqualFold(c.Label, "black") {
				f.Color = c.Value
				break
			}
		}
	}
}

func (f *ProjectForm) Valid() bool {
	return strings.TrimSpace(f.Title) != "" && f.Gender != "" && f.Size != "" && f.Color != ""
}

// Reset clears the title and refills any empty choice.
func (f *ProjectForm) Reset() {
	f.Title = ""
	f.applyDefaults()
}

// Draft is the unsaved project the form describes.
func (f *ProjectForm) Draft(userID string) *models.Project {
	return models.NewDraftProject(strings.TrimSpace(f.Title), userID, f.Color, f.Size, f.Gender)
}

func (f *ProjectForm) Request(userID string) models.CreateProjectRequest {
	return assembler.ToCreateProjectRequest(f.Draft(userID))
}
