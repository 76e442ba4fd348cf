package models

import "strings"

// GarmentColor is one swatch of the 4x4 garment color sprite.
type GarmentColor struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Hex    string `json:"hex"`
	Column int    `json:"column"`
	Row    int    `json:"row"`
}

var GarmentColors = []GarmentColor{
	{Label: "Black", Value: "Black", Hex: "#161615", Column: 0, Row: 0},
	{Label: "Gray", Value: "Gray", Hex: "#403D3B", Column: 1, Row: 0},
	{Label: "Light Gray", Value: "LightGray", Hex: "#B3B1AF", Column: 2, Row: 0},
	{Label: "White", Value: "White", Hex: "#EDEDED", Column: 3, Row: 0},
	{Label: "Red", Value: "Red", Hex: "#B51B14", Column: 0, Row: 1},
	{Label: "Pink", Value: "Pink", Hex: "#F459B0", Column: 1, Row: 1},
	{Label: "Light Purple", Value: "LightPurple", Hex: "#D890E4", Column: 2, Row: 1},
	{Label: "Purple", Value: "Purple", Hex: "#693FA0", Column: 3, Row: 1},
	{Label: "Light Blue", Value: "LightBlue", Hex: "#00A5BC", Column: 0, Row: 2},
	{Label: "Cyan", Value: "Cyan", Hex: "#31B7C9", Column: 1, Row: 2},
	{Label: "Sky Blue", Value: "SkyBlue", Hex: "#3F9BDC", Column: 2, Row: 2},
	{Label: "Blue", Value: "Blue", Hex: "#1B3D92", Column: 3, Row: 2},
	{Label: "Green", Value: "Green", Hex: "#1B8937", Column: 0, Row: 3},
	{Label: "Light Green", Value: "LightGreen", Hex: "#5BBE65", Column: 1, Row: 3},
	{Label: "Yellow", Value: "Yellow", Hex: "#FECD08", Column: 2, Row: 3},
	{Label: "Dark Yellow", Value: "DarkYellow", Hex: "#F2AB00", Column: 3, Row: 3},
}

func FindGarmentColor(value string) (GarmentColor, bool) {
	for _, c := range GarmentColors {
		if strings.EqualFold(c.Value, value) {
			return c, true
		}
	}
	return GarmentColor{}, false
}
