package store

import "garment-designlab/internal/models"

// Local layer mutations shared by both stores. None of them touch the
// network.

func mutateLayer(layers []models.Layer, id string, fn func(*models.Layer)) error {
	i, ok := models.FindLayer(layers, id)
	if !ok {
		return layerNotFound(id)
	}
	fn(&layers[i])
	return nil
}

func applyPosition(pos models.LayerPosition) func(*models.Layer) {
	return func(l *models.Layer) {
		if pos.X != nil {
			l.X = *pos.X
		}
		if pos.Y != nil {
			l.Y = *pos.Y
		}
		if pos.Z != nil {
			l.Z = *pos.Z
		}
		if pos.Opacity != nil {
			l.SetOpacity(*pos.Opacity)
		}
	}
}

// moveUp raises a layer one step, never beyond one above the current top.
func moveUp(layers []models.Layer) func(*models.Layer) {
	_, maxZ := models.ZBounds(layers)
	return func(l *models.Layer) {
		l.Z = min(l.Z+1, maxZ+1)
	}
}

// moveDown lowers a layer one step, never below one under the current bottom.
func moveDown(layers []models.Layer) func(*models.Layer) {
	minZ, _ := models.ZBounds(layers)
	return func(l *models.Layer) {
		l.Z = max(l.Z-1, minZ-1)
	}
}

func removeLayer(layers []models.Layer, id string) ([]models.Layer, bool) {
	i, ok := models.FindLayer(layers, id)
	if !ok {
		return layers, false
	}
	return append(layers[:i:i], layers[i+1:]...), true
}
