package entity

import "time"

// Warehouse bodega: granularidad de la cola FIFO. Toda ubicación interna pertenece a una.
type Warehouse struct {
	ID        string
	CompanyID string
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Label nombre para reportes: Name, si no Code, si no ID.
func (w *Warehouse) Label() string {
	switch {
	case w == nil:
		return ""
	case w.Name != "":
		return w.Name
	case w.Code != "":
		return w.Code
	}
	return w.ID
}
