package model

// Commute is a single trip logged by a user. Everything except UserID is
// free-form and may be nil.
type Commute struct {
	ID          int64    `db:"id" json:"id"`
	UserID      int64    `db:"user_id" json:"user_id"`
	FromLabel   *string  `db:"from_label" json:"from_label"`
	ToLabel     *string  `db:"to_label" json:"to_label"`
	Mode        *string  `db:"mode" json:"mode"`
	StartTime   *string  `db:"start_time" json:"start_time"`
	EndTime     *string  `db:"end_time" json:"end_time"`
	DurationMin *int     `db:"duration_min" json:"duration_min"`
	Purpose     *string  `db:"purpose" json:"purpose"`
	Notes       *string  `db:"notes" json:"notes"`
	StartLat    *float64 `db:"start_lat" json:"start_lat"`
	StartLng    *float64 `db:"start_lng" json:"start_lng"`
	EndLat      *float64 `db:"end_lat" json:"end_lat"`
	EndLng      *float64 `db:"end_lng" json:"end_lng"`
	DistanceKm  *float64 `db:"distance_km" json:"distance_km"`
	Image       *string  `db:"image" json:"image"`
}

func (c *Commute) HasImage() bool {
	return c.Image != nil && *c.Image != ""
}
