package models

import "time"

type BodyMetrics struct {
	ID           string             `json:"id"`
	UserID       string             `json:"user_id"`
	Date         string             `json:"date"`
	Weight       *float64           `json:"weight,omitempty"`
	PhotoKey     *string            `json:"photo_key,omitempty"`
	Measurements map[string]float64 `json:"measurements"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type BodyMetricsPatch struct {
	Weight       *float64            `json:"weight,omitempty"`
	PhotoKey     *string             `json:"photo_key,omitempty"`
	Measurements *map[string]float64 `json:"measurements,omitempty"`
}
