package model

import (
	"time"
)

type Department struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	IsCustom  bool      `db:"is_custom" json:"is_custom"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
