package domain

import "time"

// HealthProfile is the one-to-one health sheet tied to a user. The list
// fields and the stat map are free-form strings; they feed the external
// analysis service and are not interpreted here.
type HealthProfile struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"userId"`

	Allergies  []string          `gorm:"serializer:json" json:"allergies"`
	Conditions []string          `gorm:"serializer:json" json:"conditions"`
	Diets      []string          `gorm:"serializer:json" json:"diets"`
	Goals      []string          `gorm:"serializer:json" json:"goals"`
	Stats      map[string]string `gorm:"serializer:json" json:"stats"`

	ProfileCompleted bool `gorm:"not null;default:false" json:"profileCompleted"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
