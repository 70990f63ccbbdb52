package dto

type UpdateHealthProfileRequest struct {
	Allergies  []string          `json:"allergies"`
	Conditions []string          `json:"conditions"`
	Diets      []string          `json:"diets"`
	Goals      []string          `json:"goals"`
	Stats      map[string]string `json:"stats"`
}

// HealthProfileResponse mirrors the stored profile; an empty value of it is
// also what GET returns before the user has saved anything.
type HealthProfileResponse struct {
	Allergies        []string          `json:"allergies"`
	Conditions       []string          `json:"conditions"`
	Diets            []string          `json:"diets"`
	Goals            []string          `json:"goals"`
	Stats            map[string]string `json:"stats"`
	ProfileCompleted bool              `json:"profileCompleted"`
}
