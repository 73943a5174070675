package transport

import "github.com/google/uuid"

// LocalizedField carries both language variants of a display string.
type LocalizedField struct {
	EN string `json:"en"`
	AR string `json:"ar"`
}

type CreateProjectRequest struct {
	TitleEN       string `json:"titleEn" validate:"required,min=1,max=200"`
	TitleAR       string `json:"titleAr" validate:"required,min=1,max=200"`
	DescriptionEN string `json:"descriptionEn" validate:"omitempty,max=2000"`
	DescriptionAR string `json:"descriptionAr" validate:"omitempty,max=2000"`
	Category      string `json:"category" validate:"required,min=1,max=100"`
	DisplayOrder  *int   `json:"displayOrder,omitempty" validate:"omitempty,min=0"`
}

type UpdateProjectRequest struct {
	TitleEN       *string `json:"titleEn,omitempty" validate:"omitempty,min=1,max=200"`
	TitleAR       *string `json:"titleAr,omitempty" validate:"omitempty,min=1,max=200"`
	DescriptionEN *string `json:"descriptionEn,omitempty" validate:"omitempty,max=2000"`
	DescriptionAR *string `json:"descriptionAr,omitempty" validate:"omitempty,max=2000"`
	Category      *string `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	DisplayOrder  *int    `json:"displayOrder,omitempty" validate:"omitempty,min=0"`
}

type ProjectResponse struct {
	ID           uuid.UUID      `json:"id"`
	Title        LocalizedField `json:"title"`
	Description  LocalizedField `json:"description"`
	Category     string         `json:"category"`
	CoverURL     string         `json:"coverUrl,omitempty"`
	DisplayOrder int            `json:"displayOrder"`
	CreatedAt    string         `json:"createdAt"`
	UpdatedAt    string         `json:"updatedAt"`
}

type ProjectListResponse struct {
	Items []ProjectResponse `json:"items"`
	Total int               `json:"total"`
}

type CreateServiceRequest struct {
	TitleEN       string  `json:"titleEn" validate:"required,min=1,max=200"`
	TitleAR       string  `json:"titleAr" validate:"required,min=1,max=200"`
	DescriptionEN string  `json:"descriptionEn" validate:"omitempty,max=2000"`
	DescriptionAR string  `json:"descriptionAr" validate:"omitempty,max=2000"`
	CategoryKey   string  `json:"categoryKey" validate:"required,min=1,max=50"`
	PriceRange    *string `json:"priceRange,omitempty" validate:"omitempty,max=100"`
	DisplayOrder  *int    `json:"displayOrder,omitempty" validate:"omitempty,min=0"`
}

type UpdateServiceRequest struct {
	TitleEN       *string `json:"titleEn,omitempty" validate:"omitempty,min=1,max=200"`
	TitleAR       *string `json:"titleAr,omitempty" validate:"omitempty,min=1,max=200"`
	DescriptionEN *string `json:"descriptionEn,omitempty" validate:"omitempty,max=2000"`
	DescriptionAR *string `json:"descriptionAr,omitempty" validate:"omitempty,max=2000"`
	CategoryKey   *string `json:"categoryKey,omitempty" validate:"omitempty,min=1,max=50"`
	PriceRange    *string `json:"priceRange,omitempty" validate:"omitempty,max=100"`
	DisplayOrder  *int    `json:"displayOrder,omitempty" validate:"omitempty,min=0"`
}

type ServiceResponse struct {
	ID           uuid.UUID      `json:"id"`
	Title        LocalizedField `json:"title"`
	Description  LocalizedField `json:"description"`
	CategoryKey  string         `json:"categoryKey"`
	PriceRange   *string        `json:"priceRange,omitempty"`
	Active       bool           `json:"active"`
	DisplayOrder int            `json:"displayOrder"`
	CreatedAt    string         `json:"createdAt"`
	UpdatedAt    string         `json:"updatedAt"`
}

type ServiceListResponse struct {
	Items []ServiceResponse `json:"items"`
	Total int               `json:"total"`
}

type CreatePostRequest struct {
	TitleEN       string `json:"titleEn" validate:"required,min=1,max=200"`
	TitleAR       string `json:"titleAr" validate:"required,min=1,max=200"`
	DescriptionEN string `json:"descriptionEn" validate:"omitempty,max=5000"`
	DescriptionAR string `json:"descriptionAr" validate:"omitempty,max=5000"`
}

type UpdatePostRequest struct {
	TitleEN       *string `json:"titleEn,omitempty" validate:"omitempty,min=1,max=200"`
	TitleAR       *string `json:"titleAr,omitempty" validate:"omitempty,min=1,max=200"`
	DescriptionEN *string `json:"descriptionEn,omitempty" validate:"omitempty,max=5000"`
	DescriptionAR *string `json:"descriptionAr,omitempty" validate:"omitempty,max=5000"`
}

type ApprovePostRequest struct {
	Approved bool `json:"approved"`
}

type PostResponse struct {
	ID          uuid.UUID      `json:"id"`
	Title       LocalizedField `json:"title"`
	Description LocalizedField `json:"description"`
	Approved    bool           `json:"approved"`
	PublishedAt *string        `json:"publishedAt,omitempty"`
	CreatedAt   string         `json:"createdAt"`
	UpdatedAt   string         `json:"updatedAt"`
}

type PostListResponse struct {
	Items []PostResponse `json:"items"`
	Total int            `json:"total"`
}
