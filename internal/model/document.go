package model

import "time"

// Document categories. Stored lowercase; validated on upload and update.
const (
	CategoryEducation  = "education"
	CategoryHealthcare = "healthcare"
	CategoryGovernment = "government"
	CategoryFinance    = "finance"
	CategoryTransport  = "transport"
	CategoryOther      = "other"
)

// Categories lists every valid document category.
var Categories = []string{
	CategoryEducation,
	CategoryHealthcare,
	CategoryGovernment,
	CategoryFinance,
	CategoryTransport,
	CategoryOther,
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Document represents a stored file in the system.
// StoragePath is the backend-specific payload reference (object key, relative
// disk path, or payloads-table key depending on the configured backend) and
// is never exposed over the API.
type Document struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"-"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Category     string    `json:"category"`
	StoragePath  string    `json:"-"`
	OriginalName string    `json:"originalName"`
	ContentType  string    `json:"contentType"`
	Size         int64     `json:"size"`
	Tags         string    `json:"tags,omitempty"`
	UploadIP     string    `json:"-"`
	UserAgent    string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
