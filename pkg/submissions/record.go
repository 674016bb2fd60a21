package submissions

// Status is a review verdict as the service stores it. The wire values are
// the service's own labels; Kind maps them onto stable machine names.
type Status string

const (
	StatusApproved Status = "已通过"
	StatusRejected Status = "未通过"
	StatusPending  Status = "待审核"
)

// Kind returns the machine name for a status. Anything unrecognised counts
// as pending, matching how the review table renders it.
func (s Status) Kind() string {
	switch s {
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	default:
		return "pending"
	}
}

// Record is one collected response. Data maps answer keys to raw values;
// keys may be field ids or historical label text depending on when the
// response was submitted, which is why lookups go through the Resolver.
type Record struct {
	ID            int64          `json:"id"`
	Status        Status         `json:"status"`
	ReviewComment string         `json:"review_comment"`
	CreatedAt     string         `json:"created_at"`
	Data          map[string]any `json:"data"`
}

// GalleryItem is one uploaded image exposed by the gallery endpoint.
type GalleryItem struct {
	URL string `json:"url"`
}
