package transfer

type ReelsSectionUpdate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
