package transfer

type BlogInput struct {
	Title   string `json:"title" form:"title"`
	Content string `json:"content" form:"content"`
	Author  string `json:"author" form:"author"`
}

type BlogQuery struct {
	Search    string `query:"search"`
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
}

type CommentRequest struct {
	Comment struct {
		Text   string `json:"text"`
		Author string `json:"author"`
	} `json:"comment"`
}
