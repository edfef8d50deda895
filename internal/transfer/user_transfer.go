package transfer

import "github.com/maheshrc27/foodblog-api/internal/models"

type UserActivity struct {
	Blogs    []*models.Blog       `json:"blogs"`
	Comments []models.UserComment `json:"comments"`
}

type UserDetail struct {
	User     *models.User `json:"user"`
	Activity UserActivity `json:"activity"`
}
