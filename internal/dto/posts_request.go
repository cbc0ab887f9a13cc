package dto

type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type GetPostsRequest struct {
	Limit  int `form:"limit" binding:"min=0"`
	Offset int `form:"offset" binding:"min=0"`
}

// EditPostRequest keeps the current value for every empty field.
type EditPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type RatePostRequest struct {
	Value int `json:"value"`
}
