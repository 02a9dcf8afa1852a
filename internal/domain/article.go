package domain

// Article is one published piece. Author fields are denormalized at
// publish time so the feed renders without a profile join.
type Article struct {
	ID       ArticleID
	Title    string
	Body     string
	Category Category

	AuthorID     ProfileID
	AuthorName   string
	AuthorSerial string

	Likes    int
	Dislikes int
	Comments int

	ImageURL string
	Hidden   bool
	Hashtags []string

	CreatedAt Timestamp
}

// Clone returns a deep copy for safe in-place cache patching.
func (a *Article) Clone() *Article {
	cp := *a
	cp.Hashtags = append([]string(nil), a.Hashtags...)
	return &cp
}

// Comment is append-only: never edited, removed only implicitly when the
// parent article is deleted.
type Comment struct {
	ID         CommentID
	ArticleID  ArticleID
	AuthorID   ProfileID
	AuthorName string
	Text       string
	CreatedAt  Timestamp
}
