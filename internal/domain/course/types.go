package course

import "context"

// Doc is a piece of course material used to ground AI draft answers.
type Doc struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	SourceType string `json:"source_type"`
}

// Repository stores course documents.
type Repository interface {
	List(ctx context.Context) ([]Doc, error)
	Insert(ctx context.Context, doc Doc) (Doc, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int, error)
}
