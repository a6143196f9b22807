package models

import (
	"time"
)

const (
	MediaTypeImage    = "IMAGE"
	MediaTypeVideo    = "VIDEO"
	MediaTypeCarousel = "CAROUSEL"
)

type Post struct {
	ID            string      `json:"id" gorm:"primaryKey;size:191"`
	AuthorID      string      `json:"author_id" gorm:"not null;size:191;index:idx_posts_author_created"`
	Caption       string      `json:"caption" gorm:"size:2200"`
	MediaUrls     StringSlice `json:"media_urls" gorm:"type:json"`
	MediaType     string      `json:"media_type" gorm:"default:'IMAGE';size:20"`
	Duration      int         `json:"duration" gorm:"default:0"`
	Hashtags      StringSlice `json:"hashtags" gorm:"type:json"`
	LikesCount    int         `json:"likes_count" gorm:"default:0"`
	CommentsCount int         `json:"comments_count" gorm:"default:0"`
	ViewsCount    int         `json:"views_count" gorm:"default:0"`
	SharesCount   int         `json:"shares_count" gorm:"default:0"`
	IsArchived    bool        `json:"is_archived" gorm:"default:false"`
	CreatedAt     time.Time   `json:"created_at" gorm:"index:idx_posts_author_created"`
	UpdatedAt     time.Time   `json:"updated_at"`

	Author   User      `json:"author" gorm:"foreignKey:AuthorID"`
	Likes    []Like    `json:"likes,omitempty" gorm:"foreignKey:PostID"`
	Comments []Comment `json:"comments,omitempty" gorm:"foreignKey:PostID"`
}

type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"not null;size:191"`
	UserID    string    `json:"user_id" gorm:"not null;size:191"`
	CreatedAt time.Time `json:"created_at"`

	Post Post `json:"post,omitempty" gorm:"foreignKey:PostID"`
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// PostView records that a user watched a post, with the longest watch
// duration in seconds. Uniqueness per (user, post) is enforced in the schema.
type PostView struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"not null;size:191"`
	UserID    string    `json:"user_id" gorm:"not null;size:191"`
	Duration  int       `json:"duration" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`

	Post Post `json:"post,omitempty" gorm:"foreignKey:PostID"`
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	PostID    string    `json:"post_id" gorm:"not null;size:191;index"`
	UserID    string    `json:"user_id" gorm:"not null;size:191"`
	Content   string    `json:"content" gorm:"not null;size:2200"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Post Post `json:"post,omitempty" gorm:"foreignKey:PostID"`
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// PostWithStatus is a post annotated with the viewer's engagement flags.
type PostWithStatus struct {
	Post
	IsLiked  bool `json:"is_liked"`
	IsViewed bool `json:"is_viewed"`
}

// FeedResponse is the paginated feed payload
type FeedResponse struct {
	Posts   []PostWithStatus `json:"posts"`
	Total   int64            `json:"total"`
	HasMore bool             `json:"has_more"`
}
