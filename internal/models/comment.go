package models

// Comment is an entry of a post's comment thread. A nil ParentID marks a
// top-level comment; otherwise it is a reply to the comment with that id.
type Comment struct {
	ID        int64  `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PostID    int64  `gorm:"not null;index;column:post_id" json:"postId"`
	ParentID  *int64 `gorm:"column:parent_id" json:"parentId,omitempty"`
	UserName  string `gorm:"type:varchar(255);not null;column:user_name" json:"userName"`
	UserEmail string `gorm:"type:varchar(255);not null;column:user_email" json:"userEmail"`
	Text      string `gorm:"type:text;not null;column:text" json:"text"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}

// IsTopLevel reports whether the comment is not a reply
func (c *Comment) IsTopLevel() bool {
	return c.ParentID == nil
}
