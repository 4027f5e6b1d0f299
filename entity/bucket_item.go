package entity

// BucketItem is a single bucket-list entry. ID is zero until the store assigns one.
type BucketItem struct {
	ID          uint64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       *string `json:"title" gorm:"type:varchar(255)"`
	Description *string `json:"description" gorm:"type:text"`
	Completed   bool    `json:"completed" gorm:"not null;default:false"`
}

func (BucketItem) TableName() string {
	return "bucket_items"
}

// IsPersisted reports whether the store has assigned an identity.
func (i *BucketItem) IsPersisted() bool {
	return i.ID != 0
}

// SameRow compares by identity only.
func (i *BucketItem) SameRow(other *BucketItem) bool {
	if i == nil || other == nil {
		return false
	}
	return i.IsPersisted() && i.ID == other.ID
}
