package entity

import "time"

// AgeRange is the target audience of an ad.
type AgeRange struct {
	Min float64 `bson:"min" json:"min"`
	Max float64 `bson:"max" json:"max"`
}

// Ad is a listing created by the ingestion pipeline and owned by an
// advertiser.
type Ad struct {
	ID             string     `bson:"_id" json:"id"`
	AdvertiserID   string     `bson:"advertiserId" json:"advertiserId"`
	ProductName    string     `bson:"productName" json:"productName"`
	ImageURL       string     `bson:"imageUrl" json:"imageUrl"`
	Description    string     `bson:"description" json:"description"`
	Price          float64    `bson:"price" json:"price"`
	AdType         string     `bson:"adType" json:"adType"`
	Tags           []string   `bson:"tags" json:"tags"`
	TargetAgeGroup AgeRange   `bson:"targetAgeGroup" json:"targetAgeGroup"`
	Feedbacks      []Feedback `bson:"feedbacks" json:"feedbacks"`
	CreatedAt      time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// Feedback is a user comment on an ad, with the author's name and email
// copied at submission time.
type Feedback struct {
	UserID    string    `bson:"userId" json:"userId"`
	UserName  string    `bson:"userName" json:"userName"`
	UserEmail string    `bson:"userEmail" json:"userEmail"`
	Comment   string    `bson:"comment" json:"comment"`
	Rating    int       `bson:"rating" json:"rating"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// AdSummary is the read projection used when resolving cart entries.
type AdSummary struct {
	ID          string  `bson:"_id" json:"id"`
	Title       string  `bson:"productName" json:"title"`
	Description string  `bson:"description" json:"description"`
	Price       float64 `bson:"price" json:"price"`
	ImageURL    string  `bson:"imageUrl" json:"imageUrl"`
}

// AdPatch is an owner edit of ad metadata. Nil fields are left untouched.
type AdPatch struct {
	ProductName *string
	Description *string
	Tags        []string
	SetTags     bool
}

func (p AdPatch) Empty() bool {
	return p.ProductName == nil && p.Description == nil && !p.SetTags
}

// AdFilter narrows category listings.
type AdFilter struct {
	AdType   string
	MaxPrice *float64
	Limit    int
}
