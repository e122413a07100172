package domain

// Image is a single image attachment of a post.
type Image struct {
	Thumb    string `json:"thumb"`
	Fullsize string `json:"fullsize,omitempty"`
	Alt      string `json:"alt,omitempty"`
}

// PostSummary is the narrow view of a post that cards render: the author,
// optional text and image attachments. Other embed kinds are dropped when
// mapping from the remote representation.
type PostSummary struct {
	URI     string         `json:"uri"`
	Author  ProfileSummary `json:"author"`
	Text    string         `json:"text,omitempty"`
	HasText bool           `json:"has_text"`
	Images  []Image        `json:"images,omitempty"`
}
