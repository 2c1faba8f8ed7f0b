package types

// Post is one forum message extracted by a backend.
//
// SourceURL is the thread entry URL and identifies the aggregation group;
// PageURL is the page that was actually fetched. PostID, Author, PostedAt
// and Heading are backend-specific and may be empty. PostedAt is kept in
// whatever raw format the backend yields — it is opaque to consumers.
// A Post with both Heading and Text empty is never emitted.
type Post struct {
	SourceURL string
	PageURL   string
	PostID    string
	Author    string
	PostedAt  string
	Heading   string
	Text      string
}

// Content returns the text used for sentiment scoring: heading and body
// joined when both are present, otherwise whichever is non-empty.
func (p *Post) Content() string {
	if p.Heading != "" && p.Text != "" {
		return p.Heading + " " + p.Text
	}
	if p.Heading != "" {
		return p.Heading
	}
	return p.Text
}

// EnrichedPost is a Post plus its sentiment scores. Created once per Post
// by the pipeline and never mutated afterwards.
type EnrichedPost struct {
	Post
	SentimentCompound float64
	SentimentLabel    string
	SentimentPos      float64
	SentimentNeg      float64
	SentimentNeu      float64
}

// PostColumns is the fixed column order for the post-level CSV output.
var PostColumns = []string{
	"source_url",
	"page_url",
	"post_id",
	"author",
	"posted_at",
	"heading",
	"text",
	"sentiment_compound",
	"sentiment_label",
	"sentiment_pos",
	"sentiment_neg",
	"sentiment_neu",
}
