package entity

// MediaType identifies the kind of media a scan was extracted from.
// It determines which aggregation branches apply.
type MediaType string

const (
	MediaTypeImage MediaType = "IMAGE"
	MediaTypeVideo MediaType = "VIDEO"
	MediaTypeAudio MediaType = "AUDIO"
)

// Valid reports whether the media type is one of the supported variants.
func (m MediaType) Valid() bool {
	switch m {
	case MediaTypeImage, MediaTypeVideo, MediaTypeAudio:
		return true
	}
	return false
}
